package models

import "time"

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Post 帖子，like_count/comment_count 为冗余计数
type Post struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       int64     `gorm:"column:user_id;not null;index:idx_user_created,priority:1" json:"user_id"`
	Content      string    `gorm:"column:content;type:text;not null" json:"content"`
	MediaURL     string    `gorm:"column:media_url;size:255" json:"media_url"`
	Visibility   string    `gorm:"column:visibility;size:10;not null;default:public" json:"visibility"`
	LikeCount    int64     `gorm:"column:like_count;not null;default:0" json:"like_count"`
	CommentCount int64     `gorm:"column:comment_count;not null;default:0" json:"comment_count"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index:idx_user_created,priority:2" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

// PostLike 点赞记录，唯一键: post_id + user_id
// 并发重复点赞由唯一索引兜底
type PostLike struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID    int64     `gorm:"column:post_id;not null;uniqueIndex:uk_post_user,priority:1" json:"post_id"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:uk_post_user,priority:2" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (PostLike) TableName() string {
	return "post_likes"
}
