package models

import "time"

const (
	FollowPending  = "pending"
	FollowAccepted = "accepted"
)

// Follow 关注关系，(follower_id, following_id) 唯一
// 拒绝和取消关注直接删除记录
type Follow struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FollowerID   int64     `gorm:"column:follower_id;not null;uniqueIndex:uk_follower_following,priority:1" json:"follower_id"`
	FollowingID  int64     `gorm:"column:following_id;not null;uniqueIndex:uk_follower_following,priority:2;index:idx_following" json:"following_id"`
	FollowStatus string    `gorm:"column:follow_status;size:10;not null;default:pending" json:"follow_status"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Follower  *User `gorm:"foreignKey:FollowerID" json:"-"`
	Following *User `gorm:"foreignKey:FollowingID" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}

func (f *Follow) Accepted() bool {
	return f.FollowStatus == FollowAccepted
}
