package models

import "time"

const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// User 用户及冗余计数
// num_* 与关注、帖子表在同一事务内增减
type User struct {
	ID                 int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username           string    `gorm:"column:username;size:150;not null;uniqueIndex:uk_username" json:"username"`
	Email              string    `gorm:"column:email;size:254" json:"email"`
	ProfilePicture     string    `gorm:"column:profile_picture;size:255" json:"profile_picture"`
	Bio                string    `gorm:"column:bio;type:text" json:"bio"`
	ContactInformation string    `gorm:"column:contact_information;size:255" json:"contact_information"`
	ProfilePrivacy     string    `gorm:"column:profile_privacy;size:10;not null;default:public" json:"profile_privacy"`
	NumFollowers       int64     `gorm:"column:num_followers;not null;default:0" json:"num_followers"`
	NumFollowing       int64     `gorm:"column:num_following;not null;default:0" json:"num_following"`
	NumPosts           int64     `gorm:"column:num_posts;not null;default:0" json:"num_posts"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsPrivate() bool {
	return u.ProfilePrivacy == PrivacyPrivate
}
