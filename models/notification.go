package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotifyFollowRequest = "follow_request"
	NotifyNewFollower   = "new_follower"
	NotifyFollowAccept  = "follow_accept"
	NotifyNewComment    = "new_comment"
	NotifyNewLike       = "new_like"
)

var (
	ErrNotificationType    = errors.New("unknown notification type")
	ErrNotificationPost    = errors.New("notification requires a post")
	ErrNotificationComment = errors.New("notification requires a comment")
)

type Notification struct {
	ID               int64             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RecipientID      int64             `gorm:"column:recipient_id;not null;index:idx_recipient_read,priority:1" json:"recipient_id"`
	SenderID         int64             `gorm:"column:sender_id;not null;index" json:"sender_id"`
	NotificationType string            `gorm:"column:notification_type;size:20;not null" json:"notification_type"`
	PostID           *int64            `gorm:"column:post_id;index" json:"post_id,omitempty"`
	CommentID        *int64            `gorm:"column:comment_id;index" json:"comment_id,omitempty"`
	IsRead           bool              `gorm:"column:is_read;not null;default:false;index:idx_recipient_read,priority:2" json:"is_read"`
	Extra            datatypes.JSONMap `gorm:"column:extra" json:"extra,omitempty"` // 推送时的文案快照
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`

	Sender *User `gorm:"foreignKey:SenderID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Validate new_like 必须关联帖子，new_comment 必须关联帖子和评论
func (n *Notification) Validate() error {
	switch n.NotificationType {
	case NotifyFollowRequest, NotifyNewFollower, NotifyFollowAccept:
		return nil
	case NotifyNewLike:
		if n.PostID == nil {
			return ErrNotificationPost
		}
		return nil
	case NotifyNewComment:
		if n.PostID == nil {
			return ErrNotificationPost
		}
		if n.CommentID == nil {
			return ErrNotificationComment
		}
		return nil
	}
	return ErrNotificationType
}

func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	return n.Validate()
}
