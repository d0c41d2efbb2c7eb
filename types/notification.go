package types

import "time"

type NotificationItem struct {
	ID               int64     `json:"id"`
	UniqueIdentifier string    `json:"unique_identifier"`
	NotificationType string    `json:"notification_type"`
	Sender           UserBrief `json:"sender"`
	PostID           *int64    `json:"post_id,omitempty"`
	CommentID        *int64    `json:"comment_id,omitempty"`
	PostMediaURL     string    `json:"post_media_url,omitempty"`
	Message          string    `json:"message"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}
