package types

import "time"

type CommentRequest struct {
	Content string `json:"content" binding:"required,max=500"`
}

type CommentItem struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	User      UserBrief `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	CanEdit   bool      `json:"can_edit"`
	CanDelete bool      `json:"can_delete"`
}
