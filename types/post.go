package types

import "time"

type CreatePostRequest struct {
	Content    string `json:"content" binding:"required,max=1000"`
	MediaURL   string `json:"media_url" binding:"omitempty,max=255"`
	Visibility string `json:"visibility" binding:"omitempty,visibility"`
}

type UpdatePostRequest struct {
	Content    *string `json:"content" binding:"omitempty,min=1,max=1000"`
	Visibility *string `json:"visibility" binding:"omitempty,visibility"`
}

type PostItem struct {
	ID           int64     `json:"id"`
	User         UserBrief `json:"user"`
	Content      string    `json:"content"`
	MediaURL     string    `json:"media_url"`
	Visibility   string    `json:"visibility"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	LikedByUser  bool      `json:"liked_by_user"`
	CreatedAt    time.Time `json:"created_at"`
}

type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}
