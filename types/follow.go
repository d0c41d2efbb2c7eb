package types

import "time"

const (
	FollowActionAccept  = "accept"
	FollowActionDecline = "decline"
)

type RespondFollowRequest struct {
	Action string `json:"action" binding:"required,oneof=accept decline"`
}

type FollowResult struct {
	FollowStatus string `json:"follow_status"`
}

type FollowItem struct {
	UserBrief
	FollowedAt time.Time `json:"followed_at"`
	// 当前登录用户对该用户的关注状态
	RequestingUserFollowStatus string `json:"requesting_user_follow_status"`
}
