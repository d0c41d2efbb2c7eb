package types

// 当前用户对目标用户的关注状态
const (
	FollowStatusSelf     = "self"
	FollowStatusPending  = "pending"
	FollowStatusAccepted = "accepted"
	FollowStatusNone     = "none"
)

type UserBrief struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

type ProfileResponse struct {
	ID                 int64       `json:"id"`
	Username           string      `json:"username"`
	Bio                string      `json:"bio"`
	ContactInformation string      `json:"contact_information,omitempty"`
	ProfilePicture     string      `json:"profile_picture"`
	ProfilePrivacy     string      `json:"profile_privacy"`
	NumFollowers       int64       `json:"num_followers"`
	NumFollowing       int64       `json:"num_following"`
	NumPosts           int64       `json:"num_posts"`
	FollowStatus       string      `json:"follow_status"`
	CanView            bool        `json:"can_view"`
	Posts              []*PostItem `json:"posts"`
}

type ChangePrivacyRequest struct {
	ProfilePrivacy string `json:"profile_privacy" binding:"required,privacy"`
}

type ChangePrivacyResponse struct {
	ProfilePrivacy   string `json:"profile_privacy"`
	AcceptedRequests int    `json:"accepted_requests"`
}

type SearchUsersRequest struct {
	Username string `form:"username" binding:"max=150"`
	PageRequest
}

type UserSearchItem struct {
	UserBrief
	FollowStatus string `json:"follow_status"`
}
