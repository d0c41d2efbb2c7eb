package service

import (
	"strings"

	"Socio/config"
	"Socio/models"
	"Socio/types"
)

func userBrief(u *models.User) types.UserBrief {
	if u == nil {
		return types.UserBrief{}
	}
	return types.UserBrief{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

func postItem(p *models.Post, liked bool) *types.PostItem {
	return &types.PostItem{
		ID:           p.ID,
		User:         userBrief(p.User),
		Content:      p.Content,
		MediaURL:     p.MediaURL,
		Visibility:   p.Visibility,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		LikedByUser:  liked,
		CreatedAt:    p.CreatedAt,
	}
}

func messageItem(m *models.Message) *types.MessageItem {
	return &types.MessageItem{
		ID:          m.ID,
		Sender:      m.SenderID,
		Receiver:    m.ReceiverID,
		Content:     m.Content,
		Timestamp:   m.CreatedAt,
		IsDelivered: m.IsDelivered,
		IsRead:      m.IsRead,
	}
}

// absoluteURL 相对路径拼接为公开访问地址
func absoluteURL(conf *config.Config, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if conf == nil || conf.App == nil || conf.App.PublicURL == "" {
		return path
	}
	return strings.TrimRight(conf.App.PublicURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func followStatus(viewer, target int64, status string) string {
	if viewer == target {
		return types.FollowStatusSelf
	}
	switch status {
	case models.FollowAccepted:
		return types.FollowStatusAccepted
	case models.FollowPending:
		return types.FollowStatusPending
	}
	return types.FollowStatusNone
}

func int64Ptr(v int64) *int64 {
	return &v
}
