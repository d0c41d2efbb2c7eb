package dao

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewUserDAO,
	NewFollowDAO,
	NewPostDAO,
	NewPostLikeDAO,
	NewCommentDAO,
	NewMessageDAO,
	NewNotificationDAO,
)
