package server

import (
	"Socio/handler"
)

type Handlers struct {
	User         *handler.User
	Follow       *handler.Follow
	Post         *handler.Post
	Comment      *handler.Comment
	Message      *handler.Message
	Notification *handler.Notification
}
