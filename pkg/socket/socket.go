package socket

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const (
	ChannelMessages      = "messages"
	ChannelNotifications = "notifications"
)

type session struct {
	Messages      *Channel
	Notifications *Channel
}

var Session = &session{
	Messages:      NewChannel(ChannelMessages),
	Notifications: NewChannel(ChannelNotifications),
}

// Initialize 启动心跳检测，退出时断开所有连接
func Initialize(ctx context.Context, eg *errgroup.Group) {
	eg.Go(func() error {
		return health.Start(ctx)
	})

	eg.Go(func() error {
		<-ctx.Done()
		Session.Messages.CloseAll(CloseTryAgainLater, "server shutdown")
		Session.Notifications.CloseAll(CloseTryAgainLater, "server shutdown")
		return nil
	})
}
