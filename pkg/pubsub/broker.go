package pubsub

import (
	"context"
	"errors"
)

var (
	ErrClosed     = errors.New("broker closed")
	ErrBufferFull = errors.New("broker buffer full")
)

type Publisher interface {
	Publish(ctx context.Context, group string, ev *Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, groups ...string) error
	Unsubscribe(ctx context.Context, groups ...string) error
	// Deliveries 在 Close 后关闭
	Deliveries() <-chan Delivery
	Close() error
}

type Broker interface {
	Publisher
	Subscriber
}
