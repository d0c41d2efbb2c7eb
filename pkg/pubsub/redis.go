package pubsub

import (
	"context"
	"strings"
	"sync"

	"Socio/pkg/log"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ Broker = (*RedisBroker)(nil)

// RedisBroker 基于 redis pub/sub 的跨进程广播
// 订阅连接在首次 Subscribe 时建立，断线由 go-redis 自动重连并重新订阅
type RedisBroker struct {
	rds    *redis.Client
	prefix string

	mu     sync.Mutex
	ps     *redis.PubSub
	out    chan Delivery
	done   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

func NewRedisBroker(rds *redis.Client, prefix string, buffer int) *RedisBroker {
	if buffer <= 0 {
		buffer = 64
	}
	return &RedisBroker{
		rds:    rds,
		prefix: prefix,
		out:    make(chan Delivery, buffer),
		done:   make(chan struct{}),
	}
}

func (b *RedisBroker) Publish(ctx context.Context, group string, ev *Event) error {
	return b.rds.Publish(ctx, b.channel(group), ev.Encode()).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, groups ...string) error {
	if len(groups) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	if b.ps == nil {
		b.ps = b.rds.Subscribe(ctx, b.channels(groups)...)

		b.wg.Add(1)
		go b.loop(b.ps.Channel())
		return nil
	}

	return b.ps.Subscribe(ctx, b.channels(groups)...)
}

func (b *RedisBroker) Unsubscribe(ctx context.Context, groups ...string) error {
	if len(groups) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ps == nil || b.closed {
		return nil
	}
	return b.ps.Unsubscribe(ctx, b.channels(groups)...)
}

func (b *RedisBroker) Deliveries() <-chan Delivery {
	return b.out
}

func (b *RedisBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	ps := b.ps
	b.mu.Unlock()

	close(b.done)

	var err error
	if ps != nil {
		err = ps.Close()
	}

	// 等待 loop 退出后再关闭输出
	b.wg.Wait()
	close(b.out)

	return err
}

func (b *RedisBroker) loop(ch <-chan *redis.Message) {
	defer b.wg.Done()

	for msg := range ch {
		ev, err := Decode([]byte(msg.Payload))
		if err != nil {
			log.L.Warn("pubsub decode", zap.String("channel", msg.Channel), zap.Error(err))
			continue
		}

		select {
		case b.out <- Delivery{Group: strings.TrimPrefix(msg.Channel, b.prefix), Event: ev}:
		case <-b.done:
			return
		}
	}
}

func (b *RedisBroker) channel(group string) string {
	return b.prefix + group
}

func (b *RedisBroker) channels(groups []string) []string {
	items := make([]string, 0, len(groups))
	for _, g := range groups {
		items = append(items, b.channel(g))
	}
	return items
}
