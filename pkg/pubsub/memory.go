package pubsub

import (
	"context"
	"sync"
)

var _ Broker = (*MemoryBroker)(nil)

// MemoryBroker 进程内广播，单机调试和测试使用
// 未订阅的组直接丢弃，与 redis PUBLISH 无订阅者时一致
type MemoryBroker struct {
	mu     sync.RWMutex
	groups map[string]struct{}
	out    chan Delivery
	closed bool
}

func NewMemoryBroker(buffer int) *MemoryBroker {
	if buffer <= 0 {
		buffer = 64
	}
	return &MemoryBroker{
		groups: make(map[string]struct{}),
		out:    make(chan Delivery, buffer),
	}
}

func (m *MemoryBroker) Publish(ctx context.Context, group string, ev *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrClosed
	}
	if _, ok := m.groups[group]; !ok {
		return nil
	}

	// 拷贝一份，发布方后续修改不影响投递
	cp := *ev
	select {
	case m.out <- Delivery{Group: group, Event: &cp}:
		return nil
	default:
		return ErrBufferFull
	}
}

func (m *MemoryBroker) Subscribe(_ context.Context, groups ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	for _, g := range groups {
		m.groups[g] = struct{}{}
	}
	return nil
}

func (m *MemoryBroker) Unsubscribe(_ context.Context, groups ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, g := range groups {
		delete(m.groups, g)
	}
	return nil
}

func (m *MemoryBroker) Subscribed(group string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.groups[group]
	return ok
}

func (m *MemoryBroker) Deliveries() <-chan Delivery {
	return m.out
}

func (m *MemoryBroker) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.out)
	}
	return nil
}
