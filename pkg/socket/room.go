package socket

import (
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Watcher 本节点第一个连接加入组时 Watch，最后一个离开时 Unwatch
// 回调在分片锁外执行，同一个组的回调串行，按组当前是否存在对齐
type Watcher interface {
	Watch(group string)
	Unwatch(group string)
}

type room struct {
	mu      sync.RWMutex
	members map[int64]*Client
}

type watchState struct {
	mu   sync.Mutex
	on   bool
	refs int // 等待或持有 mu 的协程数，由 RoomStorage.mu 保护
}

// RoomStorage 广播组 -> 本节点连接
type RoomStorage struct {
	rooms   cmap.ConcurrentMap[string, *room]
	watcher Watcher

	mu      sync.Mutex
	watched map[string]*watchState
}

func NewRoomStorage() *RoomStorage {
	return &RoomStorage{
		rooms:   cmap.New[*room](),
		watched: make(map[string]*watchState),
	}
}

func (r *RoomStorage) SetWatcher(w Watcher) {
	r.watcher = w
}

func (r *RoomStorage) Join(group string, c *Client) {
	created := false
	r.rooms.Upsert(group, nil, func(exist bool, value *room, _ *room) *room {
		if !exist || value == nil {
			value = &room{members: make(map[int64]*Client)}
			created = true
		}

		value.mu.Lock()
		value.members[c.cid] = c
		value.mu.Unlock()

		return value
	})

	if created {
		r.sync(group)
	}
}

func (r *RoomStorage) Leave(group string, cid int64) {
	removed := false
	r.rooms.RemoveCb(group, func(key string, value *room, exists bool) bool {
		if !exists {
			return false
		}

		value.mu.Lock()
		delete(value.members, cid)
		removed = len(value.members) == 0
		value.mu.Unlock()

		return removed
	})

	if removed {
		r.sync(group)
	}
}

// sync 按组当前是否存在调用 Watch/Unwatch，并发的加入与离开最终收敛到最后的状态
func (r *RoomStorage) sync(group string) {
	if r.watcher == nil {
		return
	}

	r.mu.Lock()
	state, ok := r.watched[group]
	if !ok {
		state = &watchState{}
		r.watched[group] = state
	}
	state.refs++
	r.mu.Unlock()

	state.mu.Lock()
	want := r.rooms.Has(group)
	switch {
	case want && !state.on:
		r.watcher.Watch(group)
		state.on = true
	case !want && state.on:
		r.watcher.Unwatch(group)
		state.on = false
	}
	state.mu.Unlock()

	r.mu.Lock()
	state.refs--
	if state.refs == 0 && !state.on {
		delete(r.watched, group)
	}
	r.mu.Unlock()
}

// Members 组内连接快照
func (r *RoomStorage) Members(group string) []*Client {
	value, ok := r.rooms.Get(group)
	if !ok {
		return nil
	}

	value.mu.RLock()
	defer value.mu.RUnlock()

	items := make([]*Client, 0, len(value.members))
	for _, c := range value.members {
		items = append(items, c)
	}
	return items
}

func (r *RoomStorage) Count(group string) int {
	value, ok := r.rooms.Get(group)
	if !ok {
		return 0
	}

	value.mu.RLock()
	defer value.mu.RUnlock()

	return len(value.members)
}

// Groups 本节点活跃的组
func (r *RoomStorage) Groups() []string {
	return r.rooms.Keys()
}

// Broadcast 向组内连接写入，filter 返回 false 的跳过，返回成功写入数
func (r *RoomStorage) Broadcast(group string, data []byte, filter func(c *Client) bool) int {
	n := 0
	for _, c := range r.Members(group) {
		if filter != nil && !filter(c) {
			continue
		}
		if c.Write(data) == nil {
			n++
		}
	}
	return n
}
