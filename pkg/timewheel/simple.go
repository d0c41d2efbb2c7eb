package timewheel

import (
	"sync"
	"time"
)

type Handler[T any] func(wheel *SimpleTimeWheel[T], key string, value T)

type entry[T any] struct {
	key    string
	value  T
	circle int // 剩余圈数
}

// SimpleTimeWheel 单层时间轮，精度为 interval
// 同一个 key 重复 Add 会覆盖旧任务
type SimpleTimeWheel[T any] struct {
	interval time.Duration
	slots    []map[string]*entry[T]
	index    map[string]int // key -> slot
	current  int
	handler  Handler[T]

	mu       sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
}

func NewSimpleTimeWheel[T any](interval time.Duration, numSlots int, handler Handler[T]) *SimpleTimeWheel[T] {
	if numSlots <= 0 {
		numSlots = 1
	}

	slots := make([]map[string]*entry[T], numSlots)
	for i := range slots {
		slots[i] = make(map[string]*entry[T])
	}

	return &SimpleTimeWheel[T]{
		interval: interval,
		slots:    slots,
		index:    make(map[string]int),
		handler:  handler,
		stop:     make(chan struct{}),
	}
}

// Start 阻塞运行直到 Stop
func (w *SimpleTimeWheel[T]) Start() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *SimpleTimeWheel[T]) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

func (w *SimpleTimeWheel[T]) Add(key string, value T, delay time.Duration) {
	ticks := int(delay / w.interval)
	if ticks < 1 {
		ticks = 1
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.remove(key)

	n := len(w.slots)
	pos := (w.current + ticks) % n
	w.slots[pos][key] = &entry[T]{key: key, value: value, circle: (ticks - 1) / n}
	w.index[key] = pos
}

func (w *SimpleTimeWheel[T]) Remove(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.remove(key)
}

// Len 当前挂载的任务数
func (w *SimpleTimeWheel[T]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.index)
}

func (w *SimpleTimeWheel[T]) remove(key string) {
	if pos, ok := w.index[key]; ok {
		delete(w.slots[pos], key)
		delete(w.index, key)
	}
}

func (w *SimpleTimeWheel[T]) tick() {
	w.mu.Lock()
	w.current = (w.current + 1) % len(w.slots)

	var due []*entry[T]
	for key, e := range w.slots[w.current] {
		if e.circle > 0 {
			e.circle--
			continue
		}
		due = append(due, e)
		delete(w.slots[w.current], key)
		delete(w.index, key)
	}
	w.mu.Unlock()

	// 回调内允许再次 Add
	for _, e := range due {
		w.handler(w, e.key, e.value)
	}
}
