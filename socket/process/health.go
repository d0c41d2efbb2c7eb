package process

import (
	"context"
	"time"

	"Socio/dao/cache"
	"Socio/pkg/log"
	"Socio/pkg/node"
	"Socio/pkg/socket"

	"go.uber.org/zap"
)

const (
	healthInterval = 5 * time.Second
	// 过期节点的绑定关系回收间隔
	reapInterval = 30 * time.Second
)

var channels = []string{socket.ChannelMessages, socket.ChannelNotifications}

type HealthSubscribe struct {
	storage *cache.ServerStorage
	clients *cache.ClientStorage
	sid     string
}

func NewHealthSubscribe(storage *cache.ServerStorage, clients *cache.ClientStorage) *HealthSubscribe {
	return &HealthSubscribe{storage: storage, clients: clients, sid: node.ID()}
}

// Init 同一节点重启后清理上次遗留的绑定
func (s *HealthSubscribe) Init() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	s.clean(ctx, s.sid)
	return s.report(ctx)
}

func (s *HealthSubscribe) Setup(ctx context.Context) error {
	log.L.Info("start health subscribe", zap.String("server_id", s.sid))

	timer := time.NewTicker(healthInterval)
	defer timer.Stop()

	reaper := time.NewTicker(reapInterval)
	defer reaper.Stop()

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case <-timer.C:
			if err := s.report(ctx); err != nil {
				log.L.Warn("health report failed", zap.Error(err))
			}
		case <-reaper.C:
			s.reap(ctx)
		}
	}
}

func (s *HealthSubscribe) report(ctx context.Context) error {
	return s.storage.Set(ctx, s.sid, time.Now().Unix())
}

// reap 回收已过期节点留下的在线状态
func (s *HealthSubscribe) reap(ctx context.Context) {
	for _, sid := range s.storage.All(ctx, cache.ServerExpired) {
		s.clean(ctx, sid)
		if err := s.storage.Del(ctx, sid); err != nil {
			log.L.Warn("remove expired server failed", zap.String("server_id", sid), zap.Error(err))
			continue
		}
		log.L.Info("expired server removed", zap.String("server_id", sid))
	}
}

func (s *HealthSubscribe) clean(ctx context.Context, sid string) {
	for _, channel := range channels {
		if err := s.clients.Clean(ctx, sid, channel); err != nil {
			log.L.Warn("clean client bindings failed",
				zap.String("server_id", sid),
				zap.String("channel", channel),
				zap.Error(err),
			)
		}
	}
}

// shutdown 停机时注销节点，父 ctx 已取消
func (s *HealthSubscribe) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.storage.Del(ctx, s.sid); err != nil {
		log.L.Warn("unregister server failed", zap.Error(err))
	}
	s.clean(ctx, s.sid)
}
