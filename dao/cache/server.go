package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	serverKey = "ws:server:health"
	// 超过该时间未上报视为下线
	serverOverTime = 35
)

const (
	ServerAlive   = 1
	ServerExpired = 2
)

type ServerStorage struct {
	redis *redis.Client
}

func NewServerStorage(rds *redis.Client) *ServerStorage {
	return &ServerStorage{rds}
}

// Set 上报节点心跳
func (s *ServerStorage) Set(ctx context.Context, sid string, ts int64) error {
	return s.redis.HSet(ctx, serverKey, sid, ts).Err()
}

func (s *ServerStorage) Del(ctx context.Context, sid string) error {
	return s.redis.HDel(ctx, serverKey, sid).Err()
}

// All 按状态筛选节点 1:在线 2:过期
func (s *ServerStorage) All(ctx context.Context, status int) []string {
	items := make([]string, 0)

	res, err := s.redis.HGetAll(ctx, serverKey).Result()
	if err != nil {
		return items
	}

	now := time.Now().Unix()
	for sid, v := range res {
		ts, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}

		alive := now-ts <= serverOverTime
		if (status == ServerAlive && alive) || (status == ServerExpired && !alive) {
			items = append(items, sid)
		}
	}

	return items
}
