package cache

import (
	"context"
	"fmt"
	"strconv"

	"Socio/pkg/node"

	"github.com/redis/go-redis/v9"
)

// ClientStorage 连接与用户的绑定关系，按节点和渠道分组
type ClientStorage struct {
	redis   *redis.Client
	storage *ServerStorage
	sid     string
}

func NewClientStorage(rds *redis.Client, storage *ServerStorage) *ClientStorage {
	return &ClientStorage{redis: rds, storage: storage, sid: node.ID()}
}

func (c *ClientStorage) Bind(ctx context.Context, channel string, cid int64, uid int64) error {
	_, err := c.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		// 客户端 -> 用户
		pipe.HSet(ctx, c.clientKey(c.sid, channel), cid, uid)
		// 用户 -> 客户端集合
		pipe.SAdd(ctx, c.userKey(c.sid, channel, uid), cid)
		return nil
	})
	return err
}

func (c *ClientStorage) UnBind(ctx context.Context, channel string, cid int64) error {
	key := c.clientKey(c.sid, channel)
	field := strconv.FormatInt(cid, 10)

	uid, err := c.redis.HGet(ctx, key, field).Int64()
	if err != nil {
		return err
	}

	_, err = c.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, key, field)
		pipe.SRem(ctx, c.userKey(c.sid, channel, uid), field)
		return nil
	})
	return err
}

// IsOnline 判断用户是否在线[所有存活节点]
func (c *ClientStorage) IsOnline(ctx context.Context, channel string, uid int64) bool {
	for _, sid := range c.storage.All(ctx, ServerAlive) {
		if c.IsCurrentServerOnline(ctx, sid, channel, uid) {
			return true
		}
	}

	return false
}

// IsCurrentServerOnline 判断指定节点是否在线
func (c *ClientStorage) IsCurrentServerOnline(ctx context.Context, sid, channel string, uid int64) bool {
	val, err := c.redis.SCard(ctx, c.userKey(sid, channel, uid)).Result()
	return err == nil && val > 0
}

// GetUidFromClientIds 获取节点上用户关联的客户端ID
func (c *ClientStorage) GetUidFromClientIds(ctx context.Context, sid, channel string, uid int64) []int64 {
	cids := make([]int64, 0)

	items, err := c.redis.SMembers(ctx, c.userKey(sid, channel, uid)).Result()
	if err != nil {
		return cids
	}

	for _, item := range items {
		if cid, err := strconv.ParseInt(item, 10, 64); err == nil {
			cids = append(cids, cid)
		}
	}

	return cids
}

// Clean 清理节点的全部绑定，节点启动或过期回收时调用
func (c *ClientStorage) Clean(ctx context.Context, sid, channel string) error {
	key := c.clientKey(sid, channel)

	res, err := c.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return err
	}

	_, err = c.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, uid := range res {
			pipe.Del(ctx, fmt.Sprintf("ws:%s:%s:user:%s", sid, channel, uid))
		}
		pipe.Del(ctx, key)
		return nil
	})
	return err
}

func (c *ClientStorage) clientKey(sid, channel string) string {
	return fmt.Sprintf("ws:%s:%s:client", sid, channel)
}

func (c *ClientStorage) userKey(sid, channel string, uid int64) string {
	return fmt.Sprintf("ws:%s:%s:user:%d", sid, channel, uid)
}
