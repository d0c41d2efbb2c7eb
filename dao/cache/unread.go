package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 未读数缓存过期时间 - 14天
const unreadExpireAt = 14 * 24 * time.Hour

const (
	UnreadMessage      = 1
	UnreadNotification = 2
)

// 只在 key 已存在时增减，未命中交给下一次读取从数据库回填
var incrIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return nil
end
local v = redis.call("INCRBY", KEYS[1], ARGV[1])
if v < 0 then
	redis.call("SET", KEYS[1], 0)
	v = 0
end
redis.call("EXPIRE", KEYS[1], ARGV[2])
return v
`)

// UnreadStorage 用户未读总数缓存，数据库为准
type UnreadStorage struct {
	redis *redis.Client
}

func NewUnreadStorage(rds *redis.Client) *UnreadStorage {
	return &UnreadStorage{rds}
}

// Incr 未读数增减
// @params uid   用户ID
// @params mode  1私信 2通知
func (u *UnreadStorage) Incr(ctx context.Context, uid int64, mode int, delta int64) error {
	err := incrIfExists.Run(ctx, u.redis, []string{u.name(uid, mode)}, delta, int64(unreadExpireAt/time.Second)).Err()
	if err == redis.Nil {
		return nil
	}
	return err
}

// Get 未命中时 ok 为 false
func (u *UnreadStorage) Get(ctx context.Context, uid int64, mode int) (int64, bool) {
	n, err := u.redis.Get(ctx, u.name(uid, mode)).Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

// Fill 未命中时回填，已存在则不覆盖
func (u *UnreadStorage) Fill(ctx context.Context, uid int64, mode int, n int64) error {
	return u.redis.SetNX(ctx, u.name(uid, mode), n, unreadExpireAt).Err()
}

// Reset 删除缓存，下次读取回填
func (u *UnreadStorage) Reset(ctx context.Context, uid int64, mode int) error {
	return u.redis.Del(ctx, u.name(uid, mode)).Err()
}

// im:unread:uid:mode
func (u *UnreadStorage) name(uid int64, mode int) string {
	return fmt.Sprintf("im:unread:%d:%d", uid, mode)
}
