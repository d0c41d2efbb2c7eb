package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rds.Close() })
	return mr, rds
}

func TestUnreadStorage_IncrOnlyWhenCached(t *testing.T) {
	ctx := context.Background()
	_, rds := newRedis(t)
	u := NewUnreadStorage(rds)

	// 未命中时不创建
	require.NoError(t, u.Incr(ctx, 1, UnreadNotification, 1))
	_, ok := u.Get(ctx, 1, UnreadNotification)
	assert.False(t, ok)

	require.NoError(t, u.Fill(ctx, 1, UnreadNotification, 2))
	require.NoError(t, u.Incr(ctx, 1, UnreadNotification, 3))
	n, ok := u.Get(ctx, 1, UnreadNotification)
	assert.True(t, ok)
	assert.Equal(t, int64(5), n)

	// 不会减到负数
	require.NoError(t, u.Incr(ctx, 1, UnreadNotification, -10))
	n, _ = u.Get(ctx, 1, UnreadNotification)
	assert.Equal(t, int64(0), n)

	require.NoError(t, u.Reset(ctx, 1, UnreadNotification))
	_, ok = u.Get(ctx, 1, UnreadNotification)
	assert.False(t, ok)
}

func TestUnreadStorage_FillKeepsExisting(t *testing.T) {
	ctx := context.Background()
	_, rds := newRedis(t)
	u := NewUnreadStorage(rds)

	require.NoError(t, u.Fill(ctx, 1, UnreadMessage, 3))
	require.NoError(t, u.Incr(ctx, 1, UnreadMessage, 1))

	// 较晚的回填不覆盖已有计数
	require.NoError(t, u.Fill(ctx, 1, UnreadMessage, 3))
	n, ok := u.Get(ctx, 1, UnreadMessage)
	assert.True(t, ok)
	assert.Equal(t, int64(4), n)
}

func TestUnreadStorage_ModesIsolated(t *testing.T) {
	ctx := context.Background()
	_, rds := newRedis(t)
	u := NewUnreadStorage(rds)

	require.NoError(t, u.Fill(ctx, 1, UnreadMessage, 4))
	_, ok := u.Get(ctx, 1, UnreadNotification)
	assert.False(t, ok)
}

func TestServerStorage_All(t *testing.T) {
	ctx := context.Background()
	_, rds := newRedis(t)
	s := NewServerStorage(rds)

	now := time.Now().Unix()
	require.NoError(t, s.Set(ctx, "a", now))
	require.NoError(t, s.Set(ctx, "b", now-100))

	assert.Equal(t, []string{"a"}, s.All(ctx, ServerAlive))
	assert.Equal(t, []string{"b"}, s.All(ctx, ServerExpired))
}

func TestClientStorage_BindUnBind(t *testing.T) {
	ctx := context.Background()
	_, rds := newRedis(t)
	servers := NewServerStorage(rds)
	c := NewClientStorage(rds, servers)
	require.NoError(t, servers.Set(ctx, c.sid, time.Now().Unix()))

	require.NoError(t, c.Bind(ctx, "notifications", 100, 7))
	require.NoError(t, c.Bind(ctx, "notifications", 101, 7))

	assert.True(t, c.IsOnline(ctx, "notifications", 7))
	assert.False(t, c.IsOnline(ctx, "messages", 7))
	assert.ElementsMatch(t, []int64{100, 101}, c.GetUidFromClientIds(ctx, c.sid, "notifications", 7))

	require.NoError(t, c.UnBind(ctx, "notifications", 100))
	assert.True(t, c.IsOnline(ctx, "notifications", 7))

	require.NoError(t, c.UnBind(ctx, "notifications", 101))
	assert.False(t, c.IsOnline(ctx, "notifications", 7))
}

func TestClientStorage_Clean(t *testing.T) {
	ctx := context.Background()
	_, rds := newRedis(t)
	servers := NewServerStorage(rds)
	c := NewClientStorage(rds, servers)
	require.NoError(t, servers.Set(ctx, c.sid, time.Now().Unix()))

	require.NoError(t, c.Bind(ctx, "messages", 1, 9))
	require.NoError(t, c.Clean(ctx, c.sid, "messages"))

	assert.False(t, c.IsOnline(ctx, "messages", 9))
}
