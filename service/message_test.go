package service

import (
	"strconv"
	"testing"
	"time"

	"Socio/dao/cache"
	"Socio/pkg/node"
	"Socio/pkg/pubsub"
	"Socio/pkg/socket"
	"Socio/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_SendPublishesToConversation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	_, err := env.messages.Send(env.ctx, alice.ID, alice.ID, "hi me")
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = env.messages.Send(env.ctx, alice.ID, 9999, "hi")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.messages.Send(env.ctx, alice.ID, bob.ID, "  ")
	assert.ErrorIs(t, err, ErrInvalid)

	msg, err := env.messages.Send(env.ctx, alice.ID, bob.ID, " hello ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.False(t, msg.IsDelivered)
	assert.False(t, msg.IsRead)

	// 两个方向同一个组
	group := pubsub.ConversationGroup(bob.ID, alice.ID)
	events := env.broker.Find(group, pubsub.EventMessage)
	require.Len(t, events, 1)
	assert.Equal(t, strconv.FormatInt(msg.ID, 10), events[0].UniqueIdentifier)
	assert.Equal(t, "hello", events[0].Content)
	assert.Equal(t, alice.ID, events[0].Sender)
	assert.Equal(t, bob.ID, events[0].Recipient)

	n, err := env.messages.UnreadCount(env.ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMessage_ConversationMarksRead(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	// 先加载缓存，后续增减在缓存上进行
	n, err := env.messages.UnreadCount(env.ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, text := range []string{"one", "two"} {
		_, err := env.messages.Send(env.ctx, alice.ID, bob.ID, text)
		require.NoError(t, err)
	}
	reply, err := env.messages.Send(env.ctx, bob.ID, alice.ID, "three")
	require.NoError(t, err)

	n, err = env.messages.UnreadCount(env.ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	resp, err := env.messages.Conversation(env.ctx, bob.ID, alice.ID, firstPage())
	require.NoError(t, err)
	require.Len(t, resp.Messages, 3)
	assert.Equal(t, "three", resp.Messages[0].Content)
	// 响应保留标记前的状态
	assert.False(t, resp.Messages[1].IsRead)
	require.NotNil(t, resp.MostRecentSenderStatus)
	assert.Equal(t, reply.ID, resp.MostRecentSenderStatus.ID)
	assert.False(t, resp.MostRecentSenderStatus.IsRead)

	n, err = env.messages.UnreadCount(env.ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	receipts := env.broker.Find(pubsub.ConversationGroup(alice.ID, bob.ID), pubsub.EventReadReceipt)
	require.Len(t, receipts, 1)
	assert.Equal(t, bob.ID, receipts[0].Sender)
	assert.Len(t, receipts[0].Ids, 2)

	// alice 查看时最新一条不是自己发的
	resp, err = env.messages.Conversation(env.ctx, alice.ID, bob.ID, firstPage())
	require.NoError(t, err)
	assert.Nil(t, resp.MostRecentSenderStatus)
	assert.True(t, resp.Messages[1].IsRead)

	_, err = env.messages.Conversation(env.ctx, alice.ID, 9999, firstPage())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessage_MarkReadOnlyReceived(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	msg, err := env.messages.Send(env.ctx, alice.ID, bob.ID, "ping")
	require.NoError(t, err)

	// 发送者不能替接收者标记已读
	n, err := env.messages.MarkRead(env.ctx, alice.ID, []int64{msg.ID})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = env.messages.MarkRead(env.ctx, bob.ID, []int64{msg.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = env.messages.MarkRead(env.ctx, bob.ID, []int64{msg.ID})
	require.NoError(t, err)
	assert.Zero(t, n)

	receipts := env.broker.Find(pubsub.ConversationGroup(alice.ID, bob.ID), pubsub.EventReadReceipt)
	require.Len(t, receipts, 1)
	assert.Equal(t, []int64{msg.ID}, receipts[0].Ids)
}

func TestMessage_MarkDelivered(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	msg, err := env.messages.Send(env.ctx, alice.ID, bob.ID, "ping")
	require.NoError(t, err)

	ok, err := env.messages.MarkDelivered(env.ctx, msg.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = env.messages.MarkDelivered(env.ctx, msg.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.messages.MarkDelivered(env.ctx, msg.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMessage_DeleteSenderOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	msg, err := env.messages.Send(env.ctx, alice.ID, bob.ID, "oops")
	require.NoError(t, err)

	assert.ErrorIs(t, env.messages.Delete(env.ctx, bob.ID, msg.ID), ErrForbidden)
	require.NoError(t, env.messages.Delete(env.ctx, alice.ID, msg.ID))
	assert.ErrorIs(t, env.messages.Delete(env.ctx, alice.ID, msg.ID), ErrNotFound)

	removed := env.broker.Find(pubsub.ConversationGroup(alice.ID, bob.ID), pubsub.EventRemoveMessage)
	require.Len(t, removed, 1)
	assert.Equal(t, strconv.FormatInt(msg.ID, 10), removed[0].UniqueIdentifier)

	n, err := env.messages.UnreadCount(env.ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMessage_Partners(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)
	carol := env.createUser(t, "carol", false)
	env.createUser(t, "dave", false)

	_, err := env.messages.Send(env.ctx, bob.ID, alice.ID, "from bob")
	require.NoError(t, err)
	_, err = env.messages.Send(env.ctx, alice.ID, carol.ID, "to carol")
	require.NoError(t, err)
	_, err = env.messages.Send(env.ctx, bob.ID, alice.ID, "bob again")
	require.NoError(t, err)

	// bob 在当前节点在线
	require.NoError(t, env.servers.Set(env.ctx, node.ID(), time.Now().Unix()))
	require.NoError(t, env.messages.ClientStorage.Bind(env.ctx, socket.ChannelMessages, 1001, bob.ID))

	req := &types.PartnersRequest{}
	req.Normalize()
	items, err := env.messages.Partners(env.ctx, alice.ID, req)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "bob", items[0].Username)
	assert.EqualValues(t, 2, items[0].UnreadCount)
	assert.True(t, items[0].IsOnline)
	require.NotNil(t, items[0].LastMessage)
	assert.Equal(t, "bob again", items[0].LastMessage.Content)

	assert.Equal(t, "carol", items[1].Username)
	assert.Zero(t, items[1].UnreadCount)
	assert.False(t, items[1].IsOnline)

	req = &types.PartnersRequest{Username: "CAR"}
	req.Normalize()
	items, err = env.messages.Partners(env.ctx, alice.ID, req)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "carol", items[0].Username)

	// 通配符按字面匹配
	req = &types.PartnersRequest{Username: "_"}
	req.Normalize()
	items, err = env.messages.Partners(env.ctx, alice.ID, req)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMessage_ConcurrentAckCountedOnce(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	ids := make([]int64, 0, 3)
	for _, text := range []string{"one", "two", "three"} {
		msg, err := env.messages.Send(env.ctx, alice.ID, bob.ID, text)
		require.NoError(t, err)
		ids = append(ids, msg.ID)
	}

	n, err := env.messages.UnreadCount(env.ctx, bob.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
	env.broker.Reset()

	// 另一个连接在查询与更新之间先确认了同一条消息
	env.afterQuery(t, "messages", func() {
		marked, err := env.messages.MarkRead(env.ctx, bob.ID, []int64{ids[0]})
		assert.NoError(t, err)
		assert.Equal(t, 1, marked)
	})

	marked, err := env.messages.MarkRead(env.ctx, bob.ID, []int64{ids[0]})
	require.NoError(t, err)
	assert.Zero(t, marked)

	cached, ok := env.unread.Get(env.ctx, bob.ID, cache.UnreadMessage)
	require.True(t, ok)
	assert.EqualValues(t, 2, cached)

	n, err = env.messages.MessageDAO.UnreadCount(env.ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	assert.Len(t, env.broker.Find(pubsub.ConversationGroup(alice.ID, bob.ID), pubsub.EventReadReceipt), 1)
}

func TestMessage_ConversationReadSkipsAcked(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	first, err := env.messages.Send(env.ctx, alice.ID, bob.ID, "one")
	require.NoError(t, err)
	second, err := env.messages.Send(env.ctx, alice.ID, bob.ID, "two")
	require.NoError(t, err)

	env.afterQuery(t, "messages", func() {
		_, err := env.messages.MarkRead(env.ctx, bob.ID, []int64{first.ID})
		assert.NoError(t, err)
	})

	marked, err := env.messages.MessageDAO.MarkConversationRead(env.ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{second.ID}, marked)
}

func TestMessage_UnreadFillRacingSend(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	// 回填读到 0 之后、写入缓存之前到达一条新消息
	env.afterQuery(t, "messages", func() {
		_, err := env.messages.Send(env.ctx, alice.ID, bob.ID, "late")
		assert.NoError(t, err)
	})

	n, err := env.messages.UnreadCount(env.ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = env.messages.UnreadCount(env.ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
