package service

import (
	"strings"
	"testing"

	"Socio/models"
	"Socio/pkg/pubsub"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComment_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)
	carol := env.createUser(t, "carol", false)
	post := env.createPost(t, alice.ID, "topic")

	_, err := env.comments.Create(env.ctx, bob.ID, post.ID, "")
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = env.comments.Create(env.ctx, bob.ID, post.ID, strings.Repeat("x", 501))
	assert.ErrorIs(t, err, ErrInvalid)

	item, err := env.comments.Create(env.ctx, bob.ID, post.ID, "first")
	require.NoError(t, err)
	assert.True(t, item.CanEdit)
	assert.True(t, item.CanDelete)

	_, err = env.comments.Create(env.ctx, alice.ID, post.ID, "thanks")
	require.NoError(t, err)

	assert.EqualValues(t, 2, env.reloadPost(t, post.ID).CommentCount)

	// 评论自己的帖子不通知
	notices := env.notificationsOf(t, alice.ID)
	require.Len(t, notices, 1)
	assert.Equal(t, models.NotifyNewComment, notices[0].NotificationType)
	require.NotNil(t, notices[0].CommentID)
	assert.Equal(t, item.ID, *notices[0].CommentID)

	events := env.broker.Find(pubsub.NotificationGroup(alice.ID), pubsub.EventNotification)
	require.Len(t, events, 1)
	assert.Equal(t, "bob commented on your post", events[0].Message)

	items, err := env.comments.List(env.ctx, carol.ID, post.ID, firstPage())
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, c := range items {
		assert.False(t, c.CanEdit)
		assert.False(t, c.CanDelete)
	}

	items, err = env.comments.List(env.ctx, alice.ID, post.ID, firstPage())
	require.NoError(t, err)
	for _, c := range items {
		assert.True(t, c.CanDelete)
	}
}

func TestComment_UpdateAndDeletePermissions(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)
	carol := env.createUser(t, "carol", false)
	post := env.createPost(t, alice.ID, "topic")

	c1, err := env.comments.Create(env.ctx, bob.ID, post.ID, "one")
	require.NoError(t, err)
	c2, err := env.comments.Create(env.ctx, bob.ID, post.ID, "two")
	require.NoError(t, err)

	_, err = env.comments.Update(env.ctx, alice.ID, c1.ID, "hacked")
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := env.comments.Update(env.ctx, bob.ID, c1.ID, "one edited")
	require.NoError(t, err)
	assert.Equal(t, "one edited", updated.Content)

	assert.ErrorIs(t, env.comments.Delete(env.ctx, carol.ID, c1.ID), ErrForbidden)

	// 评论作者和帖子作者都可以删除
	require.NoError(t, env.comments.Delete(env.ctx, bob.ID, c1.ID))
	require.NoError(t, env.comments.Delete(env.ctx, alice.ID, c2.ID))

	assert.ErrorIs(t, env.comments.Delete(env.ctx, bob.ID, c1.ID), ErrNotFound)
	assert.EqualValues(t, 0, env.reloadPost(t, post.ID).CommentCount)
	assert.Empty(t, env.notificationsOf(t, alice.ID))
	assert.Len(t, env.broker.Find(pubsub.NotificationGroup(alice.ID), pubsub.EventRemoveNotification), 2)

	env.assertNoDrift(t)
}
