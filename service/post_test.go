package service

import (
	"testing"

	"Socio/models"
	"Socio/pkg/pubsub"
	"Socio/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_CreateForcesPrivateForPrivateUsers(t *testing.T) {
	env := newTestEnv(t)
	carol := env.createUser(t, "carol", true)

	item, err := env.posts.Create(env.ctx, carol.ID, &types.CreatePostRequest{Content: "hi", Visibility: models.VisibilityPublic})
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPrivate, item.Visibility)
	assert.EqualValues(t, 1, env.reloadUser(t, carol.ID).NumPosts)

	_, err = env.posts.Create(env.ctx, carol.ID, &types.CreatePostRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestPost_PrivateVisibility(t *testing.T) {
	env := newTestEnv(t)
	carol := env.createUser(t, "carol", true)
	alice := env.createUser(t, "alice", false)
	post := env.createPost(t, carol.ID, "hidden")

	_, err := env.posts.Get(env.ctx, alice.ID, post.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.follows.Follow(env.ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = env.follows.Respond(env.ctx, carol.ID, alice.ID, types.FollowActionAccept)
	require.NoError(t, err)

	item, err := env.posts.Get(env.ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hidden", item.Content)
	assert.Equal(t, "carol", item.User.Username)

	_, err = env.posts.Get(env.ctx, alice.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPost_UpdateOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)
	post := env.createPost(t, alice.ID, "draft")

	content := "final"
	_, err := env.posts.Update(env.ctx, bob.ID, post.ID, &types.UpdatePostRequest{Content: &content})
	assert.ErrorIs(t, err, ErrForbidden)

	visibility := models.VisibilityPrivate
	item, err := env.posts.Update(env.ctx, alice.ID, post.ID, &types.UpdatePostRequest{Content: &content, Visibility: &visibility})
	require.NoError(t, err)
	assert.Equal(t, "final", item.Content)
	assert.Equal(t, models.VisibilityPrivate, item.Visibility)

	stored := env.reloadPost(t, post.ID)
	assert.Equal(t, "final", stored.Content)

	// 未关注的用户看不到私密帖子
	_, err = env.posts.Get(env.ctx, bob.ID, post.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPost_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)
	post := env.createPost(t, alice.ID, "doomed")

	_, err := env.likes.Like(env.ctx, bob.ID, post.ID)
	require.NoError(t, err)
	_, err = env.comments.Create(env.ctx, bob.ID, post.ID, "nice")
	require.NoError(t, err)
	require.Len(t, env.notificationsOf(t, alice.ID), 2)

	assert.ErrorIs(t, env.posts.Delete(env.ctx, bob.ID, post.ID), ErrForbidden)
	require.NoError(t, env.posts.Delete(env.ctx, alice.ID, post.ID))

	var likes, comments int64
	require.NoError(t, env.db.Model(&models.PostLike{}).Count(&likes).Error)
	require.NoError(t, env.db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Zero(t, likes)
	assert.Zero(t, comments)
	assert.Empty(t, env.notificationsOf(t, alice.ID))
	assert.EqualValues(t, 0, env.reloadUser(t, alice.ID).NumPosts)
	assert.Len(t, env.broker.Find(pubsub.NotificationGroup(alice.ID), pubsub.EventRemoveNotification), 2)

	assert.ErrorIs(t, env.posts.Delete(env.ctx, alice.ID, post.ID), ErrNotFound)
	env.assertNoDrift(t)
}

func TestPost_FeedAndExplore(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)
	carol := env.createUser(t, "carol", false)
	dave := env.createUser(t, "dave", true)

	env.createPost(t, alice.ID, "mine")
	env.createPost(t, bob.ID, "from bob")
	env.createPost(t, carol.ID, "from carol")
	env.createPost(t, dave.ID, "from dave")

	_, err := env.follows.Follow(env.ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	feed, err := env.posts.Feed(env.ctx, alice.ID, firstPage())
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "from bob", feed[0].Content)

	explore, err := env.posts.Explore(env.ctx, alice.ID, firstPage())
	require.NoError(t, err)
	require.Len(t, explore, 1)
	assert.Equal(t, "from carol", explore[0].Content)
}

func TestLike_CounterConsistency(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	post := env.createPost(t, alice.ID, "popular")

	fans := make([]*models.User, 0)
	for _, name := range []string{"bob", "carol", "dave"} {
		u := env.createUser(t, name, false)
		fans = append(fans, u)

		res, err := env.likes.Like(env.ctx, u.ID, post.ID)
		require.NoError(t, err)
		assert.True(t, res.Liked)
	}

	_, err := env.likes.Like(env.ctx, fans[0].ID, post.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "you have already liked this post")

	res, err := env.likes.Unlike(env.ctx, fans[1].ID, post.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.EqualValues(t, 2, res.LikeCount)

	_, err = env.likes.Unlike(env.ctx, fans[1].ID, post.ID)
	assert.ErrorIs(t, err, ErrInvalid)

	assert.EqualValues(t, 2, env.reloadPost(t, post.ID).LikeCount)

	notices := env.notificationsOf(t, alice.ID)
	assert.Len(t, notices, 2)
	for _, n := range notices {
		assert.Equal(t, models.NotifyNewLike, n.NotificationType)
		require.NotNil(t, n.PostID)
		assert.Equal(t, post.ID, *n.PostID)
	}

	likers, err := env.likes.Likers(env.ctx, alice.ID, post.ID, firstPage())
	require.NoError(t, err)
	assert.Len(t, likers, 2)

	item, err := env.posts.Get(env.ctx, fans[0].ID, post.ID)
	require.NoError(t, err)
	assert.True(t, item.LikedByUser)

	env.assertNoDrift(t)
}

func TestLike_SelfLikeNoNotification(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	post := env.createPost(t, alice.ID, "me")

	res, err := env.likes.Like(env.ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.LikeCount)
	assert.Empty(t, env.notificationsOf(t, alice.ID))
}

func TestLike_NotificationPayload(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)
	post := env.createPost(t, alice.ID, "photo")

	_, err := env.likes.Like(env.ctx, bob.ID, post.ID)
	require.NoError(t, err)

	events := env.broker.Find(pubsub.NotificationGroup(alice.ID), pubsub.EventNotification)
	require.Len(t, events, 1)
	assert.Equal(t, models.NotifyNewLike, events[0].NotificationType)
	assert.Equal(t, "bob liked your post", events[0].Message)
	assert.Equal(t, "http://socio.test/media/photo.jpg", events[0].PostMediaURL)

	_, err = env.likes.Unlike(env.ctx, bob.ID, post.ID)
	require.NoError(t, err)
	removed := env.broker.Find(pubsub.NotificationGroup(alice.ID), pubsub.EventRemoveNotification)
	require.Len(t, removed, 1)
	assert.Equal(t, events[0].UniqueIdentifier, removed[0].UniqueIdentifier)
}
