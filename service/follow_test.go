package service

import (
	"strconv"
	"testing"

	"Socio/models"
	"Socio/pkg/pubsub"
	"Socio/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow_PublicTarget(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	res, err := env.follows.Follow(env.ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FollowAccepted, res.FollowStatus)

	assert.EqualValues(t, 1, env.reloadUser(t, alice.ID).NumFollowing)
	assert.EqualValues(t, 1, env.reloadUser(t, bob.ID).NumFollowers)

	items := env.notificationsOf(t, bob.ID)
	require.Len(t, items, 1)
	assert.Equal(t, models.NotifyNewFollower, items[0].NotificationType)
	assert.Equal(t, alice.ID, items[0].SenderID)

	events := env.broker.Find(pubsub.NotificationGroup(bob.ID), pubsub.EventNotification)
	require.Len(t, events, 1)
	assert.Equal(t, "alice started following you", events[0].Message)
	assert.Equal(t, "http://socio.test/avatars/alice.png", events[0].SenderProfilePictureURL)
	assert.Equal(t, strconv.FormatInt(items[0].ID, 10), events[0].UniqueIdentifier)
	assert.NotZero(t, events[0].ID)
	assert.NotZero(t, events[0].Timestamp)

	env.assertNoDrift(t)
}

func TestFollow_Rejections(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)
	carol := env.createUser(t, "carol", true)

	_, err := env.follows.Follow(env.ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = env.follows.Follow(env.ctx, alice.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.follows.Follow(env.ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = env.follows.Follow(env.ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "you are already following this user")

	_, err = env.follows.Follow(env.ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = env.follows.Follow(env.ctx, alice.ID, carol.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "follow request already sent")

	var count int64
	require.NoError(t, env.db.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestFollow_PrivateTargetAccept(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	carol := env.createUser(t, "carol", true)

	res, err := env.follows.Follow(env.ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FollowPending, res.FollowStatus)

	// 待处理请求不计数
	assert.EqualValues(t, 0, env.reloadUser(t, carol.ID).NumFollowers)

	requests := env.notificationsOf(t, carol.ID)
	require.Len(t, requests, 1)
	assert.Equal(t, models.NotifyFollowRequest, requests[0].NotificationType)

	env.broker.Reset()
	res, err = env.follows.Respond(env.ctx, carol.ID, alice.ID, types.FollowActionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.FollowAccepted, res.FollowStatus)

	assert.EqualValues(t, 1, env.reloadUser(t, carol.ID).NumFollowers)
	assert.EqualValues(t, 1, env.reloadUser(t, alice.ID).NumFollowing)

	// follow_request 原地转换为 new_follower
	converted := env.notificationsOf(t, carol.ID)
	require.Len(t, converted, 1)
	assert.Equal(t, requests[0].ID, converted[0].ID)
	assert.Equal(t, models.NotifyNewFollower, converted[0].NotificationType)
	assert.False(t, converted[0].IsRead)

	accepts := env.notificationsOf(t, alice.ID)
	require.Len(t, accepts, 1)
	assert.Equal(t, models.NotifyFollowAccept, accepts[0].NotificationType)
	assert.Equal(t, carol.ID, accepts[0].SenderID)

	actions := env.broker.Find(pubsub.NotificationGroup(carol.ID), pubsub.EventFollowRequestAction)
	require.Len(t, actions, 1)
	assert.Equal(t, types.FollowActionAccept, actions[0].Action)
	assert.Equal(t, strconv.FormatInt(requests[0].ID, 10), actions[0].UniqueIdentifier)

	pushed := env.broker.Find(pubsub.NotificationGroup(alice.ID), pubsub.EventNotification)
	require.Len(t, pushed, 1)
	assert.Equal(t, "carol accepted your follow request", pushed[0].Message)

	// 已处理的请求不能再次处理
	_, err = env.follows.Respond(env.ctx, carol.ID, alice.ID, types.FollowActionAccept)
	assert.ErrorIs(t, err, ErrNotFound)

	env.assertNoDrift(t)
}

func TestFollow_PrivateTargetDecline(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	carol := env.createUser(t, "carol", true)

	_, err := env.follows.Follow(env.ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	requests := env.notificationsOf(t, carol.ID)
	require.Len(t, requests, 1)

	_, err = env.follows.Respond(env.ctx, carol.ID, alice.ID, "maybe")
	assert.ErrorIs(t, err, ErrInvalid)

	res, err := env.follows.Respond(env.ctx, carol.ID, alice.ID, types.FollowActionDecline)
	require.NoError(t, err)
	assert.Equal(t, types.FollowStatusNone, res.FollowStatus)

	follow, err := env.followDAO.Get(env.ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	assert.Nil(t, follow)
	assert.Empty(t, env.notificationsOf(t, carol.ID))

	group := pubsub.NotificationGroup(carol.ID)
	actions := env.broker.Find(group, pubsub.EventFollowRequestAction)
	require.Len(t, actions, 1)
	assert.Equal(t, types.FollowActionDecline, actions[0].Action)

	removed := env.broker.Find(group, pubsub.EventRemoveNotification)
	require.Len(t, removed, 1)
	assert.Equal(t, strconv.FormatInt(requests[0].ID, 10), removed[0].UniqueIdentifier)

	// 拒绝后可以重新申请
	res, err = env.follows.Follow(env.ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FollowPending, res.FollowStatus)
}

func TestUnfollow_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	_, err := env.follows.Follow(env.ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	changed, err := env.follows.Unfollow(env.ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = env.follows.Unfollow(env.ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	assert.EqualValues(t, 0, env.reloadUser(t, alice.ID).NumFollowing)
	assert.EqualValues(t, 0, env.reloadUser(t, bob.ID).NumFollowers)
	assert.Empty(t, env.notificationsOf(t, bob.ID))
	assert.Len(t, env.broker.Find(pubsub.NotificationGroup(bob.ID), pubsub.EventRemoveNotification), 1)

	env.assertNoDrift(t)
}

func TestUnfollow_CancelsPendingRequest(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	carol := env.createUser(t, "carol", true)

	_, err := env.follows.Follow(env.ctx, alice.ID, carol.ID)
	require.NoError(t, err)

	changed, err := env.follows.Unfollow(env.ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	// 撤回请求不影响计数
	assert.EqualValues(t, 0, env.reloadUser(t, carol.ID).NumFollowers)
	assert.Empty(t, env.notificationsOf(t, carol.ID))
	env.assertNoDrift(t)
}

func TestFollowers_RequestingUserStatus(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)
	carol := env.createUser(t, "carol", false)
	dave := env.createUser(t, "dave", true)

	for _, u := range []*models.User{bob, carol} {
		_, err := env.follows.Follow(env.ctx, u.ID, alice.ID)
		require.NoError(t, err)
	}
	_, err := env.follows.Follow(env.ctx, dave.ID, alice.ID)
	require.NoError(t, err)

	// bob 关注 carol，申请关注 dave
	_, err = env.follows.Follow(env.ctx, bob.ID, carol.ID)
	require.NoError(t, err)
	_, err = env.follows.Follow(env.ctx, bob.ID, dave.ID)
	require.NoError(t, err)

	items, err := env.follows.Followers(env.ctx, bob.ID, alice.ID, firstPage())
	require.NoError(t, err)
	require.Len(t, items, 3)

	status := map[string]string{}
	for _, item := range items {
		status[item.Username] = item.RequestingUserFollowStatus
	}
	assert.Equal(t, types.FollowStatusSelf, status["bob"])
	assert.Equal(t, types.FollowStatusAccepted, status["carol"])
	assert.Equal(t, types.FollowStatusPending, status["dave"])

	following, err := env.follows.Following(env.ctx, alice.ID, bob.ID, firstPage())
	require.NoError(t, err)
	require.Len(t, following, 2)
}

func TestFollowers_PrivateAccount(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	carol := env.createUser(t, "carol", true)

	_, err := env.follows.Followers(env.ctx, alice.ID, carol.ID, firstPage())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.follows.Following(env.ctx, carol.ID, carol.ID, firstPage())
	require.NoError(t, err)

	_, err = env.follows.Followers(env.ctx, alice.ID, 9999, firstPage())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFollow_DeclineAfterAutoAccept(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	carol := env.createUser(t, "carol", true)

	_, err := env.follows.Follow(env.ctx, alice.ID, carol.ID)
	require.NoError(t, err)

	// 读取请求后、删除前 carol 切换为公开账号，请求被自动通过
	env.afterQuery(t, "follows", func() {
		resp, err := env.users.ChangePrivacy(env.ctx, carol.ID, models.PrivacyPublic)
		if assert.NoError(t, err) {
			assert.Equal(t, 1, resp.AcceptedRequests)
		}
	})

	_, err = env.follows.Respond(env.ctx, carol.ID, alice.ID, types.FollowActionDecline)
	assert.ErrorIs(t, err, ErrNotFound)

	follow, err := env.followDAO.Get(env.ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	require.NotNil(t, follow)
	assert.True(t, follow.Accepted())
	assert.EqualValues(t, 1, env.reloadUser(t, carol.ID).NumFollowers)
	assert.EqualValues(t, 1, env.reloadUser(t, alice.ID).NumFollowing)

	env.assertNoDrift(t)
}

func TestUnfollow_AfterConcurrentAccept(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	carol := env.createUser(t, "carol", true)

	_, err := env.follows.Follow(env.ctx, alice.ID, carol.ID)
	require.NoError(t, err)

	// 读到 pending 之后请求被通过
	env.afterQuery(t, "follows", func() {
		_, err := env.follows.Respond(env.ctx, carol.ID, alice.ID, types.FollowActionAccept)
		assert.NoError(t, err)
	})

	changed, err := env.follows.Unfollow(env.ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	follow, err := env.followDAO.Get(env.ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	assert.Nil(t, follow)
	assert.EqualValues(t, 0, env.reloadUser(t, carol.ID).NumFollowers)
	assert.EqualValues(t, 0, env.reloadUser(t, alice.ID).NumFollowing)

	env.assertNoDrift(t)
}

func TestUnfollow_ConcurrentUnfollowCountsOnce(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	_, err := env.follows.Follow(env.ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	env.afterQuery(t, "follows", func() {
		changed, err := env.follows.Unfollow(env.ctx, alice.ID, bob.ID)
		assert.NoError(t, err)
		assert.True(t, changed)
	})

	changed, err := env.follows.Unfollow(env.ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	assert.EqualValues(t, 0, env.reloadUser(t, bob.ID).NumFollowers)
	assert.EqualValues(t, 0, env.reloadUser(t, alice.ID).NumFollowing)

	env.assertNoDrift(t)
}
