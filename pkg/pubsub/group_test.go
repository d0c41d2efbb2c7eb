package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationGroup_Symmetric(t *testing.T) {
	assert.Equal(t, "group_3_7", ConversationGroup(3, 7))
	assert.Equal(t, ConversationGroup(3, 7), ConversationGroup(7, 3))
	assert.Equal(t, "group_5_5", ConversationGroup(5, 5))
}

func TestNotificationGroup(t *testing.T) {
	assert.Equal(t, "notifications_42", NotificationGroup(42))
}

func TestParseGroup(t *testing.T) {
	g, err := ParseGroup("group_3_7")
	require.NoError(t, err)
	assert.Equal(t, Group{Kind: KindConversation, A: 3, B: 7}, g)
	assert.Equal(t, "group_3_7", g.Name())

	peer, ok := g.Peer(7)
	assert.True(t, ok)
	assert.Equal(t, int64(3), peer)

	_, ok = g.Peer(9)
	assert.False(t, ok)

	g, err = ParseGroup("notifications_42")
	require.NoError(t, err)
	assert.Equal(t, Group{Kind: KindNotification, A: 42}, g)
	assert.Equal(t, "notifications_42", g.Name())
}

func TestParseGroup_Invalid(t *testing.T) {
	for _, name := range []string{
		"",
		"group_",
		"group_3",
		"group_7_3",
		"group_a_b",
		"group_0_1",
		"notifications_",
		"notifications_-1",
		"chat_1_2",
	} {
		_, err := ParseGroup(name)
		assert.ErrorIs(t, err, ErrInvalidGroup, name)
	}
}
