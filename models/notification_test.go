package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v int64) *int64 { return &v }

func TestNotification_Validate(t *testing.T) {
	cases := []struct {
		name string
		n    Notification
		err  error
	}{
		{"follow request", Notification{NotificationType: NotifyFollowRequest}, nil},
		{"like without post", Notification{NotificationType: NotifyNewLike}, ErrNotificationPost},
		{"like with post", Notification{NotificationType: NotifyNewLike, PostID: ptr(1)}, nil},
		{"comment without post", Notification{NotificationType: NotifyNewComment, CommentID: ptr(1)}, ErrNotificationPost},
		{"comment without comment", Notification{NotificationType: NotifyNewComment, PostID: ptr(1)}, ErrNotificationComment},
		{"comment complete", Notification{NotificationType: NotifyNewComment, PostID: ptr(1), CommentID: ptr(2)}, nil},
		{"unknown", Notification{NotificationType: "poke"}, ErrNotificationType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.n.Validate()
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}
}
