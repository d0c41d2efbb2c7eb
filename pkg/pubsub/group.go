package pubsub

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	conversationPrefix = "group_"
	notificationPrefix = "notifications_"
)

var ErrInvalidGroup = errors.New("invalid group name")

type Kind int

const (
	KindConversation Kind = iota + 1
	KindNotification
)

// Group 解析后的分组
// 会话组 A <= B；通知组只有 A
type Group struct {
	Kind Kind
	A    int64
	B    int64
}

// ConversationGroup 两人会话的广播组，与参数顺序无关
func ConversationGroup(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s%d_%d", conversationPrefix, a, b)
}

// NotificationGroup 用户的通知广播组
func NotificationGroup(uid int64) string {
	return fmt.Sprintf("%s%d", notificationPrefix, uid)
}

func ParseGroup(name string) (Group, error) {
	switch {
	case strings.HasPrefix(name, notificationPrefix):
		uid, err := parseID(strings.TrimPrefix(name, notificationPrefix))
		if err != nil {
			return Group{}, fmt.Errorf("%w: %s", ErrInvalidGroup, name)
		}
		return Group{Kind: KindNotification, A: uid}, nil

	case strings.HasPrefix(name, conversationPrefix):
		a, b, ok := strings.Cut(strings.TrimPrefix(name, conversationPrefix), "_")
		if !ok {
			return Group{}, fmt.Errorf("%w: %s", ErrInvalidGroup, name)
		}
		x, err1 := parseID(a)
		y, err2 := parseID(b)
		if err1 != nil || err2 != nil || x > y {
			return Group{}, fmt.Errorf("%w: %s", ErrInvalidGroup, name)
		}
		return Group{Kind: KindConversation, A: x, B: y}, nil
	}

	return Group{}, fmt.Errorf("%w: %s", ErrInvalidGroup, name)
}

func (g Group) Name() string {
	if g.Kind == KindNotification {
		return NotificationGroup(g.A)
	}
	return ConversationGroup(g.A, g.B)
}

// Peer 会话组中 uid 的对端
func (g Group) Peer(uid int64) (int64, bool) {
	if g.Kind != KindConversation {
		return 0, false
	}
	switch uid {
	case g.A:
		return g.B, true
	case g.B:
		return g.A, true
	}
	return 0, false
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, ErrInvalidGroup
	}
	return id, nil
}
