package socket

import (
	"context"
	"strconv"
	"time"

	"Socio/pkg/pubsub"
	"Socio/pkg/timewheel"
)

const (
	heartbeatInterval = 10 // 心跳检测间隔时间
	heartbeatTimeout  = 35 // 心跳检测超时时间（超时时间是隔间检测时间的2.5倍以上）
)

var health *heartbeat

// 客户端心跳管理
type heartbeat struct {
	timeWheel *timewheel.SimpleTimeWheel[*Client]
}

func init() {
	health = &heartbeat{}
	health.timeWheel = timewheel.NewSimpleTimeWheel[*Client](1*time.Second, 100, health.handle)
}

func (h *heartbeat) Start(ctx context.Context) error {
	go h.timeWheel.Start()

	<-ctx.Done()

	h.timeWheel.Stop()

	return nil
}

func (h *heartbeat) insert(c *Client) {
	h.timeWheel.Add(strconv.FormatInt(c.cid, 10), c, time.Duration(heartbeatInterval)*time.Second)
}

func (h *heartbeat) delete(c *Client) {
	h.timeWheel.Remove(strconv.FormatInt(c.cid, 10))
}

func (h *heartbeat) handle(timeWheel *timewheel.SimpleTimeWheel[*Client], key string, c *Client) {
	if c.Closed() {
		return
	}

	interval := int(time.Now().Unix() - c.lastActive())

	if interval > heartbeatTimeout {
		c.Close(CloseHeartbeat, "heartbeat timeout")
		return
	}

	if interval >= heartbeatInterval {
		_ = c.WriteEvent(&pubsub.Event{Type: pubsub.EventPing})
	}

	nextCheck := heartbeatInterval
	if interval < heartbeatInterval {
		nextCheck = heartbeatInterval - interval + 1
	}

	timeWheel.Add(key, c, time.Duration(nextCheck)*time.Second)
}
