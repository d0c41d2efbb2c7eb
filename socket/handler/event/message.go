package event

import (
	"context"
	"fmt"
	"sync"

	"Socio/pkg/log"
	"Socio/pkg/pubsub"
	"Socio/pkg/socket"
	"Socio/service"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type handle func(ctx context.Context, client socket.IClient, peer int64, data []byte) error

// MessageEvent 会话连接的事件回调
type MessageEvent struct {
	MessageService service.IMessageService
	Publisher      service.IPublisher

	once     sync.Once         `wire:"-"`
	handlers map[string]handle `wire:"-"`
}

func (e *MessageEvent) init() {
	e.handlers = map[string]handle{
		pubsub.EventMessage: e.onMessage,
		pubsub.EventTyping:  e.onTyping,
		pubsub.EventAck:     e.onAck,
	}
}

// OnOpen 连接成功回调
func (e *MessageEvent) OnOpen(client socket.IClient) {
	log.L.Debug("message channel open",
		zap.Int64("cid", client.Cid()),
		zap.Int64("uid", client.Uid()),
		zap.String("group", client.Group()),
		zap.String("tag", client.Tag()),
	)
}

// OnMessage 按 type 分发入站帧
func (e *MessageEvent) OnMessage(client socket.IClient, data []byte) {
	typ, ok := frameType(data)
	if !ok {
		writeError(client, "invalid json")
		return
	}

	// 兼容只带 content 的旧客户端
	if typ == "" && gjson.GetBytes(data, "content").Exists() {
		typ = pubsub.EventMessage
	}

	if typ == pubsub.EventPing {
		pong(client)
		return
	}

	e.once.Do(e.init)

	call, ok := e.handlers[typ]
	if !ok {
		writeError(client, fmt.Sprintf("unsupported event type: %s", typ))
		return
	}

	group, err := pubsub.ParseGroup(client.Group())
	if err != nil {
		writeError(client, "invalid conversation")
		return
	}
	peer, ok := group.Peer(client.Uid())
	if !ok {
		writeError(client, "invalid conversation")
		return
	}

	ctx, cancel := frameContext()
	defer cancel()

	if err := call(ctx, client, peer, data); err != nil {
		writeErr(client, err)
	}
}

// OnClose 连接关闭回调
func (e *MessageEvent) OnClose(client socket.IClient, code int, text string) {
	log.L.Debug("message channel close",
		zap.Int64("cid", client.Cid()),
		zap.Int64("uid", client.Uid()),
		zap.Int("code", code),
		zap.String("text", text),
	)
}

// onMessage 先持久化，推送由 MessageService 完成
func (e *MessageEvent) onMessage(ctx context.Context, client socket.IClient, peer int64, data []byte) error {
	content := gjson.GetBytes(data, "content").String()
	_, err := e.MessageService.Send(ctx, client.Uid(), peer, content)
	return err
}

// onTyping 输入状态只转发不落库
func (e *MessageEvent) onTyping(ctx context.Context, client socket.IClient, peer int64, _ []byte) error {
	e.Publisher.NotifyConversation(ctx, client.Uid(), peer, &pubsub.Event{
		Type:      pubsub.EventTyping,
		Sender:    client.Uid(),
		Recipient: peer,
	})
	return nil
}

func (e *MessageEvent) onAck(ctx context.Context, client socket.IClient, _ int64, data []byte) error {
	ids := ackIds(data)
	if len(ids) == 0 {
		writeError(client, "unique_identifier or ids is required")
		return nil
	}

	_, err := e.MessageService.MarkRead(ctx, client.Uid(), ids)
	return err
}
