package event

import (
	"fmt"

	"Socio/pkg/log"
	"Socio/pkg/pubsub"
	"Socio/pkg/socket"
	"Socio/service"

	"go.uber.org/zap"
)

// NotificationEvent 通知连接只接收 ping 和 ack
type NotificationEvent struct {
	NotificationService service.INotificationService
}

func (e *NotificationEvent) OnOpen(client socket.IClient) {
	log.L.Debug("notification channel open",
		zap.Int64("cid", client.Cid()),
		zap.Int64("uid", client.Uid()),
		zap.String("tag", client.Tag()),
	)
}

func (e *NotificationEvent) OnMessage(client socket.IClient, data []byte) {
	typ, ok := frameType(data)
	if !ok {
		writeError(client, "invalid json")
		return
	}

	switch typ {
	case pubsub.EventPing:
		pong(client)
	case pubsub.EventAck:
		ids := ackIds(data)
		if len(ids) == 0 {
			writeError(client, "unique_identifier or ids is required")
			return
		}

		ctx, cancel := frameContext()
		defer cancel()

		if _, err := e.NotificationService.MarkRead(ctx, client.Uid(), ids); err != nil {
			writeErr(client, err)
		}
	default:
		writeError(client, fmt.Sprintf("unsupported event type: %s", typ))
	}
}

func (e *NotificationEvent) OnClose(client socket.IClient, code int, text string) {
	log.L.Debug("notification channel close",
		zap.Int64("cid", client.Cid()),
		zap.Int64("uid", client.Uid()),
		zap.Int("code", code),
	)
}
