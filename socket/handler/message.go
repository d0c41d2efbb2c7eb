package handler

import (
	"net/http"
	"strconv"

	"Socio/config"
	"Socio/dao/cache"
	"Socio/pkg/log"
	"Socio/pkg/pubsub"
	"Socio/pkg/response"
	"Socio/pkg/socket"
	"Socio/pkg/socket/adapter"
	"Socio/socket/handler/event"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgChatAuthRequired = "Authentication is required to access messages."

// MessageChannel 两人会话 /ws/messages/:receiver_id/
type MessageChannel struct {
	Config  *config.Config
	Room    *socket.RoomStorage
	Storage *cache.ClientStorage
	Event   *event.MessageEvent
}

// Conn 初始化连接
func (ch *MessageChannel) Conn(c *gin.Context) error {
	peer, err := strconv.ParseInt(c.Param("receiver_id"), 10, 64)
	if err != nil || peer <= 0 {
		return response.NewError(http.StatusBadRequest, "invalid receiver_id")
	}

	conn, err := adapter.NewWsAdapter(c.Writer, c.Request)
	if err != nil {
		log.L.Warn("websocket upgrade failed", zap.Error(err))
		return nil
	}

	uid, ok := authenticate(ch.Config, c.Request)
	if !ok {
		reject(conn, socket.CloseUnauthorized, msgChatAuthRequired)
		return nil
	}

	log.L.Info("message channel connected", zap.Int64("user_id", uid), zap.Int64("peer", peer))

	return ch.NewClient(uid, peer, conn)
}

func (ch *MessageChannel) NewClient(uid, peer int64, conn socket.IConn) error {
	return socket.NewClient(conn, &socket.ClientOption{
		Uid:     uid,
		Group:   pubsub.ConversationGroup(uid, peer),
		Channel: socket.Session.Messages,
		Room:    ch.Room,
		Storage: ch.Storage,
		Buffer:  ch.Config.Fanout.Buffer,
	}, socket.NewEvent(
		// 连接成功回调
		socket.WithOpenEvent(ch.Event.OnOpen),
		// 接收消息回调
		socket.WithMessageEvent(ch.Event.OnMessage),
		// 关闭连接回调
		socket.WithCloseEvent(ch.Event.OnClose),
	))
}
