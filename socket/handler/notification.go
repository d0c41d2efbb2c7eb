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

const (
	msgAuthRequired = "Authentication is required to access notifications."
	msgNotOwner     = "You can only subscribe to your own notifications."
)

// NotificationChannel 用户通知推送 /ws/notifications/:user_id/
type NotificationChannel struct {
	Config  *config.Config
	Room    *socket.RoomStorage
	Storage *cache.ClientStorage
	Event   *event.NotificationEvent
}

// Conn 初始化连接
func (ch *NotificationChannel) Conn(c *gin.Context) error {
	target, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || target <= 0 {
		return response.NewError(http.StatusBadRequest, "invalid user_id")
	}

	conn, err := adapter.NewWsAdapter(c.Writer, c.Request)
	if err != nil {
		// Upgrade 失败时已写入 HTTP 错误
		log.L.Warn("websocket upgrade failed", zap.Error(err))
		return nil
	}

	uid, ok := authenticate(ch.Config, c.Request)
	if !ok {
		reject(conn, socket.CloseUnauthorized, msgAuthRequired)
		return nil
	}
	if uid != target {
		reject(conn, socket.CloseForbidden, msgNotOwner)
		return nil
	}

	log.L.Info("notification channel connected", zap.Int64("user_id", uid))

	return ch.NewClient(uid, conn)
}

func (ch *NotificationChannel) NewClient(uid int64, conn socket.IConn) error {
	return socket.NewClient(conn, &socket.ClientOption{
		Uid:     uid,
		Group:   pubsub.NotificationGroup(uid),
		Channel: socket.Session.Notifications,
		Room:    ch.Room,
		Storage: ch.Storage,
		Buffer:  ch.Config.Fanout.Buffer,
	}, socket.NewEvent(
		socket.WithOpenEvent(ch.Event.OnOpen),
		socket.WithMessageEvent(ch.Event.OnMessage),
		socket.WithCloseEvent(ch.Event.OnClose),
	))
}
