package handler

import (
	"net/http"

	"Socio/config"
	"Socio/middleware"
	"Socio/pkg/jwt"
	"Socio/pkg/log"
	"Socio/pkg/pubsub"
	"Socio/pkg/socket"

	"go.uber.org/zap"
)

type Handler struct {
	Message      *MessageChannel
	Notification *NotificationChannel
	Config       *config.Config
}

// authenticate 握手阶段解析 token，失败不拒绝升级，由调用方发送说明帧后关闭
func authenticate(conf *config.Config, r *http.Request) (int64, bool) {
	token := middleware.TokenFromRequest(r)
	if token == "" {
		return 0, false
	}

	claims, err := jwt.ParseToken([]byte(conf.Jwt.Secret), jwt.TypeAccess, token)
	if err != nil {
		log.L.Debug("websocket token rejected", zap.Error(err))
		return 0, false
	}

	return claims.UserID, true
}

// reject 先下发 authentication_required 再按关闭码断开
func reject(conn socket.IConn, code int, message string) {
	ev := &pubsub.Event{Type: pubsub.EventAuthRequired, Message: message}
	if err := conn.Write(ev.Encode()); err != nil {
		log.L.Debug("websocket reject write", zap.Error(err))
	}
	_ = conn.Close(code, message)
}
