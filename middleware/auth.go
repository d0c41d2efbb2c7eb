package middleware

import (
	"net/http"
	"strings"

	"Socio/pkg/context"
	"Socio/pkg/jwt"
	"Socio/pkg/log"
	"Socio/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenFromRequest 优先 Authorization: Bearer，其次 ?token=（WebSocket 握手无法设置请求头）
func TokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "authentication credentials were not provided")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		claims, err := jwt.ParseToken(secret, jwt.TypeAccess, parts[1])
		if err != nil {
			log.L.Debug("parse token failed", zap.Error(err))
			response.Abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(context.CtxUserID, claims.UserID)

		c.Next()
	}
}
