package router

import (
	"net/http"
	"net/http/pprof"

	"Socio/config"
	"Socio/middleware"
	"Socio/pkg/context"
	"Socio/pkg/node"
	"Socio/pkg/response"
	"Socio/pkg/socket"
	"Socio/socket/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter 初始化配置路由
func NewRouter(conf *config.Config, handle *handler.Handler) *gin.Engine {
	router := gin.New()
	router.Use(middleware.GinZap(), response.ErrorMiddleware())

	ws := router.Group("/ws")
	{
		ws.GET("/messages/:receiver_id/", context.Wrap(handle.Message.Conn))
		ws.GET("/notifications/:user_id/", context.Wrap(handle.Notification.Conn))
	}

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{
			"status":        "ok",
			"server_id":     node.ID(),
			"messages":      socket.Session.Messages.Count(),
			"notifications": socket.Session.Notifications.Count(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "not found")
	})

	if conf.Debug() {
		debug := router.Group("/debug")
		{
			debug.GET("/", gin.WrapF(pprof.Index))
			debug.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			debug.GET("/profile", gin.WrapF(pprof.Profile))
			debug.POST("/symbol", gin.WrapF(pprof.Symbol))
			debug.GET("/symbol", gin.WrapF(pprof.Symbol))
			debug.GET("/trace", gin.WrapF(pprof.Trace))
			debug.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
			debug.GET("/heap", gin.WrapH(pprof.Handler("heap")))
		}
	}

	return router
}
