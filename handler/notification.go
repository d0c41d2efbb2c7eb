package handler

import (
	"Socio/config"
	"Socio/middleware"
	"Socio/pkg/context"
	"Socio/pkg/response"
	"Socio/service"
	"Socio/types"

	"github.com/gin-gonic/gin"
)

type Notification struct {
	Config              *config.Config
	NotificationService service.INotificationService
}

func (n *Notification) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(n.Config.Jwt.Secret))
	g := r.Group("/notifications", authorize)
	g.GET("", context.Wrap(n.List))
	g.GET("/unread_count", context.Wrap(n.UnreadCount))
	g.POST("/read", context.Wrap(n.MarkRead))
}

// List 通知列表，返回的未读通知会被标记为已读
func (n *Notification) List(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	page, err := bindPage(c)
	if err != nil {
		return err
	}

	items, err := n.NotificationService.List(c.Request.Context(), uid, page)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, types.NewList(items, page))
	return nil
}

func (n *Notification) UnreadCount(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	count, err := n.NotificationService.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, types.UnreadCountResponse{UnreadCount: count})
	return nil
}

// MarkRead ids 为空时全部标记已读
func (n *Notification) MarkRead(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	var req types.MarkReadRequest
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &req); err != nil {
			return err
		}
	}

	var marked int64
	if len(req.Ids) == 0 {
		marked, err = n.NotificationService.MarkAllRead(c.Request.Context(), uid)
	} else {
		marked, err = n.NotificationService.MarkRead(c.Request.Context(), uid, req.Ids)
	}
	if err != nil {
		return bizError(err)
	}

	response.Success(c, gin.H{"marked": marked})
	return nil
}
