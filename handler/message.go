package handler

import (
	"net/http"

	"Socio/config"
	"Socio/middleware"
	"Socio/pkg/context"
	"Socio/pkg/response"
	"Socio/service"
	"Socio/types"

	"github.com/gin-gonic/gin"
)

type Message struct {
	Config         *config.Config
	MessageService service.IMessageService
}

func (m *Message) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(m.Config.Jwt.Secret))
	g := r.Group("/messages", authorize)
	g.POST("/send/:receiver_id", context.Wrap(m.Send))
	g.DELETE("/delete/:id", context.Wrap(m.Delete))
	g.GET("/conversation/:user_id", context.Wrap(m.Conversation))
	g.GET("/conversation-partners", context.Wrap(m.Partners))
	g.GET("/unread_count", context.Wrap(m.UnreadCount))
}

// Send 发送私信，持久化后推送到会话组
func (m *Message) Send(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	receiver, err := paramID(c, "receiver_id")
	if err != nil {
		return err
	}

	var req types.SendMessageRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	item, err := m.MessageService.Send(c.Request.Context(), uid, receiver, req.Content)
	if err != nil {
		return bizError(err)
	}

	response.Created(c, item)
	return nil
}

func (m *Message) Delete(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := m.MessageService.Delete(c.Request.Context(), uid, id); err != nil {
		return bizError(err)
	}

	response.Success(c, gin.H{"deleted": true})
	return nil
}

// Conversation 会话详情，同时标记对方消息已读
func (m *Message) Conversation(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	peer, err := paramID(c, "user_id")
	if err != nil {
		return err
	}

	page, err := bindPage(c)
	if err != nil {
		return err
	}

	res, err := m.MessageService.Conversation(c.Request.Context(), uid, peer, page)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, res)
	return nil
}

func (m *Message) Partners(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	var req types.PartnersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(http.StatusBadRequest, "invalid query parameters")
	}
	req.Normalize()

	items, err := m.MessageService.Partners(c.Request.Context(), uid, &req)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, types.NewList(items, req.PageRequest))
	return nil
}

func (m *Message) UnreadCount(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	n, err := m.MessageService.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, types.UnreadCountResponse{UnreadCount: n})
	return nil
}
