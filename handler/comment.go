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

type Comment struct {
	Config         *config.Config
	CommentService service.ICommentService
}

func (h *Comment) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	r.POST("/comment/post/:post_id", authorize, context.Wrap(h.Create))
	r.PATCH("/comment/:id", authorize, context.Wrap(h.Update))
	r.DELETE("/comment/:id", authorize, context.Wrap(h.Delete))
	r.GET("/comments/post/:post_id", authorize, context.Wrap(h.List))
}

func (h *Comment) Create(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	postID, err := paramID(c, "post_id")
	if err != nil {
		return err
	}

	var req types.CommentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	item, err := h.CommentService.Create(c.Request.Context(), uid, postID, req.Content)
	if err != nil {
		return bizError(err)
	}

	response.Created(c, item)
	return nil
}

func (h *Comment) Update(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req types.CommentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	item, err := h.CommentService.Update(c.Request.Context(), uid, id, req.Content)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, item)
	return nil
}

func (h *Comment) Delete(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.CommentService.Delete(c.Request.Context(), uid, id); err != nil {
		return bizError(err)
	}

	response.Success(c, gin.H{"deleted": true})
	return nil
}

func (h *Comment) List(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	postID, err := paramID(c, "post_id")
	if err != nil {
		return err
	}

	page, err := bindPage(c)
	if err != nil {
		return err
	}

	items, err := h.CommentService.List(c.Request.Context(), uid, postID, page)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, types.NewList(items, page))
	return nil
}
