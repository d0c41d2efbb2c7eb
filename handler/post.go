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

type Post struct {
	Config      *config.Config
	PostService service.IPostService
	LikeService service.ILikeService
}

func (p *Post) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(p.Config.Jwt.Secret))

	posts := r.Group("/posts", authorize)
	posts.POST("", context.Wrap(p.Create))
	posts.GET("/:id", context.Wrap(p.Get))
	posts.PATCH("/:id", context.Wrap(p.Update))
	posts.DELETE("/:id", context.Wrap(p.Delete))

	post := r.Group("/post", authorize)
	post.POST("/:id/like", context.Wrap(p.Like))
	post.POST("/:id/unlike", context.Wrap(p.Unlike))
	post.GET("/:id/likers", context.Wrap(p.Likers))

	r.GET("/feed", authorize, context.Wrap(p.Feed))
	r.GET("/explore/posts", authorize, context.Wrap(p.Explore))
}

func (p *Post) Create(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	var req types.CreatePostRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	item, err := p.PostService.Create(c.Request.Context(), uid, &req)
	if err != nil {
		return bizError(err)
	}

	response.Created(c, item)
	return nil
}

func (p *Post) Get(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	item, err := p.PostService.Get(c.Request.Context(), uid, id)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, item)
	return nil
}

func (p *Post) Update(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req types.UpdatePostRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	item, err := p.PostService.Update(c.Request.Context(), uid, id, &req)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, item)
	return nil
}

func (p *Post) Delete(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := p.PostService.Delete(c.Request.Context(), uid, id); err != nil {
		return bizError(err)
	}

	response.Success(c, gin.H{"deleted": true})
	return nil
}

func (p *Post) Like(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	res, err := p.LikeService.Like(c.Request.Context(), uid, id)
	if err != nil {
		return bizError(err)
	}

	response.Created(c, res)
	return nil
}

func (p *Post) Unlike(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	res, err := p.LikeService.Unlike(c.Request.Context(), uid, id)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, res)
	return nil
}

func (p *Post) Likers(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	page, err := bindPage(c)
	if err != nil {
		return err
	}

	items, err := p.LikeService.Likers(c.Request.Context(), uid, id, page)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, types.NewList(items, page))
	return nil
}

// Feed 已关注用户的帖子
func (p *Post) Feed(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	page, err := bindPage(c)
	if err != nil {
		return err
	}

	items, err := p.PostService.Feed(c.Request.Context(), uid, page)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, types.NewList(items, page))
	return nil
}

// Explore 发现页
func (p *Post) Explore(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	page, err := bindPage(c)
	if err != nil {
		return err
	}

	items, err := p.PostService.Explore(c.Request.Context(), uid, page)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, types.NewList(items, page))
	return nil
}
