package handler

import (
	gocontext "context"

	"Socio/config"
	"Socio/middleware"
	"Socio/pkg/context"
	"Socio/pkg/response"
	"Socio/service"
	"Socio/types"

	"github.com/gin-gonic/gin"
)

type Follow struct {
	Config        *config.Config
	FollowService service.IFollowService
}

func (f *Follow) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(f.Config.Jwt.Secret))
	r.POST("/follow/user/:user_id", authorize, context.Wrap(f.FollowUser))
	r.POST("/respond_follow_request/user/:follower_id", authorize, context.Wrap(f.Respond))
	r.POST("/unfollow/user/:user_id", authorize, context.Wrap(f.UnfollowUser))
	r.GET("/follower_list/:user_id", authorize, context.Wrap(f.Followers))
	r.GET("/following_list/:user_id", authorize, context.Wrap(f.Following))
}

// FollowUser 关注用户，私密账号进入待处理状态
func (f *Follow) FollowUser(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	target, err := paramID(c, "user_id")
	if err != nil {
		return err
	}

	res, err := f.FollowService.Follow(c.Request.Context(), uid, target)
	if err != nil {
		return bizError(err)
	}

	response.Created(c, res)
	return nil
}

// Respond 处理关注请求
func (f *Follow) Respond(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	follower, err := paramID(c, "follower_id")
	if err != nil {
		return err
	}

	var req types.RespondFollowRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	res, err := f.FollowService.Respond(c.Request.Context(), uid, follower, req.Action)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, res)
	return nil
}

// UnfollowUser 取消关注或撤回请求
func (f *Follow) UnfollowUser(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	target, err := paramID(c, "user_id")
	if err != nil {
		return err
	}

	changed, err := f.FollowService.Unfollow(c.Request.Context(), uid, target)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, gin.H{"unfollowed": changed})
	return nil
}

func (f *Follow) Followers(c *gin.Context) error {
	return f.list(c, f.FollowService.Followers)
}

func (f *Follow) Following(c *gin.Context) error {
	return f.list(c, f.FollowService.Following)
}

type followLister func(ctx gocontext.Context, viewer, uid int64, page types.PageRequest) ([]*types.FollowItem, error)

func (f *Follow) list(c *gin.Context, fetch followLister) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	target, err := paramID(c, "user_id")
	if err != nil {
		return err
	}

	page, err := bindPage(c)
	if err != nil {
		return err
	}

	items, err := fetch(c.Request.Context(), uid, target, page)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, types.NewList(items, page))
	return nil
}
