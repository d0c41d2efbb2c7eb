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

type User struct {
	Config      *config.Config
	UserService service.IUserService
}

func (u *User) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(u.Config.Jwt.Secret))
	r.GET("/users/search", authorize, context.Wrap(u.Search))
	r.GET("/user/profile/:user_id", authorize, context.Wrap(u.Profile))
	r.POST("/user/change_profile_privacy", authorize, context.Wrap(u.ChangePrivacy))
}

// Search 按用户名搜索
func (u *User) Search(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	var req types.SearchUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(http.StatusBadRequest, "invalid search parameters")
	}
	req.Normalize()

	items, err := u.UserService.SearchUsers(c.Request.Context(), uid, &req)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, types.NewList(items, req.PageRequest))
	return nil
}

// Profile 用户主页
func (u *User) Profile(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	target, err := paramID(c, "user_id")
	if err != nil {
		return err
	}

	profile, err := u.UserService.GetProfile(c.Request.Context(), uid, target)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, profile)
	return nil
}

// ChangePrivacy 切换公开/私密
func (u *User) ChangePrivacy(c *gin.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	var req types.ChangePrivacyRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	res, err := u.UserService.ChangePrivacy(c.Request.Context(), uid, req.ProfilePrivacy)
	if err != nil {
		return bizError(err)
	}

	response.Success(c, res)
	return nil
}
