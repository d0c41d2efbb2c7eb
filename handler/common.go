package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Socio/pkg/context"
	"Socio/pkg/response"
	"Socio/service"
	"Socio/types"

	"github.com/gin-gonic/gin"
)

// bizError 业务错误转换为对应的 HTTP 状态码，其余错误原样返回由 Wrap 输出 500
func bizError(err error) error {
	var se *service.Error
	if !errors.As(err, &se) {
		return err
	}

	switch {
	case errors.Is(se.Kind, service.ErrNotFound):
		return response.NewError(http.StatusNotFound, se.Msg)
	case errors.Is(se.Kind, service.ErrForbidden):
		return response.NewError(http.StatusForbidden, se.Msg)
	case errors.Is(se.Kind, service.ErrConflict):
		return response.NewError(http.StatusConflict, se.Msg)
	case errors.Is(se.Kind, service.ErrInvalid):
		return response.NewError(http.StatusBadRequest, se.Msg)
	}
	return err
}

func paramID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, response.NewError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func currentUser(c *gin.Context) (int64, error) {
	uid, err := context.GetUserID(c)
	if err != nil {
		return 0, response.NewError(http.StatusUnauthorized, "authentication credentials were not provided")
	}
	return uid, nil
}

func bindPage(c *gin.Context) (types.PageRequest, error) {
	var page types.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		return page, response.NewError(http.StatusBadRequest, "invalid pagination parameters")
	}
	page.Normalize()
	return page, nil
}

func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	return nil
}
