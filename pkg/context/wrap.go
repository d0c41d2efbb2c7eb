package context

import (
	"errors"

	"Socio/pkg/response"

	"github.com/gin-gonic/gin"
)

const CtxUserID = "user_id"

var ErrNoUser = errors.New("user_id 不存在")

type HandlerFunc func(*gin.Context) error

func Wrap(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {
			// 如果已经写过响应，直接返回
			if c.Writer.Written() {
				return
			}
			response.Render(c, err)
		}
	}
}

func GetUserID(c *gin.Context) (int64, error) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, ErrNoUser
	}

	uid, ok := v.(int64)
	if !ok {
		return 0, errors.New("user_id 类型错误")
	}

	return uid, nil
}
