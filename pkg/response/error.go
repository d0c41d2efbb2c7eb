package response

import (
	"errors"
	"net/http"

	"Socio/pkg/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const MsgInternal = "internal error"

type BizError struct {
	Code int
	Msg  string
}

func (e *BizError) Error() string {
	return e.Msg
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.L.Error("panic recovered", zap.Any("panic", r), zap.String("path", c.Request.URL.Path))
				Abort(c, http.StatusInternalServerError, MsgInternal)
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			Render(c, c.Errors.Last().Err)
			c.Abort()
		}
	}
}

// Render 业务错误按自身状态码输出，其余一律 500 且不暴露细节
func Render(c *gin.Context, err error) {
	var be *BizError
	if errors.As(err, &be) {
		Fail(c, be.Code, be.Msg)
		return
	}

	log.L.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	Fail(c, http.StatusInternalServerError, MsgInternal)
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: nil,
	})
}
