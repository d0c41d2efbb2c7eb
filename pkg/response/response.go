package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code: http.StatusOK,
		Msg:  "success",
		Data: data,
	})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{
		Code: http.StatusCreated,
		Msg:  "success",
		Data: data,
	})
}

// Fail 以 code 作为 HTTP 状态码输出错误
func Fail(c *gin.Context, code int, msg string) {
	status := code
	if http.StatusText(status) == "" {
		status = http.StatusInternalServerError
	}
	c.JSON(status, Response{
		Code: code,
		Msg:  msg,
	})
}
