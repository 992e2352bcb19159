package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrBody struct {
	Error string `json:"error"`
}

func OK(c *gin.Context, data any) { c.JSON(http.StatusOK, data) }

func Created(c *gin.Context, data any) { c.JSON(http.StatusCreated, data) }

func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrBody{Error: msg})
}

func AbortFail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrBody{Error: msg})
}

// Err 按域错误映射状态码和文案，原始错误挂到 gin 错误栈供访问日志输出
func Err(c *gin.Context, err error) {
	_ = c.Error(err)
	Fail(c, StatusOf(err), MessageOf(err))
}
