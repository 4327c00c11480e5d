// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// BindSessionID 从 URI 绑定会话 ID
func BindSessionID(c *gin.Context) string {
	return c.Param("sid")
}

// BindTurnIndex 从 URI 绑定回合索引，非法值返回 -1
func BindTurnIndex(c *gin.Context) int {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return -1
	}
	return idx
}
