package public

import (
	"github.com/vesti-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// getUserID 从认证中间件注入的上下文取当前用户 ID
func getUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "未登录")
		c.Abort()
		return 0, false
	}
	uid, ok := value.(uint)
	if !ok || uid == 0 {
		response.Unauthorized(c, "登录状态无效")
		c.Abort()
		return 0, false
	}
	return uid, true
}
