package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/mathraaj222-gif/trainmice-mvp-production/pkg/response"
)

// Identity 网关身份中间件
//
// 认证与会话管理由上游网关负责（本服务不做 Token 校验），
// 网关在转发时注入 X-User-ID 请求头。此中间件只负责把身份
// 透传到 gin.Context，缺失时拒绝请求。
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
