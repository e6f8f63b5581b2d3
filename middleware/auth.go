package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"minilibrary_go/config"
	"minilibrary_go/models"
	"minilibrary_go/utils"
)

// AuthMiddleware 认证中间件
// 验证Bearer token，将用户ID和角色写入上下文
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "Access denied. No token provided.")
			c.Abort()
			return
		}

		// 移除 "Bearer " 前缀
		tokenString := authHeader
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = authHeader[7:]
		}

		claims, err := config.GetJWTService().ValidateToken(tokenString)
		if err != nil {
			utils.Error(c, 401, "Invalid token.")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", string(claims.Role))
		c.Next()
	}
}

// AdminMiddleware 管理员角色检查，必须在 AuthMiddleware 之后使用
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch models.Role(c.GetString("role")) {
		case models.RoleAdmin:
			c.Next()
		case models.RoleUser:
			utils.Error(c, 403, "Forbidden: You are not authorized to perform this action")
			c.Abort()
		default:
			utils.Error(c, 403, "Forbidden: You are not authorized to perform this action")
			c.Abort()
		}
	}
}
