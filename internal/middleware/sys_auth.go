package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/yockii/bionic_reader/internal/constant"
	"github.com/yockii/bionic_reader/internal/service"
)

// NewAuthMiddleware 创建认证中间件，required为false时没有token的请求直接放行
func NewAuthMiddleware(authService service.AuthService, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 获取token
		authorization := c.Get(fiber.HeaderAuthorization)
		token := strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
		if token == "" {
			if !required {
				return c.Next()
			}
			return c.Status(fiber.StatusUnauthorized).JSON(service.Error(constant.ErrUnauthorized))
		}

		// 验证token
		claims, err := authService.Verify(c.Context(), token)
		if err != nil {
			return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
		}

		// 将客户端信息存入上下文
		c.Locals(constant.LocalsClientID, claims.ClientID)

		return c.Next()
	}
}
