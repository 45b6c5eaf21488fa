package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/yockii/bionic_reader/internal/constant"
)

// RequestID 为每个请求生成ID，客户端传入的 X-Request-ID 会被沿用
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		c.Locals(constant.LocalsRequestID, id)
		c.Set(fiber.HeaderXRequestID, id)
		return c.Next()
	}
}

// GetRequestID 读取请求ID
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(constant.LocalsRequestID).(string)
	return id
}

// GetClientID 读取已认证的客户端ID
func GetClientID(c *fiber.Ctx) string {
	id, _ := c.Locals(constant.LocalsClientID).(string)
	return id
}
