package sysapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/yockii/bionic_reader/internal/constant"
	"github.com/yockii/bionic_reader/internal/service"
	"github.com/yockii/bionic_reader/pkg/logger"
)

type TokenHandler struct {
	authService service.AuthService
}

func RegisterTokenHandler(authService service.AuthService) {
	handler := &TokenHandler{
		authService: authService,
	}
	Handlers = append(Handlers, handler)
}

func (h *TokenHandler) RegisterRoutes(router fiber.Router, _ fiber.Handler) {
	router.Post("/token", h.Token)
}

type TokenRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Token godoc
// @Summary 获取访问token
// @Description 使用配置中的客户端ID和密钥换取JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "客户端凭证"
// @Success 200 {object} service.Response{data=TokenResponse}
// @Failure 401 {object} service.Response
// @Router /sys_api/v1/token [post]
func (h *TokenHandler) Token(c *fiber.Ctx) error {
	var req TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	token, err := h.authService.Login(c.Context(), req.ClientID, req.ClientSecret)
	if err != nil {
		logger.Warn("客户端登录失败", logger.F(constant.LogFieldClientID, req.ClientID), logger.F("err", err))
		return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
	}
	return c.JSON(service.OK(TokenResponse{Token: token}))
}
