package appapi

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/yockii/bionic_reader/internal/constant"
	"github.com/yockii/bionic_reader/internal/middleware"
	"github.com/yockii/bionic_reader/internal/service"
	"github.com/yockii/bionic_reader/pkg/logger"
)

type ConvertHandler struct {
	conversionService service.ConversionService
	maxFileBytes      int64
}

func RegisterConvertHandler(conversionService service.ConversionService, maxFileBytes int64) {
	handler := &ConvertHandler{
		conversionService: conversionService,
		maxFileBytes:      maxFileBytes,
	}
	Handlers = append(Handlers, handler)
}

func (h *ConvertHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/convert/text", h.ConvertText)
	router.Post("/convert/pages", h.ConvertPages)
	router.Post("/convert/file", h.ConvertFile)
}

// ConvertText godoc
// @Summary 文本转换
// @Description 将纯文本转换为仿生阅读标记，非文件模式最多处理配置的单词数
// @Tags convert
// @Accept json
// @Produce json
// @Param request body service.TextRequest true "转换请求"
// @Success 200 {object} service.Response{data=service.TextResult}
// @Failure 400 {object} service.Response
// @Router /api/v1/convert/text [post]
func (h *ConvertHandler) ConvertText(c *fiber.Ctx) error {
	var req service.TextRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("解析文本转换参数失败", logger.F("err", err))
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	req.ClientID = middleware.GetClientID(c)
	req.RequestID = middleware.GetRequestID(c)

	result, err := h.conversionService.RenderText(c.Context(), &req)
	if err != nil {
		return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
	}
	return c.JSON(service.OK(result))
}

// ConvertPages godoc
// @Summary 分页文本转换
// @Description 将外部提取的分页文本转换为仿生阅读标记，不限制单词数
// @Tags convert
// @Accept json
// @Produce json
// @Param request body service.PagesRequest true "分页文本"
// @Success 200 {object} service.Response{data=service.TextResult}
// @Failure 400 {object} service.Response
// @Router /api/v1/convert/pages [post]
func (h *ConvertHandler) ConvertPages(c *fiber.Ctx) error {
	var req service.PagesRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("解析分页转换参数失败", logger.F("err", err))
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	req.ClientID = middleware.GetClientID(c)
	req.RequestID = middleware.GetRequestID(c)

	result, err := h.conversionService.RenderPages(c.Context(), &req)
	if err != nil {
		return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
	}
	return c.JSON(service.OK(result))
}

// ConvertFile godoc
// @Summary 文件转换
// @Description 上传HTML、Markdown或DOCX文件，返回仿生阅读版DOCX；纯文本文件返回标记
// @Tags convert
// @Accept multipart/form-data
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Produce json
// @Param file formData file true "源文件"
// @Success 200 {file} file
// @Failure 400 {object} service.Response
// @Failure 415 {object} service.Response
// @Failure 422 {object} service.Response
// @Router /api/v1/convert/file [post]
func (h *ConvertHandler) ConvertFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	if h.maxFileBytes > 0 && fileHeader.Size > h.maxFileBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(service.Error(constant.ErrFileTooLarge))
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("打开上传文件失败", logger.F("err", err))
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error("读取上传文件失败", logger.F("err", err))
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}

	result, err := h.conversionService.ConvertFile(c.Context(), &service.FileRequest{
		Name:      fileHeader.Filename,
		Data:      data,
		ClientID:  middleware.GetClientID(c),
		RequestID: middleware.GetRequestID(c),
	})
	if err != nil {
		return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
	}

	// 纯文本文件直接返回标记
	if result.Markup != nil {
		return c.JSON(service.OK(result))
	}

	c.Attachment(result.FileName)
	c.Set(fiber.HeaderContentType, result.ContentType)
	return c.Send(result.Data)
}
