package sysapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/yockii/bionic_reader/internal/constant"
	"github.com/yockii/bionic_reader/internal/model"
	"github.com/yockii/bionic_reader/internal/service"
)

type ConversionHandler struct {
	recordService service.RecordService
}

func RegisterConversionHandler(recordService service.RecordService) {
	handler := &ConversionHandler{
		recordService: recordService,
	}
	Handlers = append(Handlers, handler)
}

func (h *ConversionHandler) RegisterRoutes(router fiber.Router, authMiddleware fiber.Handler) {
	r := router.Group("/conversion", authMiddleware)
	{
		r.Get("/get", h.Get)
		r.Get("/list", h.List)
	}
}

type ConversionQuery struct {
	Source   string `query:"source"`
	Format   string `query:"format"`
	Status   int    `query:"status"`
	ClientID string `query:"clientId"`
}

// Get godoc
// @Summary 查询转换记录
// @Tags conversion
// @Produce json
// @Security BearerAuth
// @Param id query string true "记录ID"
// @Success 200 {object} service.Response{data=model.Conversion}
// @Failure 404 {object} service.Response
// @Router /sys_api/v1/conversion/get [get]
func (h *ConversionHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	record, err := h.recordService.Get(c.Context(), id)
	if err != nil {
		return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
	}
	return c.JSON(service.OK(record))
}

// List godoc
// @Summary 转换记录列表
// @Tags conversion
// @Produce json
// @Security BearerAuth
// @Param source query string false "来源 text/pages/file"
// @Param format query string false "源格式"
// @Param status query int false "状态 1成功 2失败"
// @Param offset query int false "偏移"
// @Param limit query int false "数量"
// @Success 200 {object} service.Response{data=service.ListResponse}
// @Router /sys_api/v1/conversion/list [get]
func (h *ConversionHandler) List(c *fiber.Ctx) error {
	query := new(ConversionQuery)
	if err := c.QueryParser(query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit := c.QueryInt("limit", service.DefaultPageSize)
	if limit > service.MaxPageSize {
		limit = service.MaxPageSize
	}

	condition := &model.Conversion{
		Source:   query.Source,
		Format:   query.Format,
		Status:   query.Status,
		ClientID: query.ClientID,
	}
	list, total, err := h.recordService.List(c.Context(), condition, offset, limit)
	if err != nil {
		return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
	}
	return c.JSON(service.OK(service.NewListResponse(list, total, offset, limit)))
}
