package service

import (
	"context"
	"net/http"

	"github.com/yockii/bionic_reader/internal/constant"
	"github.com/yockii/bionic_reader/internal/model"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ConversionService interface {
	// RenderText 纯文本转换为仿生标记，FileMode为false时受单词数上限限制
	RenderText(ctx context.Context, req *TextRequest) (*TextResult, error)
	// RenderPages 按页拼接文本后转换，不限制单词数
	RenderPages(ctx context.Context, req *PagesRequest) (*TextResult, error)
	// ConvertFile 识别文件格式并转换，富文本格式输出DOCX
	ConvertFile(ctx context.Context, req *FileRequest) (*FileResult, error)
}

type RecordService interface {
	Create(ctx context.Context, record *model.Conversion) error
	Get(ctx context.Context, id uint64) (*model.Conversion, error)
	List(ctx context.Context, condition *model.Conversion, offset, limit int) ([]*model.Conversion, int64, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type CacheService interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Enabled() bool
}

type AuthService interface {
	Login(ctx context.Context, clientID, secret string) (string, error)
	Verify(ctx context.Context, token string) (*Claims, error)
}

// /////////////////////////////
// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func OK(data interface{}) *Response {
	return NewResponse(data, nil)
}

func Error(err error) *Response {
	return NewResponse(nil, err)
}

// NewResponse 创建响应
func NewResponse(data interface{}, err error) *Response {
	if err == nil {
		return &Response{
			Code:    http.StatusOK,
			Message: "success",
			Data:    data,
		}
	}

	code := constant.GetErrorCode(err)
	return &Response{
		Code:    code,
		Message: err.Error(),
		Data:    data,
	}
}

// ListResponse 列表响应结构
type ListResponse struct {
	Total  int64       `json:"total"`
	Items  interface{} `json:"items"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}

// NewListResponse 创建列表响应
func NewListResponse(items interface{}, total int64, offset, limit int) *ListResponse {
	return &ListResponse{
		Total:  total,
		Items:  items,
		Offset: offset,
		Limit:  limit,
	}
}
