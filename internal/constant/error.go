package constant

import (
	"errors"
	"net/http"
)

// 自定义错误
var (
	// 通用错误
	ErrInternalError     = errors.New("内部错误")
	ErrInvalidParams     = errors.New("参数错误")
	ErrUnauthorized      = errors.New("未授权")
	ErrForbidden         = errors.New("禁止访问")
	ErrDatabaseError     = errors.New("数据库错误")
	ErrInvalidToken      = errors.New("无效的token")
	ErrInvalidCredential = errors.New("凭证错误")
	ErrTokenExpired      = errors.New("token已过期")
	ErrRecordNotFound    = errors.New("记录不存在")
	ErrRecordIDEmpty     = errors.New("ID不能为空")
	ErrSerializeError    = errors.New("序列化错误")
	ErrCacheError        = errors.New("缓存错误")
	ErrTooManyRequests   = errors.New("请求过于频繁")

	// 转换相关错误
	ErrExtractionFailed  = errors.New("无法解析文档内容")
	ErrEmptyResult       = errors.New("没有可转换的内容")
	ErrUnsupportedFormat = errors.New("不支持的文件格式")
	ErrPDFNotSupported   = errors.New("不支持直接上传PDF，请先提取页面文本后调用页面转换接口")
	ErrFileTooLarge      = errors.New("文件过大")
)

// 获取错误对应的HTTP状态码
func GetErrorCode(err error) int {
	switch {
	// 通用错误
	case errors.Is(err, ErrInternalError):
		return http.StatusInternalServerError
	case errors.Is(err, ErrInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrDatabaseError):
		return http.StatusInternalServerError
	case errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRecordIDEmpty):
		return http.StatusBadRequest
	case errors.Is(err, ErrSerializeError):
		return http.StatusInternalServerError
	case errors.Is(err, ErrCacheError):
		return http.StatusInternalServerError
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests

	// 转换相关错误
	case errors.Is(err, ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrEmptyResult):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrPDFNotSupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge

	default:
		return http.StatusInternalServerError
	}
}
