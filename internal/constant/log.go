package constant

// 日志字段名
const (
	LogFieldRequestID = "request_id"
	LogFieldClientID  = "client_id"
	LogFieldFileName  = "file_name"
	LogFieldFormat    = "format"
	LogFieldDuration  = "duration"
)

// 请求上下文中保存的键
const (
	LocalsRequestID = "requestId"
	LocalsClientID  = "clientId"
)
