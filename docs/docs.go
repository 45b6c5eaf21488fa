// Package docs 接口文档，路由注释变更后用 swag init 重新生成
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/convert/text": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["convert"],
                "summary": "文本转换",
                "parameters": [
                    {"description": "转换请求", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.TextRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/service.Response"}}
                }
            }
        },
        "/api/v1/convert/pages": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["convert"],
                "summary": "分页文本转换",
                "parameters": [
                    {"description": "分页文本", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.PagesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Response"}}
                }
            }
        },
        "/api/v1/convert/file": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/json"],
                "tags": ["convert"],
                "summary": "文件转换",
                "parameters": [
                    {"type": "file", "description": "HTML/Markdown/DOCX/TXT文件", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/service.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/service.Response"}}
                }
            }
        },
        "/sys_api/v1/token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "获取访问token",
                "parameters": [
                    {"description": "客户端凭证", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/sysapi.TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/service.Response"}}
                }
            }
        },
        "/sys_api/v1/conversion/get": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["conversion"],
                "summary": "查询转换记录",
                "parameters": [
                    {"type": "string", "description": "记录ID", "name": "id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/service.Response"}}
                }
            }
        },
        "/sys_api/v1/conversion/list": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["conversion"],
                "summary": "转换记录列表",
                "parameters": [
                    {"type": "string", "name": "source", "in": "query"},
                    {"type": "string", "name": "format", "in": "query"},
                    {"type": "integer", "name": "status", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Response"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "健康检查",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Response"}}
                }
            }
        }
    },
    "definitions": {
        "service.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "service.TextRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "fileMode": {"type": "boolean"}
            }
        },
        "service.PagesRequest": {
            "type": "object",
            "properties": {
                "pages": {"type": "array", "items": {"type": "string"}}
            }
        },
        "sysapi.TokenRequest": {
            "type": "object",
            "properties": {
                "clientId": {"type": "string"},
                "clientSecret": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Bionic Reader API",
	Description:      "仿生阅读转换服务",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
