package appapi

import "github.com/gofiber/fiber/v2"

var Handlers []Handler

type Handler interface {
	RegisterRoutes(router fiber.Router)
}

/*
对调用方开放的转换接口：
1、纯文本转换为仿生阅读标记（受单词数上限限制，文件模式不限制）
2、外部提取的分页文本转换为标记
3、上传HTML/Markdown/DOCX文件，返回仿生阅读版DOCX
*/
