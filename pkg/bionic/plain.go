package bionic

import (
	"html"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultWordLimit 文本模式下的默认单词上限
	DefaultWordLimit = 300

	emphasisOpen  = "<b>"
	emphasisClose = "</b>"
	lineBreak     = "<br>"
)

// Emphasize 返回单个单词的强调标记形式
func Emphasize(word string) string {
	prefix, suffix := Split(word)
	return emphasisOpen + html.EscapeString(prefix) + emphasisClose + html.EscapeString(suffix)
}

// RenderPlain 将纯文本渲染为仿生阅读标记字符串
// wordLimit <= 0 表示不限制单词数，输入先做NFC规范化
func RenderPlain(text string, wordLimit int) string {
	text = norm.NFC.String(strings.ReplaceAll(text, "\r\n", "\n"))
	if wordLimit > 0 {
		text, _ = Truncate(text, wordLimit)
	}

	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		words := strings.Split(paragraph, " ")
		for i, word := range words {
			if word == "" {
				continue
			}
			words[i] = Emphasize(word)
		}
		out = append(out, strings.Join(words, " "))
	}
	return strings.Join(out, lineBreak)
}

// RenderPages 渲染外部文本提取器给出的分页文本，每页后追加一个空格，不限制单词数
func RenderPages(pages []string) string {
	var sb strings.Builder
	for _, page := range pages {
		sb.WriteString(page)
		sb.WriteByte(' ')
	}
	return RenderPlain(sb.String(), 0)
}

// Truncate 截取文本的前 limit 个以空白分隔的单词，保留原有的分隔符（包括换行）
// 第二个返回值表示是否发生了截断
func Truncate(text string, limit int) (string, bool) {
	if limit <= 0 {
		return text, false
	}
	count := 0
	inWord := false
	for i := 0; i < len(text); i++ {
		if IsSpace(text[i]) {
			if inWord {
				inWord = false
				if count == limit {
					return text[:i], strings.TrimLeft(text[i:], " \t\n\r\f\v") != ""
				}
			}
			continue
		}
		if !inWord {
			inWord = true
			count++
		}
	}
	return text, false
}

// CountWords 统计以空白分隔的单词数
func CountWords(text string) int {
	return len(strings.FieldsFunc(text, func(r rune) bool {
		return r < 0x80 && IsSpace(byte(r))
	}))
}

// IsSpace 判断是否为ASCII空白（空格、制表、换行、回车、换页、垂直制表）
func IsSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
