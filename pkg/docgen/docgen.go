package docgen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"github.com/h2non/filetype"
	"golang.org/x/text/unicode/norm"
)

// SourceFormat 源文档格式
type SourceFormat int

const (
	FormatUnknown SourceFormat = iota
	FormatText
	FormatHTML
	FormatMarkdown
	FormatDocx
	FormatPDF
)

func (f SourceFormat) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatHTML:
		return "html"
	case FormatMarkdown:
		return "markdown"
	case FormatDocx:
		return "docx"
	case FormatPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// ParseSourceFormat 根据名称解析格式，无法识别时返回 FormatUnknown
func ParseSourceFormat(name string) SourceFormat {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "txt":
		return FormatText
	case "html", "htm":
		return FormatHTML
	case "markdown", "md":
		return FormatMarkdown
	case "docx":
		return FormatDocx
	case "pdf":
		return FormatPDF
	default:
		return FormatUnknown
	}
}

// DetectFormat 先按文件头识别，再按扩展名，最后按内容猜测
func DetectFormat(name string, data []byte) SourceFormat {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		switch kind.Extension {
		case "docx":
			return FormatDocx
		case "pdf":
			return FormatPDF
		case "zip":
			if ext == "docx" {
				return FormatDocx
			}
			return FormatUnknown
		}
	}

	switch ext {
	case "docx":
		return FormatDocx
	case "pdf":
		return FormatPDF
	case "md", "markdown", "mdown":
		return FormatMarkdown
	case "html", "htm", "xhtml":
		return FormatHTML
	case "txt", "text":
		return FormatText
	}

	if !utf8.Valid(data) {
		return FormatUnknown
	}
	head := strings.ToLower(strings.TrimSpace(string(data[:min(len(data), 512)])))
	if strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body") || strings.HasPrefix(head, "<p") || strings.HasPrefix(head, "<div") {
		return FormatHTML
	}
	return FormatText
}

// SuggestFileName 在原文件名后加上 _bionic，输出总是 .docx
func SuggestFileName(original string, slugify bool) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if slugify {
		stem = slug.Make(stem)
	}
	if stem == "" || stem == "." || stem == "/" {
		stem = "document"
	}
	return stem + "_bionic.docx"
}

// DocGenerator Word文档生成器
type DocGenerator struct {
	converter *HtmlConverter
	builder   *Builder
	docx      *DocxBuilder
}

// NewDocGenerator 创建一个新的Word文档生成器
func NewDocGenerator() *DocGenerator {
	return &DocGenerator{
		converter: NewHtmlConverter(),
		builder:   NewBuilder(),
		docx:      NewDocxBuilder(),
	}
}

// Parse 将源文档解析为块内容树
func (g *DocGenerator) Parse(format SourceFormat, src []byte) (*Node, error) {
	switch format {
	case FormatHTML:
		return g.converter.ParseHTML(src)
	case FormatMarkdown:
		return g.converter.ParseMarkdown(src)
	case FormatDocx:
		return ParseDocx(src)
	case FormatText:
		return parseText(src), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, format)
	}
}

// Convert 解析源文档并构建带仿生强调的文档模型
func (g *DocGenerator) Convert(ctx context.Context, format SourceFormat, src []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := g.Parse(format, src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blocks := Extract(root)
	// 组合字符在拆分前先合成，避免基字符与附加符号被拆开
	for i := range blocks {
		for j := range blocks[i].Spans {
			blocks[i].Spans[j].Text = norm.NFC.String(blocks[i].Spans[j].Text)
		}
	}
	return g.builder.BuildContext(ctx, blocks)
}

// RenderBytes 转换源文档并序列化为DOCX
func (g *DocGenerator) RenderBytes(ctx context.Context, format SourceFormat, src []byte) ([]byte, error) {
	doc, err := g.Convert(ctx, format, src)
	if err != nil {
		return nil, err
	}
	return g.docx.BuildDocx(doc)
}

// RenderReader 从Reader读取源文档并生成Word文档
func (g *DocGenerator) RenderReader(ctx context.Context, format SourceFormat, reader io.Reader) ([]byte, error) {
	buf := new(bytes.Buffer)
	_, err := io.Copy(buf, reader)
	if err != nil {
		return nil, err
	}
	return g.RenderBytes(ctx, format, buf.Bytes())
}

// parseText 纯文本按空行分段，段内换行视为空白
func parseText(src []byte) *Node {
	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	root := BlockNode("body")
	for _, para := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}
		root.Append(BlockNode("p", TextNode(para)))
	}
	return root
}
