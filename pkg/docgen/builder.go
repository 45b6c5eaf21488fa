package docgen

import (
	"context"

	"github.com/yockii/bionic_reader/pkg/bionic"
)

// Builder 将段落桶组装为带仿生强调的文档模型
type Builder struct{}

// NewBuilder 创建文档构建器
func NewBuilder() *Builder {
	return &Builder{}
}

// Build 构建文档
func (b *Builder) Build(blocks []Block) *Document {
	doc, _ := b.BuildContext(context.Background(), blocks)
	return doc
}

// BuildContext 构建文档，每处理一个段落检查一次ctx，取消时丢弃已构建的部分
func (b *Builder) BuildContext(ctx context.Context, blocks []Block) (*Document, error) {
	doc := NewDocument()
	for i := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.Append(b.buildParagraph(&blocks[i]))
	}
	return doc, nil
}

func (b *Builder) buildParagraph(block *Block) *Paragraph {
	p := &Paragraph{
		Kind:      block.Kind,
		StyleName: block.StyleName,
	}

	hasContent := false
	for _, span := range block.Spans {
		style := Resolve(block.Style, span.Signals...)
		emphasis := style
		emphasis.Bold = true

		// 不同片段之间总有一个分隔符
		pendingSpace := true
		text := span.Text
		for len(text) > 0 {
			// 跳过空白，连续空白视为一个分隔符
			start := 0
			for start < len(text) && bionic.IsSpace(text[start]) {
				start++
			}
			if start > 0 {
				pendingSpace = true
			}
			if start == len(text) {
				break
			}
			end := start
			for end < len(text) && !bionic.IsSpace(text[end]) {
				end++
			}
			token := text[start:end]
			text = text[end:]

			if pendingSpace && hasContent {
				p.Runs = append(p.Runs, Run{Text: " "})
			}
			pendingSpace = false
			hasContent = true

			prefix, suffix := bionic.Split(token)
			p.Runs = append(p.Runs, NewRun(prefix, emphasis))
			if suffix != "" {
				p.Runs = append(p.Runs, NewRun(suffix, style))
			}
		}
	}
	return p
}
