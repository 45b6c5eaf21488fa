package docgen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
)

// 会被直接丢弃的元素
var droppedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"head":     true,
	"template": true,
	"noscript": true,
	"title":    true,
	"meta":     true,
	"link":     true,
}

// 只作为容器的元素，内容会被展开到上一层
var containerTags = map[string]bool{
	"html":       true,
	"body":       true,
	"div":        true,
	"section":    true,
	"article":    true,
	"main":       true,
	"header":     true,
	"footer":     true,
	"blockquote": true,
	"nav":        true,
	"aside":      true,
	"figure":     true,
	"center":     true,
	"form":       true,
	"dl":         true,
	"details":    true,
}

// 按普通段落处理的块级元素
var paragraphLikeTags = map[string]bool{
	"p":          true,
	"pre":        true,
	"address":    true,
	"dt":         true,
	"dd":         true,
	"figcaption": true,
	"summary":    true,
	"caption":    true,
	"legend":     true,
}

// 其余块级元素，提取时跳过
var otherBlockTags = map[string]bool{
	"table":    true,
	"hr":       true,
	"img":      true,
	"svg":      true,
	"canvas":   true,
	"video":    true,
	"audio":    true,
	"iframe":   true,
	"object":   true,
	"fieldset": true,
	"select":   true,
	"textarea": true,
}

// HtmlConverter 负责将HTML和Markdown转换为块内容树
type HtmlConverter struct {
	markdown goldmark.Markdown
}

// NewHtmlConverter 创建一个新的HTML转换器
func NewHtmlConverter() *HtmlConverter {
	return &HtmlConverter{
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM, // GitHub Flavored Markdown支持表格
				extension.Linkify,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithXHTML(),
				gmhtml.WithUnsafe(), // 允许原始HTML通过
			),
		),
	}
}

var defaultConverter = NewHtmlConverter()

// ParseHTML 将HTML转换为块内容树
func ParseHTML(src []byte) (*Node, error) {
	return defaultConverter.ParseHTML(src)
}

// ParseMarkdown 将Markdown转换为块内容树
func ParseMarkdown(src []byte) (*Node, error) {
	return defaultConverter.ParseMarkdown(src)
}

// ParseMarkdown 先渲染为HTML，再按HTML解析
func (c *HtmlConverter) ParseMarkdown(src []byte) (*Node, error) {
	var htmlBuf bytes.Buffer
	if err := c.markdown.Convert(src, &htmlBuf); err != nil {
		return nil, fmt.Errorf("%w: markdown: %v", ErrMalformedSource, err)
	}
	return c.ParseHTML(htmlBuf.Bytes())
}

// ParseHTML 解析HTML，body下的内容按块展开
func (c *HtmlConverter) ParseHTML(src []byte) (*Node, error) {
	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: html: %v", ErrMalformedSource, err)
	}

	root := BlockNode("body")
	start := findElement(doc, "body")
	if start == nil {
		start = doc
	}
	convertContainer(start, root, StyleContext{})
	return root, nil
}

func findElement(n *html.Node, tag string) *html.Node {
	stack := []*html.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Type == html.ElementNode && cur.Data == tag {
			return cur
		}
		for child := cur.LastChild; child != nil; child = child.PrevSibling {
			stack = append(stack, child)
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// blockStyle 元素自身的style属性作为块级默认样式
func blockStyle(n *html.Node, base StyleContext) StyleContext {
	signals := elementSignals(n)
	if len(signals) == 0 {
		return base
	}
	return Resolve(base, signals...)
}

// convertContainer 展开容器，游离的内联内容合并为段落
func convertContainer(n *html.Node, out *Node, base StyleContext) {
	var pending *Node
	flush := func() {
		if pending != nil && strings.TrimSpace(pending.TextContent()) != "" {
			out.Append(pending)
		}
		pending = nil
	}
	addInline := func(child *Node) {
		if child == nil {
			return
		}
		if pending == nil {
			pending = BlockNode("div")
			pending.ParagraphLike = true
			pending.Style = base
		}
		pending.Append(child)
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			if pending == nil && strings.TrimSpace(child.Data) == "" {
				continue
			}
			addInline(TextNode(child.Data))
			continue
		case html.ElementNode:
		default:
			continue
		}

		tag := child.Data
		switch {
		case droppedTags[tag]:
		case containerTags[tag]:
			flush()
			convertContainer(child, out, blockStyle(child, base))
		case paragraphLikeTags[tag]:
			flush()
			out.Append(convertBlock(child, tag, base, true))
		case isHeadingTag(tag):
			flush()
			out.Append(convertBlock(child, tag, base, false))
		case tag == "ul" || tag == "ol":
			flush()
			out.Append(convertList(child, blockStyle(child, base)))
		case tag == "li":
			flush()
			out.Append(convertListItem(child, blockStyle(child, base)))
		case otherBlockTags[tag]:
			flush()
			out.Append(BlockNode(tag))
		default:
			addInline(convertInline(child))
		}
	}
	flush()
}

func isHeadingTag(tag string) bool {
	_, ok := headingLevel(tag)
	return ok
}

func convertBlock(n *html.Node, tag string, base StyleContext, paragraphLike bool) *Node {
	block := BlockNode(tag)
	block.ParagraphLike = paragraphLike
	block.Style = blockStyle(n, base)
	appendInlineChildren(block, n)
	return block
}

func appendInlineChildren(dst *Node, n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if node := convertInline(child); node != nil {
			dst.Append(node)
		}
	}
}

func convertList(n *html.Node, style StyleContext) *Node {
	list := ListNode(n.Data)
	list.Style = style
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch child.Data {
		case "li":
			list.Append(convertListItem(child, blockStyle(child, style)))
		case "ul", "ol":
			list.Append(convertList(child, blockStyle(child, style)))
		}
	}
	return list
}

// convertListItem 列表项中的段落被展开为内联内容，嵌套列表保留为子节点
func convertListItem(n *html.Node, style StyleContext) *Node {
	item := ListItemNode()
	item.Style = style
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			switch tag := child.Data; {
			case tag == "ul" || tag == "ol":
				item.Append(convertList(child, blockStyle(child, style)))
				continue
			case paragraphLikeTags[tag] || containerTags[tag] || isHeadingTag(tag):
				appendInlineChildren(item, child)
				item.Append(TextNode("\n"))
				continue
			case otherBlockTags[tag] || droppedTags[tag]:
				continue
			}
		}
		if node := convertInline(child); node != nil {
			item.Append(node)
		}
	}
	return item
}

func convertInline(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		return TextNode(n.Data)
	case html.ElementNode:
	default:
		return nil
	}

	switch tag := n.Data; {
	case droppedTags[tag]:
		return nil
	case tag == "br":
		return TextNode("\n")
	case otherBlockTags[tag]:
		return nil
	}

	node := InlineNode(n.Data, elementSignals(n))
	appendInlineChildren(node, n)
	return node
}

// elementSignals 标签语义、style属性和<font>属性带来的格式信号
func elementSignals(n *html.Node) []Signal {
	var signals []Signal
	switch n.Data {
	case "b", "strong":
		signals = append(signals, TagBold)
	case "i", "em", "cite", "var", "dfn":
		signals = append(signals, TagItalic)
	case "u", "ins":
		signals = append(signals, TagUnderline)
	}

	var computed ComputedStyleSignal
	if n.Data == "font" {
		computed.Color = getAttr(n, "color")
		computed.FontFamily = getAttr(n, "face")
	}
	if style := getAttr(n, "style"); style != "" {
		inline := ParseInlineStyle(style)
		mergeComputed(&computed, inline)
	}
	if !computed.IsZero() {
		signals = append(signals, computed)
	}
	return signals
}

// mergeComputed style属性优先于<font>属性
func mergeComputed(dst *ComputedStyleSignal, src ComputedStyleSignal) {
	if src.FontWeight != "" {
		dst.FontWeight = src.FontWeight
	}
	if src.FontStyle != "" {
		dst.FontStyle = src.FontStyle
	}
	if src.TextDecoration != "" {
		dst.TextDecoration = src.TextDecoration
	}
	if src.Color != "" {
		dst.Color = src.Color
	}
	if src.FontFamily != "" {
		dst.FontFamily = src.FontFamily
	}
	if src.FontSize != "" {
		dst.FontSize = src.FontSize
	}
}
