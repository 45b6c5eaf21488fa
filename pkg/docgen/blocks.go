package docgen

import (
	"strconv"
	"strings"
)

// NodeKind 块内容树的节点类型
type NodeKind int

const (
	NodeText NodeKind = iota
	NodeInline
	NodeBlock
	NodeList
	NodeListItem
)

// Node 块内容树节点
// Tag 为小写元素名（p、h2、ul、li、b、span、table……），Text 仅对文本节点有效
type Node struct {
	Kind          NodeKind
	Tag           string
	Text          string
	Signals       []Signal
	Style         StyleContext // 块级默认样式
	StyleName     string
	ParagraphLike bool
	Children      []*Node
}

// TextNode 创建文本节点
func TextNode(text string) *Node {
	return &Node{Kind: NodeText, Text: text}
}

// InlineNode 创建内联元素节点
func InlineNode(tag string, signals []Signal, children ...*Node) *Node {
	return &Node{Kind: NodeInline, Tag: tag, Signals: signals, Children: children}
}

// BlockNode 创建块级节点
func BlockNode(tag string, children ...*Node) *Node {
	return &Node{Kind: NodeBlock, Tag: tag, Children: children}
}

// ListNode 创建列表容器节点，tag 为 ul 或 ol
func ListNode(tag string, items ...*Node) *Node {
	return &Node{Kind: NodeList, Tag: tag, Children: items}
}

// ListItemNode 创建列表项节点
func ListItemNode(children ...*Node) *Node {
	return &Node{Kind: NodeListItem, Tag: "li", Children: children}
}

// Append 追加子节点
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// TextContent 返回节点下全部文本（跳过嵌套列表）
func (n *Node) TextContent() string {
	var sb strings.Builder
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Kind == NodeText {
			sb.WriteString(cur.Text)
			continue
		}
		if cur != n && cur.Kind == NodeList {
			continue
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
	return sb.String()
}

// Span 段落内的一段文本及其所在元素的覆盖信号
type Span struct {
	Text    string
	Signals []Signal
}

// Block 提取出的段落桶
type Block struct {
	Kind      ParagraphKind
	Style     StyleContext
	StyleName string
	Spans     []Span
}

// headingLevel 解析 h1-h6 标签
func headingLevel(tag string) (int, bool) {
	if len(tag) != 2 || tag[0] != 'h' {
		return 0, false
	}
	level, err := strconv.Atoi(tag[1:])
	if err != nil || level < 1 || level > 6 {
		return 0, false
	}
	return level, true
}

// Extract 遍历块内容树，将内联内容划分为段落桶
// 根节点的直接子节点为顶层块；不认识的块类型直接跳过
func Extract(root *Node) []Block {
	if root == nil {
		return nil
	}
	var blocks []Block
	for _, child := range root.Children {
		blocks = append(blocks, extractBlock(child)...)
	}
	return blocks
}

func extractBlock(n *Node) []Block {
	switch n.Kind {
	case NodeBlock:
		if level, ok := headingLevel(n.Tag); ok {
			return []Block{newBlock(Heading(level), n)}
		}
		if n.Tag == "p" || n.ParagraphLike {
			return []Block{newBlock(Normal(), n)}
		}
	case NodeList:
		return extractList(n)
	case NodeListItem:
		// 游离的列表项按无序列表处理
		return []Block{newBlock(ListItem(0, false), n)}
	}
	return nil
}

// extractList 按文档顺序展开列表，嵌套列表的条目同样拉平到第0级
func extractList(list *Node) []Block {
	type frame struct {
		node    *Node
		ordered bool
	}
	var blocks []Block
	stack := []frame{{node: list, ordered: list.Tag == "ol"}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch f.node.Kind {
		case NodeListItem:
			blocks = append(blocks, newBlock(ListItem(0, f.ordered), f.node))
		case NodeList:
			f.ordered = f.node.Tag == "ol"
		}

		// 逆序入栈以保持文档顺序
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			child := f.node.Children[i]
			if child.Kind != NodeList && child.Kind != NodeListItem && child.Kind != NodeBlock {
				continue
			}
			stack = append(stack, frame{node: child, ordered: f.ordered})
		}
	}
	return blocks
}

func newBlock(kind ParagraphKind, n *Node) Block {
	return Block{
		Kind:      kind,
		Style:     n.Style,
		StyleName: n.StyleName,
		Spans:     collectSpans(n),
	}
}

// collectSpans 只展开一层：直接文本为无信号的span，每个子元素为携带自身信号的一个span
func collectSpans(n *Node) []Span {
	var spans []Span
	for _, child := range n.Children {
		switch child.Kind {
		case NodeText:
			if child.Text != "" {
				spans = append(spans, Span{Text: child.Text})
			}
		case NodeList:
			// 嵌套列表作为独立的列表项输出
		default:
			text := child.TextContent()
			if text != "" {
				spans = append(spans, Span{Text: text, Signals: child.Signals})
			}
		}
	}
	return spans
}
