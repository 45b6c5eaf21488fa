package docgen

// KindType 段落类型
type KindType int

const (
	KindNormal KindType = iota
	KindHeading
	KindListItem
)

// ParagraphKind 段落的结构信息：普通段落、标题（1-6级）或列表项
type ParagraphKind struct {
	Type    KindType
	Level   int  // 标题级别或列表嵌套级别
	Ordered bool // 仅对列表项有效
}

// Normal 普通段落
func Normal() ParagraphKind {
	return ParagraphKind{Type: KindNormal}
}

// Heading 标题段落，级别会被限制在1-6之间
func Heading(level int) ParagraphKind {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return ParagraphKind{Type: KindHeading, Level: level}
}

// ListItem 列表项段落
func ListItem(level int, ordered bool) ParagraphKind {
	if level < 0 {
		level = 0
	}
	return ParagraphKind{Type: KindListItem, Level: level, Ordered: ordered}
}

// IsHeading 是否为标题
func (k ParagraphKind) IsHeading() bool {
	return k.Type == KindHeading
}

// IsListItem 是否为列表项
func (k ParagraphKind) IsListItem() bool {
	return k.Type == KindListItem
}

// Run 最小的带样式文本单元，创建后不再修改
type Run struct {
	Text      string  `json:"text"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Underline bool    `json:"underline,omitempty"`
	Color     string  `json:"color,omitempty"`
	Font      string  `json:"font,omitempty"`
	SizePt    float64 `json:"sizePt,omitempty"`
}

// Style 返回Run的样式部分
func (r Run) Style() StyleContext {
	return StyleContext{
		Font:      r.Font,
		SizePt:    r.SizePt,
		Bold:      r.Bold,
		Italic:    r.Italic,
		Underline: r.Underline,
		Color:     r.Color,
	}
}

// NewRun 使用给定样式创建Run
func NewRun(text string, style StyleContext) Run {
	return Run{
		Text:      text,
		Bold:      style.Bold,
		Italic:    style.Italic,
		Underline: style.Underline,
		Color:     style.Color,
		Font:      style.Font,
		SizePt:    style.SizePt,
	}
}

// Paragraph 段落，独占其中的Run
type Paragraph struct {
	Kind      ParagraphKind
	Runs      []Run
	StyleName string
}

// Text 返回段落的纯文本
func (p *Paragraph) Text() string {
	n := 0
	for _, r := range p.Runs {
		n += len(r.Text)
	}
	buf := make([]byte, 0, n)
	for _, r := range p.Runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}

// Document 一次转换过程中构建的文档模型
type Document struct {
	Paragraphs []*Paragraph
}

// NewDocument 创建空文档
func NewDocument() *Document {
	return &Document{}
}

// Append 追加段落
func (d *Document) Append(p *Paragraph) {
	d.Paragraphs = append(d.Paragraphs, p)
}

// IsEmpty 文档是否没有任何段落
func (d *Document) IsEmpty() bool {
	return d == nil || len(d.Paragraphs) == 0
}
