package docgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const (
	partDocument  = "word/document.xml"
	partNumbering = "word/numbering.xml"
	partStyles    = "word/styles.xml"

	maxPartSize = 64 << 20
)

// packageReader 读取DOCX包时的上下文
type packageReader struct {
	// numId -> ilvl -> 是否为有序编号
	numbering map[string]map[int]bool
	// styleId -> 标题级别
	headingStyles map[string]int
}

// ReadPackage 将DOCX包读回文档模型，表格等非段落内容会被跳过
func ReadPackage(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPackage, err)
	}

	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	docFile, ok := parts[partDocument]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidPackage, partDocument)
	}
	docXML, err := readXMLPart(docFile)
	if err != nil {
		return nil, err
	}

	r := &packageReader{
		numbering:     map[string]map[int]bool{},
		headingStyles: map[string]int{},
	}
	if f, ok := parts[partNumbering]; ok {
		x, err := readXMLPart(f)
		if err != nil {
			return nil, err
		}
		r.loadNumbering(x)
	}
	if f, ok := parts[partStyles]; ok {
		x, err := readXMLPart(f)
		if err != nil {
			return nil, err
		}
		r.loadStyles(x)
	}

	body := findChild(docXML.Root(), "body")
	if docXML.Root() == nil || body == nil {
		return nil, fmt.Errorf("%w: document has no body", ErrInvalidPackage)
	}

	doc := NewDocument()
	r.readContainer(doc, body)
	return doc, nil
}

func readXMLPart(f *zip.File) (*etree.Document, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInvalidPackage, f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxPartSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidPackage, f.Name, err)
	}
	x := etree.NewDocument()
	if err := x.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidPackage, f.Name, err)
	}
	return x, nil
}

func findChild(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

func attrVal(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return el.SelectAttrValue("w:val", "")
}

// onOff 解析 w:b、w:i 这类开关属性，缺省 w:val 视为开启
func onOff(el *etree.Element) bool {
	if el == nil {
		return false
	}
	switch strings.ToLower(attrVal(el)) {
	case "0", "false", "off", "none":
		return false
	}
	return true
}

func (r *packageReader) loadNumbering(x *etree.Document) {
	root := x.Root()
	if root == nil {
		return
	}
	abstract := map[string]map[int]bool{}
	for _, el := range root.ChildElements() {
		if el.Tag != "abstractNum" {
			continue
		}
		levels := map[int]bool{}
		for _, lvl := range el.ChildElements() {
			if lvl.Tag != "lvl" {
				continue
			}
			ilvl, err := strconv.Atoi(lvl.SelectAttrValue("w:ilvl", "0"))
			if err != nil {
				continue
			}
			switch attrVal(findChild(lvl, "numFmt")) {
			case "", "bullet", "none":
				levels[ilvl] = false
			default:
				levels[ilvl] = true
			}
		}
		abstract[el.SelectAttrValue("w:abstractNumId", "")] = levels
	}
	for _, el := range root.ChildElements() {
		if el.Tag != "num" {
			continue
		}
		if levels, ok := abstract[attrVal(findChild(el, "abstractNumId"))]; ok {
			r.numbering[el.SelectAttrValue("w:numId", "")] = levels
		}
	}
}

func (r *packageReader) loadStyles(x *etree.Document) {
	root := x.Root()
	if root == nil {
		return
	}
	for _, el := range root.ChildElements() {
		if el.Tag != "style" || el.SelectAttrValue("w:type", "") != "paragraph" {
			continue
		}
		id := el.SelectAttrValue("w:styleId", "")
		name := strings.ToLower(attrVal(findChild(el, "name")))
		if level, ok := headingFromName(name); ok {
			r.headingStyles[id] = level
		}
	}
}

func headingFromName(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "title" {
		return 1, true
	}
	name = strings.TrimSpace(strings.TrimPrefix(name, "heading"))
	if name == "" {
		return 0, false
	}
	level, err := strconv.Atoi(name)
	if err != nil || level < 1 || level > 9 {
		return 0, false
	}
	return min(level, 6), true
}

func (r *packageReader) headingLevel(styleID string) (int, bool) {
	if level, ok := r.headingStyles[styleID]; ok {
		return level, true
	}
	return headingFromName(styleID)
}

func (r *packageReader) ordered(numID string, ilvl int) bool {
	levels, ok := r.numbering[numID]
	if !ok {
		return false
	}
	return levels[ilvl]
}

// readContainer 读取 body 或内容控件中的段落
func (r *packageReader) readContainer(doc *Document, container *etree.Element) {
	for _, el := range container.ChildElements() {
		switch el.Tag {
		case "p":
			doc.Append(r.readParagraph(el))
		case "sdt":
			if content := findChild(el, "sdtContent"); content != nil {
				r.readContainer(doc, content)
			}
		}
	}
}

func (r *packageReader) readParagraph(el *etree.Element) *Paragraph {
	p := &Paragraph{Kind: Normal()}

	if pPr := findChild(el, "pPr"); pPr != nil {
		styleID := attrVal(findChild(pPr, "pStyle"))
		numPr := findChild(pPr, "numPr")
		numID := attrVal(findChild(numPr, "numId"))

		switch {
		case numPr != nil && numID != "" && numID != "0":
			ilvl, _ := strconv.Atoi(attrVal(findChild(numPr, "ilvl")))
			p.Kind = ListItem(ilvl, r.ordered(numID, ilvl))
		case styleID != "":
			if level, ok := r.headingLevel(styleID); ok {
				p.Kind = Heading(level)
			} else if styleID != "Normal" {
				p.StyleName = styleID
			}
		}
	}

	r.readRuns(p, el)
	return p
}

// readRuns 收集段落中的文本，超链接、修订等包装元素中的 run 也会被读取
func (r *packageReader) readRuns(p *Paragraph, parent *etree.Element) {
	for _, el := range parent.ChildElements() {
		switch el.Tag {
		case "r":
			if run, ok := readRun(el); ok {
				p.Runs = append(p.Runs, run)
			}
		case "hyperlink", "ins", "smartTag", "fldSimple", "customXml":
			r.readRuns(p, el)
		case "sdt":
			if content := findChild(el, "sdtContent"); content != nil {
				r.readRuns(p, content)
			}
		}
	}
}

func readRun(el *etree.Element) (Run, bool) {
	var run Run
	if rPr := findChild(el, "rPr"); rPr != nil {
		run.Bold = onOff(findChild(rPr, "b"))
		run.Italic = onOff(findChild(rPr, "i"))
		if u := findChild(rPr, "u"); u != nil {
			v := attrVal(u)
			run.Underline = v != "none" && v != "0" && v != "false"
		}
		if c := attrVal(findChild(rPr, "color")); c != "" && c != "auto" {
			run.Color = strings.ToUpper(c)
		}
		if f := findChild(rPr, "rFonts"); f != nil {
			run.Font = f.SelectAttrValue("w:ascii", f.SelectAttrValue("w:hAnsi", ""))
		}
		if sz, err := strconv.Atoi(attrVal(findChild(rPr, "sz"))); err == nil && sz > 0 {
			run.SizePt = float64(sz) / 2
		}
	}

	var sb strings.Builder
	for _, c := range el.ChildElements() {
		switch c.Tag {
		case "t":
			sb.WriteString(c.Text())
		case "tab":
			sb.WriteByte('\t')
		case "br", "cr":
			sb.WriteByte('\n')
		case "noBreakHyphen":
			sb.WriteByte('-')
		}
	}
	run.Text = sb.String()
	return run, run.Text != ""
}

// ParseDocx 将DOCX包转换为块内容树
func ParseDocx(src []byte) (*Node, error) {
	doc, err := ReadPackage(src)
	if err != nil {
		return nil, err
	}

	root := BlockNode("body")
	var list *Node
	for _, p := range doc.Paragraphs {
		if !p.Kind.IsListItem() {
			list = nil
		}
		children := runNodes(p.Runs)

		switch p.Kind.Type {
		case KindHeading:
			root.Append(BlockNode("h"+strconv.Itoa(p.Kind.Level), children...))
		case KindListItem:
			tag := "ul"
			if p.Kind.Ordered {
				tag = "ol"
			}
			if list == nil || list.Tag != tag {
				list = ListNode(tag)
				root.Append(list)
			}
			list.Append(ListItemNode(children...))
		default:
			block := BlockNode("p", children...)
			block.StyleName = p.StyleName
			root.Append(block)
		}
	}
	return root, nil
}

// runNodes 合并样式相同的相邻run，再转换为内联节点
func runNodes(runs []Run) []*Node {
	var merged []Run
	for _, run := range runs {
		if n := len(merged); n > 0 && merged[n-1].Style() == run.Style() {
			merged[n-1].Text += run.Text
			continue
		}
		merged = append(merged, run)
	}

	nodes := make([]*Node, 0, len(merged))
	for _, run := range merged {
		signals := runSignals(run)
		if len(signals) == 0 {
			nodes = append(nodes, TextNode(run.Text))
			continue
		}
		nodes = append(nodes, InlineNode("r", signals, TextNode(run.Text)))
	}
	return nodes
}

func runSignals(run Run) []Signal {
	var signals []Signal
	if run.Bold {
		signals = append(signals, TagBold)
	}
	if run.Italic {
		signals = append(signals, TagItalic)
	}
	if run.Underline {
		signals = append(signals, TagUnderline)
	}
	var computed ComputedStyleSignal
	if run.Color != "" {
		computed.Color = "#" + run.Color
	}
	computed.FontFamily = run.Font
	if run.SizePt > 0 {
		computed.FontSize = strconv.FormatFloat(run.SizePt, 'f', -1, 64) + "pt"
	}
	if !computed.IsZero() {
		signals = append(signals, computed)
	}
	return signals
}
