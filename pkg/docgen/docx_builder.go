package docgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
	"golang.org/x/image/colornames"
)

const (
	nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	// 列表编号定义：1为项目符号，2为数字编号
	numIDBullet  = 1
	numIDDecimal = 2

	paragraphSpacingAfter = "200"
	maxHalfPoints         = 3276
)

// DocxBuilder 负责将文档模型序列化为DOCX包
type DocxBuilder struct{}

// NewDocxBuilder 创建一个新的DOCX构建器
func NewDocxBuilder() *DocxBuilder {
	return &DocxBuilder{}
}

type packagePart struct {
	path    string
	content func() ([]byte, error)
}

// BuildDocx 构建DOCX文档，任何一步失败都不会返回部分数据
func (b *DocxBuilder) BuildDocx(doc *Document) (data []byte, err error) {
	if doc == nil {
		doc = NewDocument()
	}

	// 先生成document.xml，属性值非法时在写ZIP之前失败
	documentXML, err := b.documentXML(doc)
	if err != nil {
		return nil, err
	}

	// 固定顺序写入，保证相同输入得到相同字节
	parts := []packagePart{
		{"[Content_Types].xml", staticPart(getContentTypesXML())},
		{"_rels/.rels", staticPart(getRelsXML())},
		{"word/_rels/document.xml.rels", staticPart(getWordRelsXML())},
		{"word/styles.xml", staticPart(getStylesXML())},
		{"word/numbering.xml", staticPart(getNumberingXML())},
		{"word/document.xml", staticPart(documentXML)},
	}

	outputBuffer := new(bytes.Buffer)
	zipWriter := zip.NewWriter(outputBuffer)
	defer func() {
		if err != nil {
			data = nil
		}
	}()

	for _, part := range parts {
		content, err := part.content()
		if err != nil {
			return nil, multierr.Append(err, zipWriter.Close())
		}
		entry, err := zipWriter.Create(part.path)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("create %s: %w", part.path, err), zipWriter.Close())
		}
		if _, err = entry.Write(content); err != nil {
			return nil, multierr.Append(fmt.Errorf("write %s: %w", part.path, err), zipWriter.Close())
		}
	}

	if err = zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return outputBuffer.Bytes(), nil
}

func staticPart(content string) func() ([]byte, error) {
	return func() ([]byte, error) {
		return []byte(content), nil
	}
}

// documentXML 生成 word/document.xml
func (b *DocxBuilder) documentXML(doc *Document) (string, error) {
	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := x.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)
	body := root.CreateElement("w:body")

	for i, p := range doc.Paragraphs {
		if err := b.writeParagraph(body, p); err != nil {
			return "", fmt.Errorf("paragraph %d: %w", i, err)
		}
	}

	sectPr := body.CreateElement("w:sectPr")
	pgSz := sectPr.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", "11906")
	pgSz.CreateAttr("w:h", "16838")
	pgMar := sectPr.CreateElement("w:pgMar")
	for _, side := range []string{"w:top", "w:right", "w:bottom", "w:left"} {
		pgMar.CreateAttr(side, "1440")
	}

	out, err := x.WriteToString()
	if err != nil {
		return "", fmt.Errorf("write document.xml: %w", err)
	}
	return out, nil
}

func (b *DocxBuilder) writeParagraph(body *etree.Element, p *Paragraph) error {
	wp := body.CreateElement("w:p")
	pPr := wp.CreateElement("w:pPr")

	switch p.Kind.Type {
	case KindHeading:
		if p.Kind.Level < 1 || p.Kind.Level > 6 {
			return fmt.Errorf("%w: heading level %d", ErrInvalidAttribute, p.Kind.Level)
		}
		pPr.CreateElement("w:pStyle").CreateAttr("w:val", fmt.Sprintf("Heading%d", p.Kind.Level))
	case KindListItem:
		if p.Kind.Level < 0 || p.Kind.Level > 8 {
			return fmt.Errorf("%w: list level %d", ErrInvalidAttribute, p.Kind.Level)
		}
		pPr.CreateElement("w:pStyle").CreateAttr("w:val", "ListParagraph")
		numPr := pPr.CreateElement("w:numPr")
		numPr.CreateElement("w:ilvl").CreateAttr("w:val", strconv.Itoa(p.Kind.Level))
		numID := numIDBullet
		if p.Kind.Ordered {
			numID = numIDDecimal
		}
		numPr.CreateElement("w:numId").CreateAttr("w:val", strconv.Itoa(numID))
	default:
		if p.StyleName != "" {
			pPr.CreateElement("w:pStyle").CreateAttr("w:val", p.StyleName)
		}
	}
	pPr.CreateElement("w:spacing").CreateAttr("w:after", paragraphSpacingAfter)

	for _, run := range p.Runs {
		if err := writeRun(wp, run); err != nil {
			return err
		}
	}
	return nil
}

// writeRun 写入一个 w:r，rPr 子元素按照 schema 顺序排列
func writeRun(wp *etree.Element, run Run) error {
	if err := checkText(run.Text); err != nil {
		return err
	}

	r := wp.CreateElement("w:r")
	rPr := etree.NewElement("w:rPr")

	if font := PrimaryFont(run.Font); font != "" {
		rFonts := rPr.CreateElement("w:rFonts")
		rFonts.CreateAttr("w:ascii", font)
		rFonts.CreateAttr("w:hAnsi", font)
		rFonts.CreateAttr("w:cs", font)
	}
	if run.Bold {
		rPr.CreateElement("w:b")
	}
	if run.Italic {
		rPr.CreateElement("w:i")
	}
	if run.Color != "" {
		hex, err := NormalizeColor(run.Color)
		if err != nil {
			return err
		}
		if hex != "" {
			rPr.CreateElement("w:color").CreateAttr("w:val", hex)
		}
	}
	if run.SizePt != 0 {
		half, err := halfPoints(run.SizePt)
		if err != nil {
			return err
		}
		rPr.CreateElement("w:sz").CreateAttr("w:val", strconv.Itoa(half))
		rPr.CreateElement("w:szCs").CreateAttr("w:val", strconv.Itoa(half))
	}
	if run.Underline {
		rPr.CreateElement("w:u").CreateAttr("w:val", "single")
	}
	if len(rPr.ChildElements()) > 0 {
		r.AddChild(rPr)
	}

	// 制表符和换行使用对应的元素
	text := run.Text
	for text != "" {
		i := strings.IndexAny(text, "\t\n")
		if i < 0 {
			writeTextElement(r, text)
			break
		}
		if i > 0 {
			writeTextElement(r, text[:i])
		}
		if text[i] == '\t' {
			r.CreateElement("w:tab")
		} else {
			r.CreateElement("w:br")
		}
		text = text[i+1:]
	}
	return nil
}

func writeTextElement(r *etree.Element, text string) {
	t := r.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(text)
}

// checkText XML 1.0 不允许的控制字符
func checkText(text string) error {
	for _, c := range text {
		if c < 0x20 && c != '\t' && c != '\n' && c != '\r' {
			return fmt.Errorf("%w: control character %U in run text", ErrInvalidAttribute, c)
		}
		if c == 0xFFFE || c == 0xFFFF {
			return fmt.Errorf("%w: invalid character %U in run text", ErrInvalidAttribute, c)
		}
	}
	return nil
}

func halfPoints(size float64) (int, error) {
	if math.IsNaN(size) || math.IsInf(size, 0) || size < 0 {
		return 0, fmt.Errorf("%w: font size %v", ErrInvalidAttribute, size)
	}
	half := int(math.Round(size * 2))
	if half < 2 || half > maxHalfPoints {
		return 0, fmt.Errorf("%w: font size %v", ErrInvalidAttribute, size)
	}
	return half, nil
}

// NormalizeColor 将CSS颜色转换为DOCX使用的RRGGBB，auto返回空字符串
func NormalizeColor(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", "auto", "transparent":
		return "", nil
	}

	if strings.HasPrefix(v, "#") {
		v = v[1:]
		switch len(v) {
		case 3, 4:
			v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
		case 6:
		case 8:
			v = v[:6]
		default:
			return "", fmt.Errorf("%w: color %q", ErrInvalidAttribute, value)
		}
		if !isHex(v) {
			return "", fmt.Errorf("%w: color %q", ErrInvalidAttribute, value)
		}
		return strings.ToUpper(v), nil
	}

	if len(v) == 6 && isHex(v) {
		return strings.ToUpper(v), nil
	}

	var (
		c  color.RGBA
		ok bool
	)
	switch {
	case strings.HasPrefix(v, "rgb(") || strings.HasPrefix(v, "rgba("):
		c, ok = parseRGBFunc(v)
	case strings.HasPrefix(v, "hsl(") || strings.HasPrefix(v, "hsla("):
		c, ok = parseHSLFunc(v)
	case strings.HasPrefix(v, "hwb("):
		c, ok = parseHWBFunc(v)
	default:
		if c, ok = colornames.Map[v]; !ok {
			return "", fmt.Errorf("%w: color %q", ErrInvalidAttribute, value)
		}
	}
	if !ok {
		return "", fmt.Errorf("%w: color %q", ErrInvalidAttribute, value)
	}
	return hexColor(c), nil
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// funcArgs 拆分颜色函数的参数，逗号和斜杠视为分隔符
func funcArgs(v string) ([]string, bool) {
	open := strings.IndexByte(v, '(')
	if open < 0 || !strings.HasSuffix(v, ")") {
		return nil, false
	}
	inner := strings.NewReplacer(",", " ", "/", " ").Replace(v[open+1 : len(v)-1])
	fields := strings.Fields(inner)
	if len(fields) < 3 {
		return nil, false
	}
	return fields, true
}

func parseRGBFunc(v string) (color.RGBA, bool) {
	fields, ok := funcArgs(v)
	if !ok {
		return color.RGBA{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		f := fields[i]
		var n float64
		var err error
		if strings.HasSuffix(f, "%") {
			n, err = strconv.ParseFloat(strings.TrimSuffix(f, "%"), 64)
			n = n * 255 / 100
		} else {
			n, err = strconv.ParseFloat(f, 64)
		}
		if err != nil || n < 0 || n > 255 {
			return color.RGBA{}, false
		}
		ch[i] = uint8(math.Round(n))
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xFF}, true
}

// parseHue 解析色相，单位为 deg、turn、rad、grad 或无单位，返回 [0,360) 的角度
func parseHue(f string) (float64, bool) {
	scale := 1.0
	for _, u := range []struct {
		suffix string
		scale  float64
	}{{"deg", 1}, {"grad", 0.9}, {"rad", 180 / math.Pi}, {"turn", 360}} {
		if strings.HasSuffix(f, u.suffix) {
			f, scale = strings.TrimSuffix(f, u.suffix), u.scale
			break
		}
	}
	h, err := strconv.ParseFloat(f, 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, false
	}
	h = math.Mod(h*scale, 360)
	if h < 0 {
		h += 360
	}
	return h, true
}

// parsePercent 解析 0%~100% 的百分比，返回 [0,1]
func parsePercent(f string) (float64, bool) {
	if !strings.HasSuffix(f, "%") {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSuffix(f, "%"), 64)
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return n / 100, true
}

func hslToRGB(h, s, l float64) color.RGBA {
	a := s * math.Min(l, 1-l)
	f := func(n float64) uint8 {
		k := math.Mod(n+h/30, 12)
		return uint8(math.Round(255 * (l - a*math.Max(-1, math.Min(math.Min(k-3, 9-k), 1)))))
	}
	return color.RGBA{R: f(0), G: f(8), B: f(4), A: 0xFF}
}

func parseHSLFunc(v string) (color.RGBA, bool) {
	fields, ok := funcArgs(v)
	if !ok {
		return color.RGBA{}, false
	}
	h, ok1 := parseHue(fields[0])
	s, ok2 := parsePercent(fields[1])
	l, ok3 := parsePercent(fields[2])
	if !ok1 || !ok2 || !ok3 {
		return color.RGBA{}, false
	}
	return hslToRGB(h, s, l), true
}

func parseHWBFunc(v string) (color.RGBA, bool) {
	fields, ok := funcArgs(v)
	if !ok {
		return color.RGBA{}, false
	}
	h, ok1 := parseHue(fields[0])
	w, ok2 := parsePercent(fields[1])
	b, ok3 := parsePercent(fields[2])
	if !ok1 || !ok2 || !ok3 {
		return color.RGBA{}, false
	}
	if w+b >= 1 {
		g := uint8(math.Round(255 * w / (w + b)))
		return color.RGBA{R: g, G: g, B: g, A: 0xFF}, true
	}
	pure := hslToRGB(h, 1, 0.5)
	mix := func(c uint8) uint8 {
		return uint8(math.Round((float64(c)/255*(1-w-b) + w) * 255))
	}
	return color.RGBA{R: mix(pure.R), G: mix(pure.G), B: mix(pure.B), A: 0xFF}, true
}

// XML模板函数
func getContentTypesXML() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
  <Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>
</Types>`
}

func getRelsXML() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`
}

func getWordRelsXML() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>
</Relationships>`
}

// 标题字号（半磅）与段前间距
var headingStyles = []struct {
	size   int
	before int
}{
	{36, 480}, {32, 360}, {28, 280}, {26, 240}, {24, 240}, {24, 200},
}

func getStylesXML() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal">
    <w:name w:val="Normal"/>
    <w:qFormat/>
    <w:pPr>
      <w:spacing w:after="0" w:line="240" w:lineRule="auto"/>
    </w:pPr>
  </w:style>
`)
	for i, h := range headingStyles {
		fmt.Fprintf(&sb, `  <w:style w:type="paragraph" w:styleId="Heading%d">
    <w:name w:val="heading %d"/>
    <w:basedOn w:val="Normal"/>
    <w:next w:val="Normal"/>
    <w:qFormat/>
    <w:pPr>
      <w:keepNext/>
      <w:spacing w:before="%d" w:after="0"/>
      <w:outlineLvl w:val="%d"/>
    </w:pPr>
    <w:rPr>
      <w:sz w:val="%d"/>
      <w:szCs w:val="%d"/>
    </w:rPr>
  </w:style>
`, i+1, i+1, h.before, i, h.size, h.size)
	}
	sb.WriteString(`  <w:style w:type="paragraph" w:styleId="ListParagraph">
    <w:name w:val="List Paragraph"/>
    <w:basedOn w:val="Normal"/>
    <w:qFormat/>
    <w:pPr>
      <w:ind w:left="720"/>
      <w:contextualSpacing/>
    </w:pPr>
  </w:style>
</w:styles>`)
	return sb.String()
}

var bulletSymbols = []string{"•", "○", "▪"}

func getNumberingXML() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:abstractNum w:abstractNumId="0">
    <w:multiLevelType w:val="hybridMultilevel"/>
`)
	for lvl := 0; lvl < 9; lvl++ {
		fmt.Fprintf(&sb, `    <w:lvl w:ilvl="%d">
      <w:start w:val="1"/>
      <w:numFmt w:val="bullet"/>
      <w:lvlText w:val="%s"/>
      <w:lvlJc w:val="left"/>
      <w:pPr>
        <w:ind w:left="%d" w:hanging="360"/>
      </w:pPr>
    </w:lvl>
`, lvl, bulletSymbols[lvl%len(bulletSymbols)], 720*(lvl+1))
	}
	sb.WriteString(`  </w:abstractNum>
  <w:abstractNum w:abstractNumId="1">
    <w:multiLevelType w:val="hybridMultilevel"/>
`)
	for lvl := 0; lvl < 9; lvl++ {
		fmt.Fprintf(&sb, `    <w:lvl w:ilvl="%d">
      <w:start w:val="1"/>
      <w:numFmt w:val="decimal"/>
      <w:lvlText w:val="%%%d."/>
      <w:lvlJc w:val="left"/>
      <w:pPr>
        <w:ind w:left="%d" w:hanging="360"/>
      </w:pPr>
    </w:lvl>
`, lvl, lvl+1, 720*(lvl+1))
	}
	fmt.Fprintf(&sb, `  </w:abstractNum>
  <w:num w:numId="%d">
    <w:abstractNumId w:val="0"/>
  </w:num>
  <w:num w:numId="%d">
    <w:abstractNumId w:val="1"/>
  </w:num>
</w:numbering>`, numIDBullet, numIDDecimal)
	return sb.String()
}
