package docgen

import (
	"math"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// DefaultSizePt 计算相对字号（em、%）时使用的基准字号
const DefaultSizePt = 12.0

// StyleContext 级联过程中的临时样式，零值表示未设置
type StyleContext struct {
	Font      string
	SizePt    float64
	Bold      bool
	Italic    bool
	Underline bool
	Color     string
}

// Signal 内联元素上的样式覆盖信号，只有 TagSignal 和 ComputedStyleSignal 两种
type Signal interface {
	isSignal()
}

// TagSignal 由标签语义带来的格式
type TagSignal int

const (
	TagBold TagSignal = iota + 1
	TagItalic
	TagUnderline
)

func (TagSignal) isSignal() {}

func (t TagSignal) String() string {
	switch t {
	case TagBold:
		return "bold"
	case TagItalic:
		return "italic"
	case TagUnderline:
		return "underline"
	default:
		return "unknown"
	}
}

// ComputedStyleSignal 计算样式（CSS属性原始值），空字符串表示未提供
type ComputedStyleSignal struct {
	FontWeight     string
	FontStyle      string
	TextDecoration string
	Color          string
	FontFamily     string
	FontSize       string
}

func (ComputedStyleSignal) isSignal() {}

// IsZero 是否没有任何属性
func (c ComputedStyleSignal) IsZero() bool {
	return c == ComputedStyleSignal{}
}

// Resolve 根据块级默认样式与覆盖信号计算最终样式
// 粗体/斜体/下划线取并集：标签语义或计算样式任一设置即为真，且不会取消继承下来的格式
// 颜色、字体、字号优先取计算样式中的值，否则继承块级默认值
func Resolve(base StyleContext, signals ...Signal) StyleContext {
	out := base
	for _, s := range signals {
		switch sig := s.(type) {
		case TagSignal:
			switch sig {
			case TagBold:
				out.Bold = true
			case TagItalic:
				out.Italic = true
			case TagUnderline:
				out.Underline = true
			}
		case ComputedStyleSignal:
			out.Bold = out.Bold || isBoldWeight(sig.FontWeight)
			out.Italic = out.Italic || isItalicStyle(sig.FontStyle)
			out.Underline = out.Underline || hasUnderline(sig.TextDecoration)
			// 文档格式无法表示的颜色（var()、lab() 等）视为未设置
			if v, ok := presentValue(sig.Color); ok {
				if _, err := NormalizeColor(v); err == nil {
					out.Color = v
				}
			}
			if v, ok := presentValue(sig.FontFamily); ok {
				out.Font = v
			}
			if v, ok := presentValue(sig.FontSize); ok {
				if pt, ok := parseFontSize(v, base.SizePt); ok {
					out.SizePt = pt
				}
			}
		}
	}
	return out
}

// presentValue 过滤掉表示“继承”的关键字
func presentValue(v string) (string, bool) {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "", "inherit", "initial", "unset", "revert", "currentcolor":
		return "", false
	}
	return v, true
}

func isBoldWeight(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "bold", "bolder":
		return true
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n >= 600
	}
	return false
}

func isItalicStyle(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "italic" || strings.HasPrefix(v, "oblique")
}

func hasUnderline(v string) bool {
	return strings.Contains(strings.ToLower(v), "underline")
}

var absoluteSizes = map[string]float64{
	"xx-small": 7,
	"x-small":  7.5,
	"small":    10,
	"medium":   12,
	"large":    13.5,
	"x-large":  18,
	"xx-large": 24,
}

// parseFontSize 将CSS字号转换为磅值，无法识别时返回false
func parseFontSize(v string, baseSize float64) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if baseSize <= 0 {
		baseSize = DefaultSizePt
	}
	if pt, ok := absoluteSizes[v]; ok {
		return pt, true
	}

	num, unit := splitDimension(v)
	n, err := strconv.ParseFloat(num, 64)
	if err != nil || n <= 0 || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}

	var pt float64
	switch unit {
	case "pt":
		pt = n
	case "px":
		pt = n * 0.75
	case "em", "rem":
		pt = n * baseSize
	case "%":
		pt = n * baseSize / 100
	case "pc":
		pt = n * 12
	case "in":
		pt = n * 72
	case "cm":
		pt = n * 72 / 2.54
	case "mm":
		pt = n * 72 / 25.4
	default:
		return 0, false
	}
	return math.Round(pt*2) / 2, true
}

func splitDimension(v string) (string, string) {
	i := 0
	for i < len(v) && (v[i] == '.' || v[i] == '+' || v[i] == '-' || (v[i] >= '0' && v[i] <= '9')) {
		i++
	}
	return v[:i], v[i:]
}

// ParseInlineStyle 解析style属性中与文字格式相关的声明
func ParseInlineStyle(style string) ComputedStyleSignal {
	var sig ComputedStyleSignal
	if strings.TrimSpace(style) == "" {
		return sig
	}

	p := css.NewParser(parse.NewInputString(style), true)
	for {
		gt, _, data := p.Next()
		if gt == css.ErrorGrammar {
			break
		}
		if gt != css.DeclarationGrammar {
			continue
		}
		value := declarationValue(p.Values())
		switch strings.ToLower(string(data)) {
		case "font-weight":
			sig.FontWeight = value
		case "font-style":
			sig.FontStyle = value
		case "text-decoration", "text-decoration-line":
			sig.TextDecoration = value
		case "color":
			sig.Color = value
		case "font-family":
			sig.FontFamily = value
		case "font-size":
			sig.FontSize = value
		case "font":
			applyFontShorthand(&sig, value)
		}
	}
	return sig
}

func declarationValue(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			continue
		}
		sb.Write(t.Data)
	}
	v := strings.TrimSpace(sb.String())
	// !important 不影响取值
	v = strings.TrimSpace(strings.TrimSuffix(v, "!important"))
	return v
}

// applyFontShorthand 处理 font 简写中的字重、字形、字号和字体
func applyFontShorthand(sig *ComputedStyleSignal, value string) {
	fields := strings.Fields(value)
	for i, f := range fields {
		lf := strings.ToLower(f)
		switch {
		case isBoldWeight(lf):
			sig.FontWeight = lf
		case isItalicStyle(lf):
			sig.FontStyle = lf
		case lf != "" && (lf[0] >= '0' && lf[0] <= '9' || lf[0] == '.'):
			if _, ok := parseFontSize(strings.SplitN(lf, "/", 2)[0], DefaultSizePt); ok {
				sig.FontSize = strings.SplitN(lf, "/", 2)[0]
				if i+1 < len(fields) {
					sig.FontFamily = strings.Join(fields[i+1:], " ")
				}
				return
			}
		}
	}
}

// PrimaryFont 返回字体列表中的第一个字体名，去掉引号
func PrimaryFont(family string) string {
	first := strings.TrimSpace(strings.SplitN(family, ",", 2)[0])
	first = strings.Trim(first, `"'`)
	return strings.TrimSpace(first)
}
