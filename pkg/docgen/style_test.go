package docgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveUnion(t *testing.T) {
	bases := []StyleContext{
		{},
		{Bold: true},
		{Italic: true, Underline: true},
		{Bold: true, Italic: true, Underline: true, Color: "#333333", Font: "Arial", SizePt: 11},
	}
	signalSets := [][]Signal{
		nil,
		{TagBold},
		{TagItalic, TagUnderline},
		{ComputedStyleSignal{FontWeight: "700"}},
		{ComputedStyleSignal{FontWeight: "normal", FontStyle: "normal", TextDecoration: "none"}},
		{TagUnderline, ComputedStyleSignal{FontStyle: "italic"}},
	}

	for _, base := range bases {
		for _, signals := range signalSets {
			out := Resolve(base, signals...)
			// 继承的格式不会被取消
			if base.Bold {
				assert.True(t, out.Bold)
			}
			if base.Italic {
				assert.True(t, out.Italic)
			}
			if base.Underline {
				assert.True(t, out.Underline)
			}
			for _, s := range signals {
				switch s {
				case TagBold:
					assert.True(t, out.Bold)
				case TagItalic:
					assert.True(t, out.Italic)
				case TagUnderline:
					assert.True(t, out.Underline)
				}
			}
		}
	}
}

func TestResolveComputedValues(t *testing.T) {
	base := StyleContext{Font: "Times New Roman", SizePt: 12, Color: "#000000"}

	out := Resolve(base, ComputedStyleSignal{Color: "red", FontFamily: "Georgia, serif", FontSize: "16px"})
	assert.Equal(t, "red", out.Color)
	assert.Equal(t, "Georgia, serif", out.Font)
	assert.Equal(t, 12.0, out.SizePt)

	out = Resolve(base, ComputedStyleSignal{Color: "inherit", FontFamily: "", FontSize: "bogus"})
	assert.Equal(t, base, out)

	// 无法写入文档的颜色沿用继承值
	for _, c := range []string{"var(--accent)", "color-mix(in srgb, red, blue)", "#12345"} {
		out = Resolve(base, ComputedStyleSignal{Color: c})
		assert.Equal(t, "#000000", out.Color, c)
	}
	out = Resolve(base, ComputedStyleSignal{Color: "hsl(0, 100%, 50%)"})
	assert.Equal(t, "hsl(0, 100%, 50%)", out.Color)

	out = Resolve(base, ComputedStyleSignal{FontSize: "2em"})
	assert.Equal(t, 24.0, out.SizePt)

	out = Resolve(base, ComputedStyleSignal{FontWeight: "bolder", FontStyle: "oblique 10deg", TextDecoration: "underline dotted"})
	assert.True(t, out.Bold)
	assert.True(t, out.Italic)
	assert.True(t, out.Underline)
}

func TestParseFontSize(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12pt", 12, true},
		{"16px", 12, true},
		{"1.5em", 18, true},
		{"150%", 18, true},
		{"1in", 72, true},
		{"large", 13.5, true},
		{"-3pt", 0, false},
		{"12", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseFontSize(tt.in, 12)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseInlineStyle(t *testing.T) {
	sig := ParseInlineStyle(`font-weight: bold; color: #ff0000 !important; font-family: "Open Sans", sans-serif; text-decoration: underline`)
	assert.Equal(t, "bold", sig.FontWeight)
	assert.Equal(t, "#ff0000", sig.Color)
	assert.Equal(t, "Open Sans", PrimaryFont(sig.FontFamily))
	assert.Equal(t, "underline", sig.TextDecoration)

	sig = ParseInlineStyle("font: italic bold 14pt Arial, sans-serif")
	assert.Equal(t, "italic", sig.FontStyle)
	assert.Equal(t, "bold", sig.FontWeight)
	assert.Equal(t, "14pt", sig.FontSize)
	assert.Equal(t, "Arial", PrimaryFont(sig.FontFamily))

	assert.True(t, ParseInlineStyle("").IsZero())
	assert.True(t, ParseInlineStyle("margin: 0; padding: 2px").IsZero())
}
