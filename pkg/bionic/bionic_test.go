package bionic

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		word   string
		prefix string
		suffix string
	}{
		{"Boostez", "Boos", "tez"},
		{"a", "a", ""},
		{"ab", "a", "b"},
		{"abc", "ab", "c"},
		{"lecture", "lect", "ure"},
		{"été", "ét", "é"},
		{"日本語です", "日本語", "です"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			prefix, suffix := Split(tt.word)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.suffix, suffix)
		})
	}
}

func TestSplitLaws(t *testing.T) {
	words := []string{"x", "hello", "naïve", "😀😀😀", "Straße", "l'été", "co-op", "ÅÄÖ", "ab́c"}
	for _, w := range words {
		p, s := Split(w)
		assert.Equal(t, w, p+s, "prefix+suffix must rebuild %q", w)
		n := utf8.RuneCountInString(w)
		assert.Equal(t, (n+1)/2, utf8.RuneCountInString(p))
		assert.NotEmpty(t, p)
		assert.True(t, utf8.ValidString(p), "prefix of %q is not valid UTF-8", w)
		assert.True(t, utf8.ValidString(s), "suffix of %q is not valid UTF-8", w)

		p2, s2 := Split(w)
		assert.Equal(t, p, p2)
		assert.Equal(t, s, s2)
	}
}

func TestRenderPlain(t *testing.T) {
	assert.Equal(t, "<b>Li</b>re <b>vi</b>te", RenderPlain("Lire vite", 0))
	assert.Equal(t, "<b>Li</b>re<br><b>vi</b>te", RenderPlain("Lire\nvite", 0))
	assert.Equal(t, "<b>Li</b>re<br><b>vi</b>te", RenderPlain("Lire\r\nvite", 0))
	assert.Equal(t, "", RenderPlain("", 0))
	assert.Equal(t, "<b>&lt;b</b>&gt;", RenderPlain("<b>", 0))
}

func TestRenderPlainKeepsIrregularSpacing(t *testing.T) {
	assert.Equal(t, "<b>a</b>  <b>b</b>", RenderPlain("a  b", 0))
	assert.Equal(t, "<b>a</b><br><br><b>b</b>", RenderPlain("a\n\nb", 0))
}

func TestRenderPlainWordCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 500; i++ {
		sb.WriteString("mot")
		if i%7 == 0 {
			sb.WriteString("\n")
		} else {
			sb.WriteString(" ")
		}
	}

	out := RenderPlain(sb.String(), DefaultWordLimit)
	assert.Equal(t, DefaultWordLimit, strings.Count(out, "<b>"))

	out = RenderPlain(sb.String(), 0)
	assert.Equal(t, 500, strings.Count(out, "<b>"))
}

func TestTruncate(t *testing.T) {
	out, truncated := Truncate("one two\nthree four", 3)
	assert.Equal(t, "one two\nthree", out)
	assert.True(t, truncated)

	out, truncated = Truncate("one two  ", 2)
	assert.Equal(t, "one two", out)
	assert.False(t, truncated)

	out, truncated = Truncate("one two", 5)
	assert.Equal(t, "one two", out)
	assert.False(t, truncated)

	out, truncated = Truncate("one two", 0)
	assert.Equal(t, "one two", out)
	assert.False(t, truncated)
}

func TestRenderPages(t *testing.T) {
	out := RenderPages([]string{"Page un", "Page deux"})
	require.NotEmpty(t, out)
	assert.Equal(t, "<b>Pa</b>ge <b>u</b>n <b>Pa</b>ge <b>de</b>ux ", out)
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords("   "))
	assert.Equal(t, 4, CountWords("a b\nc\t d"))
}

func TestSplitDecomposedMarks(t *testing.T) {
	// 未规范化时组合符号单独计数
	p, s := Split("ab\u0301c")
	assert.Equal(t, "ab", p)
	assert.Equal(t, "\u0301c", s)

	// RenderPlain 先合成再拆分
	assert.Equal(t, "<b>a</b>\u00e9", RenderPlain("ae\u0301", 0))
	assert.Equal(t, "<b>a\u00e1</b>c", RenderPlain("aa\u0301c", 0))
}
