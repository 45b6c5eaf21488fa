package docgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHeadingAndList(t *testing.T) {
	root := BlockNode("body",
		BlockNode("h2", TextNode("Title")),
		ListNode("ul",
			ListItemNode(TextNode("first")),
			ListItemNode(TextNode("second")),
		),
	)

	blocks := Extract(root)
	require.Len(t, blocks, 3)
	assert.Equal(t, Heading(2), blocks[0].Kind)
	assert.Equal(t, ListItem(0, false), blocks[1].Kind)
	assert.Equal(t, ListItem(0, false), blocks[2].Kind)
	assert.Equal(t, "second", blocks[2].Spans[0].Text)

	doc := NewBuilder().Build(blocks)
	require.Len(t, doc.Paragraphs, 3)
	assert.Equal(t, Heading(2), doc.Paragraphs[0].Kind)
	assert.Equal(t, ListItem(0, false), doc.Paragraphs[1].Kind)
	assert.Equal(t, ListItem(0, false), doc.Paragraphs[2].Kind)
}

func TestExtractSkipsUnknownBlocks(t *testing.T) {
	root := BlockNode("body",
		BlockNode("table", BlockNode("tr", BlockNode("td", TextNode("cell")))),
		BlockNode("hr"),
	)
	blocks := Extract(root)
	assert.Empty(t, blocks)

	doc := NewBuilder().Build(blocks)
	assert.True(t, doc.IsEmpty())
}

func TestExtractNestedListFlattened(t *testing.T) {
	root := BlockNode("body",
		ListNode("ol",
			ListItemNode(
				TextNode("outer"),
				ListNode("ul",
					ListItemNode(TextNode("inner one")),
					ListItemNode(TextNode("inner two")),
				),
			),
			ListItemNode(TextNode("last")),
		),
	)

	blocks := Extract(root)
	require.Len(t, blocks, 4)

	texts := make([]string, len(blocks))
	for i, b := range blocks {
		require.Len(t, b.Spans, 1)
		texts[i] = b.Spans[0].Text
	}
	assert.Equal(t, []string{"outer", "inner one", "inner two", "last"}, texts)

	assert.Equal(t, ListItem(0, true), blocks[0].Kind)
	assert.Equal(t, ListItem(0, false), blocks[1].Kind)
	assert.Equal(t, ListItem(0, false), blocks[2].Kind)
	assert.Equal(t, ListItem(0, true), blocks[3].Kind)
}

func TestExtractSpanSignals(t *testing.T) {
	color := ComputedStyleSignal{Color: "blue"}
	root := BlockNode("body",
		BlockNode("p",
			TextNode("plain "),
			InlineNode("b", []Signal{TagBold}, TextNode("strong")),
			InlineNode("span", []Signal{color}, TextNode("a "), InlineNode("i", []Signal{TagItalic}, TextNode("b"))),
		),
	)

	blocks := Extract(root)
	require.Len(t, blocks, 1)
	assert.Equal(t, Normal(), blocks[0].Kind)
	assert.Equal(t, []Span{
		{Text: "plain "},
		{Text: "strong", Signals: []Signal{TagBold}},
		{Text: "a b", Signals: []Signal{color}},
	}, blocks[0].Spans)
}

func TestExtractParagraphLikeAndStrayItem(t *testing.T) {
	pre := BlockNode("pre", TextNode("code"))
	pre.ParagraphLike = true
	root := BlockNode("body",
		pre,
		ListItemNode(TextNode("stray")),
		BlockNode("h7", TextNode("not a heading")),
	)

	blocks := Extract(root)
	require.Len(t, blocks, 2)
	assert.Equal(t, Normal(), blocks[0].Kind)
	assert.Equal(t, ListItem(0, false), blocks[1].Kind)

	assert.Nil(t, Extract(nil))
}
