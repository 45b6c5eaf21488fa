package docgen

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	doc := NewDocument()
	doc.Append(&Paragraph{Kind: Heading(1), Runs: []Run{{Text: "Ti", Bold: true}, {Text: "tle"}}})
	doc.Append(&Paragraph{Kind: Normal(), Runs: []Run{
		{Text: "he", Bold: true, Italic: true, Color: "red", Font: "Georgia, serif", SizePt: 13},
		{Text: "llo", Italic: true, Underline: true, Color: "#00f", SizePt: 10.5},
		{Text: " "},
		{Text: "x", Bold: true},
	}})
	doc.Append(&Paragraph{Kind: ListItem(0, false), Runs: []Run{{Text: "a", Bold: true}}})
	doc.Append(&Paragraph{Kind: ListItem(1, true), Runs: []Run{{Text: "on", Bold: true}, {Text: "e"}}})
	doc.Append(&Paragraph{Kind: Heading(6), Runs: []Run{{Text: "z", Bold: true}}})
	return doc
}

func readZipPart(t *testing.T, data []byte, name string) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			content, err := io.ReadAll(rc)
			require.NoError(t, err)
			return content
		}
	}
	t.Fatalf("part %s not found", name)
	return nil
}

func TestBuildDocxParts(t *testing.T) {
	data, err := NewDocxBuilder().BuildDocx(sampleDocument())
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/_rels/document.xml.rels",
		"word/styles.xml",
		"word/numbering.xml",
		"word/document.xml",
	}, names)

	x := etree.NewDocument()
	require.NoError(t, x.ReadFromBytes(readZipPart(t, data, "word/document.xml")))

	paragraphs := x.FindElements("//w:body/w:p")
	require.Len(t, paragraphs, 5)

	assert.Equal(t, "Heading1", paragraphs[0].FindElement("./w:pPr/w:pStyle").SelectAttrValue("w:val", ""))

	// rPr 子元素顺序
	rPr := paragraphs[1].FindElement("./w:r/w:rPr")
	require.NotNil(t, rPr)
	var order []string
	for _, c := range rPr.ChildElements() {
		order = append(order, c.Tag)
	}
	assert.Equal(t, []string{"rFonts", "b", "i", "color", "sz", "szCs"}, order)
	assert.Equal(t, "Georgia", rPr.FindElement("./w:rFonts").SelectAttrValue("w:ascii", ""))
	assert.Equal(t, "FF0000", rPr.FindElement("./w:color").SelectAttrValue("w:val", ""))
	assert.Equal(t, "26", rPr.FindElement("./w:sz").SelectAttrValue("w:val", ""))

	// 空格run保留空白
	space := paragraphs[1].FindElements("./w:r")[2].FindElement("./w:t")
	assert.Equal(t, " ", space.Text())
	assert.Equal(t, "preserve", space.SelectAttrValue("xml:space", ""))

	numPr := paragraphs[3].FindElement("./w:pPr/w:numPr")
	require.NotNil(t, numPr)
	assert.Equal(t, "1", numPr.FindElement("./w:ilvl").SelectAttrValue("w:val", ""))
	assert.Equal(t, "2", numPr.FindElement("./w:numId").SelectAttrValue("w:val", ""))
}

func TestPackageRoundTrip(t *testing.T) {
	in := sampleDocument()
	data, err := NewDocxBuilder().BuildDocx(in)
	require.NoError(t, err)

	out, err := ReadPackage(data)
	require.NoError(t, err)
	require.Len(t, out.Paragraphs, len(in.Paragraphs))

	for i, p := range in.Paragraphs {
		q := out.Paragraphs[i]
		assert.Equal(t, p.Kind, q.Kind, "paragraph %d", i)
		require.Len(t, q.Runs, len(p.Runs), "paragraph %d", i)
		for j, r := range p.Runs {
			assert.Equal(t, r.Text, q.Runs[j].Text)
			assert.Equal(t, r.Bold, q.Runs[j].Bold)
			assert.Equal(t, r.Italic, q.Runs[j].Italic)
			assert.Equal(t, r.Underline, q.Runs[j].Underline)
			assert.Equal(t, r.SizePt, q.Runs[j].SizePt)
		}
	}
	assert.Equal(t, "0000FF", out.Paragraphs[1].Runs[1].Color)
	assert.Equal(t, "Georgia", out.Paragraphs[1].Runs[0].Font)
}

func TestBuildDocxEmpty(t *testing.T) {
	data, err := NewDocxBuilder().BuildDocx(NewDocument())
	require.NoError(t, err)

	out, err := ReadPackage(data)
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())

	data, err = NewDocxBuilder().BuildDocx(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestBuildDocxInvalidAttributes(t *testing.T) {
	tests := []struct {
		name string
		run  Run
	}{
		{"unknown color", Run{Text: "a", Color: "not-a-color"}},
		{"bad hex", Run{Text: "a", Color: "#12345"}},
		{"negative size", Run{Text: "a", SizePt: -1}},
		{"huge size", Run{Text: "a", SizePt: 5000}},
		{"control char", Run{Text: "a\x01b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument()
			doc.Append(&Paragraph{Kind: Normal(), Runs: []Run{{Text: "ok"}}})
			doc.Append(&Paragraph{Kind: Normal(), Runs: []Run{tt.run}})

			data, err := NewDocxBuilder().BuildDocx(doc)
			assert.ErrorIs(t, err, ErrInvalidAttribute)
			assert.Nil(t, data)
		})
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#f00", "FF0000"},
		{"#00ff00", "00FF00"},
		{"#11223344", "112233"},
		{"rgb(0, 0, 255)", "0000FF"},
		{"rgba(255,255,255,0.5)", "FFFFFF"},
		{"rgb(100%, 0%, 0%)", "FF0000"},
		{"DarkRed", "8B0000"},
		{"a1b2c3", "A1B2C3"},
		{"auto", ""},
		{"hsl(0, 100%, 50%)", "FF0000"},
		{"hsl(120,100%,25%)", "008000"},
		{"hsla(240deg 100% 50% / 0.3)", "0000FF"},
		{"hsl(0.5turn, 100%, 50%)", "00FFFF"},
		{"hsl(30, 0%, 100%)", "FFFFFF"},
		{"hwb(0 0% 0%)", "FF0000"},
		{"hwb(90 60% 60%)", "808080"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"rgb(300,0,0)", "hsl(0, 150%, 50%)", "hsl(x, 10%, 10%)", "var(--accent)", "lab(50% 40 59)"} {
		_, err := NormalizeColor(bad)
		assert.ErrorIs(t, err, ErrInvalidAttribute, bad)
	}
}

func TestReadPackageInvalid(t *testing.T) {
	_, err := ReadPackage([]byte("not a zip"))
	assert.ErrorIs(t, err, ErrInvalidPackage)

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(getStylesXML()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ReadPackage(buf.Bytes())
	assert.ErrorIs(t, err, ErrInvalidPackage)
}

func TestParseDocxGroupsLists(t *testing.T) {
	doc := NewDocument()
	doc.Append(&Paragraph{Kind: Normal(), Runs: []Run{{Text: "intro "}, {Text: "text"}}})
	doc.Append(&Paragraph{Kind: ListItem(0, true), Runs: []Run{{Text: "one"}}})
	doc.Append(&Paragraph{Kind: ListItem(0, true), Runs: []Run{{Text: "two", Bold: true}}})
	doc.Append(&Paragraph{Kind: ListItem(0, false), Runs: []Run{{Text: "dot"}}})
	data, err := NewDocxBuilder().BuildDocx(doc)
	require.NoError(t, err)

	root, err := ParseDocx(data)
	require.NoError(t, err)
	require.Len(t, root.Children, 3)
	assert.Equal(t, "p", root.Children[0].Tag)
	// 样式相同的相邻run被合并
	require.Len(t, root.Children[0].Children, 1)
	assert.Equal(t, "intro text", root.Children[0].Children[0].Text)
	assert.Equal(t, "ol", root.Children[1].Tag)
	assert.Len(t, root.Children[1].Children, 2)
	assert.Equal(t, "ul", root.Children[2].Tag)

	blocks := Extract(root)
	require.Len(t, blocks, 4)
	assert.Equal(t, ListItem(0, true), blocks[2].Kind)
	assert.Equal(t, []Signal{TagBold}, blocks[2].Spans[0].Signals)
}
