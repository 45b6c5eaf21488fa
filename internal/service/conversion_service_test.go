package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yockii/bionic_reader/internal/constant"
	"github.com/yockii/bionic_reader/internal/model"
	"github.com/yockii/bionic_reader/pkg/docgen"
)

// memoryCache 测试用的内存缓存
type memoryCache struct {
	data map[string]string
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *memoryCache) Set(_ context.Context, key, value string) {
	c.data[key] = value
}

func (c *memoryCache) Enabled() bool { return true }

func TestRenderText(t *testing.T) {
	cache := &memoryCache{data: map[string]string{}}
	svc := NewConversionService(ConversionOptions{WordLimit: 300}, nil, cache)
	ctx := context.Background()

	res, err := svc.RenderText(ctx, &TextRequest{Text: "Lire vite"})
	require.NoError(t, err)
	assert.Equal(t, "<b>Li</b>re <b>vi</b>te", res.Markup)
	assert.Equal(t, 2, res.Words)
	assert.False(t, res.Truncated)
	assert.False(t, res.Cached)

	res, err = svc.RenderText(ctx, &TextRequest{Text: "Lire vite"})
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Equal(t, "<b>Li</b>re <b>vi</b>te", res.Markup)

	_, err = svc.RenderText(ctx, nil)
	assert.ErrorIs(t, err, constant.ErrInvalidParams)
}

func TestRenderTextWordLimit(t *testing.T) {
	svc := NewConversionService(ConversionOptions{WordLimit: 300}, nil, nil)
	text := strings.Repeat("mot ", 500)

	res, err := svc.RenderText(context.Background(), &TextRequest{Text: text})
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Equal(t, 300, res.Words)
	assert.Equal(t, 300, strings.Count(res.Markup, "<b>"))

	res, err = svc.RenderText(context.Background(), &TextRequest{Text: text, FileMode: true})
	require.NoError(t, err)
	assert.False(t, res.Truncated)
	assert.Equal(t, 500, strings.Count(res.Markup, "<b>"))
}

func TestRenderPages(t *testing.T) {
	svc := NewConversionService(ConversionOptions{WordLimit: 1}, nil, nil)

	res, err := svc.RenderPages(context.Background(), &PagesRequest{Pages: []string{"page one", "page two"}})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Words)
	assert.Equal(t, 4, strings.Count(res.Markup, "<b>"))
}

func TestConvertTextFileUsesWordLimit(t *testing.T) {
	svc := NewConversionService(ConversionOptions{WordLimit: 2}, nil, nil)

	res, err := svc.ConvertFile(context.Background(), &FileRequest{Name: "notes.txt", Data: []byte("Lire vite et bien")})
	require.NoError(t, err)
	require.NotNil(t, res.Markup)
	assert.Equal(t, "<b>Li</b>re <b>vi</b>te", res.Markup.Markup)
	assert.True(t, res.Markup.Truncated)
	assert.Equal(t, 2, res.Markup.Words)
}

func TestConvertFile(t *testing.T) {
	setupDB(t)
	records := NewRecordService()
	svc := NewConversionService(ConversionOptions{WordLimit: 300}, records, nil)
	ctx := context.Background()

	res, err := svc.ConvertFile(ctx, &FileRequest{Name: "notes.md", Data: []byte("# Titre\n\nLire vite"), ClientID: "web"})
	require.NoError(t, err)
	assert.Equal(t, "notes_bionic.docx", res.FileName)
	assert.Equal(t, DocxContentType, res.ContentType)
	assert.Equal(t, 2, res.Paragraphs)

	doc, err := docgen.ReadPackage(res.Data)
	require.NoError(t, err)
	require.Len(t, doc.Paragraphs, 2)
	assert.Equal(t, docgen.Heading(1), doc.Paragraphs[0].Kind)

	res, err = svc.ConvertFile(ctx, &FileRequest{Name: "plain.txt", Data: []byte("Lire vite")})
	require.NoError(t, err)
	require.NotNil(t, res.Markup)
	assert.Equal(t, "<b>Li</b>re <b>vi</b>te", res.Markup.Markup)
	assert.Nil(t, res.Data)

	list, total, err := records.List(ctx, &model.Conversion{ClientID: "web"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, model.ConversionStatusSuccess, list[0].Status)
	assert.Equal(t, "notes_bionic.docx", list[0].OutputName)
}

func TestConvertFileFailures(t *testing.T) {
	setupDB(t)
	records := NewRecordService()
	svc := NewConversionService(ConversionOptions{}, records, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		file string
		data []byte
		err  error
	}{
		{"pdf", "scan.pdf", []byte("%PDF-1.4\n"), constant.ErrPDFNotSupported},
		{"binary", "blob", []byte{0x00, 0xff, 0x80, 0x81}, constant.ErrUnsupportedFormat},
		{"broken docx", "broken.docx", []byte("not a zip"), constant.ErrExtractionFailed},
		{"table only", "table.html", []byte("<table><tr><td>x</td></tr></table>"), constant.ErrEmptyResult},
		{"empty", "empty.txt", nil, constant.ErrInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.ConvertFile(ctx, &FileRequest{Name: tt.file, Data: tt.data})
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, res)
		})
	}

	// 参数错误之外的失败都会留下记录
	_, total, err := records.List(ctx, &model.Conversion{Status: model.ConversionStatusFailed}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
}

func TestConvertFileCancelled(t *testing.T) {
	svc := NewConversionService(ConversionOptions{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ConvertFile(ctx, &FileRequest{Name: "a.html", Data: []byte("<p>x</p>")})
	assert.ErrorIs(t, err, context.Canceled)
}
