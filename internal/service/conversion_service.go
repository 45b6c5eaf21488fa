package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yockii/bionic_reader/internal/constant"
	"github.com/yockii/bionic_reader/internal/model"
	"github.com/yockii/bionic_reader/pkg/bionic"
	"github.com/yockii/bionic_reader/pkg/config"
	"github.com/yockii/bionic_reader/pkg/docgen"
	"github.com/yockii/bionic_reader/pkg/logger"
	"golang.org/x/text/unicode/norm"
)

const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// TextRequest 文本转换请求
type TextRequest struct {
	Text      string `json:"text"`
	FileMode  bool   `json:"fileMode"`
	ClientID  string `json:"-"`
	RequestID string `json:"-"`
}

// PagesRequest 按页转换请求，页面文本由外部提取
type PagesRequest struct {
	Pages     []string `json:"pages"`
	ClientID  string   `json:"-"`
	RequestID string   `json:"-"`
}

// FileRequest 文件转换请求
type FileRequest struct {
	Name      string
	Data      []byte
	ClientID  string
	RequestID string
}

// TextResult 仿生标记结果
type TextResult struct {
	Markup    string `json:"markup"`
	Words     int    `json:"words"`
	Truncated bool   `json:"truncated"`
	Cached    bool   `json:"cached"`
}

// FileResult 文件转换结果，纯文本文件只返回Markup
type FileResult struct {
	Format      string      `json:"format"`
	FileName    string      `json:"fileName,omitempty"`
	ContentType string      `json:"contentType,omitempty"`
	Data        []byte      `json:"-"`
	Paragraphs  int         `json:"paragraphs"`
	Markup      *TextResult `json:"markup,omitempty"`
}

// ConversionOptions 转换参数
type ConversionOptions struct {
	// WordLimit 非文件模式下的单词数上限，小于等于0表示不限制
	WordLimit int
	// SlugNames 输出文件名是否转换为slug
	SlugNames bool
}

type conversionService struct {
	opts      ConversionOptions
	generator *docgen.DocGenerator
	docx      *docgen.DocxBuilder
	records   RecordService
	cache     CacheService
}

// NewConversionService 创建转换服务，records和cache可以为nil
func NewConversionService(opts ConversionOptions, records RecordService, cache CacheService) ConversionService {
	if cache == nil {
		cache = &cacheService{}
	}
	return &conversionService{
		opts:      opts,
		generator: docgen.NewDocGenerator(),
		docx:      docgen.NewDocxBuilder(),
		records:   records,
		cache:     cache,
	}
}

// OptionsFromConfig 从配置读取转换参数
func OptionsFromConfig() ConversionOptions {
	return ConversionOptions{
		WordLimit: config.GetInt("convert.word_limit"),
		SlugNames: config.GetBool("convert.slug_names"),
	}
}

func (s *conversionService) RenderText(ctx context.Context, req *TextRequest) (*TextResult, error) {
	if req == nil {
		return nil, constant.ErrInvalidParams
	}
	start := time.Now()
	record := &model.Conversion{
		Source:     model.ConversionSourceText,
		Format:     docgen.FormatText.String(),
		InputBytes: int64(len(req.Text)),
		ClientID:   req.ClientID,
		RequestID:  req.RequestID,
	}

	result, err := s.renderText(ctx, req.Text, req.FileMode)
	if result != nil {
		record.WordCount = result.Words
		record.Truncated = result.Truncated
		record.Cached = result.Cached
		record.OutputBytes = int64(len(result.Markup))
	}
	s.record(ctx, record, start, err)
	return result, err
}

func (s *conversionService) renderText(ctx context.Context, text string, fileMode bool) (*TextResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text = norm.NFC.String(text)

	limit := s.opts.WordLimit
	if fileMode {
		limit = 0
	}

	words := bionic.CountWords(text)
	truncated := false
	if limit > 0 {
		_, truncated = bionic.Truncate(text, limit)
		words = min(words, limit)
	}

	key := RenderCacheKey(limit, text)
	if markup, ok := s.cache.Get(ctx, key); ok {
		return &TextResult{Markup: markup, Words: words, Truncated: truncated, Cached: true}, nil
	}

	markup := bionic.RenderPlain(text, limit)
	s.cache.Set(ctx, key, markup)
	return &TextResult{Markup: markup, Words: words, Truncated: truncated}, nil
}

func (s *conversionService) RenderPages(ctx context.Context, req *PagesRequest) (*TextResult, error) {
	if req == nil {
		return nil, constant.ErrInvalidParams
	}
	start := time.Now()
	record := &model.Conversion{
		Source:    model.ConversionSourcePages,
		Format:    docgen.FormatPDF.String(),
		ClientID:  req.ClientID,
		RequestID: req.RequestID,
	}

	var result *TextResult
	err := ctx.Err()
	if err == nil {
		pages := make([]string, len(req.Pages))
		words := 0
		for i, p := range req.Pages {
			pages[i] = norm.NFC.String(p)
			words += bionic.CountWords(pages[i])
			record.InputBytes += int64(len(p))
		}
		result = &TextResult{Markup: bionic.RenderPages(pages), Words: words}
		record.WordCount = words
		record.Paragraphs = len(pages)
		record.OutputBytes = int64(len(result.Markup))
	}
	s.record(ctx, record, start, err)
	return result, err
}

func (s *conversionService) ConvertFile(ctx context.Context, req *FileRequest) (*FileResult, error) {
	if req == nil || len(req.Data) == 0 {
		return nil, constant.ErrInvalidParams
	}
	start := time.Now()
	format := docgen.DetectFormat(req.Name, req.Data)
	record := &model.Conversion{
		Source:     model.ConversionSourceFile,
		Format:     format.String(),
		FileName:   req.Name,
		InputBytes: int64(len(req.Data)),
		ClientID:   req.ClientID,
		RequestID:  req.RequestID,
	}

	result, err := s.convertFile(ctx, format, req)
	if result != nil {
		record.OutputName = result.FileName
		record.OutputBytes = int64(len(result.Data))
		record.Paragraphs = result.Paragraphs
		if result.Markup != nil {
			record.WordCount = result.Markup.Words
			record.Truncated = result.Markup.Truncated
			record.Cached = result.Markup.Cached
			record.OutputBytes = int64(len(result.Markup.Markup))
		}
	}
	s.record(ctx, record, start, err)
	return result, err
}

func (s *conversionService) convertFile(ctx context.Context, format docgen.SourceFormat, req *FileRequest) (*FileResult, error) {
	switch format {
	case docgen.FormatText:
		// 上传的纯文本与文本接口一样受单词数上限限制
		markup, err := s.renderText(ctx, string(req.Data), false)
		if err != nil {
			return nil, err
		}
		return &FileResult{Format: format.String(), Markup: markup}, nil
	case docgen.FormatPDF:
		return nil, constant.ErrPDFNotSupported
	case docgen.FormatUnknown:
		return nil, constant.ErrUnsupportedFormat
	}

	doc, err := s.generator.Convert(ctx, format, req.Data)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("解析文档失败",
			logger.F(constant.LogFieldFileName, req.Name),
			logger.F(constant.LogFieldFormat, format.String()),
			logger.F("error", err),
		)
		return nil, constant.ErrExtractionFailed
	}
	if !hasText(doc) {
		return nil, constant.ErrEmptyResult
	}

	data, err := s.docx.BuildDocx(doc)
	if err != nil {
		logger.Error("生成DOCX失败", logger.F(constant.LogFieldFileName, req.Name), logger.F("error", err))
		return nil, constant.ErrSerializeError
	}

	return &FileResult{
		Format:      format.String(),
		FileName:    docgen.SuggestFileName(req.Name, s.opts.SlugNames),
		ContentType: DocxContentType,
		Data:        data,
		Paragraphs:  len(doc.Paragraphs),
	}, nil
}

func hasText(doc *docgen.Document) bool {
	if doc.IsEmpty() {
		return false
	}
	for _, p := range doc.Paragraphs {
		if len(p.Runs) > 0 {
			return true
		}
	}
	return false
}

// record 写入转换记录，请求取消后仍然写入
func (s *conversionService) record(ctx context.Context, record *model.Conversion, start time.Time, err error) {
	if s.records == nil {
		return
	}
	record.DurationMs = time.Since(start).Milliseconds()
	record.Status = model.ConversionStatusSuccess
	if err != nil {
		record.Status = model.ConversionStatusFailed
		record.ErrorMessage = truncateMessage(err.Error(), 500)
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			logger.Info("转换失败",
				logger.F(constant.LogFieldRequestID, record.RequestID),
				logger.F(constant.LogFieldFormat, record.Format),
				logger.F("error", err),
			)
		}
	}
	if err := s.records.Create(context.WithoutCancel(ctx), record); err != nil {
		logger.Warn("写入转换记录失败", logger.F(constant.LogFieldRequestID, record.RequestID), logger.F("error", err))
	}
}

func truncateMessage(msg string, limit int) string {
	if len(msg) <= limit {
		return msg
	}
	return strings.ToValidUTF8(msg[:limit], "")
}
