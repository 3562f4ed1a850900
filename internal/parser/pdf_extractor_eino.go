package parser

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
)

// EinoPDFTextExtractor 使用 Eino PDF Parser 提取文本
type EinoPDFTextExtractor struct {
	parser  *pdf.PDFParser
	logger  *log.Logger
	timeout time.Duration
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFTextExtractor)

// WithEinoLogger 配置自定义日志记录器 (导出)
func WithEinoLogger(logger *log.Logger) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		e.logger = logger
	}
}

// WithEinoTimeout 配置单个文档的解析超时
func WithEinoTimeout(timeout time.Duration) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// NewEinoPDFTextExtractor 初始化 Eino PDF 文本提取器
// 按页面分割，调用方按顺序拼接
func NewEinoPDFTextExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	extractor := &EinoPDFTextExtractor{
		parser:  p,
		logger:  log.New(os.Stderr, "[EinoPDF] ", log.LstdFlags),
		timeout: 30 * time.Second,
	}

	for _, option := range options {
		option(extractor)
	}

	return extractor, nil
}

// Name 返回引擎名称
func (e *EinoPDFTextExtractor) Name() string {
	return "eino"
}

// ExtractPages 解析整个文档，任何失败都不返回部分内容
func (e *EinoPDFTextExtractor) ExtractPages(ctx context.Context, data []byte, uri string) (result PDFText, err error) {
	startTime := time.Now()
	e.logger.Printf("开始从字节提取PDF文本 (URI: %s, 大小: %.2f KB)", uri, float64(len(data))/1024)

	// 创建带超时的上下文
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			result, err = PDFText{}, fmt.Errorf("eino PDF parser panic for URI %s: %v", uri, r)
			e.logger.Printf("%v", err)
		}
	}()

	docs, err := e.parser.Parse(ctx, bytes.NewReader(data),
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(map[string]any{
			"extraction_time": startTime.Format(time.RFC3339),
		}),
	)

	duration := time.Since(startTime)
	if err != nil {
		e.logger.Printf("PDF解析失败: %s (用时 %.2f秒)", err, duration.Seconds())
		return PDFText{}, fmt.Errorf("eino PDF parser failed for URI %s: %w", uri, err)
	}

	result.TotalPages = len(docs)
	result.Pages = make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		result.Pages = append(result.Pages, doc.Content)
	}

	e.logger.Printf("PDF提取完成: %d页 (用时 %.2f秒)", len(result.Pages), duration.Seconds())
	return result, nil
}
