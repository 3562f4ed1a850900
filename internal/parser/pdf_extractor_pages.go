package parser

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ledongthuc/pdf"
)

// PagePDFExtractor 基于 ledongthuc/pdf 的逐页文本提取器
// 某一页失败（错误或panic）时保留之前各页的文本
type PagePDFExtractor struct {
	logger *log.Logger
}

// PageOption 逐页提取器的配置选项
type PageOption func(*PagePDFExtractor)

// WithPageLogger 配置自定义日志记录器
func WithPageLogger(logger *log.Logger) PageOption {
	return func(e *PagePDFExtractor) {
		e.logger = logger
	}
}

// NewPagePDFExtractor 创建逐页PDF提取器
func NewPagePDFExtractor(options ...PageOption) *PagePDFExtractor {
	extractor := &PagePDFExtractor{
		logger: log.New(os.Stderr, "[PagePDF] ", log.LstdFlags),
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor
}

// Name 返回引擎名称
func (e *PagePDFExtractor) Name() string {
	return "pages"
}

// ExtractPages 逐页读取PDF文本
func (e *PagePDFExtractor) ExtractPages(ctx context.Context, data []byte, uri string) (result PDFText, err error) {
	startTime := time.Now()

	reader, err := openPDF(data)
	if err != nil {
		e.logger.Printf("打开PDF失败 (URI: %s): %v", uri, err)
		return PDFText{}, err
	}

	result.TotalPages = reader.NumPage()
	result.Pages = make([]string, 0, result.TotalPages)

	for i := 1; i <= result.TotalPages; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("第%d页之前上下文已取消: %w", i, ctxErr)
		}

		text, pageErr := readPage(reader, i)
		if pageErr != nil {
			e.logger.Printf("读取第%d/%d页失败 (URI: %s)，保留前%d页: %v", i, result.TotalPages, uri, len(result.Pages), pageErr)
			return result, pageErr
		}
		result.Pages = append(result.Pages, text)
	}

	e.logger.Printf("PDF逐页提取完成 (URI: %s): %d页 (用时 %.2f秒)", uri, len(result.Pages), time.Since(startTime).Seconds())
	return result, nil
}

// openPDF 解析PDF交叉引用表，损坏的文件可能直接panic
func openPDF(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader, err = nil, fmt.Errorf("打开PDF时发生panic: %v", r)
		}
	}()

	reader, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	return reader, nil
}

func readPage(reader *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("第%d页解析panic: %v", num, r)
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return "", nil
	}
	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("第%d页提取文本失败: %w", num, err)
	}
	return text, nil
}
