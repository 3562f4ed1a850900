package parser

import (
	"context"
	"errors"

	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/tracing"
	"resume-parser-go/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Acquisition 文本获取的尽力而为结果
type Acquisition struct {
	Text      string
	Format    types.DocumentFormat
	Pages     int   // PDF声明页数，纯文本为0
	PagesRead int   // 成功读取的页数
	Partial   bool  // 只拿到了部分页面
	Err       error // 底层失败原因，仅用于日志和追踪
}

// Empty 是否没有得到任何文本
func (a Acquisition) Empty() bool {
	return a.Text == ""
}

// TextAcquirer 把上传文档转换为原始文本
type TextAcquirer struct {
	pdf PDFExtractor
}

// NewTextAcquirer 创建文本获取器，pdf 为空时使用逐页引擎
func NewTextAcquirer(pdf PDFExtractor) *TextAcquirer {
	if pdf == nil {
		pdf = NewPagePDFExtractor(WithPageLogger(logger.StdLogger("[PagePDF] ")))
	}
	return &TextAcquirer{pdf: pdf}
}

// Engine 返回当前PDF引擎名称
func (a *TextAcquirer) Engine() string {
	return a.pdf.Name()
}

// Acquire 获取文档的全文，失败只记录日志和追踪，不向调用方返回错误
func (a *TextAcquirer) Acquire(ctx context.Context, doc *types.ResumeDocument) Acquisition {
	if doc == nil {
		return Acquisition{Format: types.FormatText}
	}

	if doc.Format != types.FormatPDF {
		return Acquisition{
			Text:   DecodeText(doc.Data),
			Format: types.FormatText,
		}
	}

	result, err := a.pdf.ExtractPages(ctx, doc.Data, doc.Filename)
	acq := Acquisition{
		Text:      result.Joined(),
		Format:    types.FormatPDF,
		Pages:     result.TotalPages,
		PagesRead: len(result.Pages),
		Err:       err,
	}
	if err == nil {
		return acq
	}

	acq.Partial = acq.PagesRead > 0
	a.report(ctx, doc.Filename, acq)
	return acq
}

func (a *TextAcquirer) report(ctx context.Context, filename string, acq Acquisition) {
	errorType := tracing.ErrorTypePDF
	if errors.Is(acq.Err, context.DeadlineExceeded) || errors.Is(acq.Err, context.Canceled) {
		errorType = tracing.ErrorTypeTimeout
	}

	span := trace.SpanFromContext(ctx)
	tracing.RecordErrorWithInfo(span, acq.Err, errorType,
		attribute.String("pdf.engine", a.pdf.Name()),
		attribute.Int("pdf.pages", acq.Pages),
		attribute.Int("pdf.pages_read", acq.PagesRead),
		attribute.Bool("pdf.partial", acq.Partial),
	)

	logger.Ctx(ctx).Warn().
		Err(acq.Err).
		Str("filename", tracing.SafeFilename(filename)).
		Str("engine", a.pdf.Name()).
		Int("pages", acq.Pages).
		Int("pages_read", acq.PagesRead).
		Bool("partial", acq.Partial).
		Msg("PDF文本提取失败，使用已读取的部分文本继续")
}
