package processor // 简历字段提取流水线：获取文本、运行字段提取器、生成预览

import (
	"context"
	"fmt"
	"log"
	"time"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/tracing"
	"resume-parser-go/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Components 聚合流水线依赖，便于测试替换
type Components struct {
	Acquirer TextAcquirer     // 文本获取
	Fields   []FieldExtractor // 字段提取器，为空时使用默认六个
}

// Settings 纯配置项
type Settings struct {
	Parallel bool // 是否并发执行字段提取器
}

// SettingOpt 设置选项类型，仅改变 Settings 结构体内的字段
type SettingOpt func(*Settings)

// WithsetParallel 开启/关闭并发字段提取
func WithsetParallel(parallel bool) SettingOpt {
	return func(s *Settings) {
		s.Parallel = parallel
	}
}

// ResumeProcessor 简历提取流水线
type ResumeProcessor struct {
	acquirer TextAcquirer
	fields   []FieldExtractor
	parallel bool
}

var _ Extractor = (*ResumeProcessor)(nil)

// NewResumeProcessor 使用组件和设置创建处理器
func NewResumeProcessor(comp *Components, set *Settings, opts ...SettingOpt) *ResumeProcessor {
	if comp == nil {
		comp = &Components{}
	}
	if set == nil {
		set = &Settings{}
	}
	for _, opt := range opts {
		opt(set)
	}

	acquirer := comp.Acquirer
	if acquirer == nil {
		acquirer = parser.NewTextAcquirer(nil)
	}
	extractors := comp.Fields
	if len(extractors) == 0 {
		extractors = DefaultFieldExtractors()
	}

	return &ResumeProcessor{
		acquirer: acquirer,
		fields:   extractors,
		parallel: set.Parallel,
	}
}

// NewProcessorFromConfig 根据配置构建PDF引擎和处理器
func NewProcessorFromConfig(ctx context.Context, cfg *config.Config) (*ResumeProcessor, error) {
	pdfExtractor, err := BuildPDFExtractor(ctx, cfg, func(prefix string) *log.Logger {
		return logger.StdLogger(prefix)
	})
	if err != nil {
		return nil, fmt.Errorf("初始化PDF解析器失败: %w", err)
	}

	return NewResumeProcessor(
		&Components{Acquirer: parser.NewTextAcquirer(pdfExtractor)},
		&Settings{Parallel: cfg.Extraction.Parallel},
	), nil
}

// Extract 对一个文档执行完整的提取流程
// 唯一的错误来源是上下文被取消
func (rp *ResumeProcessor) Extract(ctx context.Context, doc *types.ResumeDocument) (*types.ExtractionResult, error) {
	if doc == nil {
		return nil, ErrNoFile
	}
	if err := ctx.Err(); err != nil {
		return nil, NewAbortedError(doc.Filename, err.Error())
	}

	startTime := time.Now()
	ctx, span := tracing.Tracer().Start(ctx, "ResumeProcessor.Extract",
		trace.WithAttributes(
			safeString("resume.filename", tracing.SafeFilename(doc.Filename)),
			attribute.String("resume.format", string(doc.Format)),
			attribute.Int("resume.size_bytes", len(doc.Data)),
			attribute.Bool("extraction.parallel", rp.parallel),
		))
	defer span.End()

	acq := rp.acquirer.Acquire(ctx, doc)
	span.SetAttributes(
		attribute.Int("resume.text_length", len(acq.Text)),
		attribute.Int("pdf.pages", acq.Pages),
		attribute.Int("pdf.pages_read", acq.PagesRead),
		attribute.Bool("pdf.partial", acq.Partial),
	)

	if err := ctx.Err(); err != nil {
		aborted := NewAbortedError(doc.Filename, err.Error())
		tracing.RecordError(span, aborted, tracing.ErrorTypeTimeout)
		return nil, aborted
	}

	result := &types.ExtractionResult{Skills: []string{}}
	rp.runFields(ctx, acq.Text, result)
	if result.Skills == nil {
		result.Skills = []string{}
	}
	result.TextPreview = Preview(acq.Text, constants.PreviewRunes)

	rp.annotate(span, result)
	logger.Ctx(ctx).Info().
		Str("filename", tracing.SafeFilename(doc.Filename)).
		Str("format", string(doc.Format)).
		Int("text_length", len(acq.Text)).
		Bool("partial", acq.Partial).
		Int("skills", len(result.Skills)).
		Int("experience_years", result.ExperienceYears).
		Dur("elapsed", time.Since(startTime)).
		Msg("简历字段提取完成")

	return result, nil
}

// runFields 运行所有字段提取器，单个提取器失败只影响它自己的字段
func (rp *ResumeProcessor) runFields(ctx context.Context, text string, result *types.ExtractionResult) {
	if !rp.parallel {
		for _, fe := range rp.fields {
			rp.applyField(ctx, fe, text, result)
		}
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, fe := range rp.fields {
		fe := fe
		g.Go(func() error {
			rp.applyField(gctx, fe, text, result)
			return nil
		})
	}
	_ = g.Wait()
}

func (rp *ResumeProcessor) applyField(ctx context.Context, fe FieldExtractor, text string, result *types.ExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			err := NewExtractorPanicError(fe.Name, r)
			span := trace.SpanFromContext(ctx)
			span.AddEvent("field_extractor_failed", trace.WithAttributes(
				attribute.String("field", fe.Name),
				attribute.String("error.type", string(tracing.ErrorTypeExtractor)),
				attribute.String("error.message", tracing.TruncateString(err.Error(), tracing.DefaultMaxLength)),
			))
			logger.Ctx(ctx).Error().
				Err(err).
				Str("field", fe.Name).
				Msg("字段提取器发生panic，该字段使用默认值")
		}
	}()
	fe.Apply(text, result)
}

// annotate 把提取结果写入 span，邮箱和电话做掩码
func (rp *ResumeProcessor) annotate(span trace.Span, result *types.ExtractionResult) {
	attrs := []attribute.KeyValue{
		attribute.Int("result.skills_count", len(result.Skills)),
		attribute.Int("result.experience_years", result.ExperienceYears),
		attribute.Bool("result.has_gpa", result.GPA != nil),
	}
	if result.Email != nil {
		attrs = append(attrs, safeString("result.email", *result.Email))
	}
	if result.Phone != nil {
		attrs = append(attrs, safeString("result.phone", result.Phone.String()))
	}
	if result.MastersStatus != nil {
		attrs = append(attrs, attribute.String("result.masters_status", string(*result.MastersStatus)))
	}
	span.SetAttributes(attrs...)
}

// safeString 属性名命中敏感关键字时掩码，否则截断
func safeString(key, value string) attribute.KeyValue {
	return attribute.String(key, tracing.SafeAttributeValue(key, value, tracing.DefaultMaxLength))
}

// PDFEngine 返回文本获取器使用的PDF引擎名称，未知时为空
func (rp *ResumeProcessor) PDFEngine() string {
	if e, ok := rp.acquirer.(interface{ Engine() string }); ok {
		return e.Engine()
	}
	return ""
}

// Preview 返回文本的前 n 个字符 (按 rune 计)，不足时原样返回
func Preview(text string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}
