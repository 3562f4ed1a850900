package handler

import (
	"context"
	"errors"
	"fmt"
	"io"

	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/processor"
	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/tracing"
	"resume-parser-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ResumeHandler 处理简历解析请求
type ResumeHandler struct {
	extractor processor.Extractor
	stager    *storage.Stager
	maxUpload int64
}

// Option 处理器选项
type Option func(*ResumeHandler)

// WithMaxUploadBytes 设置单个上传文件的大小上限，超出返回 413
func WithMaxUploadBytes(n int64) Option {
	return func(h *ResumeHandler) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

// NewResumeHandler 创建简历解析处理器
func NewResumeHandler(extractor processor.Extractor, stager *storage.Stager, opts ...Option) *ResumeHandler {
	h := &ResumeHandler{
		extractor: extractor,
		stager:    stager,
		maxUpload: constants.DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// MaxUploadBytes 返回单个上传文件的大小上限
func (h *ResumeHandler) MaxUploadBytes() int64 {
	return h.maxUpload
}

// ParseResume POST /parse-resume
// 读取 multipart 字段 file，暂存后提取字段，请求结束时释放暂存内容
func (h *ResumeHandler) ParseResume(c context.Context, ctx *app.RequestContext) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			logger.Ctx(c).Error().Interface("panic", r).Msg("简历解析请求发生panic")
			h.fail(c, ctx, consts.StatusInternalServerError, err)
		}
	}()

	filename, data, err := readUpload(ctx, h.maxUpload)
	if err != nil {
		h.fail(c, ctx, statusFor(err), err)
		return
	}

	payload, err := h.stager.Stage(c, filename, data)
	if err != nil {
		h.fail(c, ctx, consts.StatusInternalServerError, processor.NewStagingError(filename, err.Error()))
		return
	}
	defer payload.Release(c)

	staged, err := payload.Read(c)
	if err != nil {
		h.fail(c, ctx, consts.StatusInternalServerError, processor.NewStagingError(filename, err.Error()))
		return
	}

	result, err := h.extractor.Extract(c, types.NewResumeDocument(filename, staged))
	if err != nil {
		h.fail(c, ctx, statusFor(err), err)
		return
	}

	ctx.JSON(consts.StatusOK, result)
}

// Health GET /health
func (h *ResumeHandler) Health(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
}

// readUpload 取出上传文件名和内容，失败时返回输入类错误
func readUpload(ctx *app.RequestContext, maxUpload int64) (string, []byte, error) {
	fileHeader, err := ctx.FormFile(constants.UploadFormField)
	if err != nil {
		// 浏览器未选择文件时会提交 filename="" 的 file 字段，它被解析为普通表单值
		if form, formErr := ctx.MultipartForm(); formErr == nil {
			if _, ok := form.Value[constants.UploadFormField]; ok {
				return "", nil, processor.ErrNoFileName
			}
		}
		return "", nil, processor.ErrNoFile
	}
	if fileHeader.Filename == "" {
		return "", nil, processor.ErrNoFileName
	}
	if fileHeader.Size > maxUpload {
		return "", nil, processor.ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", nil, fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUpload+1))
	if err != nil {
		return "", nil, fmt.Errorf("读取上传文件失败: %w", err)
	}
	if int64(len(data)) > maxUpload {
		return "", nil, processor.ErrFileTooLarge
	}
	if len(data) == 0 {
		return "", nil, processor.ErrEmptyPayload
	}
	return fileHeader.Filename, data, nil
}

// statusFor 文件过大映射为 413，其余输入类错误为 400，其他为 500
func statusFor(err error) int {
	switch {
	case errors.Is(err, processor.ErrFileTooLarge):
		return consts.StatusRequestEntityTooLarge
	case processor.IsInputError(err):
		return consts.StatusBadRequest
	}
	return consts.StatusInternalServerError
}

// errorTypeFor 按错误来源给 span 分类
func errorTypeFor(err error) tracing.ErrorType {
	switch {
	case processor.IsInputError(err):
		return tracing.ErrorTypeValidation
	case errors.Is(err, processor.ErrStagingFailed):
		return tracing.ErrorTypeStaging
	case errors.Is(err, processor.ErrExtractionAborted):
		return tracing.ErrorTypeTimeout
	}
	return tracing.ErrorTypeInternal
}

// fail 写出 {"error": msg}，输入类错误只返回原始消息
func (h *ResumeHandler) fail(c context.Context, ctx *app.RequestContext, status int, err error) {
	message := err.Error()
	if inputErr := processor.InputErrorOf(err); inputErr != nil {
		message = inputErr.Error()
	}

	span := trace.SpanFromContext(c)
	tracing.RecordHTTPError(span, err, status, errorTypeFor(err))
	span.SetAttributes(attribute.String("http.route", constants.ParseResumePath))

	event := logger.Ctx(c).Warn()
	if status >= consts.StatusInternalServerError {
		event = logger.Ctx(c).Error()
	}
	event.Err(err).Int("status", status).Msg("简历解析请求失败")

	ctx.JSON(status, utils.H{"error": message})
}
