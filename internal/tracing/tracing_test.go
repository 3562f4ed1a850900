package tracing

import (
	"context"
	"errors"
	"testing"

	"resume-parser-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestMaskPII(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a", "*"},
		{"ab", "a*"},
		{"abcd", "a**d"},
		{"jane@roe.dev", "ja********ev"},
		{"555-123-4567", "55********67"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, MaskPII(tc.in))
		})
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abc", TruncateString("abcdef", 3))
	assert.Equal(t, "ab...ij", TruncateString("abcdefghij", 7))
	// 按 rune 截断，不会切坏多字节字符
	assert.Equal(t, "简历...文本", TruncateString("简历内容很长的文本", 7))
}

func TestSafeAttributeValue(t *testing.T) {
	assert.Equal(t, "ja********ev", SafeAttributeValue("resume.email", "jane@roe.dev", DefaultMaxLength))
	assert.Equal(t, "resume.pdf", SafeAttributeValue("upload.file", "resume.pdf", DefaultMaxLength))
}

func TestRecordErrorWithInfo(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := provider.Tracer("test").Start(context.Background(), "op")

	RecordError(span, nil, ErrorTypePDF)
	RecordError(span, errors.New("bad xref"), ErrorTypePDF)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "bad xref", spans[0].Status().Description)

	var errorType string
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "error.type" {
			errorType = kv.Value.AsString()
		}
	}
	assert.Equal(t, string(ErrorTypePDF), errorType)
}

func TestRecordHTTPError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := provider.Tracer("test").Start(context.Background(), "request")

	RecordHTTPError(span, errors.New("disk full"), 500, ErrorTypeStaging)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := make(map[string]any)
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, string(ErrorTypeStaging), attrs["error.type"])
	assert.Equal(t, int64(500), attrs["http.status_code"])
	assert.Equal(t, "server_error", attrs["error.category"])
}

func TestInitProvider_Disabled(t *testing.T) {
	shutdown, err := InitProvider(context.Background(), config.TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
