package parser

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"resume-parser-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// stubPDFExtractor 返回预设结果的PDF提取器
type stubPDFExtractor struct {
	result PDFText
	err    error
	calls  int
}

func (s *stubPDFExtractor) ExtractPages(ctx context.Context, data []byte, uri string) (PDFText, error) {
	s.calls++
	return s.result, s.err
}

func (s *stubPDFExtractor) Name() string { return "stub" }

func TestPagePDFExtractor_ReadsPagesInOrder(t *testing.T) {
	extractor := NewPagePDFExtractor(WithPageLogger(quietLogger()))
	data := buildTestPDF("Jane Roe jane@roe.dev", "Skills Python Docker")

	result, err := extractor.ExtractPages(context.Background(), data, "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.Pages, 2)
	assert.Contains(t, result.Pages[0], "jane@roe.dev")
	assert.Contains(t, result.Pages[1], "Python")

	joined := result.Joined()
	assert.Less(t, strings.Index(joined, "jane@roe.dev"), strings.Index(joined, "Python"), "页面应按文档顺序拼接")
}

func TestPagePDFExtractor_CorruptDocument(t *testing.T) {
	extractor := NewPagePDFExtractor(WithPageLogger(quietLogger()))

	result, err := extractor.ExtractPages(context.Background(), []byte("%PDF-1.4 definitely not a pdf"), "broken.pdf")
	assert.Error(t, err)
	assert.Empty(t, result.Pages)
	assert.Equal(t, "", result.Joined())
}

func TestPagePDFExtractor_CancelledContext(t *testing.T) {
	extractor := NewPagePDFExtractor(WithPageLogger(quietLogger()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := extractor.ExtractPages(ctx, buildTestPDF("one"), "resume.pdf")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Pages)
}

func TestNewEinoPDFTextExtractor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	customLogger := quietLogger()
	extractor, err := NewEinoPDFTextExtractor(ctx, WithEinoLogger(customLogger), WithEinoTimeout(3*time.Second))
	require.NoError(t, err, "创建PDF提取器不应返回错误")
	require.NotNil(t, extractor.parser, "PDF提取器内部的parser不应为nil")
	assert.Equal(t, customLogger, extractor.logger, "应该使用提供的自定义logger")
	assert.Equal(t, 3*time.Second, extractor.timeout)
	assert.Equal(t, "eino", extractor.Name())
}

func TestEinoPDFTextExtractor_CorruptDocument(t *testing.T) {
	extractor, err := NewEinoPDFTextExtractor(context.Background(), WithEinoLogger(quietLogger()))
	require.NoError(t, err)

	result, err := extractor.ExtractPages(context.Background(), []byte("not a pdf at all"), "broken.pdf")
	assert.Error(t, err)
	assert.Empty(t, result.Joined())
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"空输入", nil, ""},
		{"普通UTF-8", []byte("Jane Roe, 3 years of experience"), "Jane Roe, 3 years of experience"},
		{"跳过非法字节", []byte("Py\xffthon\xfe SQL"), "Python SQL"},
		{"去掉UTF-8 BOM", append([]byte{0xEF, 0xBB, 0xBF}, []byte("GPA: 3.8")...), "GPA: 3.8"},
		{"UTF-16LE带BOM", []byte{0xFF, 0xFE, 'G', 0, 'o', 0}, "Go"},
		{"多字节字符保留", []byte("简历 résumé"), "简历 résumé"},
		{"保留原文中的替换字符", []byte("a\uFFFDb\xff"), "a\uFFFDb"},
		{"UTF-16非法代理对被跳过", []byte{0xFF, 0xFE, 'A', 0, 0x00, 0xD8, 'B', 0}, "AB"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DecodeText(tc.data))
		})
	}
}

func TestTextAcquirer_PlainText(t *testing.T) {
	stub := &stubPDFExtractor{}
	acquirer := NewTextAcquirer(stub)

	acq := acquirer.Acquire(context.Background(), types.NewResumeDocument("resume.txt", []byte("hello\xff world")))
	assert.Equal(t, "hello world", acq.Text)
	assert.Equal(t, types.FormatText, acq.Format)
	assert.NoError(t, acq.Err)
	assert.Zero(t, stub.calls, "纯文本不应调用PDF引擎")
}

func TestTextAcquirer_UppercasePDFSuffixIsText(t *testing.T) {
	stub := &stubPDFExtractor{}
	acquirer := NewTextAcquirer(stub)

	acq := acquirer.Acquire(context.Background(), types.NewResumeDocument("resume.PDF", []byte("plain body")))
	assert.Equal(t, "plain body", acq.Text)
	assert.Zero(t, stub.calls)
}

func TestTextAcquirer_PDF(t *testing.T) {
	t.Run("完整读取", func(t *testing.T) {
		stub := &stubPDFExtractor{result: PDFText{Pages: []string{"page one ", "page two"}, TotalPages: 2}}
		acq := NewTextAcquirer(stub).Acquire(context.Background(), types.NewResumeDocument("cv.pdf", []byte("%PDF")))

		assert.Equal(t, "page one page two", acq.Text)
		assert.Equal(t, 2, acq.PagesRead)
		assert.False(t, acq.Partial)
		assert.NoError(t, acq.Err)
	})

	t.Run("第三页失败保留前两页", func(t *testing.T) {
		stub := &stubPDFExtractor{
			result: PDFText{Pages: []string{"A", "B"}, TotalPages: 5},
			err:    errors.New("page 3 malformed"),
		}
		acq := NewTextAcquirer(stub).Acquire(context.Background(), types.NewResumeDocument("cv.pdf", []byte("%PDF")))

		assert.Equal(t, "AB", acq.Text)
		assert.True(t, acq.Partial)
		assert.Equal(t, 5, acq.Pages)
		assert.Equal(t, 2, acq.PagesRead)
		assert.Error(t, acq.Err)
	})

	t.Run("无法打开返回空文本", func(t *testing.T) {
		stub := &stubPDFExtractor{err: errors.New("bad header")}
		acq := NewTextAcquirer(stub).Acquire(context.Background(), types.NewResumeDocument("cv.pdf", []byte("junk")))

		assert.True(t, acq.Empty())
		assert.False(t, acq.Partial)
		assert.Error(t, acq.Err)
	})
}

func TestTextAcquirer_DefaultEngineWithCorruptPDF(t *testing.T) {
	acquirer := NewTextAcquirer(nil)
	assert.Equal(t, "pages", acquirer.Engine())

	acq := acquirer.Acquire(context.Background(), types.NewResumeDocument("cv.pdf", []byte("garbage")))
	assert.Equal(t, "", acq.Text, "损坏的PDF应得到空文本而不是错误")
}

func TestTextAcquirer_NilDocument(t *testing.T) {
	acq := NewTextAcquirer(&stubPDFExtractor{}).Acquire(context.Background(), nil)
	assert.True(t, acq.Empty())
}
