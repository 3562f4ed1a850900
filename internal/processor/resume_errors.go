package processor

import (
	"errors"
	"fmt"
)

// 请求输入错误，消息会原样返回给客户端
var (
	ErrNoFile       = errors.New("No file provided")
	ErrNoFileName   = errors.New("No file selected")
	ErrEmptyPayload = errors.New("Empty file")
	ErrFileTooLarge = errors.New("File too large")
)

// 服务端错误
var (
	ErrStagingFailed     = errors.New("failed to stage uploaded file")
	ErrExtractionAborted = errors.New("extraction aborted")
	ErrExtractorPanic    = errors.New("field extractor panicked")
)

// ExtractionError 包含详细错误信息的自定义错误
type ExtractionError struct {
	Op       string
	Filename string
	BaseErr  error
	Detail   string
}

func (e *ExtractionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 文件:%s): %s", e.BaseErr, e.Op, e.Filename, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 文件:%s)", e.BaseErr, e.Op, e.Filename)
}

func (e *ExtractionError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *ExtractionError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// inputErrors 客户端输入类错误
var inputErrors = []error{ErrNoFile, ErrNoFileName, ErrEmptyPayload, ErrFileTooLarge}

// IsInputError 判断错误是否由客户端输入引起 (映射为 4xx)
func IsInputError(err error) bool {
	return InputErrorOf(err) != nil
}

// InputErrorOf 返回 err 链上的输入类哨兵错误，没有时返回 nil
func InputErrorOf(err error) error {
	for _, inputErr := range inputErrors {
		if errors.Is(err, inputErr) {
			return inputErr
		}
	}
	return nil
}

// 错误构造函数
func NewStagingError(filename, detail string) error {
	return &ExtractionError{
		Op:       "stage",
		Filename: filename,
		BaseErr:  ErrStagingFailed,
		Detail:   detail,
	}
}

func NewAbortedError(filename, detail string) error {
	return &ExtractionError{
		Op:       "extract",
		Filename: filename,
		BaseErr:  ErrExtractionAborted,
		Detail:   detail,
	}
}

func NewExtractorPanicError(field string, recovered any) error {
	return &ExtractionError{
		Op:      "field:" + field,
		BaseErr: ErrExtractorPanic,
		Detail:  fmt.Sprint(recovered),
	}
}
