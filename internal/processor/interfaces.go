package processor

import (
	"context"

	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/types"
)

//
// 文本获取相关接口
//

// TextAcquirer 把上传文档转换为原始文本
type TextAcquirer interface {
	// Acquire 尽力获取全文，失败体现在返回值的 Err/Partial 中，不返回错误
	Acquire(ctx context.Context, doc *types.ResumeDocument) parser.Acquisition
}

//
// 字段提取相关接口
//

// FieldExtractor 从全文中提取一个字段并写入结果
// 每个提取器只写自己负责的字段，因此可以并发执行
type FieldExtractor struct {
	Name  string
	Apply func(text string, result *types.ExtractionResult)
}

//
// 提取流水线接口
//

// Extractor 简历提取流水线，HTTP 层只依赖这个接口
type Extractor interface {
	Extract(ctx context.Context, doc *types.ResumeDocument) (*types.ExtractionResult, error)
}
