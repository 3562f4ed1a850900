package parser

import (
	"context"
	"strings"
)

// PDFText 一次PDF解析的逐页结果
type PDFText struct {
	Pages      []string // 按文档顺序成功读取的页面文本
	TotalPages int      // 文档声明的页数，无法打开时为0
}

// Joined 按页顺序直接拼接，不加分隔符
func (p PDFText) Joined() string {
	return strings.Join(p.Pages, "")
}

// PDFExtractor PDF提取器接口
//
// 返回错误时 Pages 仍然包含出错页之前读取到的内容，调用方可以据此得到部分文本。
type PDFExtractor interface {
	ExtractPages(ctx context.Context, data []byte, uri string) (PDFText, error)
	// Name 引擎名称，用于日志
	Name() string
}
