package processor

import (
	"context"
	"fmt"
	"log"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/parser"
)

// BuildPDFExtractor 统一构建PDF解析器的逻辑
// 根据 pdf.engine 返回对应的实现
func BuildPDFExtractor(ctx context.Context, cfg *config.Config, loggerProvider func(prefix string) *log.Logger) (parser.PDFExtractor, error) {
	initLogger := loggerProvider("[PDFExtractorInit] ")

	switch cfg.PDF.Engine {
	case config.PDFEngineEino:
		initLogger.Println("使用Eino作为PDF解析器...")
		return parser.NewEinoPDFTextExtractor(ctx,
			parser.WithEinoLogger(loggerProvider("[EinoPDF] ")),
			parser.WithEinoTimeout(cfg.PDFTimeout()),
		)
	case config.PDFEnginePages, "":
		initLogger.Println("使用逐页解析器作为PDF解析器...")
		return parser.NewPagePDFExtractor(parser.WithPageLogger(loggerProvider("[PagePDF] "))), nil
	default:
		return nil, fmt.Errorf("不支持的PDF解析引擎: %s", cfg.PDF.Engine)
	}
}
