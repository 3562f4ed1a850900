package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DocumentFormat 表示上传文档的声明格式
type DocumentFormat string

const (
	// FormatPDF PDF文档，按页提取文本
	FormatPDF DocumentFormat = "pdf"
	// FormatText 纯文本（以及所有无法识别的格式）
	FormatText DocumentFormat = "text"
)

// pdfSuffix 区分大小写，"resume.PDF" 会按纯文本处理
const pdfSuffix = ".pdf"

// InferFormat 根据文件名后缀推断文档格式
func InferFormat(filename string) DocumentFormat {
	if strings.HasSuffix(filename, pdfSuffix) {
		return FormatPDF
	}
	return FormatText
}

// ResumeDocument 一次提取调用期间存在的临时文档
type ResumeDocument struct {
	Filename string         // 原始文件名
	Format   DocumentFormat // 声明/推断的格式
	Data     []byte         // 原始字节
}

// NewResumeDocument 使用文件名推断格式并构建文档
func NewResumeDocument(filename string, data []byte) *ResumeDocument {
	return &ResumeDocument{
		Filename: filename,
		Format:   InferFormat(filename),
		Data:     data,
	}
}

// PhoneNumber 北美10位电话号码的三段数字
type PhoneNumber struct {
	AreaCode string
	Exchange string
	Line     string
}

// MarshalJSON 序列化为 ["555","123","4567"]，与原有接口保持一致
func (p PhoneNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]string{p.AreaCode, p.Exchange, p.Line})
}

// UnmarshalJSON 从三元素数组反序列化
func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("phone must have 3 groups, got %d", len(parts))
	}
	p.AreaCode, p.Exchange, p.Line = parts[0], parts[1], parts[2]
	return nil
}

// String 返回 "555-123-4567" 形式
func (p PhoneNumber) String() string {
	return p.AreaCode + "-" + p.Exchange + "-" + p.Line
}

// MastersStatus 硕士学位状态
type MastersStatus string

const (
	// MastersInProgress 在读
	MastersInProgress MastersStatus = "in_progress"
	// MastersCompleted 已完成（未发现进行中指示词时的默认值）
	MastersCompleted MastersStatus = "completed"
)

// ExtractionResult 一次提取流程的聚合输出，构建后不再修改
type ExtractionResult struct {
	Email           *string        `json:"email"`
	Phone           *PhoneNumber   `json:"phone"`
	Skills          []string       `json:"skills"`
	ExperienceYears int            `json:"experience_years"`
	GPA             *float64       `json:"gpa"`
	MastersStatus   *MastersStatus `json:"masters_status"`
	TextPreview     string         `json:"text_preview"`
}
