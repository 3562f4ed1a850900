package tracing

import (
	"strings"
)

const (
	// DefaultMaxLength 默认最大属性长度
	DefaultMaxLength = 200

	// MaxFilenameLength 文件名最大长度
	MaxFilenameLength = 100

	// MaxStagingKeyLength 暂存键最大长度
	MaxStagingKeyLength = 120
)

// piiKeywords 属性名包含这些关键字时对值做掩码
var piiKeywords = []string{
	"email",
	"phone",
	"password",
	"secret",
	"token",
	"address",
	"name",
	"姓名",
	"电话",
	"邮箱",
}

// SafeAttributeValue 确保属性值安全，不包含敏感信息
// 属性名命中敏感关键字时掩码，否则按 maxLength 截断
func SafeAttributeValue(name string, value string, maxLength int) string {
	lowerName := strings.ToLower(name)
	for _, keyword := range piiKeywords {
		if strings.Contains(lowerName, keyword) {
			return MaskPII(value)
		}
	}
	return TruncateString(value, maxLength)
}

// MaskPII 对个人敏感信息进行掩码处理
// "jane@roe.dev" -> "ja********ev", "555-123-4567" -> "55********67"
func MaskPII(value string) string {
	if value == "" {
		return ""
	}

	runes := []rune(value)
	length := len(runes)

	switch {
	case length == 1:
		return "*"
	case length == 2:
		return string(runes[0]) + "*"
	case length <= 4:
		return string(runes[0]) + strings.Repeat("*", length-2) + string(runes[length-1])
	}
	return string(runes[0:2]) + strings.Repeat("*", length-4) + string(runes[length-2:])
}

// TruncateString 截断字符串，保留首尾并用省略号连接
func TruncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}

	if maxLength <= 3 {
		return string(runes[:maxLength])
	}

	half := (maxLength - 3) / 2
	if half < 1 {
		half = 1
	}
	return string(runes[:half]) + "..." + string(runes[len(runes)-half:])
}

// SafeFilename 安全处理上传文件名
func SafeFilename(name string) string {
	return TruncateString(name, MaxFilenameLength)
}

// SafeStagingKey 安全处理暂存对象键
func SafeStagingKey(key string) string {
	return TruncateString(key, MaxStagingKeyLength)
}
