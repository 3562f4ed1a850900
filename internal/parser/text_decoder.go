package parser

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// DecodeText 宽松地把上传字节解码为文本，永不失败
//
// 带 BOM 的 UTF-8/UTF-16 按 BOM 解码，其余按 UTF-8 处理；
// 无法解码的字节被直接跳过，原文中本来就有的 U+FFFD 保留。
func DecodeText(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		decoded = data
	}

	text := strings.ToValidUTF8(string(decoded), "")
	if bytes.HasPrefix(data, utf16LEBOM) || bytes.HasPrefix(data, utf16BEBOM) {
		// UTF-16 解码器把非法代理对写成 U+FFFD，无法与原文区分，这里统一去掉
		text = strings.ReplaceAll(text, "\uFFFD", "")
	}
	return text
}
