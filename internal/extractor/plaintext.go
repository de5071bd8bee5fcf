package extractor

import (
	"context"
	"os"
	"unicode/utf8"
)

// PlainTextExtractor 读取 UTF-8 纯文本文件，内容原样返回
type PlainTextExtractor struct{}

// NewPlainTextExtractor 创建纯文本提取器
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// Extract 实现 TextExtractor
func (p *PlainTextExtractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", NewReadError(path, "cannot open file", err)
	}
	if !utf8.Valid(data) {
		return "", NewReadError(path, "file is not valid utf-8", nil)
	}
	return string(data), nil
}
