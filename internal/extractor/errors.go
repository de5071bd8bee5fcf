package extractor

import (
	"errors"
	"fmt"
)

// 文本提取失败的三类基础错误
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrRead              = errors.New("failed to read file")
	ErrParse             = errors.New("failed to parse document")
)

// ExtractError 包含详细错误信息的提取错误
type ExtractError struct {
	Path    string
	Op      string // 失败的步骤: dispatch, read, parse
	BaseErr error  // ErrUnsupportedFormat / ErrRead / ErrParse
	Detail  string
	Cause   error
}

func (e *ExtractError) Error() string {
	msg := e.BaseErr.Error()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// Is 实现 errors.Is 接口，按基础错误分类
func (e *ExtractError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// NewUnsupportedFormatError 扩展名不在支持列表中
func NewUnsupportedFormatError(path string) error {
	return &ExtractError{
		Path:    path,
		Op:      "dispatch",
		BaseErr: ErrUnsupportedFormat,
		Detail:  "please use .txt, .pdf, or .docx",
	}
}

// NewReadError 文件无法打开或解码
func NewReadError(path, detail string, cause error) error {
	return &ExtractError{
		Path:    path,
		Op:      "read",
		BaseErr: ErrRead,
		Detail:  detail,
		Cause:   cause,
	}
}

// NewParseError 文档库无法解析（损坏、加密、扩展名与内容不符）
func NewParseError(path, detail string, cause error) error {
	return &ExtractError{
		Path:    path,
		Op:      "parse",
		BaseErr: ErrParse,
		Detail:  detail,
		Cause:   cause,
	}
}
