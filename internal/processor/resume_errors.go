package processor

import (
	"errors"

	"resume-fields/internal/extractor"
	"resume-fields/internal/tracing"
)

// errorTypeFor 把提取错误映射为追踪用的错误类型
func errorTypeFor(err error) tracing.ErrorType {
	switch {
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return tracing.ErrorTypeUnsupportedFormat
	case errors.Is(err, extractor.ErrRead):
		return tracing.ErrorTypeRead
	case errors.Is(err, extractor.ErrParse):
		return tracing.ErrorTypeParse
	default:
		return tracing.ErrorTypeInternal
	}
}
