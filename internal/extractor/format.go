package extractor

import "strings"

// Format 文档格式，由路径扩展名决定
type Format int

const (
	FormatUnknown Format = iota
	FormatPlainText
	FormatPDF
	FormatWordProcessing
)

// 扩展名匹配区分大小写：resume.PDF 视为不支持
var suffixFormats = []struct {
	suffix string
	format Format
}{
	{".txt", FormatPlainText},
	{".pdf", FormatPDF},
	{".docx", FormatWordProcessing},
}

// FormatFromPath 根据文件后缀判断格式
func FormatFromPath(path string) Format {
	for _, sf := range suffixFormats {
		if strings.HasSuffix(path, sf.suffix) {
			return sf.format
		}
	}
	return FormatUnknown
}

func (f Format) String() string {
	switch f {
	case FormatPlainText:
		return "text"
	case FormatPDF:
		return "pdf"
	case FormatWordProcessing:
		return "docx"
	default:
		return "unknown"
	}
}
