// Package extractor 负责把 .txt/.pdf/.docx 文件转换为纯文本。
// PDF 与 DOCX 的解析委托给外部库（eino PDF parser、Tika），这里只做格式分发与错误归类。
package extractor

import (
	"context"
	"fmt"
	"strings"
)

// TextExtractor 给定文件路径，返回尽力提取的纯文本
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// PageExtractor 按页返回 PDF 文本，顺序即页序
// 某页无法提取文本时，对应元素为 nil
type PageExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]*string, error)
}

// PDFExtractor 把 PageExtractor 的逐页结果拼接为完整文本
type PDFExtractor struct {
	pages  PageExtractor
	strict bool
}

// NewPDFExtractor strict 为 true 时，任何一页没有文本都视为解析失败
// eino 对“无法提取”和“提取结果为空串”返回相同的空内容，因此 strict 模式下空白页同样判定为失败
func NewPDFExtractor(pages PageExtractor, strict bool) *PDFExtractor {
	return &PDFExtractor{pages: pages, strict: strict}
}

// Extract 每页文本后追加换行，最后去掉首尾空白
func (p *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	pages, err := p.pages.ExtractPages(ctx, path)
	if err != nil {
		return "", err
	}
	return joinPages(path, pages, p.strict)
}

func joinPages(path string, pages []*string, strict bool) (string, error) {
	var sb strings.Builder
	for i, page := range pages {
		if page == nil {
			if strict {
				return "", NewParseError(path, fmt.Sprintf("page %d has no extractable text", i+1), nil)
			}
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(*page)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

// Dispatcher 按格式把请求分发给对应的提取策略
type Dispatcher struct {
	strategies map[Format]TextExtractor
}

// 确保Dispatcher实现了TextExtractor接口
var _ TextExtractor = (*Dispatcher)(nil)

// NewDispatcher 创建分发器，未注册的格式按不支持处理
func NewDispatcher(plain, pdf, docx TextExtractor) *Dispatcher {
	d := &Dispatcher{strategies: make(map[Format]TextExtractor, 3)}
	if plain != nil {
		d.strategies[FormatPlainText] = plain
	}
	if pdf != nil {
		d.strategies[FormatPDF] = pdf
	}
	if docx != nil {
		d.strategies[FormatWordProcessing] = docx
	}
	return d
}

// Extract 实现 TextExtractor
func (d *Dispatcher) Extract(ctx context.Context, path string) (string, error) {
	strategy, ok := d.strategies[FormatFromPath(path)]
	if !ok {
		return "", NewUnsupportedFormatError(path)
	}
	return strategy.Extract(ctx, path)
}
