package extractor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
)

// DefaultPDFTimeout 单个PDF解析的超时时间
const DefaultPDFTimeout = 30 * time.Second

// EinoPDFExtractor 使用 Eino PDF Parser 逐页提取文本
type EinoPDFExtractor struct {
	parser  einoParser.Parser
	timeout time.Duration
	logger  zerolog.Logger
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFExtractor)

// WithEinoLogger 配置自定义日志记录器
func WithEinoLogger(logger zerolog.Logger) EinoPDFOption {
	return func(e *EinoPDFExtractor) {
		e.logger = logger
	}
}

// WithEinoTimeout 配置单个文件的解析超时
func WithEinoTimeout(timeout time.Duration) EinoPDFOption {
	return func(e *EinoPDFExtractor) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithEinoParser 替换底层的 eino 解析器
func WithEinoParser(parser einoParser.Parser) EinoPDFOption {
	return func(e *EinoPDFExtractor) {
		if parser != nil {
			e.parser = parser
		}
	}
}

// 确保EinoPDFExtractor实现了PageExtractor接口
var _ PageExtractor = (*EinoPDFExtractor)(nil)

// NewEinoPDFExtractor 初始化 Eino PDF 文本提取器
// 按页分割，每页一个 document，保证页序
func NewEinoPDFExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	extractor := &EinoPDFExtractor{
		parser:  p,
		timeout: DefaultPDFTimeout,
		logger:  zerolog.Nop(),
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor, nil
}

type parseResult struct {
	docs     []*schema.Document
	err      error
	panicked bool
}

// ExtractPages 实现 PageExtractor；空白页返回 nil
// 解析在单独的 goroutine 中进行：底层 PDF 库不检查 ctx，部分损坏的文件还会 panic
func (e *EinoPDFExtractor) ExtractPages(ctx context.Context, path string) ([]*string, error) {
	startTime := time.Now()

	file, err := os.Open(path)
	if err != nil {
		return nil, NewReadError(path, "cannot open file", err)
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan parseResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- parseResult{err: fmt.Errorf("%v", r), panicked: true}
			}
		}()
		docs, err := e.parser.Parse(ctx, file,
			einoParser.WithURI(path),
			einoParser.WithExtraMeta(map[string]any{
				"source_file_path": path,
			}),
		)
		done <- parseResult{docs: docs, err: err}
	}()

	var res parseResult
	select {
	case <-ctx.Done():
		e.logger.Warn().Str("path", path).Dur("timeout", e.timeout).Msg("eino PDF parse timed out")
		return nil, NewParseError(path, "eino PDF parser timed out", ctx.Err())
	case res = <-done:
	}

	if res.panicked {
		e.logger.Warn().Err(res.err).Str("path", path).Msg("eino PDF parser panicked")
		return nil, NewParseError(path, "eino PDF parser panicked", res.err)
	}
	if res.err != nil {
		e.logger.Debug().Err(res.err).Str("path", path).Dur("elapsed", time.Since(startTime)).Msg("eino PDF parse failed")
		return nil, NewParseError(path, "eino PDF parser failed", res.err)
	}

	pages := make([]*string, 0, len(res.docs))
	for _, doc := range res.docs {
		if doc == nil || doc.Content == "" {
			pages = append(pages, nil)
			continue
		}
		content := doc.Content
		pages = append(pages, &content)
	}

	e.logger.Debug().
		Str("path", path).
		Int("pages", len(pages)).
		Dur("elapsed", time.Since(startTime)).
		Msg("PDF pages extracted")
	return pages, nil
}
