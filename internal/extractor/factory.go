package extractor

import (
	"context"
	"fmt"
	"time"

	"resume-fields/internal/config"

	"github.com/rs/zerolog"
)

// NewFromConfig 根据配置组装分发器
// tika 后端同时负责 PDF 与 DOCX；eino 后端下 DOCX 走内置解析
func NewFromConfig(ctx context.Context, cfg config.ExtractorConfig, logger zerolog.Logger) (*Dispatcher, error) {
	plain := NewPlainTextExtractor()

	switch cfg.PDFBackend {
	case config.PDFBackendTika:
		tika := NewTikaExtractor(cfg.Tika.ServerURL,
			WithTimeout(time.Duration(cfg.Tika.Timeout)*time.Second),
			WithTikaLogger(logger.With().Str("component", "tika").Logger()),
		)
		return NewDispatcher(plain, tika, tika), nil
	case config.PDFBackendEino, "":
		pages, err := NewEinoPDFExtractor(ctx,
			WithEinoTimeout(time.Duration(cfg.PDFTimeoutSeconds)*time.Second),
			WithEinoLogger(logger.With().Str("component", "eino_pdf").Logger()),
		)
		if err != nil {
			return nil, err
		}
		return NewDispatcher(plain, NewPDFExtractor(pages, cfg.StrictPDFPages), NewDocxExtractor()), nil
	default:
		return nil, fmt.Errorf("unknown pdf backend %q", cfg.PDFBackend)
	}
}
