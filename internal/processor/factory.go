package processor

import (
	"context"
	"fmt"

	"resume-fields/internal/config"
	"resume-fields/internal/extractor"
	"resume-fields/internal/storage"

	"github.com/rs/zerolog"
)

// NewFromConfig 按配置创建完整的处理器
// 1. 文本提取器（eino 或 tika 后端）
// 2. 输入路径解析（配置了 MinIO 时支持 minio://bucket/key）
func NewFromConfig(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*ResumeProcessor, error) {
	textExtractor, err := extractor.NewFromConfig(ctx, cfg.Extractor, logger)
	if err != nil {
		return nil, fmt.Errorf("创建文本提取器失败: %w", err)
	}

	fetcher := NewRoutingFetcher()
	if cfg.MinIO.Endpoint != "" {
		minioFetcher, err := storage.NewMinIO(cfg.MinIO, logger.With().Str("component", "minio").Logger())
		if err != nil {
			return nil, err
		}
		fetcher.Register(storage.MinIOScheme, minioFetcher)
	}

	return NewResumeProcessor(
		Components{
			Extractor: textExtractor,
			Fetcher:   fetcher,
		},
		Settings{
			Workers: cfg.Batch.Workers,
			Logger:  logger.With().Str("component", "processor").Logger(),
		},
	), nil
}
