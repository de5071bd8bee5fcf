package processor // 简历批处理：提取文本 -> 字段 -> 记录

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-fields/internal/extractor"
	"resume-fields/internal/fields"
	applogger "resume-fields/internal/logger"
	"resume-fields/internal/tracing"
	"resume-fields/internal/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("resume-fields/processor")

// ErrPanic 处理单个文件时发生 panic
var ErrPanic = errors.New("panic while processing file")

// Components 聚合处理器依赖，便于测试替换
type Components struct {
	Extractor extractor.TextExtractor // 文本提取
	Fetcher   Fetcher                 // 输入路径解析，nil 时只支持本地文件
}

// Settings 纯配置项
type Settings struct {
	Workers int            // 同时处理的文件数，<=1 为顺序处理
	Logger  zerolog.Logger // 日志记录器
}

// ResumeProcessor 对一批文件逐个提取字段并生成记录
type ResumeProcessor struct {
	components Components
	settings   Settings
}

// NewResumeProcessor 创建处理器
func NewResumeProcessor(components Components, settings Settings) *ResumeProcessor {
	if components.Fetcher == nil {
		components.Fetcher = LocalFetcher{}
	}
	if settings.Workers < 1 {
		settings.Workers = 1
	}
	return &ResumeProcessor{components: components, settings: settings}
}

// ProcessFile 处理单个文件
// 失败时返回错误记录和原始错误
func (p *ResumeProcessor) ProcessFile(ctx context.Context, path string) (types.Record, error) {
	ctx, span := tracer.Start(ctx, "ProcessFile", trace.WithAttributes(
		attribute.String("resume.path", tracing.SafePath(path)),
		attribute.String("resume.format", extractor.FormatFromPath(path).String()),
	))
	defer span.End()

	f, err := p.extractFields(ctx, path)
	if err != nil {
		tracing.RecordError(span, err, errorTypeFor(err))
		return ErrorRecord(path, err), err
	}

	span.SetAttributes(
		attribute.String("resume.name", tracing.SafeAttributeValue("name", f.Name, tracing.DefaultMaxLength)),
		attribute.Int("resume.emails", len(f.Emails)),
		attribute.Int("resume.phones", len(f.Phones)),
		attribute.Int("resume.skills", len(f.Skills)),
	)
	span.SetStatus(codes.Ok, "")
	return BuildRecordFromFields(path, f), nil
}

// extractFields 中的 panic 转为错误，单个文件不会中断整批处理
func (p *ResumeProcessor) extractFields(ctx context.Context, path string) (f types.Fields, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, err = types.Fields{}, fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	localPath, cleanup, err := p.components.Fetcher.Fetch(ctx, path)
	if err != nil {
		return types.Fields{}, err
	}
	defer cleanup()

	text, err := p.components.Extractor.Extract(ctx, localPath)
	if err != nil {
		return types.Fields{}, err
	}
	return fields.Extract(text), nil
}

// Process 处理一批文件，每个路径恰好产生一条记录，顺序与输入一致
// 单个文件失败只会产生错误记录，不会中断整批处理
// ctx 上挂载了日志记录器时（如 HTTP 请求的 request_id）优先使用它
func (p *ResumeProcessor) Process(ctx context.Context, paths []string) []types.Record {
	batchID := uuid.NewString()
	logger := applogger.FromContext(ctx, p.settings.Logger).With().Str("batch_id", batchID).Logger()

	ctx, span := tracer.Start(ctx, "ProcessBatch", trace.WithAttributes(
		attribute.String("batch.id", batchID),
		attribute.Int("batch.size", len(paths)),
	))
	defer span.End()

	startTime := time.Now()
	records := make([]types.Record, len(paths))
	failed := make([]bool, len(paths))

	processOne := func(i int) {
		fileStart := time.Now()
		record, err := p.ProcessFile(ctx, paths[i])
		records[i] = record
		if err != nil {
			failed[i] = true
			logger.Warn().
				Str("path", paths[i]).
				Str("error_type", string(errorTypeFor(err))).
				Err(err).
				Dur("elapsed", time.Since(fileStart)).
				Msg("resume processing failed")
			return
		}
		logger.Debug().
			Str("path", paths[i]).
			Str("name", tracing.MaskPII(record.Name)).
			Str("emails", tracing.MaskPII(record.Emails)).
			Dur("elapsed", time.Since(fileStart)).
			Msg("resume processed")
	}

	if p.settings.Workers <= 1 || len(paths) <= 1 {
		for i := range paths {
			processOne(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(p.settings.Workers)
		for i := range paths {
			g.Go(func() error {
				processOne(i)
				return nil
			})
		}
		// 单个文件的失败已转为错误记录，这里不会返回错误
		_ = g.Wait()
	}

	failures := 0
	for _, f := range failed {
		if f {
			failures++
		}
	}
	span.SetAttributes(attribute.Int("batch.failures", failures))
	logger.Info().
		Int("files", len(paths)).
		Int("failures", failures).
		Int("workers", p.settings.Workers).
		Dur("elapsed", time.Since(startTime)).
		Msg("batch finished")

	return records
}

// ProcessInput 解析逗号分隔的路径列表后处理
func (p *ResumeProcessor) ProcessInput(ctx context.Context, input string) []types.Record {
	return p.Process(ctx, ParsePathList(input))
}
