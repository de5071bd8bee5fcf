package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"resume-fields/internal/processor"
	"resume-fields/internal/report"
	"resume-fields/internal/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrNoPaths 请求中没有任何文件路径
	ErrNoPaths = errors.New("no file paths provided")
	// ErrPathNotAllowed 本地路径不在允许的输入目录内
	ErrPathNotAllowed = errors.New("path is outside the allowed input directory")
)

// ResumeHandler 简历处理器，负责把 HTTP 请求转交给批处理器
type ResumeHandler struct {
	processor *processor.ResumeProcessor
	renderer  report.Renderer
	logger    zerolog.Logger
	inputRoot string
}

// HandlerOption 配置 ResumeHandler
type HandlerOption func(*ResumeHandler)

// WithInputRoot 设置 /parse 可读取的本地目录
// 未设置时请求里的本地路径一律拒绝，只接受 minio:// 这类远程路径
func WithInputRoot(root string) HandlerOption {
	return func(h *ResumeHandler) {
		if root == "" {
			return
		}
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
		h.inputRoot = filepath.Clean(root)
	}
}

// NewResumeHandler 创建一个新的简历处理器
func NewResumeHandler(p *processor.ResumeProcessor, logger zerolog.Logger, opts ...HandlerOption) *ResumeHandler {
	h := &ResumeHandler{
		processor: p,
		renderer:  report.GridRenderer{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// remotePrefix 不受输入目录限制的远程路径前缀
const remotePrefix = "minio://"

// resolvePath 把请求中的路径映射到输入目录内的本地路径
// 相对路径以输入目录为基准；空路径原样交给处理器生成错误行
func (h *ResumeHandler) resolvePath(path string) (string, error) {
	if path == "" || strings.HasPrefix(path, remotePrefix) {
		return path, nil
	}
	if h.inputRoot == "" {
		return "", fmt.Errorf("%w: %q", ErrPathNotAllowed, path)
	}

	local := path
	if !filepath.IsAbs(local) {
		local = filepath.Join(h.inputRoot, local)
	}
	local = filepath.Clean(local)

	rel, err := filepath.Rel(h.inputRoot, local)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathNotAllowed, path)
	}
	return local, nil
}

// ParseRequest 批量解析请求
// Files 为逗号分隔的路径列表；Paths 非空时优先使用
type ParseRequest struct {
	Files string   `json:"files"`
	Paths []string `json:"paths"`
}

// ParseResponse 批量解析响应
type ParseResponse struct {
	RequestID string         `json:"request_id"`
	Records   []types.Record `json:"records"`
	Table     string         `json:"table"`
}

// HandleParse 处理批量解析请求
func (h *ResumeHandler) HandleParse(ctx context.Context, req ParseRequest) (*ParseResponse, error) {
	paths := req.Paths
	if len(paths) == 0 {
		if req.Files == "" {
			return nil, ErrNoPaths
		}
		paths = processor.ParsePathList(req.Files)
	}

	resolved := make([]string, len(paths))
	for i, path := range paths {
		local, err := h.resolvePath(path)
		if err != nil {
			h.logger.Warn().Str("path", path).Msg("rejected path outside input root")
			return nil, err
		}
		resolved[i] = local
	}

	requestID := uuid.NewString()
	logger := h.logger.With().Str("request_id", requestID).Logger()
	ctx = logger.WithContext(ctx)
	logger.Info().Int("files", len(paths)).Msg("parse request received")

	records := h.processor.Process(ctx, resolved)
	for i := range records {
		records[i].File = paths[i]
	}
	table, err := report.RenderString(h.renderer, records)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	return &ParseResponse{
		RequestID: requestID,
		Records:   records,
		Table:     table,
	}, nil
}

// HandleResumeUpload 处理单个上传文件
// 文件先写入临时目录（保留原文件名以便按扩展名分发），处理后删除
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, filename string) (*types.Record, error) {
	dir, err := os.MkdirTemp("", "resume-upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	localPath := filepath.Join(dir, filepath.Base(filename))
	f, err := os.Create(localPath)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		return nil, fmt.Errorf("save uploaded file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("save uploaded file: %w", err)
	}

	logger := h.logger.With().Str("request_id", uuid.NewString()).Logger()
	record, err := h.processor.ProcessFile(logger.WithContext(ctx), localPath)
	if err != nil {
		logger.Warn().Err(err).Str("filename", filename).Msg("uploaded resume failed")
	}
	// 记录中展示客户端的文件名，而不是临时路径
	record.File = filename
	return &record, nil
}
