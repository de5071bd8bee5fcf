package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// 各格式上传给Tika时使用的Content-Type
var tikaContentTypes = map[Format]string{
	FormatPDF:            "application/pdf",
	FormatWordProcessing: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// TikaExtractor 是基于Apache Tika服务器的PDF/DOCX解析器
type TikaExtractor struct {
	// Tika服务器地址，例如 http://localhost:9998
	ServerURL string
	// HTTP客户端，可配置超时等参数
	Client *http.Client
	logger zerolog.Logger
}

// TikaOption 定义配置选项函数
type TikaOption func(*TikaExtractor)

// WithTikaLogger 配置自定义日志记录器
func WithTikaLogger(logger zerolog.Logger) TikaOption {
	return func(e *TikaExtractor) {
		e.logger = logger
	}
}

// WithTimeout 配置HTTP客户端超时时间
func WithTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaExtractor) {
		if timeout > 0 {
			e.Client.Timeout = timeout
		}
	}
}

// WithHTTPClient 替换默认HTTP客户端
func WithHTTPClient(client *http.Client) TikaOption {
	return func(e *TikaExtractor) {
		if client != nil {
			e.Client = client
		}
	}
}

// 确保TikaExtractor实现了TextExtractor接口
var _ TextExtractor = (*TikaExtractor)(nil)

// NewTikaExtractor 创建一个新的Tika解析器
func NewTikaExtractor(serverURL string, options ...TikaOption) *TikaExtractor {
	extractor := &TikaExtractor{
		ServerURL: strings.TrimRight(serverURL, "/"),
		Client:    &http.Client{Timeout: 60 * time.Second},
		logger:    zerolog.Nop(),
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor
}

// Extract 实现 TextExtractor
// PDF结果去掉首尾空白，与逐页拼接的结果保持一致；DOCX原样返回
func (e *TikaExtractor) Extract(ctx context.Context, path string) (string, error) {
	format := FormatFromPath(path)
	contentType, ok := tikaContentTypes[format]
	if !ok {
		return "", NewUnsupportedFormatError(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", NewReadError(path, "cannot open file", err)
	}

	text, err := e.extractBytes(ctx, data, path, contentType)
	if err != nil {
		return "", NewParseError(path, "tika extraction failed", err)
	}
	if format == FormatPDF {
		text = strings.TrimSpace(text)
	}
	return text, nil
}

func (e *TikaExtractor) extractBytes(ctx context.Context, data []byte, uri, contentType string) (string, error) {
	startTime := time.Now()

	url := fmt.Sprintf("%s/tika", e.ServerURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/plain")
	if uri != "" {
		req.Header.Set("X-Tika-Resource-Name", uri)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request to tika server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tika server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read tika response: %w", err)
	}

	e.logger.Debug().
		Str("uri", uri).
		Int("text_length", len(body)).
		Dur("elapsed", time.Since(startTime)).
		Msg("tika extraction finished")
	return string(body), nil
}
