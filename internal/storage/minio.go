package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"resume-fields/internal/config"
	"resume-fields/internal/extractor"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// MinIOScheme 对象存储输入路径的前缀，例如 minio://resumes/2024/alice.pdf
const MinIOScheme = "minio"

// objectDownloader *minio.Client 中用到的方法，便于测试替换
type objectDownloader interface {
	FGetObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.GetObjectOptions) error
}

// MinIOFetcher 把 minio://bucket/key 下载到临时文件，供本地提取器读取
type MinIOFetcher struct {
	client objectDownloader
	logger zerolog.Logger
}

// NewMinIO 创建MinIO客户端
func NewMinIO(cfg config.MinIOConfig, logger zerolog.Logger) (*MinIOFetcher, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("MinIO endpoint 不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	logger.Debug().Str("endpoint", cfg.Endpoint).Msg("MinIO client initialized")
	return &MinIOFetcher{client: client, logger: logger}, nil
}

// ParseObjectURI 解析 minio://bucket/key
func ParseObjectURI(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(uri, MinIOScheme+"://")
	if !ok {
		return "", "", fmt.Errorf("not a %s uri: %s", MinIOScheme, uri)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("invalid object uri %q, want %s://bucket/key", uri, MinIOScheme)
	}
	return bucket, object, nil
}

// Fetch 下载对象到临时目录，文件名沿用对象名以保留扩展名
// 返回的 cleanup 删除临时目录
func (m *MinIOFetcher) Fetch(ctx context.Context, uri string) (string, func(), error) {
	bucket, object, err := ParseObjectURI(uri)
	if err != nil {
		return "", nil, extractor.NewReadError(uri, "invalid object path", err)
	}

	dir, err := os.MkdirTemp("", "resume-fields-*")
	if err != nil {
		return "", nil, extractor.NewReadError(uri, "create temp dir", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	localPath := filepath.Join(dir, path.Base(object))
	if err := m.client.FGetObject(ctx, bucket, object, localPath, minio.GetObjectOptions{}); err != nil {
		cleanup()
		return "", nil, extractor.NewReadError(uri, fmt.Sprintf("download object %s/%s", bucket, object), err)
	}

	m.logger.Debug().Str("bucket", bucket).Str("object", object).Msg("object downloaded")
	return localPath, cleanup, nil
}
