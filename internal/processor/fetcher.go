package processor

import (
	"context"
	"strings"
)

// Fetcher 把输入路径变成可直接读取的本地文件
// cleanup 在提取结束后调用，释放临时文件
type Fetcher interface {
	Fetch(ctx context.Context, path string) (localPath string, cleanup func(), err error)
}

// LocalFetcher 本地路径原样返回
type LocalFetcher struct{}

// Fetch 实现 Fetcher
func (LocalFetcher) Fetch(_ context.Context, path string) (string, func(), error) {
	return path, func() {}, nil
}

// RoutingFetcher 按 scheme:// 前缀选择 Fetcher，没有前缀的走本地
type RoutingFetcher struct {
	local   Fetcher
	schemes map[string]Fetcher
}

// NewRoutingFetcher 创建路由 Fetcher
func NewRoutingFetcher() *RoutingFetcher {
	return &RoutingFetcher{
		local:   LocalFetcher{},
		schemes: make(map[string]Fetcher),
	}
}

// Register 为 scheme 注册 Fetcher，例如 "minio"
func (r *RoutingFetcher) Register(scheme string, f Fetcher) *RoutingFetcher {
	r.schemes[scheme] = f
	return r
}

// Fetch 实现 Fetcher
func (r *RoutingFetcher) Fetch(ctx context.Context, path string) (string, func(), error) {
	if scheme, _, ok := strings.Cut(path, "://"); ok {
		if f, found := r.schemes[scheme]; found {
			return f.Fetch(ctx, path)
		}
	}
	return r.local.Fetch(ctx, path)
}
