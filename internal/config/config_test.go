package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644), "无法写入临时配置文件")
	return configPath
}

// TestLoadConfig 验证 YAML 中的值覆盖默认值，未写的字段保持默认
func TestLoadConfig(t *testing.T) {
	configPath := writeConfig(t, `
logger:
  level: debug
  format: json
extractor:
  pdf_backend: tika
  strict_pdf_pages: true
  tika:
    server_url: "http://localhost:9998"
    timeout_seconds: 15
batch:
  workers: 4
server:
  api_keys: ["k1", "k2"]
  input_root: /srv/resumes
minio:
  endpoint: "localhost:9000"
`)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err, "加载具有正确语法的配置不应返回错误")
	require.NotNil(t, cfg)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, PDFBackendTika, cfg.Extractor.PDFBackend)
	assert.True(t, cfg.Extractor.StrictPDFPages)
	assert.Equal(t, "http://localhost:9998", cfg.Extractor.Tika.ServerURL)
	assert.Equal(t, 15, cfg.Extractor.Tika.Timeout)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Server.APIKeys)
	assert.Equal(t, "/srv/resumes", cfg.Server.InputRoot)
	assert.Equal(t, "localhost:9000", cfg.MinIO.Endpoint)

	// 未配置的字段使用默认值
	assert.Equal(t, 30, cfg.Extractor.PDFTimeoutSeconds)
	assert.Equal(t, ReportFormatGrid, cfg.Report.Format)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "resume-fields", cfg.Tracing.ServiceName)
}

func TestLoadConfig_ZeroValuesFallBack(t *testing.T) {
	configPath := writeConfig(t, `
extractor:
  pdf_backend: ""
batch:
  workers: 0
report:
  format: ""
`)
	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, PDFBackendEino, cfg.Extractor.PDFBackend)
	assert.Equal(t, 1, cfg.Batch.Workers)
	assert.Equal(t, ReportFormatGrid, cfg.Report.Format)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":              "batch: [workers",
		"unknown backend":       "extractor:\n  pdf_backend: poppler\n",
		"tika without url":      "extractor:\n  pdf_backend: tika\n",
		"unknown report format": "report:\n  format: csv\n",
		"negative workers":      "batch:\n  workers: -2\n",
		"sample ratio too high": "tracing:\n  sample_ratio: 2\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, content))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "显式指定的配置文件不存在时应报错")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RESUME_LOG_LEVEL", "warn")
	t.Setenv("RESUME_WORKERS", "8")
	t.Setenv("RESUME_PDF_BACKEND", "tika")
	t.Setenv("RESUME_TIKA_URL", "http://tika:9998")
	t.Setenv("RESUME_API_KEYS", " a, ,b ")
	t.Setenv("RESUME_INPUT_ROOT", "/data/in")
	t.Setenv("MINIO_ACCESS_KEY", "access")

	cfg, err := LoadConfig(writeConfig(t, "batch:\n  workers: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, 8, cfg.Batch.Workers, "环境变量优先于配置文件")
	assert.Equal(t, PDFBackendTika, cfg.Extractor.PDFBackend)
	assert.Equal(t, "http://tika:9998", cfg.Extractor.Tika.ServerURL)
	assert.Equal(t, []string{"a", "b"}, cfg.Server.APIKeys)
	assert.Equal(t, "/data/in", cfg.Server.InputRoot)
	assert.Equal(t, "access", cfg.MinIO.AccessKeyID)
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}
