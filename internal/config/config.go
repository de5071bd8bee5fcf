package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PDF解析后端
const (
	PDFBackendEino = "eino"
	PDFBackendTika = "tika"
)

// 报表格式
const (
	ReportFormatGrid = "grid"
	ReportFormatJSON = "json"
)

// Config 应用程序配置
type Config struct {
	Logger    LoggerConfig    `yaml:"logger"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Batch     BatchConfig     `yaml:"batch"`
	Report    ReportConfig    `yaml:"report"`
	Server    ServerConfig    `yaml:"server"`
	Tracing   TracingConfig   `yaml:"tracing"`
	MinIO     MinIOConfig     `yaml:"minio"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Format       string `yaml:"format" validate:"omitempty,oneof=json pretty"` // json, pretty
	TimeFormat   string `yaml:"time_format"`                                   // 时间格式
	ReportCaller bool   `yaml:"report_caller"`                                 // 是否报告调用位置
}

// ExtractorConfig 文本提取配置
type ExtractorConfig struct {
	PDFBackend        string     `yaml:"pdf_backend" validate:"oneof=eino tika"`
	PDFTimeoutSeconds int        `yaml:"pdf_timeout_seconds" validate:"gte=0"`
	StrictPDFPages    bool       `yaml:"strict_pdf_pages"` // 为 true 时任何一页没有文本都判定为解析失败
	Tika              TikaConfig `yaml:"tika"`
}

// TikaConfig Tika服务器配置结构
type TikaConfig struct {
	ServerURL string `yaml:"server_url" validate:"omitempty,url"` // Tika服务器URL
	Timeout   int    `yaml:"timeout_seconds" validate:"gte=0"`    // 超时时间(秒)
}

// BatchConfig 批处理配置
type BatchConfig struct {
	Workers int `yaml:"workers" validate:"gte=1"` // 并发处理的文件数，1 为顺序处理
}

// ReportConfig 报表配置
type ReportConfig struct {
	Format string `yaml:"format" validate:"oneof=grid json"`
}

// ServerConfig 定义服务器配置
type ServerConfig struct {
	Address   string   `yaml:"address"`    // 例如 ":8080" or "0.0.0.0:8080"
	APIKeys   []string `yaml:"api_keys"`   // 为空时不启用鉴权
	InputRoot string   `yaml:"input_root"` // /parse 可读取的本地目录，为空时只接受 minio:// 路径
}

// TracingConfig OpenTelemetry 配置
type TracingConfig struct {
	Endpoint    string  `yaml:"endpoint"` // OTLP gRPC 地址，为空时不导出
	ServiceName string  `yaml:"service_name"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio" validate:"gte=0,lte=1"`
}

// MinIOConfig MinIO配置结构，用于 minio://bucket/key 形式的输入路径
type MinIOConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level:  "info",
			Format: "pretty",
		},
		Extractor: ExtractorConfig{
			PDFBackend:        PDFBackendEino,
			PDFTimeoutSeconds: 30,
			Tika: TikaConfig{
				Timeout: 60,
			},
		},
		Batch: BatchConfig{
			Workers: 1,
		},
		Report: ReportConfig{
			Format: ReportFormatGrid,
		},
		Server: ServerConfig{
			Address: ":8080",
		},
		Tracing: TracingConfig{
			ServiceName: "resume-fields",
			SampleRatio: 1,
		},
	}
}

// LoadConfig 从文件加载配置
// configPath 为空时依次查找常见位置，都不存在则使用默认配置
func LoadConfig(configPath string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	if configPath == "" {
		configPath = findConfigFile()
	}

	cfg := DefaultConfig()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}
	if c.Extractor.PDFBackend == PDFBackendTika && c.Extractor.Tika.ServerURL == "" {
		return fmt.Errorf("配置校验失败: pdf_backend 为 tika 时必须设置 tika.server_url")
	}
	return nil
}

func findConfigFile() string {
	searchPaths := []string{
		"config.yaml",
		filepath.Join(os.Getenv("HOME"), ".resume-fields", "config.yaml"),
	}
	if execPath, err := os.Executable(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(filepath.Dir(execPath), "config.yaml"))
	}
	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// 从环境变量覆盖配置（如果存在）
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RESUME_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("RESUME_TIKA_URL"); v != "" {
		cfg.Extractor.Tika.ServerURL = v
	}
	if v := os.Getenv("RESUME_PDF_BACKEND"); v != "" {
		cfg.Extractor.PDFBackend = v
	}
	if v := os.Getenv("RESUME_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Batch.Workers = n
		}
	}
	if v := os.Getenv("RESUME_OTLP_ENDPOINT"); v != "" {
		cfg.Tracing.Endpoint = v
	}
	if v := os.Getenv("RESUME_API_KEYS"); v != "" {
		cfg.Server.APIKeys = splitList(v)
	}
	if v := os.Getenv("RESUME_INPUT_ROOT"); v != "" {
		cfg.Server.InputRoot = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKeyID = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretAccessKey = v
	}
}

// 配置文件中显式写成零值的字段回落到默认值
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Extractor.PDFBackend == "" {
		cfg.Extractor.PDFBackend = def.Extractor.PDFBackend
	}
	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = def.Batch.Workers
	}
	if cfg.Report.Format == "" {
		cfg.Report.Format = def.Report.Format
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = def.Server.Address
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = def.Tracing.ServiceName
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
