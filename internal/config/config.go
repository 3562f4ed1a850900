package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 应用程序配置
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logger     LoggerConfig     `yaml:"logger"`
	PDF        PDFConfig        `yaml:"pdf"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Staging    StagingConfig    `yaml:"staging"`
	MinIO      MinIOConfig      `yaml:"minio"`
	Redis      RedisConfig      `yaml:"redis"`
	Tracing    TracingConfig    `yaml:"tracing"`
}

// ServerConfig 定义服务器配置
type ServerConfig struct {
	Address     string `yaml:"address"`       // 例如 ":5001"
	MaxUploadMB int    `yaml:"max_upload_mb"` // 单个上传文件上限(MB)，超出返回 413
	// 传输层请求体上限(MB)，超出时 Hertz 直接断开连接，必须大于 max_upload_mb
	MaxRequestMB int `yaml:"max_request_mb"`
	// 解析接口每分钟允许的请求数，0 表示不限流
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	RateLimitBurst     int `yaml:"rate_limit_burst"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
	File         string `yaml:"file"`          // 可选的日志文件路径
}

// PDF解析引擎
const (
	PDFEnginePages = "pages" // ledongthuc/pdf 逐页解析，支持部分结果
	PDFEngineEino  = "eino"  // eino-ext PDF parser
)

// PDFConfig PDF文本提取配置
type PDFConfig struct {
	Engine         string `yaml:"engine"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ExtractionConfig 字段提取配置
type ExtractionConfig struct {
	Parallel bool `yaml:"parallel"` // 是否并发执行各字段提取器
}

// 暂存后端
const (
	StagingLocal = "local"
	StagingMinIO = "minio"
	StagingRedis = "redis"
)

// StagingConfig 上传文件暂存配置，文件只在单次请求内存在
type StagingConfig struct {
	Backend    string `yaml:"backend"`     // local, minio, redis
	LocalDir   string `yaml:"local_dir"`   // local 后端目录，默认系统临时目录
	KeyPrefix  string `yaml:"key_prefix"`  // 对象/键前缀
	TTLSeconds int    `yaml:"ttl_seconds"` // redis 后端的兜底过期时间
}

// MinIOConfig MinIO配置结构
type MinIOConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UseSSL          bool   `yaml:"useSSL"`
	BucketName      string `yaml:"bucketName"`
	Location        string `yaml:"location"` // 可选，存储桶区域
}

// RedisConfig holds configuration for Redis
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池设置
	PoolSize     int `yaml:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns"`
	// 超时设置
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
	MaxRetries          int `yaml:"max_retries"`
}

// TracingConfig OpenTelemetry 配置
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"` // OTLP gRPC 地址，例如 "localhost:4317"
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LoadConfig 从文件加载配置，并使用 .env 与环境变量覆盖
// configPath 为空时只使用默认值和环境变量
func LoadConfig(configPath string) (*Config, error) {
	// .env 不存在是正常情况
	_ = godotenv.Load()

	config, err := readConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(config)
	applyDefaults(config)
	return config, nil
}

func readConfigFile(configPath string) (*Config, error) {
	config := &Config{}
	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	return config, nil
}

// applyEnvOverrides 从环境变量覆盖配置（如果存在）
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("RESUME_PARSER_ADDRESS"); v != "" {
		config.Server.Address = v
	}
	if v := os.Getenv("RESUME_PARSER_LOG_LEVEL"); v != "" {
		config.Logger.Level = v
	}
	if v := os.Getenv("RESUME_PARSER_PDF_ENGINE"); v != "" {
		config.PDF.Engine = v
	}
	if v := os.Getenv("RESUME_PARSER_STAGING_BACKEND"); v != "" {
		config.Staging.Backend = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		config.MinIO.Endpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		config.MinIO.AccessKeyID = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		config.MinIO.SecretAccessKey = v
	}
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		config.Redis.Address = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		config.Redis.Password = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		config.Tracing.Endpoint = v
	}
	if v := os.Getenv("RESUME_PARSER_TRACING_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			config.Tracing.Enabled = enabled
		}
	}
}

// applyDefaults 设置默认值
func applyDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":5001"
	}
	if config.Server.MaxUploadMB <= 0 {
		config.Server.MaxUploadMB = 10
	}
	if config.Server.MaxRequestMB <= 0 {
		config.Server.MaxRequestMB = 4 * config.Server.MaxUploadMB
	}

	if config.Logger.Level == "" {
		config.Logger.Level = "info"
	}
	if config.Logger.Format == "" {
		config.Logger.Format = "json"
	}

	if config.PDF.Engine == "" {
		config.PDF.Engine = PDFEnginePages
	}
	if config.PDF.TimeoutSeconds <= 0 {
		config.PDF.TimeoutSeconds = 30
	}

	if config.Staging.Backend == "" {
		config.Staging.Backend = StagingLocal
	}
	if config.Staging.KeyPrefix == "" {
		config.Staging.KeyPrefix = "resume-upload/"
	}
	if config.Staging.TTLSeconds <= 0 {
		config.Staging.TTLSeconds = 300
	}

	if config.MinIO.BucketName == "" {
		config.MinIO.BucketName = "resume-staging"
	}

	if config.Redis.PoolSize <= 0 {
		config.Redis.PoolSize = 10
	}
	if config.Redis.DialTimeoutSeconds <= 0 {
		config.Redis.DialTimeoutSeconds = 5
	}
	if config.Redis.ReadTimeoutSeconds <= 0 {
		config.Redis.ReadTimeoutSeconds = 3
	}
	if config.Redis.WriteTimeoutSeconds <= 0 {
		config.Redis.WriteTimeoutSeconds = 3
	}

	if config.Tracing.ServiceName == "" {
		config.Tracing.ServiceName = "resume-parser-go"
	}
	if config.Tracing.SampleRatio <= 0 {
		config.Tracing.SampleRatio = 1.0
	}
}

// Validate 检查枚举类配置项
func (c *Config) Validate() error {
	switch c.PDF.Engine {
	case PDFEnginePages, PDFEngineEino:
	default:
		return fmt.Errorf("不支持的PDF解析引擎: %s", c.PDF.Engine)
	}

	switch c.Staging.Backend {
	case StagingLocal:
	case StagingMinIO:
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("staging.backend=minio 需要配置 minio.endpoint")
		}
	case StagingRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("staging.backend=redis 需要配置 redis.address")
		}
	default:
		return fmt.Errorf("不支持的暂存后端: %s", c.Staging.Backend)
	}

	if c.Server.MaxRequestMB <= c.Server.MaxUploadMB {
		return fmt.Errorf("server.max_request_mb(%d) 必须大于 server.max_upload_mb(%d)", c.Server.MaxRequestMB, c.Server.MaxUploadMB)
	}

	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("server.rate_limit_per_minute 不能为负数")
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.enabled 需要配置 tracing.endpoint")
	}
	return nil
}

// PDFTimeout 返回PDF解析超时时间
func (c *Config) PDFTimeout() time.Duration {
	return time.Duration(c.PDF.TimeoutSeconds) * time.Second
}

// MaxRequestBytes 返回传输层请求体大小上限(字节)
func (c *Config) MaxRequestBytes() int {
	return c.Server.MaxRequestMB * 1024 * 1024
}

// MaxUploadBytes 返回单个上传文件大小上限(字节)
func (c *Config) MaxUploadBytes() int {
	return c.Server.MaxUploadMB * 1024 * 1024
}

// StagingTTL 返回 redis 暂存键的过期时间
func (c *Config) StagingTTL() time.Duration {
	return time.Duration(c.Staging.TTLSeconds) * time.Second
}
