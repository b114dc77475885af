package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Mapping persistence backends
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendS3     = "s3"
	BackendRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Log     LogConfig
	HTTP    HTTPConfig
	Mapping MappingConfig
	Convert ConvertConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodySize    int64
	TrustedProxies []string
	// ConvertRateLimit caps convert requests per client per ConvertRateWindow; 0 disables
	ConvertRateLimit  int
	ConvertRateWindow time.Duration
}

// MappingConfig selects where the mapping configuration is persisted
type MappingConfig struct {
	Backend string // memory, file, s3, redis
	Path    string // file backend: path of the JSON file
	Key     string // s3 object key or redis key
}

// ConvertConfig holds conversion settings
type ConvertConfig struct {
	Workers       int   // files converted concurrently per batch
	MaxFileSize   int64 // per-file upload limit in bytes
	ProceedAnyway bool  // default policy when a request does not choose
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	UsePathStyle bool
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TelemetryConfig holds OpenTelemetry export settings
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // OTLP gRPC endpoint
	SamplingRatio     float64 // 0.0 to 1.0
	Insecure          bool
	MetricsInterval   time.Duration
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with MAPPER_ prefix (e.g., MAPPER_MAPPING_BACKEND)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	return fromViper(v)
}

// LoadFile loads configuration from an explicit file path plus environment
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("MAPPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			MaxBodySize:    v.GetInt64("http.max_body_size"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),

			ConvertRateLimit:  v.GetInt("http.convert_rate_limit"),
			ConvertRateWindow: v.GetDuration("http.convert_rate_window"),
		},
		Mapping: MappingConfig{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString("mapping.backend"))),
			Path:    v.GetString("mapping.path"),
			Key:     v.GetString("mapping.key"),
		},
		Convert: ConvertConfig{
			Workers:       v.GetInt("convert.workers"),
			MaxFileSize:   v.GetInt64("convert.max_file_size"),
			ProceedAnyway: v.GetBool("convert.proceed_anyway"),
		},
		Storage: StorageConfig{
			Endpoint:     v.GetString("storage.endpoint"),
			Region:       v.GetString("storage.region"),
			Bucket:       v.GetString("storage.bucket"),
			AccessKey:    v.GetString("storage.access_key"),
			SecretKey:    v.GetString("storage.secret_key"),
			UseSSL:       v.GetBool("storage.use_ssl"),
			UsePathStyle: v.GetBool("storage.use_path_style"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "catalog-mapper"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 100 << 20 // 100MB, batches carry several exports
	}
	if cfg.HTTP.ConvertRateWindow == 0 {
		cfg.HTTP.ConvertRateWindow = time.Minute
	}
	if cfg.Mapping.Backend == "" {
		cfg.Mapping.Backend = BackendFile
	}
	if cfg.Mapping.Path == "" {
		cfg.Mapping.Path = "mapping.json"
	}
	if cfg.Mapping.Key == "" {
		cfg.Mapping.Key = "catalog-mapper/mapping.json"
	}
	if cfg.Convert.Workers == 0 {
		cfg.Convert.Workers = 4
	}
	if cfg.Convert.MaxFileSize == 0 {
		cfg.Convert.MaxFileSize = 50 << 20 // 50MB
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Mapping.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	case BackendS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 mapping backend")
		}
	default:
		return fmt.Errorf("mapping.backend must be one of memory, file, s3, redis, got %q", c.Mapping.Backend)
	}

	if c.Convert.Workers < 0 {
		return fmt.Errorf("convert.workers must be positive")
	}
	if c.Convert.MaxFileSize < 0 {
		return fmt.Errorf("convert.max_file_size cannot be negative")
	}
	if c.HTTP.MaxBodySize < c.Convert.MaxFileSize {
		return fmt.Errorf("http.max_body_size (%d) cannot be smaller than convert.max_file_size (%d)",
			c.HTTP.MaxBodySize, c.Convert.MaxFileSize)
	}

	if c.HTTP.ConvertRateLimit < 0 {
		return fmt.Errorf("http.convert_rate_limit cannot be negative")
	}

	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0 and 1, got %v", c.Telemetry.SamplingRatio)
	}

	if c.App.Env == "production" && c.Mapping.Backend == BackendMemory {
		return fmt.Errorf("mapping.backend=memory loses edits on restart and is not allowed in production")
	}

	return nil
}
