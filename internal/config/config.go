package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "BIKE"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"20s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8501,http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"100"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/bikepulse.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir   string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ExportDir string `yaml:"export_dir" envconfig:"EXPORT_DIR" default:"exports"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// DatasetConfig describes the backing file of the rental record set.
type DatasetConfig struct {
	// File is resolved against Paths.DataDir when relative.
	File       string `yaml:"file" envconfig:"FILE" default:"hour.csv"`
	DateLayout string `yaml:"date_layout" envconfig:"DATE_LAYOUT" default:"2006-01-02"`
	Sheet      string `yaml:"sheet" envconfig:"SHEET"`
	Watch      bool   `yaml:"watch" envconfig:"WATCH" default:"true"`
}

// TelemetryConfig toggles the OpenTelemetry exporters.
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME" default:"bikepulse"`
	TracingEnabled bool    `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED" default:"false"`
	MetricsEnabled bool    `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED" default:"true"`
	SampleRate     float64 `yaml:"sample_rate" envconfig:"SAMPLE_RATE" default:"1.0"`
}

// Load loads configuration from a .env file, environment variables and an
// optional YAML file. Explicitly set environment variables win over the file,
// the file wins over defaults.
func Load() (*Config, error) {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envSet reports whether the variable for key was given explicitly.
func envSet(key string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + key)
	return ok
}

// mergeConfigs copies non-zero file values over env values that only carry
// their defaults.
func mergeConfigs(fileConfig, envConfig Config) Config {
	pickInt := func(key string, dst *int, src int) {
		if src != 0 && !envSet(key) {
			*dst = src
		}
	}
	pickDur := func(key string, dst *time.Duration, src time.Duration) {
		if src != 0 && !envSet(key) {
			*dst = src
		}
	}
	pickStr := func(key string, dst *string, src string) {
		if src != "" && !envSet(key) {
			*dst = src
		}
	}

	f := fileConfig
	pickInt("SERVER_PORT", &envConfig.Server.Port, f.Server.Port)
	pickDur("SERVER_READ_TIMEOUT", &envConfig.Server.ReadTimeout, f.Server.ReadTimeout)
	pickDur("SERVER_WRITE_TIMEOUT", &envConfig.Server.WriteTimeout, f.Server.WriteTimeout)
	pickDur("SERVER_IDLE_TIMEOUT", &envConfig.Server.IdleTimeout, f.Server.IdleTimeout)
	pickDur("SERVER_SHUTDOWN_TIMEOUT", &envConfig.Server.ShutdownTimeout, f.Server.ShutdownTimeout)
	pickDur("SERVER_REQUEST_TIMEOUT", &envConfig.Server.RequestTimeout, f.Server.RequestTimeout)

	if len(f.Security.AllowedOrigins) > 0 && !envSet("SECURITY_ALLOWED_ORIGINS") {
		envConfig.Security.AllowedOrigins = f.Security.AllowedOrigins
	}
	if f.Security.RateLimit.RPS != 0 && !envSet("SECURITY_RATE_LIMIT_RPS") {
		envConfig.Security.RateLimit.RPS = f.Security.RateLimit.RPS
	}
	pickInt("SECURITY_RATE_LIMIT_BURST", &envConfig.Security.RateLimit.Burst, f.Security.RateLimit.Burst)

	pickStr("LOGGING_LEVEL", &envConfig.Logging.Level, f.Logging.Level)
	pickStr("LOGGING_OUTPUT", &envConfig.Logging.Output, f.Logging.Output)
	pickStr("LOGGING_FILE_PATH", &envConfig.Logging.FilePath, f.Logging.FilePath)

	pickStr("PATHS_BASE_DIR", &envConfig.Paths.BaseDir, f.Paths.BaseDir)
	pickStr("PATHS_DATA_DIR", &envConfig.Paths.DataDir, f.Paths.DataDir)
	pickStr("PATHS_EXPORT_DIR", &envConfig.Paths.ExportDir, f.Paths.ExportDir)
	pickStr("PATHS_LOGS_DIR", &envConfig.Paths.LogsDir, f.Paths.LogsDir)

	pickStr("DATASET_FILE", &envConfig.Dataset.File, f.Dataset.File)
	pickStr("DATASET_DATE_LAYOUT", &envConfig.Dataset.DateLayout, f.Dataset.DateLayout)
	pickStr("DATASET_SHEET", &envConfig.Dataset.Sheet, f.Dataset.Sheet)

	pickStr("TELEMETRY_SERVICE_NAME", &envConfig.Telemetry.ServiceName, f.Telemetry.ServiceName)

	return envConfig
}

// resolvePaths fills Paths.BaseDir with the working directory when unset.
func (c *Config) resolvePaths() error {
	if c.Paths.BaseDir != "" {
		return nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	c.Paths.BaseDir = wd
	return nil
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid log output: %q", c.Logging.Output)
	}

	// Only JSON logs are shipped.
	c.Logging.Format = "json"

	if c.Dataset.File == "" {
		return fmt.Errorf("dataset file must be specified")
	}

	if c.Dataset.DateLayout == "" {
		c.Dataset.DateLayout = "2006-01-02"
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry sample rate must be within [0,1]")
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  20 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8501", "http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   100,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/bikepulse.log",
		},
		Paths: PathsConfig{
			DataDir:   "data",
			ExportDir: "exports",
			LogsDir:   "logs",
		},
		Dataset: DatasetConfig{
			File:       "hour.csv",
			DateLayout: "2006-01-02",
			Watch:      true,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "bikepulse",
			MetricsEnabled: true,
			SampleRate:     1.0,
		},
	}
}
