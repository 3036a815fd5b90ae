package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/recipefinder/config.yaml",
}

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	Logging    LoggingConfig    `koanf:"logging"`
	CORS       CORSConfig       `koanf:"cors"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	Assets     AssetsConfig     `koanf:"assets"`
	Pagination PaginationConfig `koanf:"pagination"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects and tunes the storage backend.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver" validate:"oneof=sqlite postgres"`
	DSN             string        `koanf:"dsn"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"omitempty,min=1,max=65535"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// ConnectionString returns the DSN for the configured driver. An explicit DSN
// always wins; postgres otherwise gets a key/value string built from parts.
func (d DatabaseConfig) ConnectionString() string {
	if d.DSN != "" {
		return d.DSN
	}
	if d.Driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
		)
	}
	return "recipes.db"
}

// RedisConfig is optional; an empty URL and host disables redis.
type RedisConfig struct {
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"min=0"`
}

// Enabled reports whether a redis server is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Host != ""
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins" validate:"min=1,dive,required"`
}

// RateLimitConfig is applied per client IP.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests" validate:"min=1"`
	Window   time.Duration `koanf:"window" validate:"gt=0"`
}

// AssetsConfig controls how stored image paths become public URLs.
type AssetsConfig struct {
	BaseURL    string        `koanf:"base_url"`
	S3Bucket   string        `koanf:"s3_bucket"`
	S3Region   string        `koanf:"s3_region"`
	S3Prefix   string        `koanf:"s3_prefix"`
	PresignTTL time.Duration `koanf:"presign_ttl" validate:"gt=0"`
}

// PaginationConfig bounds the list endpoint page size.
type PaginationConfig struct {
	DefaultPerPage int `koanf:"default_per_page" validate:"min=1"`
	MaxPerPage     int `koanf:"max_per_page" validate:"min=1,max=100"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "recipefinder",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 120,
			Window:   time.Minute,
		},
		Assets: AssetsConfig{
			BaseURL:    "/",
			PresignTTL: 15 * time.Minute,
		},
		Pagination: PaginationConfig{
			DefaultPerPage: 12,
			MaxPerPage:     48,
		},
	}
}

// envMappings maps environment variables to koanf paths.
var envMappings = map[string]string{
	"server_host":                 "server.host",
	"server_port":                 "server.port",
	"server_read_timeout":         "server.read_timeout",
	"server_write_timeout":        "server.write_timeout",
	"server_shutdown_timeout":     "server.shutdown_timeout",
	"db_driver":                   "database.driver",
	"database_url":                "database.dsn",
	"db_host":                     "database.host",
	"db_port":                     "database.port",
	"db_user":                     "database.user",
	"db_password":                 "database.password",
	"db_name":                     "database.name",
	"db_ssl_mode":                 "database.ssl_mode",
	"db_auto_migrate":             "database.auto_migrate",
	"redis_url":                   "redis.url",
	"redis_host":                  "redis.host",
	"redis_port":                  "redis.port",
	"redis_password":              "redis.password",
	"redis_db":                    "redis.db",
	"log_level":                   "logging.level",
	"log_format":                  "logging.format",
	"cors_allowed_origins":        "cors.allowed_origins",
	"rate_limit_enabled":          "rate_limit.enabled",
	"rate_limit_requests":         "rate_limit.requests",
	"rate_limit_window":           "rate_limit.window",
	"assets_base_url":             "assets.base_url",
	"assets_s3_bucket":            "assets.s3_bucket",
	"assets_s3_region":            "assets.s3_region",
	"assets_s3_prefix":            "assets.s3_prefix",
	"assets_presign_ttl":          "assets.presign_ttl",
	"pagination_default_per_page": "pagination.default_per_page",
	"pagination_max_per_page":     "pagination.max_per_page",
}

// sliceKeys are parsed from comma separated environment values.
var sliceKeys = map[string]bool{
	"cors.allowed_origins": true,
}

func envTransform(key, value string) (string, interface{}) {
	path, ok := envMappings[strings.ToLower(key)]
	if !ok {
		return "", nil
	}
	if sliceKeys[path] {
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return path, items
	}
	return path, value
}

// LoadConfig builds the configuration from defaults, an optional YAML file and
// the environment, then fills secrets and validates the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	loadSecrets(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadSecrets fills credentials that were not set through the file or the
// environment from docker secrets.
func loadSecrets(cfg *Config) {
	if cfg.Database.Password == "" {
		cfg.Database.Password = readSecret("db_password")
	}
	if cfg.Redis.Password == "" {
		cfg.Redis.Password = readSecret("redis_password")
	}
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
