// Package config loads application settings from an optional file and
// ARTIC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sternrassler/artic-table/pkg/artwork"
	"github.com/Sternrassler/artic-table/pkg/client"
	"github.com/Sternrassler/artic-table/pkg/logging"
	"github.com/Sternrassler/artic-table/pkg/pagination"
	"github.com/Sternrassler/artic-table/pkg/ratelimit"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// DefaultUserAgent identifies the application to the API.
const DefaultUserAgent = "artic-table/1.0 (+https://github.com/Sternrassler/artic-table)"

// Config holds application configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Pager     PagerConfig     `mapstructure:"pager"`
	Bulk      BulkConfig      `mapstructure:"bulk"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
}

// APIConfig holds remote listing settings.
type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	UserAgent      string        `mapstructure:"user_agent"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	Fields         []string      `mapstructure:"fields"`
}

// PagerConfig holds display paging settings.
type PagerConfig struct {
	PageSize  int   `mapstructure:"page_size"`
	PageSizes []int `mapstructure:"page_sizes"`
}

// BulkConfig holds bulk selection settings.
type BulkConfig struct {
	PageSize    int `mapstructure:"page_size"`
	PreviewSize int `mapstructure:"preview_size"`
}

// RateLimitConfig holds request pacing settings.
type RateLimitConfig struct {
	RPS         float64 `mapstructure:"rps"`
	Burst       int     `mapstructure:"burst"`
	WindowLimit int     `mapstructure:"window_limit"`
}

// RedisConfig enables the shared rate limit window when Addr is set.
type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
	File   string `mapstructure:"file"`
}

// ServerConfig holds HTTP front settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from path (or ARTIC_CONFIG, or
// ~/.config/artic-table/config.toml) and the environment. Env var overrides
// use prefix ARTIC_, e.g. ARTIC_API_BASE_URL. An explicitly named file must
// exist; the default location is optional.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("api.base_url", client.DefaultBaseURL)
	v.SetDefault("api.user_agent", DefaultUserAgent)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.max_attempts", 1)
	v.SetDefault("api.initial_backoff", time.Second)
	v.SetDefault("api.fields", artwork.DefaultFields)
	v.SetDefault("pager.page_size", 10)
	v.SetDefault("pager.page_sizes", []int{5, 10, 20, 50})
	v.SetDefault("bulk.page_size", 0)
	v.SetDefault("bulk.preview_size", pagination.DefaultPreviewSize)
	v.SetDefault("ratelimit.rps", 0)
	v.SetDefault("ratelimit.burst", 1)
	v.SetDefault("ratelimit.window_limit", ratelimit.DefaultWindowLimit)
	v.SetDefault("redis.addr", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.file", "artic-table.log")
	v.SetDefault("server.addr", ":8080")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("ARTIC_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "artic-table"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ARTIC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks settings that the components would otherwise reject late.
func (c Config) Validate() error {
	if c.Pager.PageSize < 1 {
		return fmt.Errorf("pager.page_size must be >= 1 (got %d)", c.Pager.PageSize)
	}
	for _, s := range c.Pager.PageSizes {
		if s < 1 {
			return fmt.Errorf("pager.page_sizes entries must be >= 1 (got %d)", s)
		}
	}
	if c.Bulk.PageSize < 0 {
		return fmt.Errorf("bulk.page_size must be >= 0 (got %d)", c.Bulk.PageSize)
	}
	if c.Bulk.PreviewSize < 1 {
		return fmt.Errorf("bulk.preview_size must be >= 1 (got %d)", c.Bulk.PreviewSize)
	}
	if c.API.MaxAttempts < 1 {
		return fmt.Errorf("api.max_attempts must be >= 1 (got %d)", c.API.MaxAttempts)
	}
	return nil
}

// ClientConfig returns the API client settings paced by limiter.
func (c Config) ClientConfig(limiter *ratelimit.Limiter) client.Config {
	cfg := client.DefaultConfig(c.API.UserAgent)
	cfg.BaseURL = c.API.BaseURL
	cfg.Timeout = c.API.Timeout
	cfg.Fields = c.API.Fields
	cfg.MaxAttempts = c.API.MaxAttempts
	cfg.InitialBackoff = c.API.InitialBackoff
	cfg.Limiter = limiter
	return cfg
}

// RateLimitConfig returns the limiter settings. rdb may be nil.
func (c Config) RateLimitConfig(rdb *redis.Client) ratelimit.Config {
	return ratelimit.Config{
		RequestsPerSecond: c.RateLimit.RPS,
		Burst:             c.RateLimit.Burst,
		Redis:             rdb,
		WindowLimit:       c.RateLimit.WindowLimit,
		WindowSize:        ratelimit.DefaultWindowSize,
	}
}

// RedisClient connects to the configured Redis, or returns nil when no
// address is set.
func (c Config) RedisClient() *redis.Client {
	if c.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: c.Redis.Addr})
}

// BulkSelectorConfig returns the bulk walk settings.
func (c Config) BulkSelectorConfig() pagination.BulkConfig {
	return pagination.BulkConfig{
		PageSize:    c.Bulk.PageSize,
		PreviewSize: c.Bulk.PreviewSize,
	}
}

// LoggingConfig returns logger settings. toFile routes output to Log.File.
func (c Config) LoggingConfig(toFile bool) logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Log.Level)
	cfg.Pretty = c.Log.Pretty
	if toFile {
		cfg.File = c.Log.File
	}
	return cfg
}
