// Package config loads profile2pdf settings from defaults, an optional config
// file, .env and PROFILE2PDF_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PROFILE2PDF_CRAWL_TIMEOUT
const EnvPrefix = "PROFILE2PDF"

// Backend names.
const (
	BackendNone     = "none"
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is the complete profile2pdf configuration.
type Config struct {
	Crawl       CrawlConfig       `mapstructure:"crawl"`
	Fallback    FallbackConfig    `mapstructure:"fallback"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Session     SessionConfig     `mapstructure:"session"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Resume      ResumeConfig      `mapstructure:"resume"`
	Mock        MockConfig        `mapstructure:"mock"`
}

type CrawlConfig struct {
	BaseURL               string        `mapstructure:"base_url"`
	Timeout               time.Duration `mapstructure:"timeout"`
	PollInterval          time.Duration `mapstructure:"poll_interval"`
	MaxParallelReferences int           `mapstructure:"max_parallel_references"`
	Cache                 CacheConfig   `mapstructure:"cache"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend"` // none, memory or redis
	TTL     time.Duration `mapstructure:"ttl"`
}

type FallbackConfig struct {
	// PreserveReferences keeps real references when the profile is generated
	PreserveReferences bool `mapstructure:"preserve_references"`
}

type CredentialsConfig struct {
	Backend  string `mapstructure:"backend"` // memory, file, redis or postgres
	FilePath string `mapstructure:"file_path"`
	// APIKey seeds the memory backend; read from FIRECRAWL_API_KEY as well
	APIKey string `mapstructure:"api_key"`
}

type SessionConfig struct {
	Backend string        `mapstructure:"backend"` // memory or redis
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type ServerConfig struct {
	Port        int             `mapstructure:"port"`
	CORSOrigins []string        `mapstructure:"cors_origins"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

type LogConfig struct {
	Env   string `mapstructure:"env"` // production or development
	Level string `mapstructure:"level"`
}

type ResumeConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
	Contact         string `mapstructure:"contact"`
}

type MockConfig struct {
	Seed uint64 `mapstructure:"seed"` // 0 seeds from the clock
}

// setDefaults registers every key so environment overrides apply to all of them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("crawl.base_url", "https://api.firecrawl.dev")
	v.SetDefault("crawl.timeout", 90*time.Second)
	v.SetDefault("crawl.poll_interval", 2*time.Second)
	v.SetDefault("crawl.max_parallel_references", 4)
	v.SetDefault("crawl.cache.backend", BackendMemory)
	v.SetDefault("crawl.cache.ttl", 10*time.Minute)

	v.SetDefault("fallback.preserve_references", true)

	v.SetDefault("credentials.backend", BackendFile)
	v.SetDefault("credentials.file_path", "")
	v.SetDefault("credentials.api_key", "")

	v.SetDefault("session.backend", BackendMemory)
	v.SetDefault("session.ttl", 2*time.Hour)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "profile2pdf:")

	v.SetDefault("database.url", "")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "profile2pdf.progress")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.default_limit", 1000)
	v.SetDefault("server.rate_limit.default_window", time.Minute)
	v.SetDefault("server.rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("server.rate_limit.whitelist", []string{})
	v.SetDefault("server.rate_limit.blacklist", []string{})

	v.SetDefault("log.env", "development")
	v.SetDefault("log.level", "info")

	v.SetDefault("resume.default_language", "Japanese")
	v.SetDefault("resume.contact", "example@email.com")

	v.SetDefault("mock.seed", 0)
}

// Load reads configuration. path names an optional YAML or JSON file; when
// empty, ./profile2pdf.yaml is used if present. A .env file in the working
// directory is loaded first and never overrides variables already set.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("profile2pdf")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("credentials.api_key", EnvPrefix+"_CREDENTIALS_API_KEY", "FIRECRAWL_API_KEY")
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("redis.addr", EnvPrefix+"_REDIS_ADDR", "REDIS_ADDR")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)
	cfg.Server.CORSOrigins = splitList(cfg.Server.CORSOrigins)
	cfg.Server.RateLimit.Whitelist = splitList(cfg.Server.RateLimit.Whitelist)
	cfg.Server.RateLimit.Blacklist = splitList(cfg.Server.RateLimit.Blacklist)
	if cfg.Credentials.FilePath == "" {
		cfg.Credentials.FilePath = DefaultCredentialsPath()
	}
	return &cfg, nil
}

// DefaultCredentialsPath is the credential file under the user config directory.
func DefaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "profile2pdf", "credentials.json")
}

// splitList trims entries and splits any that still hold commas, as
// environment values arrive as one string.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Crawl.BaseURL == "" {
		return fmt.Errorf("config error: 'crawl.base_url' is required")
	}
	if c.Crawl.Timeout <= 0 {
		return fmt.Errorf("config error: 'crawl.timeout' must be positive")
	}
	if c.Crawl.PollInterval <= 0 {
		return fmt.Errorf("config error: 'crawl.poll_interval' must be positive")
	}
	if c.Crawl.MaxParallelReferences < 1 || c.Crawl.MaxParallelReferences > 10 {
		return fmt.Errorf("config error: 'crawl.max_parallel_references' must be between 1 and 10")
	}
	if err := oneOf("crawl.cache.backend", c.Crawl.Cache.Backend, BackendNone, BackendMemory, BackendRedis); err != nil {
		return err
	}
	if err := oneOf("credentials.backend", c.Credentials.Backend, BackendMemory, BackendFile, BackendRedis, BackendPostgres); err != nil {
		return err
	}
	if c.Credentials.Backend == BackendPostgres && c.Database.URL == "" {
		return fmt.Errorf("config error: 'database.url' is required for the postgres credential backend")
	}
	if err := oneOf("session.backend", c.Session.Backend, BackendMemory, BackendRedis); err != nil {
		return err
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config error: 'session.ttl' must be positive")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("config error: 'kafka.topic' is required when brokers are set")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 0 and 65535")
	}
	if c.Server.RateLimit.DefaultLimit < 0 {
		return fmt.Errorf("config error: 'server.rate_limit.default_limit' must be non-negative")
	}
	if err := oneOf("log.env", c.Log.Env, "production", "development"); err != nil {
		return err
	}
	return nil
}

// UsesRedis reports whether any component is configured for Redis.
func (c *Config) UsesRedis() bool {
	return c.Crawl.Cache.Backend == BackendRedis ||
		c.Credentials.Backend == BackendRedis ||
		c.Session.Backend == BackendRedis
}

func oneOf(key, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("config error: '%s' must be one of %s, got %q", key, strings.Join(allowed, ", "), value)
}
