package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultPath = "config.yaml"

	// EnvPrefix marks environment overrides. Nested keys use a double
	// underscore: FAKENEWS_MODEL__API_TOKEN sets model.api_token.
	EnvPrefix = "FAKENEWS_"
	EnvPath   = "FAKENEWS_CONFIG"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Model    ModelConfig    `koanf:"model"`
	Keyword  KeywordConfig  `koanf:"keyword"`
	Scraper  ScraperConfig  `koanf:"scraper"`
	Queue    QueueConfig    `koanf:"queue"`
	Storage  StorageConfig  `koanf:"storage"`
	Redis    RedisConfig    `koanf:"redis"`
	Notifier NotifierConfig `koanf:"notifier"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Port string `koanf:"port"`
}

type ModelConfig struct {
	Name     string `koanf:"name"`
	BaseURL  string `koanf:"base_url"`
	APIToken string `koanf:"api_token"`
	// Timeout bounds each inference; HTTPTimeout bounds the HTTP client.
	Timeout     time.Duration `koanf:"timeout"`
	HTTPTimeout time.Duration `koanf:"http_timeout"`
	Warmup      bool          `koanf:"warmup"`
}

type KeywordConfig struct {
	Lexicon []string `koanf:"lexicon"`
}

type ScraperConfig struct {
	Feeds    []string      `koanf:"feeds"`
	Interval time.Duration `koanf:"interval"`
	Timeout  time.Duration `koanf:"timeout"`
}

type QueueConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
	GroupID string   `koanf:"group_id"`
}

type StorageConfig struct {
	DSN     string `koanf:"dsn"`
	Migrate bool   `koanf:"migrate"`
}

type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

type NotifierConfig struct {
	TelegramToken   string   `koanf:"telegram_token"`
	TelegramChatIDs []string `koanf:"telegram_chat_ids"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Load reads the YAML file at path when it exists, then applies FAKENEWS_
// environment overrides and defaults. An empty path uses FAKENEWS_CONFIG or
// config.yaml.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		path = DefaultPath
	}

	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Model.Name == "" {
		c.Model.Name = "distilbert-base-uncased"
	}
	if c.Model.HTTPTimeout == 0 {
		c.Model.HTTPTimeout = 30 * time.Second
	}
	if c.Scraper.Interval == 0 {
		c.Scraper.Interval = 10 * time.Minute
	}
	if c.Scraper.Timeout == 0 {
		c.Scraper.Timeout = 15 * time.Second
	}
	if c.Queue.Topic == "" {
		c.Queue.Topic = "articles"
	}
	if c.Queue.GroupID == "" {
		c.Queue.GroupID = "fakenews"
	}
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = 24 * time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) Validate() error {
	if c.Model.Timeout < 0 {
		return errors.New("model.timeout must not be negative")
	}
	if c.Scraper.Interval < 0 {
		return errors.New("scraper.interval must not be negative")
	}
	if c.Redis.CacheTTL < 0 {
		return errors.New("redis.cache_ttl must not be negative")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q: want text or json", c.Log.Format)
	}
	return nil
}

// NewLogger builds the process logger described by c.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Level)
	opts := &slog.HandlerOptions{Level: level}

	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
