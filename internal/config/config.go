// Package config provides application configuration loaded via Viper from
// config files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/finradar/bankcrawl/internal/dates"
	"github.com/finradar/bankcrawl/internal/logger"
)

// Defaults applied when neither config file nor environment provide values.
const (
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultRequestTimeout = 30 * time.Second
	defaultRequestDelay   = 2 * time.Second
	defaultMaxRetries     = 2
	defaultMaxPages       = 3
	defaultSourcesFile    = "sources.yaml"
	defaultOutputDir      = "data"
	defaultStoragePath    = "data/bankcrawl.db"
	defaultScheduleCron   = "0 7 * * *"
)

// CrawlerConfig holds the crawl engine settings shared by all sources.
type CrawlerConfig struct {
	// UserAgent sent with every request
	UserAgent string `mapstructure:"user_agent"`
	// RequestTimeout bounds each HTTP request
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// RequestDelay is the politeness delay between requests to one source
	RequestDelay time.Duration `mapstructure:"request_delay"`
	// MaxRetries bounds retry attempts for transient fetch failures
	MaxRetries int `mapstructure:"max_retries"`
	// MaxPages bounds pagination depth per listing
	MaxPages int `mapstructure:"max_pages"`
	// WindowDays is the recency window; articles older than now minus
	// this many days are dropped
	WindowDays int `mapstructure:"window_days"`
	// RespectRobotsTxt enables robots.txt handling
	RespectRobotsTxt bool `mapstructure:"respect_robots_txt"`
}

// StorageConfig holds the article store settings.
type StorageConfig struct {
	// Path to the SQLite database file
	Path string `mapstructure:"path"`
}

// OutputConfig holds the feed export settings.
type OutputConfig struct {
	// Dir receives the per-run JSON feed files
	Dir string `mapstructure:"dir"`
}

// ScheduleConfig holds recurring-crawl settings.
type ScheduleConfig struct {
	// Cron is a standard 5-field cron expression
	Cron string `mapstructure:"cron"`
}

// Config is the root application configuration.
type Config struct {
	Crawler     CrawlerConfig  `mapstructure:"crawler"`
	Logging     logger.Config  `mapstructure:"logging"`
	Storage     StorageConfig  `mapstructure:"storage"`
	Output      OutputConfig   `mapstructure:"output"`
	Schedule    ScheduleConfig `mapstructure:"schedule"`
	SourcesFile string         `mapstructure:"sources_file"`
}

// SetDefaults registers default values on the given Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("crawler.user_agent", defaultUserAgent)
	v.SetDefault("crawler.request_timeout", defaultRequestTimeout)
	v.SetDefault("crawler.request_delay", defaultRequestDelay)
	v.SetDefault("crawler.max_retries", defaultMaxRetries)
	v.SetDefault("crawler.max_pages", defaultMaxPages)
	v.SetDefault("crawler.window_days", dates.DefaultWindowDays)
	v.SetDefault("crawler.respect_robots_txt", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
	v.SetDefault("storage.path", defaultStoragePath)
	v.SetDefault("output.dir", defaultOutputDir)
	v.SetDefault("schedule.cron", defaultScheduleCron)
	v.SetDefault("sources_file", defaultSourcesFile)
}

// Load unmarshals the current Viper state into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that would break a crawl.
func (c *Config) Validate() error {
	if c.Crawler.RequestTimeout <= 0 {
		return errors.New("crawler.request_timeout must be positive")
	}
	if c.Crawler.RequestDelay < 0 {
		return errors.New("crawler.request_delay must not be negative")
	}
	if c.Crawler.MaxRetries < 0 {
		return errors.New("crawler.max_retries must not be negative")
	}
	if c.Crawler.WindowDays <= 0 {
		return errors.New("crawler.window_days must be positive")
	}
	if c.SourcesFile == "" {
		return errors.New("sources_file must be set")
	}
	return nil
}
