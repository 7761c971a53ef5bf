package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Feed     FeedConfig     `yaml:"feed"`
	Poll     PollConfig     `yaml:"poll"`
	Telegram TelegramConfig `yaml:"telegram"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Rules    RulesConfig    `yaml:"rules"`
}

type FeedConfig struct {
	BaseURL   string        `yaml:"base_url"`
	User      string        `yaml:"user"`
	Secret    string        `yaml:"secret"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"` // requests per second
	Burst     int           `yaml:"burst"`
}

type PollConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"` // parallel per-match fetches
	StaleAfter  time.Duration `yaml:"stale_after"` // evict match state not seen for this long
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"` // debug, info, warn, error
	File    string `yaml:"file"`  // empty disables the file handler
	MaxSize int    `yaml:"max_size_mb"`
	Backups int    `yaml:"backups"`
	MaxAge  int    `yaml:"max_age_days"`
}

type RulesConfig struct {
	HighLineMin      float64       `yaml:"high_line_min"`     // totals line that arms the halftime-zero rule
	OutlierThreshold int           `yaml:"outlier_threshold"` // American odds magnitude
	OutlierCooldown  time.Duration `yaml:"outlier_cooldown"`
	EarlyTotalLine   float64       `yaml:"early_total_line"`
	EarlyTotalMinute int           `yaml:"early_total_minute"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnv()
	config.applyDefaults()
	return &config, nil
}

// applyEnv lets secrets come from the environment so the yaml file can be
// committed without credentials.
func (c *Config) applyEnv() {
	if v := os.Getenv("FEED_USER"); v != "" {
		c.Feed.User = v
	}
	if v := os.Getenv("FEED_SECRET"); v != "" {
		c.Feed.Secret = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
}

func (c *Config) applyDefaults() {
	if c.Feed.Timeout <= 0 {
		c.Feed.Timeout = 15 * time.Second
	}
	if c.Feed.RateLimit <= 0 {
		c.Feed.RateLimit = 20
	}
	if c.Feed.Burst <= 0 {
		c.Feed.Burst = 10
	}
	if c.Poll.Interval <= 0 {
		c.Poll.Interval = 30 * time.Second
	}
	if c.Poll.Concurrency <= 0 {
		c.Poll.Concurrency = 10
	}
	if c.Poll.StaleAfter <= 0 {
		c.Poll.StaleAfter = 30 * time.Minute
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSize <= 0 {
		c.Logging.MaxSize = 50
	}
	if c.Logging.Backups <= 0 {
		c.Logging.Backups = 5
	}
	if c.Logging.MaxAge <= 0 {
		c.Logging.MaxAge = 14
	}
	if c.Rules.HighLineMin <= 0 {
		c.Rules.HighLineMin = 3.0
	}
	if c.Rules.OutlierThreshold <= 0 {
		c.Rules.OutlierThreshold = 400
	}
	if c.Rules.OutlierCooldown <= 0 {
		c.Rules.OutlierCooldown = 5 * time.Minute
	}
	if c.Rules.EarlyTotalLine <= 0 {
		c.Rules.EarlyTotalLine = 3.0
	}
	if c.Rules.EarlyTotalMinute <= 0 {
		c.Rules.EarlyTotalMinute = 10
	}
}

// Validate checks the settings the engine cannot run without.
func (c *Config) Validate() error {
	if c.Feed.BaseURL == "" {
		return fmt.Errorf("feed.base_url is required")
	}
	if c.Feed.User == "" || c.Feed.Secret == "" {
		return fmt.Errorf("feed credentials are required (feed.user/feed.secret or FEED_USER/FEED_SECRET)")
	}
	return nil
}
