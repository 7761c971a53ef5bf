package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
feed:
  base_url: "https://api.example.com"
  user: "u1"
  secret: "s1"
  rate_limit: 5
poll:
  interval: 10s
  concurrency: 4
telegram:
  bot_token: "tok"
  chat_id: -100123
rules:
  outlier_threshold: 500
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Feed.BaseURL != "https://api.example.com" || cfg.Feed.User != "u1" {
		t.Errorf("feed = %+v", cfg.Feed)
	}
	if cfg.Poll.Interval != 10*time.Second || cfg.Poll.Concurrency != 4 {
		t.Errorf("poll = %+v", cfg.Poll)
	}
	if cfg.Telegram.ChatID != -100123 {
		t.Errorf("chat id = %d", cfg.Telegram.ChatID)
	}
	if cfg.Rules.OutlierThreshold != 500 {
		t.Errorf("outlier threshold = %d", cfg.Rules.OutlierThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `feed: {base_url: "https://api.example.com"}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Poll.Interval != 30*time.Second {
		t.Errorf("default interval = %v", cfg.Poll.Interval)
	}
	if cfg.Poll.Concurrency != 10 || cfg.Poll.StaleAfter != 30*time.Minute {
		t.Errorf("poll defaults = %+v", cfg.Poll)
	}
	if cfg.Feed.Timeout != 15*time.Second || cfg.Feed.RateLimit != 20 {
		t.Errorf("feed defaults = %+v", cfg.Feed)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %q", cfg.Logging.Level)
	}
	if cfg.Rules.HighLineMin != 3.0 || cfg.Rules.OutlierThreshold != 400 ||
		cfg.Rules.OutlierCooldown != 5*time.Minute || cfg.Rules.EarlyTotalMinute != 10 {
		t.Errorf("rule defaults = %+v", cfg.Rules)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FEED_USER", "env-user")
	t.Setenv("FEED_SECRET", "env-secret")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(writeConfig(t, `
feed:
  base_url: "https://api.example.com"
  user: "file-user"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Feed.User != "env-user" || cfg.Feed.Secret != "env-secret" {
		t.Errorf("env must win over file: %+v", cfg.Feed)
	}
	if cfg.Telegram.ChatID != 42 {
		t.Errorf("chat id from env = %d", cfg.Telegram.ChatID)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, `feed: {base_url: ""}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("missing base_url must fail validation")
	}

	cfg.Feed.BaseURL = "https://api.example.com"
	if err := cfg.Validate(); err == nil {
		t.Error("missing credentials must fail validation")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
