package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Vodeneev/matchwatch/internal/engine"
	"github.com/Vodeneev/matchwatch/internal/engine/rules"
	"github.com/Vodeneev/matchwatch/internal/feed"
	"github.com/Vodeneev/matchwatch/internal/notify"
	pkgconfig "github.com/Vodeneev/matchwatch/internal/pkg/config"
	"github.com/Vodeneev/matchwatch/internal/pkg/logging"
	"github.com/Vodeneev/matchwatch/internal/pkg/storage"
)

const defaultConfigPath = "configs/production.yaml"

// notifier is what the engine needs plus the service-message extras the
// alerter itself uses.
type notifier interface {
	engine.Notifier
	SendText(ctx context.Context, text string) error
	Stop()
}

func main() {
	if err := run(); err != nil {
		slog.Error("Alerter service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", defaultConfigPath, "path to yaml config")
	flag.Parse()

	// Secrets may live in .env during local runs; absence is fine.
	_ = godotenv.Load()

	slog.Info("Loading config", "path", *configPath)
	cfg, err := pkgconfig.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetupLogger(&cfg.Logging, "alerter")
	slog.Info("Logging initialized", "level", cfg.Logging.Level)

	client := feed.NewClient(feed.Config{
		BaseURL:   cfg.Feed.BaseURL,
		User:      cfg.Feed.User,
		Secret:    cfg.Feed.Secret,
		Timeout:   cfg.Feed.Timeout,
		RateLimit: cfg.Feed.RateLimit,
		Burst:     cfg.Feed.Burst,
	})

	lookups := buildLookups(cfg, client)
	sender := buildNotifier(cfg)
	defer sender.Stop()

	alertLog := buildAlertLog(cfg)
	if alertLog != nil {
		defer alertLog.Close()
	}

	ruleSet := []rules.Rule{
		rules.NewHighLineHalftimeZero(cfg.Rules.HighLineMin),
		rules.NewGoalScored(),
		rules.NewHalfTimeReached(),
		rules.NewMatchEnded(),
		rules.NewOutlierPrice(cfg.Rules.OutlierThreshold, cfg.Rules.OutlierCooldown),
		rules.NewEarlyHighTotal(cfg.Rules.EarlyTotalLine, cfg.Rules.EarlyTotalMinute),
	}

	eng := engine.New(engine.Config{
		Interval:     cfg.Poll.Interval,
		Concurrency:  cfg.Poll.Concurrency,
		FetchTimeout: cfg.Feed.Timeout,
		StaleAfter:   cfg.Poll.StaleAfter,
	}, client, lookups, ruleSet, sender, alertLog)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	startedAt := time.Now()
	_ = sender.SendText(ctx, fmt.Sprintf("🚀 Match alerter started (%d rules, poll every %s)",
		len(ruleSet), cfg.Poll.Interval))

	slog.Info("Starting alert engine", "rules", len(ruleSet), "interval", cfg.Poll.Interval)
	eng.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = sender.SendText(shutdownCtx, fmt.Sprintf("🛑 Match alerter stopped (uptime %s)",
		time.Since(startedAt).Round(time.Second)))

	slog.Info("Alerter stopped")
	return nil
}

func buildLookups(cfg *pkgconfig.Config, client *feed.Client) *feed.Lookups {
	if cfg.Redis.Addr == "" {
		return feed.NewLookups(client, nil)
	}
	rdb, err := feed.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		slog.Warn("Redis unavailable, lookup cache is in-memory only", "error", err)
		return feed.NewLookups(client, nil)
	}
	slog.Info("Redis lookup cache enabled", "addr", cfg.Redis.Addr)
	return feed.NewLookups(client, rdb)
}

func buildNotifier(cfg *pkgconfig.Config) notifier {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == 0 {
		slog.Warn("Telegram is not configured, alerts go to the log only")
		return notify.NewLogNotifier()
	}
	tg, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		slog.Warn("Telegram init failed, alerts go to the log only", "error", err)
		return notify.NewLogNotifier()
	}
	return tg
}

func buildAlertLog(cfg *pkgconfig.Config) storage.AlertStorage {
	if cfg.Postgres.DSN == "" {
		slog.Info("Postgres is not configured, alert history disabled")
		return nil
	}
	store, err := storage.NewPostgresAlertStorage(cfg.Postgres.DSN)
	if err != nil {
		slog.Warn("Postgres init failed, alert history disabled", "error", err)
		return nil
	}
	return store
}
