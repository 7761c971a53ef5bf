// live-snapshot is a one-shot diagnostic: it lists the matches currently
// live on the feed, with resolved names and, optionally, the normalized
// odds view the rules would see. Useful for checking credentials and
// eyeballing the feed without starting the alerter.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Vodeneev/matchwatch/internal/feed"
	pkgconfig "github.com/Vodeneev/matchwatch/internal/pkg/config"
	"github.com/Vodeneev/matchwatch/internal/pkg/odds"
)

func main() {
	if err := run(); err != nil {
		slog.Error("live-snapshot failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "configs/production.yaml", "path to yaml config")
	limit := flag.Int("limit", 10, "max matches to print (0 = all)")
	showOdds := flag.Bool("odds", false, "also fetch and print the odds snapshot per match")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := pkgconfig.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := feed.NewClient(feed.Config{
		BaseURL:   cfg.Feed.BaseURL,
		User:      cfg.Feed.User,
		Secret:    cfg.Feed.Secret,
		Timeout:   cfg.Feed.Timeout,
		RateLimit: cfg.Feed.RateLimit,
		Burst:     cfg.Feed.Burst,
	})
	lookups := feed.NewLookups(client, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	live, err := client.LiveMatches(ctx)
	if err != nil {
		return fmt.Errorf("fetch live matches: %w", err)
	}
	fmt.Printf("%d matches live\n\n", len(live))

	shown := 0
	for _, snap := range live {
		if *limit > 0 && shown >= *limit {
			fmt.Printf("... and %d more\n", len(live)-shown)
			break
		}
		shown++

		snap.HomeTeam = lookups.TeamName(ctx, snap.HomeTeamID)
		snap.AwayTeam = lookups.TeamName(ctx, snap.AwayTeamID)
		snap.Competition, snap.Country = lookups.Competition(ctx, snap.CompetitionID)

		fmt.Printf("[%s] %s  %d:%d  (%s, min %d)\n",
			snap.StatusID.Name(), snap.Name(),
			snap.HomeScore, snap.AwayScore,
			snap.Competition, snap.Minute)

		if !*showOdds {
			continue
		}
		raw, err := client.MatchOdds(ctx, snap.MatchID)
		if err != nil {
			fmt.Printf("  odds unavailable: %v\n", err)
			continue
		}
		fmt.Println(indent(odds.FormatSnapshot(odds.BuildSnapshot(raw)), "  "))
	}
	return nil
}

func indent(s, prefix string) string {
	out := prefix
	for _, r := range s {
		out += string(r)
		if r == '\n' {
			out += prefix
		}
	}
	return out
}
