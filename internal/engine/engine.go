// Package engine runs one evaluation pass per poll over all live matches:
// fetch and merge snapshots, normalize odds, evaluate every rule against
// stored state, and hand fired decisions to the notifier.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Vodeneev/matchwatch/internal/engine/rules"
	"github.com/Vodeneev/matchwatch/internal/engine/state"
	"github.com/Vodeneev/matchwatch/internal/pkg/models"
	"github.com/Vodeneev/matchwatch/internal/pkg/odds"
	"github.com/Vodeneev/matchwatch/internal/pkg/storage"
)

// Source supplies per-poll data. Implemented by feed.Client.
type Source interface {
	// LiveMatches returns the current live match rows.
	LiveMatches(ctx context.Context) ([]*models.MatchSnapshot, error)
	// MatchDetails returns the secondary details record for one match, or
	// nil when the provider has none.
	MatchDetails(ctx context.Context, matchID string) (*models.MatchSnapshot, error)
	// MatchOdds returns the raw odds history for one match.
	MatchOdds(ctx context.Context, matchID string) (*models.RawOdds, error)
}

// Lookups resolves opaque feed ids into display names. Implemented by
// feed.Lookups; lookups never fail, they fall back to placeholders.
type Lookups interface {
	TeamName(ctx context.Context, teamID string) string
	Competition(ctx context.Context, competitionID string) (name, country string)
}

// Notifier accepts fired alerts. Delivery failures are the notifier's
// problem: they must be logged, never escalated to abort a pass.
type Notifier interface {
	Send(ctx context.Context, alert models.Alert) error
}

// Config tunes a single engine instance.
type Config struct {
	Interval     time.Duration // poll interval
	Concurrency  int           // per-match worker cap within a pass
	FetchTimeout time.Duration // per-match outbound fetch budget
	StaleAfter   time.Duration // evict match state not seen for this long
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.Interval <= 0 {
		out.Interval = 30 * time.Second
	}
	if out.Concurrency <= 0 {
		out.Concurrency = 10
	}
	if out.FetchTimeout <= 0 {
		out.FetchTimeout = 15 * time.Second
	}
	if out.StaleAfter <= 0 {
		out.StaleAfter = 30 * time.Minute
	}
	return out
}

// Engine owns the rule set and match state and drives evaluation passes.
type Engine struct {
	cfg      Config
	source   Source
	lookups  Lookups
	rules    []rules.Rule
	store    *state.Store
	notifier Notifier
	alertLog storage.AlertStorage
	now      func() time.Time
}

// PassStats summarizes one completed pass for logging.
type PassStats struct {
	Matches int
	Fired   int
	Evicted int
	Elapsed time.Duration
}

func New(cfg Config, source Source, lookups Lookups, ruleSet []rules.Rule, notifier Notifier, alertLog storage.AlertStorage) *Engine {
	if alertLog == nil {
		alertLog = storage.NopAlertStorage{}
	}
	return &Engine{
		cfg:      cfg.withDefaults(),
		source:   source,
		lookups:  lookups,
		rules:    ruleSet,
		store:    state.NewStore(),
		notifier: notifier,
		alertLog: alertLog,
		now:      time.Now,
	}
}

// Store exposes the match state store (for tests and diagnostics).
func (e *Engine) Store() *state.Store { return e.store }

// Run polls until ctx is cancelled. The first pass runs immediately.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	e.runLoggedPass(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("engine: stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			e.runLoggedPass(ctx)
		}
	}
}

func (e *Engine) runLoggedPass(ctx context.Context) {
	stats, err := e.RunPass(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("engine: pass failed", "error", err)
		}
		return
	}
	slog.Info("engine: pass complete",
		"matches", stats.Matches,
		"alerts", stats.Fired,
		"evicted", stats.Evicted,
		"tracked", e.store.Len(),
		"elapsed", stats.Elapsed)
}

// RunPass evaluates every live match once. One match's failure never blocks
// the rest: fetch errors degrade that match to "no data this pass".
func (e *Engine) RunPass(ctx context.Context) (PassStats, error) {
	started := e.now()

	listCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	live, err := e.source.LiveMatches(listCtx)
	cancel()
	if err != nil {
		return PassStats{}, fmt.Errorf("fetch live matches: %w", err)
	}

	// Matches are independent units of work; alerts are collected per input
	// index so the pass output order is deterministic regardless of which
	// worker finishes first.
	perMatch := make([][]models.Alert, len(live))
	sem := make(chan struct{}, e.cfg.Concurrency)
	var wg sync.WaitGroup
	for i, row := range live {
		if row == nil || row.MatchID == "" {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, row *models.MatchSnapshot) {
			defer wg.Done()
			defer func() { <-sem }()
			perMatch[i] = e.evaluateMatch(ctx, row)
		}(i, row)
	}
	wg.Wait()

	stats := PassStats{Matches: len(live)}
	for _, alerts := range perMatch {
		for _, a := range alerts {
			stats.Fired++
			if err := e.notifier.Send(ctx, a); err != nil {
				slog.Error("engine: notify failed", "rule", a.RuleID, "match", a.MatchID, "error", err)
			}
			if err := e.alertLog.StoreAlert(ctx, &a); err != nil {
				slog.Error("engine: alert log write failed", "rule", a.RuleID, "match", a.MatchID, "error", err)
			}
		}
	}

	stats.Evicted = e.store.EvictStale(e.cfg.StaleAfter)
	stats.Elapsed = e.now().Sub(started)
	return stats, ctx.Err()
}

// evaluateMatch builds the merged snapshot and odds view for one match and
// runs every rule against it in registration order.
func (e *Engine) evaluateMatch(ctx context.Context, live *models.MatchSnapshot) []models.Alert {
	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	details, err := e.source.MatchDetails(fetchCtx, live.MatchID)
	if err != nil {
		slog.Debug("engine: details unavailable", "match", live.MatchID, "error", err)
	}
	snap := models.Merge(live, details)
	e.resolveNames(fetchCtx, snap)

	raw, err := e.source.MatchOdds(fetchCtx, live.MatchID)
	if err != nil {
		slog.Debug("engine: odds unavailable", "match", live.MatchID, "error", err)
		raw = nil
	}
	oddsSnap := odds.BuildSnapshot(raw)

	st := e.store.Get(snap.MatchID)
	var alerts []models.Alert
	for _, rule := range e.rules {
		res := e.safeEvaluate(rule, snap, oddsSnap, st)
		if res.Decision != rules.Fire {
			continue
		}
		alerts = append(alerts, models.Alert{
			RuleID:      rule.ID(),
			RuleName:    rule.Name(),
			MatchID:     snap.MatchID,
			MatchName:   snap.Name(),
			Competition: snap.Competition,
			Message:     res.Message,
			FiredAt:     e.now(),
		})
		slog.Info("engine: rule fired", "rule", rule.ID(), "match", snap.MatchID, "name", snap.Name())
	}

	// Status and score are recorded after the full rule set has run so that
	// every rule in this pass saw the same "previous poll" values. An
	// unreported score leaves the previous tuple in place rather than
	// recording a fake 0-0.
	st.RecordStatus(snap.StatusID)
	if snap.ScoreKnown {
		st.RecordScore(snap.HomeScore, snap.AwayScore)
	}
	return alerts
}

// safeEvaluate degrades a panicking rule to Noop for this match this poll;
// state stays as it was for re-evaluation on the next pass.
func (e *Engine) safeEvaluate(rule rules.Rule, snap *models.MatchSnapshot, oddsSnap *models.OddsSnapshot, st *state.MatchState) (res rules.Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("engine: rule panicked", "rule", rule.ID(), "match", snap.MatchID, "panic", r)
			res = rules.Result{Decision: rules.Noop}
		}
	}()
	return rule.Evaluate(snap, oddsSnap, st)
}

func (e *Engine) resolveNames(ctx context.Context, snap *models.MatchSnapshot) {
	if e.lookups == nil {
		return
	}
	if snap.HomeTeam == "" {
		snap.HomeTeam = e.lookups.TeamName(ctx, snap.HomeTeamID)
	}
	if snap.AwayTeam == "" {
		snap.AwayTeam = e.lookups.TeamName(ctx, snap.AwayTeamID)
	}
	if snap.Competition == "" {
		snap.Competition, snap.Country = e.lookups.Competition(ctx, snap.CompetitionID)
	}
}
