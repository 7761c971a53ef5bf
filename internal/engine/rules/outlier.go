package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/Vodeneev/matchwatch/internal/engine/state"
	"github.com/Vodeneev/matchwatch/internal/pkg/models"
	"github.com/Vodeneev/matchwatch/internal/pkg/odds"
)

// OutlierPriceID identifies the rule in state and storage.
const OutlierPriceID = "outlier_price"

// OutlierPrice alerts when any moneyline price reaches an unusual magnitude
// on the canonical American scale. It is time-debounced rather than
// edge-triggered: a match is re-examined at most once per Cooldown,
// whether or not the last examination fired, and a firing ages out after
// two quiet cooldown windows.
type OutlierPrice struct {
	// Threshold is the minimum |price| that counts as an outlier.
	Threshold int
	Cooldown  time.Duration
	now       func() time.Time
}

func NewOutlierPrice(threshold int, cooldown time.Duration) *OutlierPrice {
	if threshold <= 0 {
		threshold = 400
	}
	if cooldown <= 0 {
		cooldown = 5 * time.Minute
	}
	return &OutlierPrice{Threshold: threshold, Cooldown: cooldown, now: time.Now}
}

func (r *OutlierPrice) ID() string   { return OutlierPriceID }
func (r *OutlierPrice) Name() string { return fmt.Sprintf("High Odds (>%d)", r.Threshold) }

// SetClock overrides the rule's clock. Test hook.
func (r *OutlierPrice) SetClock(now func() time.Time) { r.now = defaultClock(now) }

func (r *OutlierPrice) Evaluate(snap *models.MatchSnapshot, oddsSnap *models.OddsSnapshot, st *state.MatchState) Result {
	now := r.now()
	res := noop()
	st.WithRule(r.ID(), func(rs *state.RuleState) {
		if !rs.LastEval.IsZero() && now.Sub(rs.LastEval) < r.Cooldown {
			return
		}
		rs.LastEval = now

		highs := r.outliers(oddsSnap)
		switch {
		case len(highs) > 0 && rs.Phase != state.PhaseFired:
			rs.Phase = state.PhaseFired
			rs.FiredAt = now
			res = fire(r.message(snap, highs, now))
		case rs.Phase == state.PhaseFired && now.Sub(rs.FiredAt) > 2*r.Cooldown:
			rs.Phase = state.PhaseCooldown
		}
	})
	return res
}

func (r *OutlierPrice) outliers(s *models.OddsSnapshot) []string {
	if s == nil || s.Moneyline == nil {
		return nil
	}
	ml := s.Moneyline
	var highs []string
	for _, o := range []struct {
		label string
		price int
	}{
		{"Home win", ml.HomeWin},
		{"Draw", ml.Draw},
		{"Away win", ml.AwayWin},
	} {
		mag := o.price
		if mag < 0 {
			mag = -mag
		}
		if mag >= r.Threshold {
			highs = append(highs, fmt.Sprintf("%s: %s", o.label, odds.FormatAmerican(o.price)))
		}
	}
	return highs
}

func (r *OutlierPrice) message(snap *models.MatchSnapshot, highs []string, at time.Time) string {
	return fmt.Sprintf(
		"💰 <b>HIGH ODDS DETECTED!</b>\n\n"+
			"<b>%s vs %s</b>\n"+
			"Competition: %s\n"+
			"High odds: %s\n"+
			"Time: %s",
		escape(snap.HomeTeam), escape(snap.AwayTeam), escape(snap.Competition),
		strings.Join(highs, ", "), at.Format(messageTimeLayout))
}
