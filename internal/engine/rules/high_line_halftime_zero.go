package rules

import (
	"fmt"
	"time"

	"github.com/Vodeneev/matchwatch/internal/engine/state"
	"github.com/Vodeneev/matchwatch/internal/pkg/models"
	"github.com/Vodeneev/matchwatch/internal/pkg/odds"
)

// HighLineHalftimeZeroID identifies the rule in state and storage.
const HighLineHalftimeZeroID = "high_line_halftime_zero"

// HighLineHalftimeZero alerts when a match the market expected to be
// high-scoring (over/under line >= MinLine in the minutes 4-6 window)
// reaches half-time scoreless.
//
// Phases: Unseen -> Qualified (high line seen, odds cached) -> Fired (edge
// into half-time at 0-0). Leaving half-time re-arms back to Qualified, so a
// later half-time excursion can fire again; qualification itself is sticky.
type HighLineHalftimeZero struct {
	MinLine float64
	now     func() time.Time
}

func NewHighLineHalftimeZero(minLine float64) *HighLineHalftimeZero {
	if minLine <= 0 {
		minLine = 3.0
	}
	return &HighLineHalftimeZero{MinLine: minLine, now: time.Now}
}

func (r *HighLineHalftimeZero) ID() string   { return HighLineHalftimeZeroID }
func (r *HighLineHalftimeZero) Name() string { return "High Line Halftime Zero" }

// SetClock overrides the rule's clock. Test hook.
func (r *HighLineHalftimeZero) SetClock(now func() time.Time) { r.now = defaultClock(now) }

func (r *HighLineHalftimeZero) Evaluate(snap *models.MatchSnapshot, oddsSnap *models.OddsSnapshot, st *state.MatchState) Result {
	lastStatus, hasLast := st.LastStatus()
	atHalfTime := snap.StatusID == models.StatusHalfTime
	// Edge-triggered: the previous poll must have been outside half-time.
	// Absent a previous poll we stay quiet; re-entering half-time without
	// leaving cannot re-fire.
	justReached := hasLast && lastStatus != models.StatusHalfTime

	res := noop()
	st.WithRule(r.ID(), func(rs *state.RuleState) {
		if rs.Phase == state.PhaseUnseen {
			if t := totalsWindowHit(oddsSnap); t != nil && t.Line >= r.MinLine {
				rs.Phase = state.PhaseQualified
				rs.Qualifying = oddsSnap
				res = qualify()
			} else {
				return
			}
		}

		switch {
		case atHalfTime && snap.Scoreless() && justReached && rs.Phase == state.PhaseQualified:
			rs.Phase = state.PhaseFired
			rs.FiredAt = r.now()
			res = fire(r.message(snap, rs))
		case !atHalfTime && rs.Phase == state.PhaseFired:
			// Episode over; the qualification survives.
			rs.Phase = state.PhaseQualified
		}
	})
	return res
}

func (r *HighLineHalftimeZero) message(snap *models.MatchSnapshot, rs *state.RuleState) string {
	line := 0.0
	if rs.Qualifying != nil && rs.Qualifying.Totals != nil {
		line = rs.Qualifying.Totals.Line
	}
	return fmt.Sprintf(
		"🎯 <b>HIGH LINE HALFTIME ZERO ALERT</b>\n\n"+
			"<b>%s 0-0 %s</b>\n"+
			"Competition: %s\n"+
			"Status: Half-Time\n"+
			"Over/Under Line: %g\n"+
			"Betting Insight: Match expected %g+ goals, but 0-0 at HT\n"+
			"Time: %s",
		escape(snap.HomeTeam), escape(snap.AwayTeam), escape(snap.Competition),
		line, line, r.now().Format(messageTimeLayout))
}

// totalsWindowHit returns the totals quote only when it is an exact-window
// sample; fallback quotes do not qualify a match.
func totalsWindowHit(s *models.OddsSnapshot) *models.TotalsQuote {
	if s == nil || s.Totals == nil || !odds.EarlyWindow.Contains(s.Totals.Time) {
		return nil
	}
	return s.Totals
}
