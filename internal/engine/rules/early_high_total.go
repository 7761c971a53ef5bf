package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/Vodeneev/matchwatch/internal/engine/state"
	"github.com/Vodeneev/matchwatch/internal/pkg/models"
	"github.com/Vodeneev/matchwatch/internal/pkg/odds"
)

// EarlyHighTotalID identifies the rule in state and storage.
const EarlyHighTotalID = "early_high_total"

// EarlyHighTotal alerts the first time a match is observed in its opening
// minutes with a high over/under line priced inside the minutes 4-6 window.
// One-shot: once fired for a matchId it is permanently skipped; there is no
// qualifying episode to end, so the fired phase is never cleared.
type EarlyHighTotal struct {
	MinLine   float64
	MaxMinute int
	now       func() time.Time
}

func NewEarlyHighTotal(minLine float64, maxMinute int) *EarlyHighTotal {
	if minLine <= 0 {
		minLine = 3.0
	}
	if maxMinute <= 0 {
		maxMinute = 10
	}
	return &EarlyHighTotal{MinLine: minLine, MaxMinute: maxMinute, now: time.Now}
}

func (r *EarlyHighTotal) ID() string   { return EarlyHighTotalID }
func (r *EarlyHighTotal) Name() string { return "3 O/U Started" }

// SetClock overrides the rule's clock. Test hook.
func (r *EarlyHighTotal) SetClock(now func() time.Time) { r.now = defaultClock(now) }

func (r *EarlyHighTotal) Evaluate(snap *models.MatchSnapshot, oddsSnap *models.OddsSnapshot, st *state.MatchState) Result {
	res := noop()
	st.WithRule(r.ID(), func(rs *state.RuleState) {
		if rs.Phase == state.PhaseFired {
			return
		}
		if snap.StatusID != models.StatusFirstHalf || snap.Minute > r.MaxMinute {
			return
		}
		t := totalsWindowHit(oddsSnap)
		if t == nil || t.Line < r.MinLine {
			return
		}
		rs.Phase = state.PhaseFired
		rs.FiredAt = r.now()
		rs.Qualifying = oddsSnap
		res = fire(r.message(snap, oddsSnap))
	})
	return res
}

func (r *EarlyHighTotal) message(snap *models.MatchSnapshot, oddsSnap *models.OddsSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ALERT TYPE: %s\n", r.Name())
	b.WriteString("----- MATCH SUMMARY -----\n")
	fmt.Fprintf(&b, "Competition ID: %s\n", snap.CompetitionID)
	fmt.Fprintf(&b, "Competition: %s\n", snap.Competition)
	fmt.Fprintf(&b, "Match: %s vs %s\n", snap.HomeTeam, snap.AwayTeam)
	fmt.Fprintf(&b, "Score: %d - %d\n", snap.HomeScore, snap.AwayScore)
	fmt.Fprintf(&b, "Status: %s (Minute: %d, Status ID: %d)\n\n", snap.StatusID.Name(), snap.Minute, snap.StatusID)
	b.WriteString("--- MATCH BETTING ODDS ---\n")
	b.WriteString(odds.FormatSnapshot(oddsSnap))
	b.WriteString("\n\n")
	b.WriteString(environmentBlock(snap.Environment))
	return b.String()
}

func environmentBlock(env *models.Environment) string {
	var b strings.Builder
	b.WriteString("--- MATCH ENVIRONMENT ---\n")
	if env == nil {
		b.WriteString("No environment data available")
		return b.String()
	}
	fmt.Fprintf(&b, "Weather: %s\n", orUnknown(env.WeatherText()))
	fmt.Fprintf(&b, "Wind: %s\n", orUnknown(env.WindMPH()))
	fmt.Fprintf(&b, "Humidity: %s", orUnknown(env.HumidityText()))
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
