package odds

import (
	"fmt"
	"strings"

	"github.com/Vodeneev/matchwatch/internal/pkg/models"
)

// BuildSnapshot selects one representative sample per market and converts
// its prices to canonical American odds. Markets without samples stay nil.
func BuildSnapshot(raw *models.RawOdds) *models.OddsSnapshot {
	snap := &models.OddsSnapshot{}
	if raw == nil {
		return snap
	}

	if i := EarlyWindow.SelectIndex(moneylineTimes(raw.Moneyline)); i >= 0 {
		s := raw.Moneyline[i]
		snap.Moneyline = &models.MoneylineQuote{
			Time:    s.Time,
			HomeWin: DecimalToAmerican(s.Home),
			Draw:    DecimalToAmerican(s.Draw),
			AwayWin: DecimalToAmerican(s.Away),
		}
	}
	if i := EarlyWindow.SelectIndex(spreadTimes(raw.Spread)); i >= 0 {
		s := raw.Spread[i]
		snap.Spread = &models.SpreadQuote{
			Time:     s.Time,
			HomeWin:  HongKongToAmerican(s.Home),
			Handicap: s.Handicap,
			AwayWin:  HongKongToAmerican(s.Away),
		}
	}
	if i := EarlyWindow.SelectIndex(totalsTimes(raw.Totals)); i >= 0 {
		s := raw.Totals[i]
		snap.Totals = &models.TotalsQuote{
			Time:  s.Time,
			Over:  HongKongToAmerican(s.Over),
			Line:  s.Line,
			Under: HongKongToAmerican(s.Under),
		}
	}
	return snap
}

func moneylineTimes(samples []models.MoneylineSample) []models.OddsMinute {
	times := make([]models.OddsMinute, len(samples))
	for i, s := range samples {
		times[i] = s.Time
	}
	return times
}

func spreadTimes(samples []models.SpreadSample) []models.OddsMinute {
	times := make([]models.OddsMinute, len(samples))
	for i, s := range samples {
		times[i] = s.Time
	}
	return times
}

func totalsTimes(samples []models.TotalsSample) []models.OddsMinute {
	times := make([]models.OddsMinute, len(samples))
	for i, s := range samples {
		times[i] = s.Time
	}
	return times
}

// FormatSnapshot renders the snapshot as the plain-text block used in alert
// messages and by the live-snapshot tool. Fallback quotes (not from the
// exact window) are annotated so readers know the window was missed.
func FormatSnapshot(s *models.OddsSnapshot) string {
	if s.Empty() {
		return "No odds data available"
	}
	var b strings.Builder
	if q := s.Moneyline; q != nil {
		b.WriteString("ML (Money Line):\n")
		fmt.Fprintf(&b, "Time: %s min%s | Home: %s | Draw: %s | Away: %s\n",
			q.Time, windowNote(q.Time),
			FormatAmerican(q.HomeWin), FormatAmerican(q.Draw), FormatAmerican(q.AwayWin))
	}
	if q := s.Spread; q != nil {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("SPREAD (Asia Handicap):\n")
		fmt.Fprintf(&b, "Time: %s min%s | Home: %s | Handicap: %g | Away: %s\n",
			q.Time, windowNote(q.Time),
			FormatAmerican(q.HomeWin), q.Handicap, FormatAmerican(q.AwayWin))
	}
	if q := s.Totals; q != nil {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Over/Under:\n")
		fmt.Fprintf(&b, "Time: %s min%s | Over: %s | Line: %g | Under: %s\n",
			q.Time, windowNote(q.Time),
			FormatAmerican(q.Over), q.Line, FormatAmerican(q.Under))
	}
	return strings.TrimRight(b.String(), "\n")
}

func windowNote(m models.OddsMinute) string {
	if EarlyWindow.Contains(m) {
		return ""
	}
	return " (No data from minutes 4-6 available)"
}
