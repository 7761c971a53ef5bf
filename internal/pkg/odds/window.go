package odds

import "github.com/Vodeneev/matchwatch/internal/pkg/models"

// Window is an inclusive match-minute interval.
type Window struct {
	Lo int
	Hi int
}

// EarlyWindow is the minute interval the product's rules care about: the
// market's shape shortly after kickoff, before live drift.
var EarlyWindow = Window{Lo: 4, Hi: 6}

// Contains reports whether the sample minute is an exact-window hit.
func (w Window) Contains(m models.OddsMinute) bool {
	return !m.PreMatch && m.Minute >= w.Lo && m.Minute <= w.Hi
}

func (w Window) distance(minute int) int {
	switch {
	case minute < w.Lo:
		return w.Lo - minute
	case minute > w.Hi:
		return minute - w.Hi
	default:
		return 0
	}
}

// SelectIndex picks the sample that best represents early in-match pricing:
//
//  1. If any sample is an exact-window hit, the last such sample in provider
//     order wins (most recently recorded within the window).
//  2. Otherwise the numeric-minute sample closest to the window wins; ties go
//     to the earliest minute, then to the earliest provider position.
//  3. Pre-match samples are considered only when no numeric minute exists at
//     all; the last one in provider order wins.
//
// Returns -1 when times is empty. Callers can tell exact-window hits from
// fallbacks by re-checking Contains on the selected minute.
func (w Window) SelectIndex(times []models.OddsMinute) int {
	best := -1
	for i, t := range times {
		if w.Contains(t) {
			best = i
		}
	}
	if best >= 0 {
		return best
	}

	bestDist := 0
	for i, t := range times {
		if t.PreMatch {
			continue
		}
		d := w.distance(t.Minute)
		if best < 0 || d < bestDist || (d == bestDist && t.Minute < times[best].Minute) {
			best = i
			bestDist = d
		}
	}
	if best >= 0 {
		return best
	}

	if len(times) > 0 {
		return len(times) - 1
	}
	return -1
}
