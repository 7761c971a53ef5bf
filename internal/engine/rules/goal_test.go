package rules

import (
	"strings"
	"testing"
	"time"

	"github.com/Vodeneev/matchwatch/internal/engine/state"
	"github.com/Vodeneev/matchwatch/internal/pkg/models"
)

func TestGoalScored(t *testing.T) {
	r := NewGoalScored()
	r.SetClock(func() time.Time { return time.Unix(1700000000, 0) })
	st := &state.MatchState{}

	// first sighting mid-match at 2-1: no prior tuple, no alert
	if res := poll(r, snapAt(models.StatusSecondHalf, 2, 1), nil, st); res.Decision != Noop {
		t.Fatalf("cold start = %v, want noop", res.Decision)
	}
	// unchanged score: quiet
	if res := poll(r, snapAt(models.StatusSecondHalf, 2, 1), nil, st); res.Decision != Noop {
		t.Fatalf("unchanged = %v, want noop", res.Decision)
	}
	// 2-1 -> 2-2: fires with the previous score in the message
	res := poll(r, snapAt(models.StatusSecondHalf, 2, 2), nil, st)
	if res.Decision != Fire {
		t.Fatalf("goal = %v, want fire", res.Decision)
	}
	if !strings.Contains(res.Message, "Alpha 2 - 2 Beta") || !strings.Contains(res.Message, "Previous Score: 2 - 1") {
		t.Errorf("message = %q", res.Message)
	}
	// a VAR rollback is also a change
	if res := poll(r, snapAt(models.StatusSecondHalf, 2, 1), nil, st); res.Decision != Fire {
		t.Fatalf("rollback = %v, want fire", res.Decision)
	}
}

func TestGoalScoredIgnoresUnreportedScore(t *testing.T) {
	r := NewGoalScored()
	st := &state.MatchState{}

	poll(r, snapAt(models.StatusSecondHalf, 1, 0), nil, st)
	// a poll without a score is no data, not 0-0: no fire, and the
	// previous tuple survives
	blank := snapAt(models.StatusSecondHalf, 0, 0)
	blank.ScoreKnown = false
	if res := poll(r, blank, nil, st); res.Decision != Noop {
		t.Fatalf("unreported score = %v, want noop", res.Decision)
	}
	// the same 1-0 reappearing is not a change
	if res := poll(r, snapAt(models.StatusSecondHalf, 1, 0), nil, st); res.Decision != Noop {
		t.Fatalf("unchanged score after gap = %v, want noop", res.Decision)
	}
}
