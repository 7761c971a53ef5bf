package state

import (
	"testing"
	"time"

	"github.com/Vodeneev/matchwatch/internal/pkg/models"
)

func TestStoreGetCreatesOnce(t *testing.T) {
	s := NewStore()
	a := s.Get("m1")
	b := s.Get("m1")
	if a != b {
		t.Error("Get must return the same state for the same match id")
	}
	if s.Get("m2") == a {
		t.Error("distinct match ids must get distinct state")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestMatchStateStatusAndScore(t *testing.T) {
	ms := &MatchState{}

	if _, ok := ms.LastStatus(); ok {
		t.Error("LastStatus must report no value before the first record")
	}
	if _, _, ok := ms.LastScore(); ok {
		t.Error("LastScore must report no value before the first record")
	}

	ms.RecordStatus(models.StatusFirstHalf)
	ms.RecordScore(1, 0)

	if st, ok := ms.LastStatus(); !ok || st != models.StatusFirstHalf {
		t.Errorf("LastStatus = %v, %v", st, ok)
	}
	if h, a, ok := ms.LastScore(); !ok || h != 1 || a != 0 {
		t.Errorf("LastScore = %d, %d, %v", h, a, ok)
	}
}

func TestFiredLifecycle(t *testing.T) {
	ms := &MatchState{}
	if ms.IsFired("r1") {
		t.Error("fresh state must not be fired")
	}

	ms.MarkFired("r1", time.Now())
	if !ms.IsFired("r1") {
		t.Error("MarkFired must set the fired phase")
	}
	if ms.IsFired("r2") {
		t.Error("fired phase must be per rule")
	}

	// no qualifying snapshot: clearing lands in cooldown
	ms.ClearFired("r1")
	if ms.IsFired("r1") {
		t.Error("ClearFired must leave the fired phase")
	}
	var phase Phase
	ms.WithRule("r1", func(rs *RuleState) { phase = rs.Phase })
	if phase != PhaseCooldown {
		t.Errorf("phase after clear = %v, want cooldown", phase)
	}

	// with a qualifying snapshot the rule stays armed
	ms.WithRule("r3", func(rs *RuleState) {
		rs.Phase = PhaseFired
		rs.Qualifying = &models.OddsSnapshot{}
	})
	ms.ClearFired("r3")
	ms.WithRule("r3", func(rs *RuleState) { phase = rs.Phase })
	if phase != PhaseQualified {
		t.Errorf("phase after clear with qualification = %v, want qualified", phase)
	}

	// clearing a non-fired rule is a no-op
	ms.WithRule("r4", func(rs *RuleState) { rs.Phase = PhaseQualified })
	ms.ClearFired("r4")
	ms.WithRule("r4", func(rs *RuleState) { phase = rs.Phase })
	if phase != PhaseQualified {
		t.Errorf("ClearFired on non-fired rule changed phase to %v", phase)
	}
}

func TestEvictStale(t *testing.T) {
	s := NewStore()
	now := time.Unix(1000000, 0)
	s.SetClock(func() time.Time { return now })

	s.Get("old")
	now = now.Add(45 * time.Minute)
	s.Get("fresh")

	if n := s.EvictStale(30 * time.Minute); n != 1 {
		t.Errorf("evicted %d, want 1", n)
	}
	if s.Len() != 1 {
		t.Errorf("Len after evict = %d, want 1", s.Len())
	}

	// a Get refreshes the stamp, so re-tracked matches survive
	now = now.Add(20 * time.Minute)
	s.Get("fresh")
	now = now.Add(20 * time.Minute)
	if n := s.EvictStale(30 * time.Minute); n != 0 {
		t.Errorf("evicted %d after refresh, want 0", n)
	}

	if n := s.EvictStale(0); n != 0 {
		t.Error("non-positive maxAge must evict nothing")
	}
}
