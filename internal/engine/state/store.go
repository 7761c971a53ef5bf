// Package state holds the per-match mutable state the alert rules read and
// write between polls: last seen status and score, per-rule firing phase,
// and the odds snapshot that qualified a match for tracking.
package state

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/Vodeneev/matchwatch/internal/pkg/models"
)

const shardCount = 16

// Phase is the explicit per-rule, per-match state machine tag.
type Phase int

const (
	// PhaseUnseen: the rule's precondition has never held for this match.
	PhaseUnseen Phase = iota
	// PhaseQualified: the precondition held at some point; the rule is armed.
	PhaseQualified
	// PhaseFired: the rule alerted for the current qualifying episode and
	// must not alert again until the episode ends.
	PhaseFired
	// PhaseCooldown: a previous firing aged out; the rule is armed again.
	PhaseCooldown
)

// RuleState is one rule's slice of a match's state.
type RuleState struct {
	Phase Phase
	// Qualifying is the odds context captured when the precondition first
	// became true, kept so a later alert can report the odds that justified
	// tracking even after they aged out of the provider response.
	Qualifying *models.OddsSnapshot
	// LastEval supports time-debounced rules.
	LastEval time.Time
	FiredAt  time.Time
}

// MatchState is the mutable state for one matchId. All mutation happens
// through its methods; each takes the internal lock, so concurrent passes
// over distinct rules stay consistent without a store-wide lock.
type MatchState struct {
	mu sync.Mutex

	lastStatus models.Status
	hasStatus  bool

	lastHome int
	lastAway int
	hasScore bool

	rules map[string]*RuleState

	lastSeen time.Time
}

// LastStatus returns the status observed on the previous poll; ok is false
// on the first sighting of a match.
func (s *MatchState) LastStatus() (models.Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStatus, s.hasStatus
}

// LastScore returns the score tuple recorded on the previous poll.
func (s *MatchState) LastScore() (home, away int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHome, s.lastAway, s.hasScore
}

// RecordStatus stores the status seen this poll. Called by the engine after
// every rule has evaluated, so all rules in a pass see the same "previous".
func (s *MatchState) RecordStatus(status models.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastStatus = status
	s.hasStatus = true
}

// RecordScore stores the score seen this poll.
func (s *MatchState) RecordScore(home, away int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastHome = home
	s.lastAway = away
	s.hasScore = true
}

// WithRule runs fn with the rule's state under the match lock, creating the
// state on first use. fn must not call back into MatchState methods.
func (s *MatchState) WithRule(ruleID string, fn func(*RuleState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.rules[ruleID]
	if !ok {
		rs = &RuleState{}
		if s.rules == nil {
			s.rules = make(map[string]*RuleState)
		}
		s.rules[ruleID] = rs
	}
	fn(rs)
}

// IsFired reports whether the rule is in its fired phase for this match.
func (s *MatchState) IsFired(ruleID string) bool {
	fired := false
	s.WithRule(ruleID, func(rs *RuleState) {
		fired = rs.Phase == PhaseFired
	})
	return fired
}

// MarkFired moves the rule into its fired phase.
func (s *MatchState) MarkFired(ruleID string, at time.Time) {
	s.WithRule(ruleID, func(rs *RuleState) {
		rs.Phase = PhaseFired
		rs.FiredAt = at
	})
}

// ClearFired re-arms a fired rule. Rules that had qualified stay qualified.
func (s *MatchState) ClearFired(ruleID string) {
	s.WithRule(ruleID, func(rs *RuleState) {
		if rs.Phase != PhaseFired {
			return
		}
		if rs.Qualifying != nil {
			rs.Phase = PhaseQualified
		} else {
			rs.Phase = PhaseCooldown
		}
	})
}

// Store is a sharded matchId-keyed store of MatchState. Distinct keys never
// contend on one lock; a shard lock is held only for map access, never for
// rule evaluation.
type Store struct {
	shards [shardCount]shard
	now    func() time.Time
}

type shard struct {
	mu     sync.Mutex
	states map[string]*MatchState
}

func NewStore() *Store {
	s := &Store{now: time.Now}
	for i := range s.shards {
		s.shards[i].states = make(map[string]*MatchState)
	}
	return s
}

// SetClock overrides the store's clock. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) shardFor(matchID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(matchID))
	return &s.shards[h.Sum32()%shardCount]
}

// Get returns the state for matchID, creating it on first access, and
// stamps it as seen now.
func (s *Store) Get(matchID string) *MatchState {
	sh := s.shardFor(matchID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	ms, ok := sh.states[matchID]
	if !ok {
		ms = &MatchState{}
		sh.states[matchID] = ms
	}
	ms.lastSeen = s.now()
	return ms
}

// Len returns the number of tracked matches.
func (s *Store) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		n += len(sh.states)
		sh.mu.Unlock()
	}
	return n
}

// EvictStale drops state for matches not seen within maxAge. The source
// system never evicted; this bounds memory for a long-running process and
// is a deliberate behavior change. Returns the number of evicted matches.
func (s *Store) EvictStale(maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}
	cutoff := s.now().Add(-maxAge)
	evicted := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for id, ms := range sh.states {
			if ms.lastSeen.Before(cutoff) {
				delete(sh.states, id)
				evicted++
			}
		}
		sh.mu.Unlock()
	}
	return evicted
}
