// Package rules contains the alert rules evaluated against every live match
// on every poll. Each rule is a small explicit state machine over the
// per-match state: it must fire at most once per continuous qualifying
// episode and re-arm only when the qualifying condition stops holding.
package rules

import (
	"html"
	"time"

	"github.com/Vodeneev/matchwatch/internal/engine/state"
	"github.com/Vodeneev/matchwatch/internal/pkg/models"
)

// Decision is what a rule concluded for one match on one poll.
type Decision int

const (
	// Noop: nothing to report.
	Noop Decision = iota
	// Qualify: a precondition newly became true; state was updated but no
	// alert is due yet.
	Qualify
	// Fire: the rule newly became true; the Result carries the message.
	Fire
)

// Result couples a decision with the alert message for fires.
type Result struct {
	Decision Decision
	Message  string
}

func noop() Result           { return Result{Decision: Noop} }
func qualify() Result        { return Result{Decision: Qualify} }
func fire(msg string) Result { return Result{Decision: Fire, Message: msg} }

// Rule evaluates one match snapshot against its stored state.
//
// Implementations must treat a nil market in the odds snapshot as "no data"
// and must never panic on malformed input; the engine additionally recovers
// panics at this boundary and degrades them to Noop.
type Rule interface {
	// ID is the stable identifier used as the firedRules/state key.
	ID() string
	// Name is the human-readable label used in messages and logs.
	Name() string
	Evaluate(snap *models.MatchSnapshot, odds *models.OddsSnapshot, st *state.MatchState) Result
}

const messageTimeLayout = "2006-01-02 15:04:05"

func escape(s string) string {
	return html.EscapeString(s)
}

func defaultClock(now func() time.Time) func() time.Time {
	if now != nil {
		return now
	}
	return time.Now
}
