package rules

import (
	"fmt"
	"time"

	"github.com/Vodeneev/matchwatch/internal/engine/state"
	"github.com/Vodeneev/matchwatch/internal/pkg/models"
)

// GoalScoredID identifies the rule in state and storage.
const GoalScoredID = "goal_scored"

// GoalScored fires whenever the score tuple differs from the previous
// poll's, except on the very first poll where a match is seen: without a
// prior tuple an engine started mid-match would otherwise storm out a fake
// "goal" for every non-0-0 score.
type GoalScored struct {
	now func() time.Time
}

func NewGoalScored() *GoalScored {
	return &GoalScored{now: time.Now}
}

func (r *GoalScored) ID() string   { return GoalScoredID }
func (r *GoalScored) Name() string { return "Goal Scored" }

// SetClock overrides the rule's clock. Test hook.
func (r *GoalScored) SetClock(now func() time.Time) { r.now = defaultClock(now) }

func (r *GoalScored) Evaluate(snap *models.MatchSnapshot, _ *models.OddsSnapshot, st *state.MatchState) Result {
	if !snap.ScoreKnown {
		// No score this poll is no data, not a 0-0.
		return noop()
	}
	prevHome, prevAway, ok := st.LastScore()
	if !ok {
		// Cold-start suppression.
		return noop()
	}
	if snap.HomeScore == prevHome && snap.AwayScore == prevAway {
		return noop()
	}
	return fire(fmt.Sprintf(
		"⚽ <b>GOAL SCORED!</b>\n\n"+
			"<b>%s %d - %d %s</b>\n"+
			"Competition: %s\n"+
			"Previous Score: %d - %d\n"+
			"Time: %s",
		escape(snap.HomeTeam), snap.HomeScore, snap.AwayScore, escape(snap.AwayTeam),
		escape(snap.Competition),
		prevHome, prevAway,
		r.now().Format(messageTimeLayout)))
}
