package rules

import (
	"fmt"
	"time"

	"github.com/Vodeneev/matchwatch/internal/engine/state"
	"github.com/Vodeneev/matchwatch/internal/pkg/models"
)

// Rule IDs for the status-transition family.
const (
	HalfTimeReachedID = "half_time_reached"
	MatchEndedID      = "match_ended"
)

// StatusTransition fires when the match status enters a target set from
// outside it. Leaving the target set re-arms the rule, so an oscillating
// status (e.g. a feed correction) produces one alert per excursion.
type StatusTransition struct {
	id      string
	name    string
	targets map[models.Status]bool
	format  func(snap *models.MatchSnapshot, at time.Time) string
	now     func() time.Time
}

func (r *StatusTransition) ID() string   { return r.id }
func (r *StatusTransition) Name() string { return r.name }

// SetClock overrides the rule's clock. Test hook.
func (r *StatusTransition) SetClock(now func() time.Time) { r.now = defaultClock(now) }

func (r *StatusTransition) Evaluate(snap *models.MatchSnapshot, _ *models.OddsSnapshot, st *state.MatchState) Result {
	inTarget := r.targets[snap.StatusID]
	last, hasLast := st.LastStatus()
	wasTarget := hasLast && r.targets[last]

	res := noop()
	st.WithRule(r.id, func(rs *state.RuleState) {
		switch {
		case inTarget && !wasTarget && rs.Phase != state.PhaseFired:
			rs.Phase = state.PhaseFired
			rs.FiredAt = r.now()
			res = fire(r.format(snap, r.now()))
		case !inTarget && rs.Phase == state.PhaseFired:
			rs.Phase = state.PhaseCooldown
		}
	})
	return res
}

// NewHalfTimeReached alerts on the transition into the half-time break.
func NewHalfTimeReached() *StatusTransition {
	return &StatusTransition{
		id:      HalfTimeReachedID,
		name:    "Half-Time",
		targets: map[models.Status]bool{models.StatusHalfTime: true},
		now:     time.Now,
		format: func(snap *models.MatchSnapshot, at time.Time) string {
			return fmt.Sprintf(
				"⏱️ <b>HALF-TIME!</b>\n\n"+
					"<b>%s %d - %d %s</b>\n"+
					"Competition: %s\n"+
					"Time: %s",
				escape(snap.HomeTeam), snap.HomeScore, snap.AwayScore, escape(snap.AwayTeam),
				escape(snap.Competition), at.Format(messageTimeLayout))
		},
	}
}

// NewMatchEnded alerts on the transition into a terminal status and labels
// the result from the score at the time of the transition.
func NewMatchEnded() *StatusTransition {
	return &StatusTransition{
		id:   MatchEndedID,
		name: "Match Ended",
		targets: map[models.Status]bool{
			models.StatusPenalties: true,
			models.StatusEnded:     true,
		},
		now: time.Now,
		format: func(snap *models.MatchSnapshot, at time.Time) string {
			result := "DRAW"
			switch {
			case snap.HomeScore > snap.AwayScore:
				result = fmt.Sprintf("%s WINS", escape(snap.HomeTeam))
			case snap.AwayScore > snap.HomeScore:
				result = fmt.Sprintf("%s WINS", escape(snap.AwayTeam))
			}
			return fmt.Sprintf(
				"🏁 <b>MATCH ENDED: %s!</b>\n\n"+
					"<b>%s %d - %d %s</b>\n"+
					"Competition: %s\n"+
					"Time: %s",
				result,
				escape(snap.HomeTeam), snap.HomeScore, snap.AwayScore, escape(snap.AwayTeam),
				escape(snap.Competition), at.Format(messageTimeLayout))
		},
	}
}
