package models

import "fmt"

// Status is the match phase as numbered by the upstream feed.
type Status int

const (
	StatusUnknown     Status = 0
	StatusNotStarted  Status = 1
	StatusFirstHalf   Status = 2
	StatusHalfTime    Status = 3
	StatusSecondHalf  Status = 4
	StatusOvertime    Status = 5
	StatusPenalties   Status = 7
	StatusEnded       Status = 8
	StatusDelayed     Status = 9
	StatusInterrupted Status = 10
	StatusCancelled   Status = 12
	StatusTBD         Status = 13
)

var statusNames = map[Status]string{
	StatusNotStarted:  "Not started",
	StatusFirstHalf:   "First half",
	StatusHalfTime:    "Half-time",
	StatusSecondHalf:  "Second half",
	StatusOvertime:    "Overtime",
	StatusPenalties:   "Penalty shoot-out",
	StatusEnded:       "Ended",
	StatusDelayed:     "Delayed",
	StatusInterrupted: "Interrupted",
	StatusCancelled:   "Cancelled",
	StatusTBD:         "To be determined",
}

// Name returns a human-readable status label for alert messages.
func (s Status) Name() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Unknown status (%d)", int(s))
}

// Finished reports whether the match has reached a terminal played-out state.
// Delayed/interrupted/cancelled are not "finished": the feed may resume them.
func (s Status) Finished() bool {
	return s == StatusPenalties || s == StatusEnded
}
