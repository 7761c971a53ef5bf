package models

import "time"

// Alert is one fired rule decision, ready for delivery and persistence.
type Alert struct {
	RuleID      string
	RuleName    string
	MatchID     string
	MatchName   string
	Competition string
	Message     string
	FiredAt     time.Time
}
