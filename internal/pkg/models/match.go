package models

import (
	"fmt"
	"strconv"
	"strings"
)

// MatchSnapshot is the immutable per-poll view of one live match, assembled
// from the live feed row merged with the details endpoint.
type MatchSnapshot struct {
	MatchID   string
	StatusID  Status
	HomeScore int
	AwayScore int
	// ScoreKnown reports whether the feed actually carried a score for this
	// row. Scores default to 0-0 when absent, and a real 0-0 must be
	// distinguishable from "not reported".
	ScoreKnown bool
	// Minute is the reported match minute; 0 when the feed omits it.
	Minute int

	HomeTeamID    string
	AwayTeamID    string
	CompetitionID string

	// Resolved display names; "Unknown ..." placeholders when lookups fail.
	HomeTeam    string
	AwayTeam    string
	Competition string
	Country     string

	Environment *Environment
}

// Name returns "Home vs Away" for logs and messages.
func (m *MatchSnapshot) Name() string {
	return fmt.Sprintf("%s vs %s", m.HomeTeam, m.AwayTeam)
}

// Scoreless reports a known 0-0 score. An unreported score is not
// scoreless: rules must not assert "still 0-0" from missing data.
func (m *MatchSnapshot) Scoreless() bool {
	return m.ScoreKnown && m.HomeScore == 0 && m.AwayScore == 0
}

// Merge fills empty fields of the live snapshot from the details record.
// Live values win whenever they are present and non-empty; the details
// endpoint only supplies what the live feed left blank.
func Merge(live, details *MatchSnapshot) *MatchSnapshot {
	if live == nil {
		return details
	}
	if details == nil {
		return live
	}
	out := *live
	if out.StatusID == StatusUnknown {
		out.StatusID = details.StatusID
	}
	// Scores move as a pair and only fill a row that carried none: a live
	// 0-0 is a real score and must never be overwritten by stale details.
	if !out.ScoreKnown && details.ScoreKnown {
		out.HomeScore = details.HomeScore
		out.AwayScore = details.AwayScore
		out.ScoreKnown = true
	}
	if out.Minute == 0 {
		out.Minute = details.Minute
	}
	if out.HomeTeamID == "" {
		out.HomeTeamID = details.HomeTeamID
	}
	if out.AwayTeamID == "" {
		out.AwayTeamID = details.AwayTeamID
	}
	if out.CompetitionID == "" {
		out.CompetitionID = details.CompetitionID
	}
	if out.Environment == nil {
		out.Environment = details.Environment
	}
	return &out
}

// Environment is the optional weather block attached to a match. All fields
// are raw feed strings and may be empty.
type Environment struct {
	Weather     string // numeric code, e.g. "4"
	Temperature string // celsius, e.g. "20" or "20°C"
	Wind        string // metres per second, e.g. "2.0m/s"
	Humidity    string // percentage, with or without "%"
}

var weatherNames = map[string]string{
	"1": "Partially cloudy",
	"2": "Cloudy",
	"3": "Foggy",
	"4": "Rainy",
	"5": "Sunny",
	"6": "Snowy",
	"7": "Windy",
}

// WeatherText converts the numeric weather code to a description.
func (e *Environment) WeatherText() string {
	if e == nil || e.Weather == "" {
		return ""
	}
	if name, ok := weatherNames[e.Weather]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%s)", e.Weather)
}

// TemperatureF converts the celsius temperature string to fahrenheit.
// Returns the empty string when the value is absent or unparseable.
func (e *Environment) TemperatureF() string {
	if e == nil || e.Temperature == "" {
		return ""
	}
	raw := strings.TrimSpace(strings.TrimSuffix(e.Temperature, "°C"))
	c, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%.1f°F", c*9/5+32)
}

// WindMPH converts the wind speed from m/s to mph. Falls back to the raw
// string when it cannot be parsed.
func (e *Environment) WindMPH() string {
	if e == nil || e.Wind == "" {
		return ""
	}
	raw := strings.TrimSpace(strings.TrimSuffix(e.Wind, "m/s"))
	mps, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return e.Wind
	}
	return fmt.Sprintf("%.1f mph", mps*2.237)
}

// HumidityText normalizes the humidity value to a single trailing "%".
func (e *Environment) HumidityText() string {
	if e == nil || e.Humidity == "" {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(e.Humidity, "%", "")) + "%"
}
