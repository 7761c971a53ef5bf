package feed

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Vodeneev/matchwatch/internal/pkg/models"
)

// The provider is loose with types: numeric fields arrive as numbers or
// strings, string fields occasionally as numbers, and anything may be null
// or absent. The flex types absorb all of that so a single sloppy field
// never fails a whole payload.

type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	// Quotes come off before whitespace: `"  7 "` must parse as 7.
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(data)), `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = flexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexInt(int(v))
		return nil
	}
	*f = 0
	return nil
}

type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*f = flexString(str)
		return nil
	}
	*f = flexString(strings.Trim(s, `"`))
	return nil
}

// envelope is the common {code, results} response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Results json.RawMessage `json:"results"`
}

// matchRecord is one live/details row. Score fields are pointers so an
// absent (or null) score is distinguishable from a real 0.
type matchRecord struct {
	ID            string     `json:"id"`
	StatusID      flexInt    `json:"status_id"`
	HomeScore     *flexInt   `json:"home_score"`
	AwayScore     *flexInt   `json:"away_score"`
	MatchMinute   flexInt    `json:"match_minute"`
	HomeTeamID    flexString `json:"home_team_id"`
	AwayTeamID    flexString `json:"away_team_id"`
	CompetitionID flexString `json:"competition_id"`
	Environment   *envRecord `json:"environment"`
	WeatherCode   flexString `json:"weather_code"`
}

type envRecord struct {
	Weather     flexString `json:"weather"`
	Temperature flexString `json:"temperature"`
	Wind        flexString `json:"wind"`
	Humidity    flexString `json:"humidity"`
}

func (m *matchRecord) toSnapshot() *models.MatchSnapshot {
	snap := &models.MatchSnapshot{
		MatchID:       m.ID,
		StatusID:      models.Status(m.StatusID),
		HomeScore:     scoreOf(m.HomeScore),
		AwayScore:     scoreOf(m.AwayScore),
		ScoreKnown:    m.HomeScore != nil || m.AwayScore != nil,
		Minute:        int(m.MatchMinute),
		HomeTeamID:    string(m.HomeTeamID),
		AwayTeamID:    string(m.AwayTeamID),
		CompetitionID: string(m.CompetitionID),
	}
	if m.Environment != nil {
		snap.Environment = &models.Environment{
			Weather:     string(m.Environment.Weather),
			Temperature: string(m.Environment.Temperature),
			Wind:        string(m.Environment.Wind),
			Humidity:    string(m.Environment.Humidity),
		}
	} else if m.WeatherCode != "" {
		snap.Environment = &models.Environment{Weather: string(m.WeatherCode)}
	}
	return snap
}

func scoreOf(f *flexInt) int {
	if f == nil {
		return 0
	}
	return int(*f)
}

// oddsHistory is one bookmaker's odds arrays. Each row is
// [recorded_ts, time_of_match, v1, v2, v3, ...] with mixed element types.
type oddsHistory struct {
	Asia [][]any `json:"asia"` // spread: home, handicap, away (HK prices)
	Eu   [][]any `json:"eu"`   // moneyline: home, draw, away (decimal)
	Bs   [][]any `json:"bs"`   // totals: over, line, under (HK prices)
}

func rowMinute(row []any) models.OddsMinute {
	return models.ParseOddsMinute(anyString(row[1]))
}

func anyString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func anyFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

type idName struct {
	ID   flexString `json:"id"`
	Name flexString `json:"name"`
}

type competitionRecord struct {
	ID        flexString      `json:"id"`
	Name      flexString      `json:"name"`
	CountryID flexString      `json:"country_id"`
	Country   json.RawMessage `json:"country"`
}

// countryID digs the country id out of either the flat field or the nested
// country object/string the provider sometimes sends instead.
func (c *competitionRecord) countryID() string {
	if c.CountryID != "" {
		return string(c.CountryID)
	}
	if len(c.Country) == 0 {
		return ""
	}
	var nested idName
	if err := json.Unmarshal(c.Country, &nested); err == nil && nested.ID != "" {
		return string(nested.ID)
	}
	var plain flexString
	if err := json.Unmarshal(c.Country, &plain); err == nil {
		return string(plain)
	}
	return ""
}
