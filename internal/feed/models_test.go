package feed

import (
	"encoding/json"
	"testing"
)

func TestFlexInt(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`5`, 5},
		{`"5"`, 5},
		{`"  7 "`, 7},
		{`4.0`, 4},
		{`"4.9"`, 4},
		{`null`, 0},
		{`""`, 0},
		{`"abc"`, 0},
	}
	for _, tt := range tests {
		var f flexInt
		if err := json.Unmarshal([]byte(tt.raw), &f); err != nil {
			t.Errorf("flexInt(%s): %v", tt.raw, err)
			continue
		}
		if int(f) != tt.want {
			t.Errorf("flexInt(%s) = %d, want %d", tt.raw, f, tt.want)
		}
	}
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"abc"`, "abc"},
		{`123`, "123"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var f flexString
		if err := json.Unmarshal([]byte(tt.raw), &f); err != nil {
			t.Errorf("flexString(%s): %v", tt.raw, err)
			continue
		}
		if string(f) != tt.want {
			t.Errorf("flexString(%s) = %q, want %q", tt.raw, f, tt.want)
		}
	}
}

func TestMatchRecordScorePresence(t *testing.T) {
	tests := []struct {
		raw        string
		home, away int
		known      bool
	}{
		{`{"id":"m1","home_score":0,"away_score":0}`, 0, 0, true},
		{`{"id":"m1","home_score":"2","away_score":1}`, 2, 1, true},
		{`{"id":"m1"}`, 0, 0, false},
		{`{"id":"m1","home_score":null,"away_score":null}`, 0, 0, false},
	}
	for _, tt := range tests {
		var rec matchRecord
		if err := json.Unmarshal([]byte(tt.raw), &rec); err != nil {
			t.Fatalf("decode %s: %v", tt.raw, err)
		}
		snap := rec.toSnapshot()
		if snap.HomeScore != tt.home || snap.AwayScore != tt.away || snap.ScoreKnown != tt.known {
			t.Errorf("toSnapshot(%s) = %d-%d known=%v, want %d-%d known=%v",
				tt.raw, snap.HomeScore, snap.AwayScore, snap.ScoreKnown, tt.home, tt.away, tt.known)
		}
	}
}

func TestCompetitionCountryID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"id":"c1","name":"L","country_id":"n1"}`, "n1"},
		{`{"id":"c1","name":"L","country":{"id":"n2","name":"X"}}`, "n2"},
		{`{"id":"c1","name":"L","country":"n3"}`, "n3"},
		{`{"id":"c1","name":"L"}`, ""},
	}
	for _, tt := range tests {
		var rec competitionRecord
		if err := json.Unmarshal([]byte(tt.raw), &rec); err != nil {
			t.Fatalf("decode %s: %v", tt.raw, err)
		}
		if got := rec.countryID(); got != tt.want {
			t.Errorf("countryID(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestAnyHelpers(t *testing.T) {
	if got := anyFloat("2.5"); got != 2.5 {
		t.Errorf("anyFloat string = %v", got)
	}
	if got := anyFloat(3.0); got != 3.0 {
		t.Errorf("anyFloat float = %v", got)
	}
	if got := anyFloat(nil); got != 0 {
		t.Errorf("anyFloat nil = %v", got)
	}
	if got := anyString(5.0); got != "5" {
		t.Errorf("anyString float = %q", got)
	}
	if got := anyString("x"); got != "x" {
		t.Errorf("anyString string = %q", got)
	}
	if got := anyString(nil); got != "" {
		t.Errorf("anyString nil = %q", got)
	}
}
