package feed

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
)

func TestLookupsCachesTeamNames(t *testing.T) {
	var calls int32
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"code":0,"results":[{"id":"t1","name":"FC Test"}]}`))
	}))
	defer srv.Close()

	l := NewLookups(client, nil)
	ctx := context.Background()

	if got := l.TeamName(ctx, "t1"); got != "FC Test" {
		t.Fatalf("TeamName = %q", got)
	}
	if got := l.TeamName(ctx, "t1"); got != "FC Test" {
		t.Fatalf("cached TeamName = %q", got)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("upstream called %d times, want 1", n)
	}
}

func TestLookupsPlaceholderOnFailure(t *testing.T) {
	var calls int32
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := NewLookups(client, nil)
	ctx := context.Background()

	if got := l.TeamName(ctx, "t1"); got != unknownTeam {
		t.Errorf("TeamName on failure = %q", got)
	}
	// failures are not cached: the next poll retries
	l.TeamName(ctx, "t1")
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("upstream called %d times, want 2 (no failure caching)", n)
	}

	if got := l.TeamName(ctx, ""); got != unknownTeam {
		t.Errorf("empty id = %q", got)
	}
	name, country := l.Competition(ctx, "")
	if name != unknownCompetition || country != unknownCountry {
		t.Errorf("empty competition id = %q, %q", name, country)
	}
}

func TestLookupsCompetitionWithCountry(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/football/competition/additional/list":
			w.Write([]byte(`{"code":0,"results":[{"id":"c1","name":"Premier Test","country_id":"n1"}]}`))
		case "/v1/football/country/list":
			w.Write([]byte(`{"code":0,"results":[{"id":"n1","name":"Testland"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	l := NewLookups(client, nil)
	name, country := l.Competition(context.Background(), "c1")
	if name != "Premier Test" || country != "Testland" {
		t.Errorf("Competition = %q, %q", name, country)
	}
}

func TestCompetitionEncoding(t *testing.T) {
	in := competitionEntry{Name: "Premier Test", Country: "Testland"}
	out, ok := decodeCompetition(encodeCompetition(in))
	if !ok || out != in {
		t.Errorf("round trip = %+v, %v", out, ok)
	}
	if _, ok := decodeCompetition("no separator"); ok {
		t.Error("decode without separator must fail")
	}
}
