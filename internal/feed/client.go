// Package feed talks to the upstream sports-data provider: live match
// lists, per-match details, odds histories and name lookups. All requests
// share one token-bucket rate limiter so a pass over hundreds of matches
// stays inside the provider's tolerance.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Vodeneev/matchwatch/internal/pkg/models"
)

// moneylineBookmaker is the only bookmaker whose European (moneyline) odds
// are used; other books' eu arrays are noise for this product.
const moneylineBookmaker = "2"

// Config holds provider connection settings.
type Config struct {
	BaseURL string
	User    string
	Secret  string
	Timeout time.Duration
	// RateLimit is requests per second across all endpoints; Burst allows
	// short spikes at the start of a pass.
	RateLimit float64
	Burst     int
}

// Client is the provider HTTP client.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 20
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("user", c.cfg.User)
	params.Set("secret", c.cfg.Secret)

	reqURL := fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("request %s: unexpected status %d", path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if env.Code != 0 {
		return fmt.Errorf("request %s: provider code %d", path, env.Code)
	}
	if out == nil || len(env.Results) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Results, out); err != nil {
		return fmt.Errorf("decode %s results: %w", path, err)
	}
	return nil
}

// LiveMatches returns the current live match rows.
func (c *Client) LiveMatches(ctx context.Context) ([]*models.MatchSnapshot, error) {
	var records []matchRecord
	if err := c.get(ctx, "/v1/football/match/detail_live", nil, &records); err != nil {
		return nil, err
	}
	out := make([]*models.MatchSnapshot, 0, len(records))
	for i := range records {
		if records[i].ID == "" {
			continue
		}
		out = append(out, records[i].toSnapshot())
	}
	return out, nil
}

// MatchDetails returns the secondary details record for one match. The
// provider returns results either as a single-element list or as an object.
func (c *Client) MatchDetails(ctx context.Context, matchID string) (*models.MatchSnapshot, error) {
	params := url.Values{"uuid": {matchID}}
	var raw json.RawMessage
	if err := c.get(ctx, "/v1/football/match/recent/list", params, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var list []matchRecord
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return nil, nil
		}
		return list[0].toSnapshot(), nil
	}
	var single matchRecord
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("decode match details: %w", err)
	}
	if single.ID == "" {
		single.ID = matchID
	}
	return single.toSnapshot(), nil
}

// MatchOdds returns the raw odds history for one match, all bookmakers
// merged in stable bookmaker-id order. Moneyline rows come only from the
// designated bookmaker; spread and totals from every book. Rows that are
// too short or unparseable are skipped, never fatal.
func (c *Client) MatchOdds(ctx context.Context, matchID string) (*models.RawOdds, error) {
	params := url.Values{"uuid": {matchID}}
	byBookmaker := map[string]oddsHistory{}
	if err := c.get(ctx, "/v1/football/odds/history", params, &byBookmaker); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(byBookmaker))
	for id := range byBookmaker {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})

	raw := &models.RawOdds{}
	for _, id := range ids {
		book := byBookmaker[id]
		for _, row := range book.Asia {
			if len(row) < 5 {
				continue
			}
			raw.Spread = append(raw.Spread, models.SpreadSample{
				Time:     rowMinute(row),
				Home:     anyFloat(row[2]),
				Handicap: anyFloat(row[3]),
				Away:     anyFloat(row[4]),
			})
		}
		for _, row := range book.Bs {
			if len(row) < 5 {
				continue
			}
			raw.Totals = append(raw.Totals, models.TotalsSample{
				Time:  rowMinute(row),
				Over:  anyFloat(row[2]),
				Line:  anyFloat(row[3]),
				Under: anyFloat(row[4]),
			})
		}
		if id != moneylineBookmaker {
			continue
		}
		for _, row := range book.Eu {
			if len(row) < 5 {
				continue
			}
			raw.Moneyline = append(raw.Moneyline, models.MoneylineSample{
				Time: rowMinute(row),
				Home: anyFloat(row[2]),
				Draw: anyFloat(row[3]),
				Away: anyFloat(row[4]),
			})
		}
	}
	return raw, nil
}

// TeamName fetches one team's display name.
func (c *Client) TeamName(ctx context.Context, teamID string) (string, error) {
	params := url.Values{"uuid": {teamID}}
	var list []idName
	if err := c.get(ctx, "/v1/football/team/additional/list", params, &list); err != nil {
		return "", err
	}
	if len(list) == 0 || list[0].Name == "" {
		return "", fmt.Errorf("team %s: no name in response", teamID)
	}
	return string(list[0].Name), nil
}

// CompetitionInfo fetches one competition's name and country id.
func (c *Client) CompetitionInfo(ctx context.Context, competitionID string) (name, countryID string, err error) {
	params := url.Values{"uuid": {competitionID}}
	var list []competitionRecord
	if err := c.get(ctx, "/v1/football/competition/additional/list", params, &list); err != nil {
		return "", "", err
	}
	if len(list) == 0 || list[0].Name == "" {
		return "", "", fmt.Errorf("competition %s: no name in response", competitionID)
	}
	return string(list[0].Name), list[0].countryID(), nil
}

// Countries fetches the full country id -> name map.
func (c *Client) Countries(ctx context.Context) (map[string]string, error) {
	var list []idName
	if err := c.get(ctx, "/v1/football/country/list", nil, &list); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, c := range list {
		if c.ID != "" && c.Name != "" {
			out[string(c.ID)] = string(c.Name)
		}
	}
	return out, nil
}
