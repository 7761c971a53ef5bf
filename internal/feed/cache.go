package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	unknownTeam        = "Unknown Team"
	unknownCompetition = "Unknown Competition"
	unknownCountry     = "Unknown Country"

	redisTeamPrefix = "matchwatch:team:"
	redisCompPrefix = "matchwatch:competition:"
)

type competitionEntry struct {
	Name    string
	Country string
}

// Lookups is the read-through cache in front of the provider's team,
// competition and country endpoints. Names are immutable for a match's
// lifetime, so entries are cached aggressively: an in-process map always,
// plus an optional shared Redis tier that survives restarts.
//
// Lookups never fail: on any miss-and-error the caller gets a placeholder
// and the failure is retried on a later poll.
type Lookups struct {
	client *Client
	rdb    *redis.Client // nil when Redis is not configured
	ttl    time.Duration

	mu        sync.RWMutex
	teams     map[string]string
	comps     map[string]competitionEntry
	countries map[string]string // loaded lazily, once
}

// NewLookups builds the cache. rdb may be nil.
func NewLookups(client *Client, rdb *redis.Client) *Lookups {
	return &Lookups{
		client: client,
		rdb:    rdb,
		ttl:    24 * time.Hour,
		teams:  make(map[string]string),
		comps:  make(map[string]competitionEntry),
	}
}

// NewRedisClient connects the optional Redis tier.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// TeamName resolves a team id to its display name.
func (l *Lookups) TeamName(ctx context.Context, teamID string) string {
	if teamID == "" {
		return unknownTeam
	}

	l.mu.RLock()
	name, ok := l.teams[teamID]
	l.mu.RUnlock()
	if ok {
		return name
	}

	if cached := l.redisGet(ctx, redisTeamPrefix+teamID); cached != "" {
		l.storeTeam(teamID, cached, false)
		return cached
	}

	name, err := l.client.TeamName(ctx, teamID)
	if err != nil {
		slog.Debug("lookups: team fetch failed", "team", teamID, "error", err)
		return unknownTeam
	}
	l.storeTeam(teamID, name, true)
	return name
}

// Competition resolves a competition id to its name and country name.
func (l *Lookups) Competition(ctx context.Context, competitionID string) (string, string) {
	if competitionID == "" {
		return unknownCompetition, unknownCountry
	}

	l.mu.RLock()
	entry, ok := l.comps[competitionID]
	l.mu.RUnlock()
	if ok {
		return entry.Name, entry.Country
	}

	if cached := l.redisGet(ctx, redisCompPrefix+competitionID); cached != "" {
		if entry, ok := decodeCompetition(cached); ok {
			l.storeCompetition(competitionID, entry, false)
			return entry.Name, entry.Country
		}
	}

	name, countryID, err := l.client.CompetitionInfo(ctx, competitionID)
	if err != nil {
		slog.Debug("lookups: competition fetch failed", "competition", competitionID, "error", err)
		return unknownCompetition, unknownCountry
	}
	entry = competitionEntry{Name: name, Country: l.countryName(ctx, countryID)}
	l.storeCompetition(competitionID, entry, true)
	return entry.Name, entry.Country
}

func (l *Lookups) countryName(ctx context.Context, countryID string) string {
	if countryID == "" {
		return unknownCountry
	}

	l.mu.RLock()
	countries := l.countries
	l.mu.RUnlock()

	if countries == nil {
		loaded, err := l.client.Countries(ctx)
		if err != nil {
			slog.Debug("lookups: country list fetch failed", "error", err)
			return unknownCountry
		}
		l.mu.Lock()
		if l.countries == nil {
			l.countries = loaded
		}
		countries = l.countries
		l.mu.Unlock()
	}

	if name, ok := countries[countryID]; ok {
		return name
	}
	return unknownCountry
}

func (l *Lookups) storeTeam(teamID, name string, writeRedis bool) {
	l.mu.Lock()
	l.teams[teamID] = name
	l.mu.Unlock()
	if writeRedis {
		l.redisSet(redisTeamPrefix+teamID, name)
	}
}

func (l *Lookups) storeCompetition(competitionID string, entry competitionEntry, writeRedis bool) {
	l.mu.Lock()
	l.comps[competitionID] = entry
	l.mu.Unlock()
	if writeRedis {
		l.redisSet(redisCompPrefix+competitionID, encodeCompetition(entry))
	}
}

func (l *Lookups) redisGet(ctx context.Context, key string) string {
	if l.rdb == nil {
		return ""
	}
	val, err := l.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("lookups: redis get failed", "key", key, "error", err)
		}
		return ""
	}
	return val
}

func (l *Lookups) redisSet(key, val string) {
	if l.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.rdb.Set(ctx, key, val, l.ttl).Err(); err != nil {
		slog.Debug("lookups: redis set failed", "key", key, "error", err)
	}
}

// Competition entries are stored in Redis as "name\x1fcountry" to avoid a
// JSON round-trip for two strings.
func encodeCompetition(e competitionEntry) string {
	return e.Name + "\x1f" + e.Country
}

func decodeCompetition(raw string) (competitionEntry, bool) {
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\x1f' {
			return competitionEntry{Name: raw[:i], Country: raw[i+1:]}, true
		}
	}
	return competitionEntry{}, false
}
