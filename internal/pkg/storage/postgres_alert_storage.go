package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/Vodeneev/matchwatch/internal/pkg/models"
)

// Ensure PostgresAlertStorage implements AlertStorage
var _ AlertStorage = (*PostgresAlertStorage)(nil)

// PostgresAlertStorage stores fired alerts in PostgreSQL.
type PostgresAlertStorage struct {
	db *sql.DB
}

// NewPostgresAlertStorage opens the connection and ensures the schema.
func NewPostgresAlertStorage(dsn string) (*PostgresAlertStorage, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresAlertStorage{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL alert storage initialized")
	return s, nil
}

func (s *PostgresAlertStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS alerts (
		id SERIAL PRIMARY KEY,
		rule_id VARCHAR(100) NOT NULL,
		rule_name VARCHAR(200) NOT NULL,
		match_id VARCHAR(100) NOT NULL,
		match_name VARCHAR(500) NOT NULL,
		competition VARCHAR(500) NOT NULL DEFAULT '',
		message TEXT NOT NULL,
		fired_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_alerts_match_id ON alerts(match_id);
	CREATE INDEX IF NOT EXISTS idx_alerts_rule_id ON alerts(rule_id);
	CREATE INDEX IF NOT EXISTS idx_alerts_fired_at ON alerts(fired_at DESC);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// StoreAlert inserts one fired alert.
func (s *PostgresAlertStorage) StoreAlert(ctx context.Context, alert *models.Alert) error {
	if alert == nil {
		return fmt.Errorf("alert is nil")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (rule_id, rule_name, match_id, match_name, competition, message, fired_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		alert.RuleID, alert.RuleName, alert.MatchID, alert.MatchName,
		alert.Competition, alert.Message, alert.FiredAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// RecentAlerts returns the latest alerts, newest first.
func (s *PostgresAlertStorage) RecentAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT rule_id, rule_name, match_id, match_name, competition, message, fired_at
		FROM alerts ORDER BY fired_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var out []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.RuleID, &a.RuleName, &a.MatchID, &a.MatchName,
			&a.Competition, &a.Message, &a.FiredAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresAlertStorage) Close() error {
	return s.db.Close()
}
