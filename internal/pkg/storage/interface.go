package storage

import (
	"context"

	"github.com/Vodeneev/matchwatch/internal/pkg/models"
)

// AlertStorage persists fired alerts for later review. Persistence is best
// effort: a write failure is logged by the caller and never blocks a pass.
type AlertStorage interface {
	StoreAlert(ctx context.Context, alert *models.Alert) error
	// RecentAlerts returns the latest alerts, newest first.
	RecentAlerts(ctx context.Context, limit int) ([]models.Alert, error)
	Close() error
}

// NopAlertStorage discards everything. Used when no DSN is configured.
type NopAlertStorage struct{}

func (NopAlertStorage) StoreAlert(context.Context, *models.Alert) error { return nil }

func (NopAlertStorage) RecentAlerts(context.Context, int) ([]models.Alert, error) {
	return nil, nil
}

func (NopAlertStorage) Close() error { return nil }
