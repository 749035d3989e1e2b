// Package store persists the vehicle catalog and analytics events.
//
// Every backend treats UpsertVehicles as a full overwrite keyed by vehicle ID:
// a field that is nil in the latest sync replaces whatever was stored before.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lukman83/autolot/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Store is the persistence boundary shared by the sync job and the HTTP API.
type Store interface {
	UpsertVehicles(ctx context.Context, vehicles []models.Vehicle) error
	Vehicles(ctx context.Context) ([]models.Vehicle, error)
	VehicleBySlug(ctx context.Context, slug string) (*models.Vehicle, error)
	InsertEvent(ctx context.Context, ev models.Event) error
	// AnalyticsReport aggregates events with start <= created_at < end.
	AnalyticsReport(ctx context.Context, start, end time.Time) (*models.AnalyticsReport, error)
	Migrate(ctx context.Context) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver        string // "postgres", "mongo" or "memory"
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
}

// Open connects to the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "postgres":
		return NewPostgres(ctx, opts.DatabaseURL)
	case "mongo":
		return NewMongo(ctx, opts.MongoURI, opts.MongoDatabase)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// metaObject is the stored form of an event's meta. Every backend stores an
// object: empty meta becomes {} and anything that is not a JSON object is
// wrapped as {"value": ...}.
func metaObject(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return map[string]any{"value": string(raw)}
	}
	switch m := v.(type) {
	case map[string]any:
		return m
	case nil:
		return map[string]any{}
	default:
		return map[string]any{"value": m}
	}
}
