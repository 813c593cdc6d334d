// Package store persists selection sets and course plans outside the pure core.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/degreeplan/internal/model"
)

// ErrNotFound is returned when a plan does not exist
var ErrNotFound = errors.New("not found")

// Store persists per-major selections and named plans
type Store interface {
	// LoadSelection returns the selected raw values of a major, sorted; none selected is not an error
	LoadSelection(ctx context.Context, major model.Major) ([]string, error)
	SaveSelection(ctx context.Context, major model.Major, values []string) error
	LoadPlan(ctx context.Context, name string) (*model.Plan, error)
	SavePlan(ctx context.Context, plan *model.Plan) error
	Close() error
}

// Open returns the store selected by cfg
func Open(ctx context.Context, cfg model.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFileStore(cfg.Path), nil
	case "postgres":
		return NewPostgresStore(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
