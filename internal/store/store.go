// Package store persists named capital structures. Results are never stored;
// they are recomputed from the saved structure on read.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

// ErrNotFound is returned when a scenario ID does not exist.
var ErrNotFound = eris.New("scenario not found")

// Scenario is a saved capital structure.
type Scenario struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Structure waterfall.CapitalStructure `json:"structure"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// ScenarioFilter specifies criteria for listing scenarios.
type ScenarioFilter struct {
	Name   string `json:"name,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

const defaultListLimit = 100

func (f ScenarioFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}

// Store defines the persistence interface for saved scenarios.
type Store interface {
	SaveScenario(ctx context.Context, name string, cs waterfall.CapitalStructure) (*Scenario, error)
	UpdateScenario(ctx context.Context, id string, cs waterfall.CapitalStructure) error
	GetScenario(ctx context.Context, id string) (*Scenario, error)
	ListScenarios(ctx context.Context, filter ScenarioFilter) ([]Scenario, error)
	DeleteScenario(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

func notFound(backend, id string) error {
	return eris.Wrapf(ErrNotFound, "%s: scenario %s", backend, id)
}
