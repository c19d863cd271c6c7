package ports

import (
	"context"

	"refuel/internal/core/domain/model/zone"
)

// ZoneRepository defines the persistence contract for service zone
// configuration. Zones are a read model from the dispatch core's
// perspective: admission control and pricing read them, while writes
// come only from administrative seeding.
type ZoneRepository interface {
	// Add persists a new zone configuration.
	// The zone must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *zone.Zone) error

	// Get retrieves a zone configuration by its zip-style code.
	Get(ctx context.Context, code string) (*zone.Zone, error)

	// GetAll retrieves every configured zone.
	GetAll(ctx context.Context) ([]*zone.Zone, error)
}
