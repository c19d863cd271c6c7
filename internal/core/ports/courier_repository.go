// Package ports defines the contracts between the dispatch core and its
// infrastructure: repositories, the unit of work, the external optimizer,
// the courier notification channel, and the tick audit log. These interfaces
// establish dependency inversion so the core stays testable with fakes.
package ports

import (
	"context"

	"refuel/internal/core/domain/model/courier"
	"refuel/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
// Provides methods for storing, retrieving, and querying courier entities
// with their complete state including fuel tanks.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	// The courier must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	// The courier must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	// Returns the complete courier with all tanks and their current levels.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAll retrieves every registered courier.
	// The reconciliation loop scans the full fleet each tick: stale-heartbeat
	// expiry considers all connected couriers regardless of duty state, and
	// the state snapshot projects eligibility flags for the whole fleet.
	GetAll(ctx context.Context) ([]*courier.Courier, error)

	// CountAvailableInZone counts the on-duty, connected couriers assigned to
	// the given zone. Admission control compares this pool size against the
	// zone's active one-hour orders before promising another one-hour slot.
	CountAvailableInZone(ctx context.Context, zoneCode string) (int, error)
}
