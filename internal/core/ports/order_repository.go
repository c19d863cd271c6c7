package ports

import (
	"context"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status and assignment state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	//
	// The write is conditional on the status the aggregate was restored
	// with: if another writer advanced the order in between, no row is
	// touched and the update fails with an out_of_sync rejection. Two
	// concurrent transition attempts on the same order therefore resolve
	// as exactly one success and one rejection, never two successes.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its event log and assignment.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllOpen retrieves all orders in a non-terminal status.
	// This is the working set of each reconciliation tick: tardy-acceptance
	// reminders, the state snapshot, and the assignment pass all read it.
	GetAllOpen(ctx context.Context) ([]*order.Order, error)

	// CountOpenByCourier counts the open orders currently assigned to the
	// given courier. The transition handler uses it to decide whether a
	// terminal transition leaves the courier idle or still holding work.
	CountOpenByCourier(ctx context.Context, courierID kernel.UUID) (int, error)

	// CountActiveOneHourInZone counts the one-hour orders in the given zone
	// that have not yet reached servicing. Admission control compares this
	// count against the zone's available courier pool.
	CountActiveOneHourInZone(ctx context.Context, zoneCode string) (int, error)
}
