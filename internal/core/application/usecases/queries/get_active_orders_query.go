// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/guard"
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)
)

// GetActiveOrdersQuery retrieves all orders that have not yet reached a
// terminal status. Returns open orders for dispatch monitoring and the
// operations dashboard.
//
// Example:
//
//	query := NewGetActiveOrdersQuery()
//	handler := NewGetActiveOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get active orders: %w", err)
//	}
//
//	fmt.Printf("Found %d orders in flight\n", len(orders))
//	for _, o := range orders {
//	    fmt.Printf("Order %s [%s] in zone %s\n", o.ID, o.Status, o.ZoneCode)
//	}
type GetActiveOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a query to retrieve open orders.
// This is a parameterless query that fetches every non-terminal order.
func NewGetActiveOrdersQuery() GetActiveOrdersQuery {
	return GetActiveOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetActiveOrdersQueryIsNotConstructed if validation fails.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// GetActiveOrdersQueryResponse represents an open order in the read model.
// Contains the data dispatch operators act on: where the order is, how far
// along it is, who is working it, and the full status history.
type GetActiveOrdersQueryResponse struct {
	ID         kernel.UUID
	Status     order.Status
	ZoneCode   string
	CourierID  *kernel.UUID
	Position   kernel.GeoPoint
	TotalCents int
	OrderedAt  time.Time
	History    []order.StatusEvent
}
