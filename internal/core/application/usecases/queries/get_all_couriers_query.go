package queries

import (
	"errors"
	"time"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/pkg/guard"
)

var (
	ErrGetAllCouriersQueryIsNotConstructed = errors.New(
		"GetAllCouriersQuery must be created via NewGetAllCouriersQuery constructor",
	)
)

// GetAllCouriersQuery retrieves information about all couriers in the fleet.
// Returns courier identities, liveness, and duty state for monitoring and
// dispatching.
//
// Example:
//
//	query := NewGetAllCouriersQuery()
//	handler := NewGetAllCouriersQueryHandler(db)
//
//	couriers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve couriers: %w", err)
//	}
//
//	for _, c := range couriers {
//	    fmt.Printf("Courier %s on duty: %t\n", c.Name, c.OnDuty)
//	}
type GetAllCouriersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAllCouriersQuery creates a query to retrieve all couriers.
// This is a parameterless query that fetches the complete fleet roster.
func NewGetAllCouriersQuery() GetAllCouriersQuery {
	return GetAllCouriersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAllCouriersQueryIsNotConstructed if validation fails.
func (q GetAllCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllCouriersQueryIsNotConstructed)
}

// GetAllCouriersQueryResponse represents courier information in the read
// model. Position is nil for couriers that have never sent a heartbeat.
type GetAllCouriersQueryResponse struct {
	ID            kernel.UUID
	Name          string
	Active        bool
	OnDuty        bool
	Connected     bool
	Busy          bool
	LastHeartbeat time.Time
	Position      *kernel.GeoPoint
	Zones         []string
	Tanks         []CourierTankResponse
}

// CourierTankResponse is one fuel tank in the courier read model. Remaining
// gallons is the courier-reported estimate from the latest heartbeat.
type CourierTankResponse struct {
	Octane           int
	CapacityGallons  int
	RemainingGallons int
}
