package ports

import (
	"context"
	"time"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
)

// OrderInfo is the optimizer's view of one open order: where the fuel goes,
// what is being delivered, the target window, and the parsed status history.
type OrderInfo struct {
	ID          kernel.UUID
	ZoneCode    string
	Position    kernel.GeoPoint
	Octane      int
	Gallons     int
	WindowStart time.Time
	WindowEnd   time.Time
	Status      order.Status
	History     []order.StatusEvent
	CourierID   *kernel.UUID
}

// CourierInfo is the optimizer's view of one on-duty courier: last known
// position, covered zones, remaining inventory by grade, and the orders the
// courier already holds.
type CourierInfo struct {
	ID           kernel.UUID
	Position     *kernel.GeoPoint
	OnDuty       bool
	Zones        []string
	TankGallons  map[int]int
	OpenOrderIDs []kernel.UUID
}

// Suggestion is one candidate pairing produced by the optimizer for an
// order: the suggested courier, that courier's preference position for the
// order (1 is the courier's best match), and whether the pairing is new,
// meaning it was not already suggested in a previous round.
type Suggestion struct {
	CourierID kernel.UUID
	Rank      int
	New       bool
}

// Optimizer ranks candidate (order, courier) pairings. It is an external
// black box from the dispatch core's perspective: the core sends the
// current open orders and on-duty couriers and receives per-order
// suggestion lists. Suggestions are consumed within the tick and never
// persisted.
//
// A hung optimizer call stalls subsequent ticks; the scheduler skips
// overlapping ticks rather than running them concurrently, so this is an
// operational failure mode to watch, not a crash.
type Optimizer interface {
	// Suggest returns candidate pairings keyed by order id.
	Suggest(ctx context.Context, orders []OrderInfo, couriers []CourierInfo) (map[kernel.UUID][]Suggestion, error)
}
