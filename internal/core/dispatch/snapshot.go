package dispatch

import (
	"sort"
	"strings"

	"refuel/internal/core/domain/model/courier"
	"refuel/internal/core/domain/model/order"
)

// orderState is the part of an order the assignment pass reacts to. Window,
// price, and position are deliberately absent: they never change after
// admission, so they cannot make two ticks differ.
type orderState struct {
	id        string
	status    order.Status
	courierID string
}

// courierState is the part of a courier the assignment pass reacts to.
// Heartbeat time and position are deliberately absent: couriers ping every
// few seconds, and including either field would make every tick look like a
// state change.
type courierState struct {
	id        string
	active    bool
	onDuty    bool
	connected bool
	busy      bool
	zones     string
}

// StateSnapshot is a reduced projection of the fleet used for change
// detection between ticks. Two snapshots are equal exactly when no order
// changed status or courier and no courier changed its dispatch-relevant
// flags or zones.
type StateSnapshot struct {
	orders   []orderState
	couriers []courierState
}

// BuildSnapshot projects open orders and the courier roster into a
// snapshot. Entries are sorted by id so equality is positional.
func BuildSnapshot(orders []*order.Order, couriers []*courier.Courier) StateSnapshot {
	snapshot := StateSnapshot{
		orders:   make([]orderState, 0, len(orders)),
		couriers: make([]courierState, 0, len(couriers)),
	}

	for _, o := range orders {
		state := orderState{
			id:     o.ID().String(),
			status: o.Status(),
		}
		if o.Courier() != nil {
			state.courierID = o.Courier().String()
		}
		snapshot.orders = append(snapshot.orders, state)
	}

	for _, c := range couriers {
		snapshot.couriers = append(snapshot.couriers, courierState{
			id:        c.ID().String(),
			active:    c.Active(),
			onDuty:    c.OnDuty(),
			connected: c.Connected(),
			busy:      c.Busy(),
			zones:     strings.Join(c.Zones(), ","),
		})
	}

	sort.Slice(snapshot.orders, func(i, j int) bool {
		return snapshot.orders[i].id < snapshot.orders[j].id
	})
	sort.Slice(snapshot.couriers, func(i, j int) bool {
		return snapshot.couriers[i].id < snapshot.couriers[j].id
	})

	return snapshot
}

// Equal reports whether two snapshots describe the same dispatch-relevant
// state.
func (s StateSnapshot) Equal(other StateSnapshot) bool {
	if len(s.orders) != len(other.orders) || len(s.couriers) != len(other.couriers) {
		return false
	}

	for i := range s.orders {
		if s.orders[i] != other.orders[i] {
			return false
		}
	}
	for i := range s.couriers {
		if s.couriers[i] != other.couriers[i] {
			return false
		}
	}

	return true
}
