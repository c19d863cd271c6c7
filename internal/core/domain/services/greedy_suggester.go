package services

import (
	"context"
	"sort"
	"sync"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/core/ports"
)

// suggestedPair identifies one (order, courier) pairing the suggester has
// already emitted in an earlier round.
type suggestedPair struct {
	orderID   kernel.UUID
	courierID kernel.UUID
}

// GreedySuggester is the in-process reference implementation of
// ports.Optimizer: a greedy nearest-courier ranking with no optimization
// machinery. Deployments with a real optimizer swap it out at the
// composition root; local and test runs use this one.
//
// Ranking: each idle courier ranks the unassigned orders of its covered
// zones by straight-line distance from the courier's last known position,
// nearest first. Rank 1 is that courier's closest order.
//
// Business rules:
//   - Only unassigned orders are candidates; in-progress orders already
//     have their courier
//   - A courier must be on duty, have a known position, and hold no open
//     orders to receive suggestions
//   - A courier is only matched to orders in zones it covers
//   - A pairing is flagged new the first round it is emitted and stale in
//     every later round, so the selector never applies it twice
//
// The suggester remembers emitted pairings across rounds to compute the
// new flag; memory is pruned to the orders still present in the input, so
// completed and cancelled orders do not accumulate. Safe for concurrent
// use, though the dispatch loop never overlaps ticks.
//
// Example usage:
//
//	suggester := NewGreedySuggester()
//	suggestions, err := suggester.Suggest(ctx, orders, couriers)
//	if err != nil {
//	    // context cancelled
//	    return
//	}
//	pairings := selector.Select(suggestions)
type GreedySuggester struct {
	mu   sync.Mutex
	seen map[suggestedPair]struct{}
}

// NewGreedySuggester creates a new GreedySuggester instance.
//
// Returns:
//   - *GreedySuggester: A new instance with no pairing history
func NewGreedySuggester() *GreedySuggester {
	return &GreedySuggester{seen: make(map[suggestedPair]struct{})}
}

// Suggest ranks candidate pairings for the current fleet state.
//
// Parameters:
//   - ctx: Context for cancellation
//   - orders: Currently open orders; only unassigned ones are ranked
//   - couriers: On-duty couriers with their positions and covered zones
//
// Returns:
//   - map[kernel.UUID][]ports.Suggestion: Per-order suggestion lists, each
//     entry carrying the courier, its preference rank, and the new flag
//   - error: Context cancellation only; ranking itself cannot fail
func (s *GreedySuggester) Suggest(ctx context.Context, orders []ports.OrderInfo, couriers []ports.CourierInfo) (map[kernel.UUID][]ports.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := make([]ports.OrderInfo, 0, len(orders))
	for _, o := range orders {
		if o.Status == order.Unassigned {
			candidates = append(candidates, o)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneHistory(orders)

	suggestions := make(map[kernel.UUID][]ports.Suggestion)
	for _, c := range sortedByID(couriers) {
		if !c.OnDuty || c.Position == nil || len(c.OpenOrderIDs) > 0 {
			continue
		}

		for rank, o := range s.rankForCourier(c, candidates) {
			pair := suggestedPair{orderID: o.ID, courierID: c.ID}
			_, repeated := s.seen[pair]
			s.seen[pair] = struct{}{}

			suggestions[o.ID] = append(suggestions[o.ID], ports.Suggestion{
				CourierID: c.ID,
				Rank:      rank + 1,
				New:       !repeated,
			})
		}
	}

	return suggestions, nil
}

// rankForCourier returns the candidate orders the courier can serve,
// nearest first. Distance ties break on order id so repeated rounds over
// identical state rank identically.
func (s *GreedySuggester) rankForCourier(c ports.CourierInfo, candidates []ports.OrderInfo) []ports.OrderInfo {
	zones := make(map[string]bool, len(c.Zones))
	for _, zone := range c.Zones {
		zones[zone] = true
	}

	type reachableOrder struct {
		info   ports.OrderInfo
		meters float64
	}

	reachable := make([]reachableOrder, 0, len(candidates))
	for _, o := range candidates {
		if !zones[o.ZoneCode] {
			continue
		}

		meters, err := c.Position.DistanceTo(o.Position)
		if err != nil {
			// An order without a usable position cannot be ranked.
			continue
		}

		reachable = append(reachable, reachableOrder{info: o, meters: meters})
	}

	sort.Slice(reachable, func(i, j int) bool {
		if reachable[i].meters != reachable[j].meters {
			return reachable[i].meters < reachable[j].meters
		}
		return reachable[i].info.ID.String() < reachable[j].info.ID.String()
	})

	ranked := make([]ports.OrderInfo, len(reachable))
	for i, r := range reachable {
		ranked[i] = r.info
	}

	return ranked
}

// pruneHistory drops remembered pairings for orders that left the open
// set, keeping history bounded by the current workload.
func (s *GreedySuggester) pruneHistory(orders []ports.OrderInfo) {
	current := make(map[kernel.UUID]bool, len(orders))
	for _, o := range orders {
		current[o.ID] = true
	}

	for pair := range s.seen {
		if !current[pair.orderID] {
			delete(s.seen, pair)
		}
	}
}

// sortedByID returns the couriers ordered by id so suggestion lists come
// out in a deterministic order.
func sortedByID(couriers []ports.CourierInfo) []ports.CourierInfo {
	ordered := make([]ports.CourierInfo, len(couriers))
	copy(ordered, couriers)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ID.String() < ordered[j].ID.String()
	})
	return ordered
}
