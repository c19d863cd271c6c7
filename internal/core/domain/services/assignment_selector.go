package services

import (
	"sort"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/ports"
)

// Pairing is one assignment the selector accepted: the order to assign and
// the courier to assign it to. Pairings are applied through the order state
// machine, whose own checks reject any pairing that went stale between
// selection and application.
type Pairing struct {
	OrderID   kernel.UUID
	CourierID kernel.UUID
}

// AssignmentSelector is a domain service that filters the optimizer's
// suggestions down to the pairings dispatch should apply this tick.
//
// Selection rule: a suggestion is applied only if it is flagged new and it
// is that courier's top-ranked candidate. The double condition prevents
// re-applying a pairing already acted on in a prior tick, and keeps a
// courier from being committed to anything but its single best current
// match. At most one pairing is accepted per order and per courier.
//
// Business rules:
//   - Only suggestions with New and Rank == 1 are considered
//   - One pairing per order: the first acceptable suggestion wins
//   - One pairing per courier per tick
//   - Output order is deterministic: order ids ascending
//
// Example usage:
//
//	selector := NewAssignmentSelector()
//	pairings := selector.Select(suggestions)
//	for _, pairing := range pairings {
//	    // apply via the order state machine's assignment transition
//	}
type AssignmentSelector struct{}

// NewAssignmentSelector creates a new AssignmentSelector instance.
//
// Returns:
//   - AssignmentSelector: A new instance ready for selection
func NewAssignmentSelector() AssignmentSelector {
	return AssignmentSelector{}
}

// Select filters optimizer suggestions down to applicable pairings.
//
// Parameters:
//   - suggestions: Candidate pairings keyed by order id, each with the
//     courier's preference rank and the new-pairing flag
//
// Returns:
//   - []Pairing: Accepted pairings in ascending order-id order; empty when
//     nothing qualifies
func (s AssignmentSelector) Select(suggestions map[kernel.UUID][]ports.Suggestion) []Pairing {
	orderIDs := make([]kernel.UUID, 0, len(suggestions))
	for orderID := range suggestions {
		orderIDs = append(orderIDs, orderID)
	}
	sort.Slice(orderIDs, func(i, j int) bool {
		return orderIDs[i].String() < orderIDs[j].String()
	})

	pairings := make([]Pairing, 0, len(orderIDs))
	pairedCouriers := make(map[kernel.UUID]bool)

	for _, orderID := range orderIDs {
		for _, suggestion := range suggestions[orderID] {
			if !suggestion.New || suggestion.Rank != 1 {
				continue
			}
			if pairedCouriers[suggestion.CourierID] {
				continue
			}

			pairedCouriers[suggestion.CourierID] = true
			pairings = append(pairings, Pairing{
				OrderID:   orderID,
				CourierID: suggestion.CourierID,
			})
			break
		}
	}

	return pairings
}
