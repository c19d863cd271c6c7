package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/services"
	"refuel/internal/core/ports"
)

// uuidAt builds a fixed UUID whose string form sorts by the given suffix,
// so selector output order is predictable in assertions.
func uuidAt(t *testing.T, suffix byte) kernel.UUID {
	t.Helper()

	raw := make([]byte, 16)
	raw[15] = suffix
	raw[0] = 0x10
	id, err := kernel.UUIDFromBytes(raw)
	require.NoError(t, err)

	return id
}

func TestAssignmentSelector_Select(t *testing.T) {
	selector := services.NewAssignmentSelector()

	t.Run("should apply a new top-ranked suggestion", func(t *testing.T) {
		orderID := uuidAt(t, 1)
		courierID := uuidAt(t, 2)

		pairings := selector.Select(map[kernel.UUID][]ports.Suggestion{
			orderID: {{CourierID: courierID, Rank: 1, New: true}},
		})

		require.Len(t, pairings, 1)
		assert.True(t, pairings[0].OrderID.IsEqual(orderID))
		assert.True(t, pairings[0].CourierID.IsEqual(courierID))
	})

	t.Run("should skip suggestions that are not top-ranked", func(t *testing.T) {
		pairings := selector.Select(map[kernel.UUID][]ports.Suggestion{
			uuidAt(t, 1): {{CourierID: uuidAt(t, 2), Rank: 2, New: true}},
		})

		assert.Empty(t, pairings)
	})

	t.Run("should skip suggestions already made in a prior round", func(t *testing.T) {
		pairings := selector.Select(map[kernel.UUID][]ports.Suggestion{
			uuidAt(t, 1): {{CourierID: uuidAt(t, 2), Rank: 1, New: false}},
		})

		assert.Empty(t, pairings)
	})

	t.Run("should pair a courier at most once per tick", func(t *testing.T) {
		firstOrder := uuidAt(t, 1)
		secondOrder := uuidAt(t, 2)
		courierID := uuidAt(t, 9)

		pairings := selector.Select(map[kernel.UUID][]ports.Suggestion{
			firstOrder:  {{CourierID: courierID, Rank: 1, New: true}},
			secondOrder: {{CourierID: courierID, Rank: 1, New: true}},
		})

		require.Len(t, pairings, 1)
		assert.True(t, pairings[0].OrderID.IsEqual(firstOrder))
	})

	t.Run("should pair an order at most once", func(t *testing.T) {
		orderID := uuidAt(t, 1)
		firstCourier := uuidAt(t, 8)
		secondCourier := uuidAt(t, 9)

		pairings := selector.Select(map[kernel.UUID][]ports.Suggestion{
			orderID: {
				{CourierID: firstCourier, Rank: 1, New: true},
				{CourierID: secondCourier, Rank: 1, New: true},
			},
		})

		require.Len(t, pairings, 1)
		assert.True(t, pairings[0].CourierID.IsEqual(firstCourier))
	})

	t.Run("should fall through to the next courier when the first is taken", func(t *testing.T) {
		firstOrder := uuidAt(t, 1)
		secondOrder := uuidAt(t, 2)
		sharedCourier := uuidAt(t, 8)
		freeCourier := uuidAt(t, 9)

		pairings := selector.Select(map[kernel.UUID][]ports.Suggestion{
			firstOrder: {{CourierID: sharedCourier, Rank: 1, New: true}},
			secondOrder: {
				{CourierID: sharedCourier, Rank: 1, New: true},
				{CourierID: freeCourier, Rank: 1, New: true},
			},
		})

		require.Len(t, pairings, 2)
		assert.True(t, pairings[0].CourierID.IsEqual(sharedCourier))
		assert.True(t, pairings[1].CourierID.IsEqual(freeCourier))
	})

	t.Run("should emit pairings in ascending order-id order", func(t *testing.T) {
		suggestions := make(map[kernel.UUID][]ports.Suggestion)
		for i := byte(5); i > 0; i-- {
			suggestions[uuidAt(t, i)] = []ports.Suggestion{
				{CourierID: uuidAt(t, 10+i), Rank: 1, New: true},
			}
		}

		pairings := selector.Select(suggestions)

		require.Len(t, pairings, 5)
		for i := 1; i < len(pairings); i++ {
			assert.Less(t, pairings[i-1].OrderID.String(), pairings[i].OrderID.String())
		}
	})

	t.Run("should return nothing for empty suggestions", func(t *testing.T) {
		assert.Empty(t, selector.Select(nil))
		assert.Empty(t, selector.Select(map[kernel.UUID][]ports.Suggestion{}))
	})

	t.Run("should ignore an order whose only suggestions are stale or low-ranked", func(t *testing.T) {
		qualifying := uuidAt(t, 1)
		ignored := uuidAt(t, 2)

		pairings := selector.Select(map[kernel.UUID][]ports.Suggestion{
			qualifying: {{CourierID: uuidAt(t, 8), Rank: 1, New: true}},
			ignored: {
				{CourierID: uuidAt(t, 9), Rank: 2, New: true},
				{CourierID: uuidAt(t, 10), Rank: 1, New: false},
			},
		})

		require.Len(t, pairings, 1)
		assert.True(t, pairings[0].OrderID.IsEqual(qualifying))
	})
}
