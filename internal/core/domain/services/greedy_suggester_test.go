package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/core/domain/services"
	"refuel/internal/core/ports"
)

func pointAt(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()

	point, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)

	return point
}

func unassignedOrderInfo(t *testing.T, suffix byte, zone string, position kernel.GeoPoint) ports.OrderInfo {
	t.Helper()

	start := time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)
	return ports.OrderInfo{
		ID:          uuidAt(t, suffix),
		ZoneCode:    zone,
		Position:    position,
		Octane:      87,
		Gallons:     10,
		WindowStart: start,
		WindowEnd:   start.Add(3 * time.Hour),
		Status:      order.Unassigned,
	}
}

func idleCourierInfo(t *testing.T, suffix byte, position kernel.GeoPoint, zones ...string) ports.CourierInfo {
	t.Helper()

	return ports.CourierInfo{
		ID:          uuidAt(t, suffix),
		Position:    &position,
		OnDuty:      true,
		Zones:       zones,
		TankGallons: map[int]int{87: 80},
	}
}

func TestGreedySuggester_Suggest(t *testing.T) {
	// Downtown is the reference point; nearby/faraway orders sit at
	// increasing distance from it.
	downtown := func(t *testing.T) kernel.GeoPoint { return pointAt(t, 37.7790, -122.4190) }
	nearby := func(t *testing.T) kernel.GeoPoint { return pointAt(t, 37.7800, -122.4180) }
	faraway := func(t *testing.T) kernel.GeoPoint { return pointAt(t, 37.8200, -122.3700) }

	t.Run("should rank a courier's orders nearest first", func(t *testing.T) {
		suggester := services.NewGreedySuggester()
		near := unassignedOrderInfo(t, 1, "94103", nearby(t))
		far := unassignedOrderInfo(t, 2, "94103", faraway(t))
		courier := idleCourierInfo(t, 9, downtown(t), "94103")

		suggestions, err := suggester.Suggest(t.Context(), []ports.OrderInfo{far, near}, []ports.CourierInfo{courier})

		require.NoError(t, err)
		require.Len(t, suggestions[near.ID], 1)
		require.Len(t, suggestions[far.ID], 1)
		assert.Equal(t, 1, suggestions[near.ID][0].Rank)
		assert.Equal(t, 2, suggestions[far.ID][0].Rank)
		assert.True(t, suggestions[near.ID][0].New)
	})

	t.Run("should only suggest unassigned orders", func(t *testing.T) {
		suggester := services.NewGreedySuggester()
		open := unassignedOrderInfo(t, 1, "94103", nearby(t))
		claimed := unassignedOrderInfo(t, 2, "94103", nearby(t))
		claimed.Status = order.Accepted
		holder := uuidAt(t, 8)
		claimed.CourierID = &holder
		courier := idleCourierInfo(t, 9, downtown(t), "94103")

		suggestions, err := suggester.Suggest(t.Context(), []ports.OrderInfo{open, claimed}, []ports.CourierInfo{courier})

		require.NoError(t, err)
		assert.Contains(t, suggestions, open.ID)
		assert.NotContains(t, suggestions, claimed.ID)
	})

	t.Run("should only match orders in the courier's zones", func(t *testing.T) {
		suggester := services.NewGreedySuggester()
		covered := unassignedOrderInfo(t, 1, "94103", nearby(t))
		elsewhere := unassignedOrderInfo(t, 2, "94105", nearby(t))
		courier := idleCourierInfo(t, 9, downtown(t), "94103")

		suggestions, err := suggester.Suggest(t.Context(), []ports.OrderInfo{covered, elsewhere}, []ports.CourierInfo{courier})

		require.NoError(t, err)
		assert.Contains(t, suggestions, covered.ID)
		assert.NotContains(t, suggestions, elsewhere.ID)
	})

	t.Run("should skip couriers that are off duty, positionless, or loaded", func(t *testing.T) {
		suggester := services.NewGreedySuggester()
		open := unassignedOrderInfo(t, 1, "94103", nearby(t))

		offDuty := idleCourierInfo(t, 7, downtown(t), "94103")
		offDuty.OnDuty = false
		positionless := idleCourierInfo(t, 8, downtown(t), "94103")
		positionless.Position = nil
		loaded := idleCourierInfo(t, 9, downtown(t), "94103")
		loaded.OpenOrderIDs = []kernel.UUID{uuidAt(t, 2)}

		suggestions, err := suggester.Suggest(t.Context(), []ports.OrderInfo{open}, []ports.CourierInfo{offDuty, positionless, loaded})

		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})

	t.Run("should flag a pairing new only on its first round", func(t *testing.T) {
		suggester := services.NewGreedySuggester()
		open := unassignedOrderInfo(t, 1, "94103", nearby(t))
		courier := idleCourierInfo(t, 9, downtown(t), "94103")

		first, err := suggester.Suggest(t.Context(), []ports.OrderInfo{open}, []ports.CourierInfo{courier})
		require.NoError(t, err)
		second, err := suggester.Suggest(t.Context(), []ports.OrderInfo{open}, []ports.CourierInfo{courier})
		require.NoError(t, err)

		require.Len(t, first[open.ID], 1)
		require.Len(t, second[open.ID], 1)
		assert.True(t, first[open.ID][0].New)
		assert.False(t, second[open.ID][0].New)
	})

	t.Run("should forget a pairing once its order leaves the open set", func(t *testing.T) {
		suggester := services.NewGreedySuggester()
		open := unassignedOrderInfo(t, 1, "94103", nearby(t))
		courier := idleCourierInfo(t, 9, downtown(t), "94103")

		_, err := suggester.Suggest(t.Context(), []ports.OrderInfo{open}, []ports.CourierInfo{courier})
		require.NoError(t, err)

		// The order completes and drops out, then a new one reuses its id
		// slot in a later round: history must not leak across.
		_, err = suggester.Suggest(t.Context(), nil, []ports.CourierInfo{courier})
		require.NoError(t, err)

		again, err := suggester.Suggest(t.Context(), []ports.OrderInfo{open}, []ports.CourierInfo{courier})
		require.NoError(t, err)
		require.Len(t, again[open.ID], 1)
		assert.True(t, again[open.ID][0].New)
	})

	t.Run("should rank per courier independently", func(t *testing.T) {
		suggester := services.NewGreedySuggester()
		near := unassignedOrderInfo(t, 1, "94103", nearby(t))
		far := unassignedOrderInfo(t, 2, "94103", faraway(t))

		cityCourier := idleCourierInfo(t, 8, downtown(t), "94103")
		bayCourier := idleCourierInfo(t, 9, pointAt(t, 37.8210, -122.3690), "94103")

		suggestions, err := suggester.Suggest(t.Context(), []ports.OrderInfo{near, far}, []ports.CourierInfo{cityCourier, bayCourier})

		require.NoError(t, err)
		require.Len(t, suggestions[near.ID], 2)
		require.Len(t, suggestions[far.ID], 2)

		ranks := func(list []ports.Suggestion) map[kernel.UUID]int {
			out := make(map[kernel.UUID]int, len(list))
			for _, s := range list {
				out[s.CourierID] = s.Rank
			}
			return out
		}

		assert.Equal(t, 1, ranks(suggestions[near.ID])[cityCourier.ID])
		assert.Equal(t, 2, ranks(suggestions[far.ID])[cityCourier.ID])
		assert.Equal(t, 1, ranks(suggestions[far.ID])[bayCourier.ID])
		assert.Equal(t, 2, ranks(suggestions[near.ID])[bayCourier.ID])
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		suggester := services.NewGreedySuggester()
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := suggester.Suggest(ctx, nil, nil)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
