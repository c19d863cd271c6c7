package order_test

import (
	"testing"

	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFuel(t *testing.T) {
	t.Run("should create fuel for every supported octane", func(t *testing.T) {
		for _, octane := range []int{87, 89, 91, 93} {
			fuel, err := order.NewFuel(octane, 10)

			require.NoError(t, err)
			assert.Equal(t, octane, fuel.Octane())
			assert.Equal(t, 10, fuel.Gallons())
			assert.NoError(t, fuel.Validate())
		}
	})

	t.Run("should reject unsupported octane", func(t *testing.T) {
		for _, octane := range []int{0, 85, 88, 95, -87} {
			_, err := order.NewFuel(octane, 10)

			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		}
	})

	t.Run("should reject gallons outside the allowed range", func(t *testing.T) {
		for _, gallons := range []int{0, -1, order.FuelMaxGallons + 1} {
			_, err := order.NewFuel(87, gallons)

			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})

	t.Run("should accept boundary gallons", func(t *testing.T) {
		for _, gallons := range []int{order.FuelMinGallons, order.FuelMaxGallons} {
			_, err := order.NewFuel(87, gallons)

			assert.NoError(t, err)
		}
	})

	t.Run("should join octane and gallons errors", func(t *testing.T) {
		_, err := order.NewFuel(42, 0)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestFuel_Validate(t *testing.T) {
	t.Run("should fail for zero value fuel", func(t *testing.T) {
		var fuel order.Fuel

		err := fuel.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrFuelIsNotConstructed, err)
	})
}

func TestFuel_IsEqual(t *testing.T) {
	t.Run("should compare by octane and gallons", func(t *testing.T) {
		a, err := order.NewFuel(91, 15)
		require.NoError(t, err)
		b, err := order.NewFuel(91, 15)
		require.NoError(t, err)
		c, err := order.NewFuel(87, 15)
		require.NoError(t, err)

		assert.True(t, a.IsEqual(b))
		assert.False(t, a.IsEqual(c))
	})
}

func TestFuel_String(t *testing.T) {
	t.Run("should render a readable description", func(t *testing.T) {
		fuel, err := order.NewFuel(87, 12)
		require.NoError(t, err)

		assert.Equal(t, "12 gal of 87", fuel.String())
	})
}
