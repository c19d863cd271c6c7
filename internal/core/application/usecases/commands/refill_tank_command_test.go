package commands_test

import (
	"testing"

	"refuel/internal/core/application/usecases/commands"
	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefillTankCommand_ValidInput(t *testing.T) {
	courierID := kernel.NewUUID()

	cmd, err := commands.NewRefillTankCommand(courierID, 87)

	require.NoError(t, err)
	assert.Equal(t, courierID, cmd.CourierID())
	assert.Equal(t, 87, cmd.Octane())
	assert.NoError(t, cmd.Validate())
}

func TestNewRefillTankCommand_InvalidCourierID(t *testing.T) {
	_, err := commands.NewRefillTankCommand(kernel.UUID{}, 87)

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewRefillTankCommand_UnknownOctane(t *testing.T) {
	_, err := commands.NewRefillTankCommand(kernel.NewUUID(), 85)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRefillTankCommand_Validate_ZeroValue(t *testing.T) {
	var cmd commands.RefillTankCommand

	err := cmd.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrRefillTankCommandIsNotConstructed)
}
