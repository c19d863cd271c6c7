package queries_test

import (
	"testing"

	"refuel/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetActiveOrdersQuery(t *testing.T) {
	t.Run("should be valid when built via constructor", func(t *testing.T) {
		query := queries.NewGetActiveOrdersQuery()

		assert.NoError(t, query.Validate())
	})

	t.Run("should reject the zero value", func(t *testing.T) {
		var query queries.GetActiveOrdersQuery

		err := query.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, queries.ErrGetActiveOrdersQueryIsNotConstructed)
	})
}
