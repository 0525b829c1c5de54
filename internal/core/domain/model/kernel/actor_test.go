package kernel_test

import (
	"testing"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActor(t *testing.T) {
	t.Run("should build actor", func(t *testing.T) {
		actor, err := kernel.NewActor("u-17", "Ana Pérez", "Technician")

		require.NoError(t, err)
		assert.Equal(t, "u-17", actor.ID())
		assert.Equal(t, "Ana Pérez", actor.FullName())
		assert.Equal(t, "technician", actor.Role())
		assert.False(t, actor.IsAdmin())
	})

	t.Run("should fall back to id for blank name", func(t *testing.T) {
		actor, err := kernel.NewActor("u-17", "  ", kernel.RoleAdmin)

		require.NoError(t, err)
		assert.Equal(t, "u-17", actor.FullName())
		assert.True(t, actor.IsAdmin())
	})

	t.Run("should require id", func(t *testing.T) {
		actor, err := kernel.NewActor(" ", "Ana", "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.True(t, actor.IsZero())
	})
}
