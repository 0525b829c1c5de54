package workorder_test

import (
	"testing"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkOrderEvent(t *testing.T) {
	actor, err := kernel.NewActor("u-1", "Luis Rivera", "technician")
	require.NoError(t, err)

	t.Run("should denormalize order and actor", func(t *testing.T) {
		o := newOrder(t)

		e, err := workorder.NewWorkOrderEvent(o, workorder.EventStatusChange, "Estado cambiado a Listo para Recoger.", actor,
			workorder.Metadata{"note": ""})

		require.NoError(t, err)
		require.NoError(t, e.Validate())
		assert.False(t, e.ID().IsZero())
		assert.True(t, e.OrderID().IsEqual(o.ID()))
		assert.Equal(t, "WO-1042", e.OrderNumber())
		assert.Equal(t, workorder.EventStatusChange, e.EventType())
		assert.Equal(t, "u-1", e.UserID())
		assert.Equal(t, "Luis Rivera", e.UserName())
		assert.Empty(t, e.Metadata())
		assert.True(t, e.CreatedDate().IsZero())
	})

	t.Run("should require description, actor and known type", func(t *testing.T) {
		o := newOrder(t)

		_, err := workorder.NewWorkOrderEvent(o, "deleted", " ", kernel.Actor{}, nil)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "description")
		assert.Contains(t, err.Error(), "userId")
	})

	t.Run("should require constructed order", func(t *testing.T) {
		_, err := workorder.NewWorkOrderEvent(&workorder.WorkOrder{}, workorder.EventNoteAdded, "x", actor, nil)

		require.ErrorIs(t, err, workorder.ErrWorkOrderIsNotConstructed)
	})
}

func TestRestoreWorkOrderEvent(t *testing.T) {
	_, err := workorder.RestoreWorkOrderEvent(kernel.UUID{}, kernel.NewUUID(), "WO-1", workorder.EventNoteAdded,
		"Nota", "u-1", "Luis", nil, intakeDate)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	e, err := workorder.RestoreWorkOrderEvent(kernel.NewUUID(), kernel.NewUUID(), "WO-1", workorder.EventNoteAdded,
		"Nota", "u-1", "Luis", workorder.Metadata{"k": "v"}, intakeDate)
	require.NoError(t, err)
	assert.Equal(t, intakeDate, e.CreatedDate())
	assert.Equal(t, "v", e.Metadata()["k"])
}
