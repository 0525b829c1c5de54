package workorder_test

import (
	"testing"
	"time"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var intakeDate = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func newOrder(t *testing.T) *workorder.WorkOrder {
	t.Helper()
	o, err := workorder.NewWorkOrder(
		kernel.NewUUID(),
		"WO-1042",
		workorder.CustomerRef{ID: "c-1", Name: "María López", Phone: "787-555-0101"},
		workorder.PriorityHigh,
		"tech-7",
		intakeDate,
	)
	require.NoError(t, err)
	return o
}

func TestNewWorkOrder(t *testing.T) {
	t.Run("should create pending order", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, "WO-1042", o.OrderNumber())
		assert.Equal(t, workorder.Pending, o.Status())
		assert.Empty(t, o.StatusMetadata())
		assert.Equal(t, workorder.PriorityHigh, o.Priority())
		assert.Equal(t, "María López", o.Customer().Name)
		assert.Equal(t, "tech-7", o.AssignedTo())
		assert.Equal(t, intakeDate, o.CreatedDate())
		assert.Equal(t, intakeDate, o.UpdatedDate())
	})

	t.Run("should join every validation error", func(t *testing.T) {
		o, err := workorder.NewWorkOrder(kernel.UUID{}, "  ", workorder.CustomerRef{}, "vip", "", time.Time{})

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "orderNumber")
		assert.Contains(t, err.Error(), "priority")
		assert.Contains(t, err.Error(), "createdDate")
	})
}

func TestRestoreWorkOrder(t *testing.T) {
	t.Run("should normalize legacy status", func(t *testing.T) {
		o, err := workorder.RestoreWorkOrder(
			kernel.NewUUID(), "WO-7", "Entregado",
			workorder.Metadata{"note": "  ", "part_name": "Screen"}, "",
			"", workorder.CustomerRef{}, "", intakeDate, intakeDate,
		)

		require.NoError(t, err)
		assert.Equal(t, workorder.Delivered, o.Status())
		assert.Equal(t, workorder.PriorityNormal, o.Priority())
		assert.Equal(t, workorder.Metadata{"part_name": "Screen"}, o.StatusMetadata())
	})

	t.Run("should reject malformed status", func(t *testing.T) {
		_, err := workorder.RestoreWorkOrder(
			kernel.NewUUID(), "WO-7", "???",
			nil, "", workorder.PriorityNormal, workorder.CustomerRef{}, "", intakeDate, intakeDate,
		)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestWorkOrder_Validate(t *testing.T) {
	var o workorder.WorkOrder
	require.ErrorIs(t, o.Validate(), workorder.ErrWorkOrderIsNotConstructed)

	var nilOrder *workorder.WorkOrder
	require.ErrorIs(t, nilOrder.Validate(), workorder.ErrWorkOrderIsNotConstructed)
}

func TestWorkOrder_ChangeStatus(t *testing.T) {
	t.Run("should replace status and metadata", func(t *testing.T) {
		o := newOrder(t)
		at := intakeDate.Add(time.Hour)
		require.NoError(t, o.ChangeStatus(workorder.WaitingParts, workorder.Metadata{"part_name": "Screen"}, "", at))

		require.NoError(t, o.ChangeStatus(
			workorder.ExternalRepair,
			workorder.Metadata{"external_workshop": "TallerX", "reason": ""},
			" sent today ",
			at,
		))

		assert.Equal(t, workorder.ExternalRepair, o.Status())
		assert.Equal(t, workorder.Metadata{"external_workshop": "TallerX"}, o.StatusMetadata())
		assert.Equal(t, "sent today", o.StatusNote())
		assert.Equal(t, at, o.UpdatedDate())
	})

	t.Run("should allow any well formed target", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.ChangeStatus(workorder.Delivered, nil, "", intakeDate))

		require.NoError(t, o.ChangeStatus(workorder.Pending, nil, "", intakeDate))
		assert.Equal(t, workorder.Pending, o.Status())
	})

	t.Run("should reject empty status", func(t *testing.T) {
		o := newOrder(t)

		err := o.ChangeStatus("", nil, "", intakeDate)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, workorder.Pending, o.Status())
	})

	t.Run("metadata copy does not leak", func(t *testing.T) {
		o := newOrder(t)
		md := workorder.Metadata{"part_name": "Battery"}
		require.NoError(t, o.ChangeStatus(workorder.WaitingParts, md, "", intakeDate))

		md["part_name"] = "Screen"
		got := o.StatusMetadata()
		got["supplier"] = "Acme"

		assert.Equal(t, workorder.Metadata{"part_name": "Battery"}, o.StatusMetadata())
	})
}

func TestWorkOrder_IsEqual(t *testing.T) {
	o := newOrder(t)
	assert.True(t, o.IsEqual(o))
	assert.False(t, o.IsEqual(newOrder(t)))
	assert.False(t, o.IsEqual(nil))
}
