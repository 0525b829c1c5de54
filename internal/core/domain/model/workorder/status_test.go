package workorder_test

import (
	"testing"

	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want workorder.Status
	}{
		{"in_progress", workorder.InProgress},
		{"  In Progress ", workorder.InProgress},
		{"en_reparacion", workorder.InProgress},
		{"Esperando Piezas", workorder.WaitingParts},
		{"taller_externo", workorder.ExternalRepair},
		{"ready_for_pickup", workorder.Ready},
		{"entregado", workorder.Delivered},
		{"closed", workorder.Delivered},
		{"cancelado", workorder.Cancelled},
		{"intake", workorder.Pending},
		{"quality_check", workorder.Status("quality_check")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, workorder.NormalizeStatus(tt.raw))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	for _, s := range workorder.BuiltinStatuses() {
		want := s == workorder.Delivered || s == workorder.Cancelled
		assert.Equal(t, want, s.IsTerminal(), s.String())
		assert.True(t, s.IsBuiltin())
	}
	assert.False(t, workorder.Status("quality_check").IsBuiltin())
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, workorder.WaitingParts.Validate())
	require.NoError(t, workorder.Status("quality_check_2").Validate())
	require.ErrorIs(t, workorder.Status("").Validate(), errs.ErrValueIsRequired)
	require.ErrorIs(t, workorder.Status("Ready!").Validate(), errs.ErrValueIsInvalid)
	require.ErrorIs(t, workorder.Status("2fast").Validate(), errs.ErrValueIsInvalid)
}

func TestBuiltinStatuses_ReturnsCopy(t *testing.T) {
	statuses := workorder.BuiltinStatuses()
	statuses[0] = "mutated"

	assert.Equal(t, workorder.Pending, workorder.BuiltinStatuses()[0])
}

func TestParsePriority(t *testing.T) {
	p, err := workorder.ParsePriority(" URGENT ")
	require.NoError(t, err)
	assert.Equal(t, workorder.PriorityUrgent, p)
	assert.Equal(t, 0, p.Rank())

	p, err = workorder.ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, workorder.PriorityNormal, p)
	assert.Equal(t, 2, p.Rank())

	assert.Equal(t, 1, workorder.PriorityHigh.Rank())

	_, err = workorder.ParsePriority("asap")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
