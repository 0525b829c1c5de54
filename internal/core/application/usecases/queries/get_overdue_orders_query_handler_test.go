package queries_test

import (
	"testing"
	"time"

	"repairshop/internal/core/application/usecases/queries"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/core/domain/services"
	"repairshop/internal/core/ports"
	"repairshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

func TestNewGetOverdueOrdersQuery(t *testing.T) {
	q, err := queries.NewGetOverdueOrdersQuery(testNow, 0)
	require.NoError(t, err)
	assert.Equal(t, queries.MaxOverdueLimit, q.Limit())

	_, err = queries.NewGetOverdueOrdersQuery(testNow, queries.MaxOverdueLimit+1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = queries.NewGetOverdueOrdersQuery(time.Time{}, 10)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestGetOverdueOrdersQueryHandler_Handle(t *testing.T) {
	t.Run("should filter, classify and sort", func(t *testing.T) {
		repo := new(MockWorkOrderRepository)
		candidates := []*workorder.WorkOrder{
			openOrder(t, "WO-1", 20*day, workorder.InProgress, workorder.PriorityNormal),
			openOrder(t, "WO-2", 15*day, workorder.WaitingParts, workorder.PriorityUrgent),
			openOrder(t, "WO-3", 13*day, workorder.Ready, workorder.PriorityUrgent),
			openOrder(t, "WO-4", 40*day, workorder.Pending, workorder.PriorityHigh),
		}
		repo.On("Filter", mock.Anything, mock.MatchedBy(func(f ports.WorkOrderFilter) bool {
			return assert.ObjectsAreEqual([]workorder.Status{workorder.Delivered, workorder.Cancelled}, f.ExcludeStatuses) &&
				f.CreatedBefore.Equal(testNow.Add(-14*day).Add(time.Nanosecond))
		})).Return(candidates, nil).Once()

		query, err := queries.NewGetOverdueOrdersQuery(testNow, 0)
		require.NoError(t, err)

		got, err := queries.NewGetOverdueOrdersQueryHandler(repo, services.DefaultRuleTable(), newTestRetrier()).
			Handle(t.Context(), query)

		require.NoError(t, err)
		numbers := make([]string, 0, len(got))
		for _, item := range got {
			numbers = append(numbers, item.Order.OrderNumber())
			assert.True(t, item.Classification.Overdue)
		}
		assert.Equal(t, []string{"WO-2", "WO-4", "WO-1"}, numbers)
		repo.AssertExpectations(t)
	})

	t.Run("should apply limit after sorting", func(t *testing.T) {
		repo := new(MockWorkOrderRepository)
		repo.On("Filter", mock.Anything, mock.Anything).Return([]*workorder.WorkOrder{
			openOrder(t, "WO-1", 20*day, workorder.InProgress, workorder.PriorityNormal),
			openOrder(t, "WO-2", 15*day, workorder.InProgress, workorder.PriorityUrgent),
		}, nil).Once()

		query, _ := queries.NewGetOverdueOrdersQuery(testNow, 1)
		got, err := queries.NewGetOverdueOrdersQueryHandler(repo, services.DefaultRuleTable(), newTestRetrier()).
			Handle(t.Context(), query)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "WO-2", got[0].Order.OrderNumber())
	})
}
