package queries_test

import (
	"context"
	"testing"
	"time"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/core/ports"
	"repairshop/internal/pkg/retry"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

type MockWorkOrderRepository struct{ mock.Mock }

func (m *MockWorkOrderRepository) Add(ctx context.Context, o *workorder.WorkOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockWorkOrderRepository) Update(ctx context.Context, o *workorder.WorkOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockWorkOrderRepository) Get(ctx context.Context, id kernel.UUID) (*workorder.WorkOrder, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*workorder.WorkOrder)
	return o, args.Error(1)
}

func (m *MockWorkOrderRepository) Filter(ctx context.Context, f ports.WorkOrderFilter) ([]*workorder.WorkOrder, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]*workorder.WorkOrder)
	return orders, args.Error(1)
}

func (m *MockWorkOrderRepository) List(ctx context.Context, sort ports.SortKey, limit int) ([]*workorder.WorkOrder, error) {
	args := m.Called(ctx, sort, limit)
	orders, _ := args.Get(0).([]*workorder.WorkOrder)
	return orders, args.Error(1)
}

type MockEventRepository struct{ mock.Mock }

func (m *MockEventRepository) Create(ctx context.Context, e *workorder.WorkOrderEvent) (*workorder.WorkOrderEvent, error) {
	args := m.Called(ctx, e)
	ev, _ := args.Get(0).(*workorder.WorkOrderEvent)
	return ev, args.Error(1)
}

func (m *MockEventRepository) FilterByOrder(ctx context.Context, id kernel.UUID) ([]*workorder.WorkOrderEvent, error) {
	args := m.Called(ctx, id)
	events, _ := args.Get(0).([]*workorder.WorkOrderEvent)
	return events, args.Error(1)
}

type instantTimer struct{ c chan time.Time }

func (t *instantTimer) Start(time.Duration) { t.c <- time.Now() }
func (t *instantTimer) Stop()               {}
func (t *instantTimer) C() <-chan time.Time { return t.c }

func newTestRetrier() *retry.Retrier {
	return retry.New(retry.DefaultPolicy(), retry.WithTimer(func() backoff.Timer {
		return &instantTimer{c: make(chan time.Time, 1)}
	}))
}

func openOrder(t *testing.T, number string, age time.Duration, status workorder.Status, priority workorder.Priority) *workorder.WorkOrder {
	t.Helper()
	created := testNow.Add(-age)
	o, err := workorder.RestoreWorkOrder(kernel.NewUUID(), number, status.String(), nil, "", priority,
		workorder.CustomerRef{}, "", created, created)
	require.NoError(t, err)
	return o
}
