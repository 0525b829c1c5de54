package commands_test

import (
	"context"
	"testing"
	"time"

	"repairshop/internal/core/application/usecases/commands"
	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/core/ports"
	"repairshop/internal/pkg/retry"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 5, 10, 14, 0, 0, 0, time.UTC)

type MockWorkOrderRepository struct{ mock.Mock }

func (m *MockWorkOrderRepository) Add(ctx context.Context, o *workorder.WorkOrder) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockWorkOrderRepository) Update(ctx context.Context, o *workorder.WorkOrder) error {
	args := m.Called(ctx, o)
	return args.Error(0)
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

// Create returns the stored event. A func(*WorkOrderEvent) *WorkOrderEvent
// return value is applied to the argument.
func (m *MockEventRepository) Create(ctx context.Context, e *workorder.WorkOrderEvent) (*workorder.WorkOrderEvent, error) {
	args := m.Called(ctx, e)
	if fn, ok := args.Get(0).(func(*workorder.WorkOrderEvent) *workorder.WorkOrderEvent); ok {
		return fn(e), args.Error(1)
	}
	ev, _ := args.Get(0).(*workorder.WorkOrderEvent)
	return ev, args.Error(1)
}

func (m *MockEventRepository) FilterByOrder(ctx context.Context, id kernel.UUID) ([]*workorder.WorkOrderEvent, error) {
	args := m.Called(ctx, id)
	events, _ := args.Get(0).([]*workorder.WorkOrderEvent)
	return events, args.Error(1)
}

type MockWorkOrderUoW struct{ mock.Mock }

func (m *MockWorkOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWorkOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWorkOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWorkOrderUoW) WorkOrderRepository() ports.WorkOrderRepository {
	args := m.Called()
	return args.Get(0).(ports.WorkOrderRepository)
}

func (m *MockWorkOrderUoW) EventRepository() ports.EventRepository {
	args := m.Called()
	return args.Get(0).(ports.EventRepository)
}

type MockWorkOrderUoWFactory struct{ mock.Mock }

func (m *MockWorkOrderUoWFactory) Create() commands.WorkOrderUoW {
	args := m.Called()
	return args.Get(0).(commands.WorkOrderUoW)
}

type MockStatusChangePublisher struct{ mock.Mock }

func (m *MockStatusChangePublisher) PublishStatusChanged(ctx context.Context, e ports.StatusChanged) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type MockTransitionRecorder struct{ mock.Mock }

func (m *MockTransitionRecorder) RecordTransition(status, outcome string, d time.Duration) {
	m.Called(status, outcome, d)
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

func storedEvent(e *workorder.WorkOrderEvent) *workorder.WorkOrderEvent {
	restored, err := workorder.RestoreWorkOrderEvent(e.ID(), e.OrderID(), e.OrderNumber(), e.EventType(),
		e.Description(), e.UserID(), e.UserName(), e.Metadata(), testNow)
	if err != nil {
		panic(err)
	}
	return restored
}

func testActor(t *testing.T) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor("u-42", "Carla Soto", "technician")
	require.NoError(t, err)
	return actor
}

func inProgressOrder(t *testing.T) *workorder.WorkOrder {
	t.Helper()
	o, err := workorder.RestoreWorkOrder(kernel.NewUUID(), "O1", "in_progress", nil, "",
		workorder.PriorityNormal, workorder.CustomerRef{Name: "José"}, "tech-1",
		testNow.Add(-48*time.Hour), testNow.Add(-time.Hour))
	require.NoError(t, err)
	return o
}
