// Package http exposes the work order use cases over a JSON API served by echo.
// Routes follow api/openapi.yaml.
//
// The service does no authentication of its own. The acting user comes from
// the X-User-Id, X-User-Name and X-User-Role headers, which must be set by a
// trusted gateway; exposing the router directly lets any client claim any
// identity, including an admin.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"repairshop/internal/core/application/permissions"
	"repairshop/internal/core/application/usecases/commands"
	"repairshop/internal/core/application/usecases/queries"
	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/core/domain/services"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Use case contracts the server depends on.
type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateWorkOrderCommand) (*workorder.WorkOrder, error)
	}
	TransitionHandler interface {
		Handle(ctx context.Context, cmd commands.TransitionStatusCommand) (commands.TransitionResult, error)
	}
	AddNoteHandler interface {
		Handle(ctx context.Context, cmd commands.AddOrderNoteCommand) (*workorder.WorkOrderEvent, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetWorkOrderQuery) (queries.GetWorkOrderQueryResponse, error)
	}
	OrderHistoryHandler interface {
		Handle(ctx context.Context, query queries.GetOrderHistoryQuery) ([]*workorder.WorkOrderEvent, error)
	}
	OverdueOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetOverdueOrdersQuery) ([]workorder.ClassifiedOrder, error)
	}
)

// Handlers groups the use cases behind the API.
type Handlers struct {
	CreateOrder   CreateOrderHandler
	Transition    TransitionHandler
	AddNote       AddNoteHandler
	GetOrder      GetOrderHandler
	OrderHistory  OrderHistoryHandler
	OverdueOrders OverdueOrdersHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers    Handlers
	rules       *services.RuleTable
	checker     *permissions.Checker
	permissions *permissions.CacheStore
	logger      *slog.Logger
	now         func() time.Time
}

// NewServer wires the handlers. A nil checker disables permission checks.
func NewServer(
	handlers Handlers,
	rules *services.RuleTable,
	checker *permissions.Checker,
	logger *slog.Logger,
	now func() time.Time,
) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{
		handlers:    handlers,
		rules:       rules,
		checker:     checker,
		permissions: permissions.NewCacheStore(),
		logger:      newLogger(logger),
		now:         now,
	}
}

// PermissionCache exposes the per-user permission snapshots so they can be
// evicted in the background.
func (s *Server) PermissionCache() *permissions.CacheStore {
	return s.permissions
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	if ok, err := s.authorize(ctx, actor, permissions.CreateOrder); !ok {
		return err
	}

	var body NewOrder
	if err := s.bind(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateWorkOrderCommand(
		body.OrderNumber,
		workorder.CustomerRef{ID: body.Customer.ID, Name: body.Customer.Name, Phone: body.Customer.Phone},
		body.Priority,
		body.AssignedTo,
		actor,
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	order, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	c := workorder.ClassifyWithTerminal(order, s.now(), s.rules.IsTerminal)
	return ctx.JSON(http.StatusCreated, toOrder(order, s.rules, c))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := s.orderID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetWorkOrderQuery(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}

	resp, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromQueryResponse(resp, s.rules))
}

// GetOverdueOrders handles GET /api/v1/orders/overdue.
func (s *Server) GetOverdueOrders(ctx echo.Context) error {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &limit); err != nil {
		return s.fail(ctx, echo.NewHTTPError(http.StatusBadRequest, err.Error()))
	}

	n := 0
	if limit != nil {
		n = *limit
	}
	query, err := queries.NewGetOverdueOrdersQuery(s.now(), n)
	if err != nil {
		return s.fail(ctx, err)
	}

	overdue, err := s.handlers.OverdueOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]Order, 0, len(overdue))
	for _, item := range overdue {
		response = append(response, toOrder(item.Order, s.rules, item.Classification))
	}

	return ctx.JSON(http.StatusOK, response)
}

// TransitionOrder handles POST /api/v1/orders/{orderId}/transitions.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := s.orderID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	actor, err := actorFromRequest(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	if ok, err := s.authorize(ctx, actor, permissions.ChangeStatus); !ok {
		return err
	}

	var body Transition
	if err := s.bind(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewTransitionStatusCommand(orderID, body.Status, workorder.Metadata(body.Metadata), actor)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.Transition.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	c := workorder.ClassifyWithTerminal(result.Order, s.now(), s.rules.IsTerminal)
	response := TransitionResult{Order: toOrder(result.Order, s.rules, c)}
	if result.Event != nil {
		event := toEvent(result.Event)
		response.Event = &event
	}
	if result.Warning != nil {
		warning := result.Warning.Error()
		response.Warning = &warning
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderHistory handles GET /api/v1/orders/{orderId}/history.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	orderID, err := s.orderID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOrderHistoryQuery(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}

	history, err := s.handlers.OrderHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toEvents(history))
}

// AddOrderNote handles POST /api/v1/orders/{orderId}/notes.
func (s *Server) AddOrderNote(ctx echo.Context) error {
	orderID, err := s.orderID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	actor, err := actorFromRequest(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	if ok, err := s.authorize(ctx, actor, permissions.AddNote); !ok {
		return err
	}

	var body NewNote
	if err := s.bind(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewAddOrderNoteCommand(orderID, body.Note, actor)
	if err != nil {
		return s.fail(ctx, err)
	}

	event, err := s.handlers.AddNote.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toEvent(event))
}

func (s *Server) orderID(ctx echo.Context) (kernel.UUID, error) {
	var raw openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, "invalid format for parameter orderId")
	}
	return kernel.UUIDFromBytes(raw[:])
}

func (s *Server) bind(ctx echo.Context, body any) error {
	if err := ctx.Bind(body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return ctx.Validate(body)
}

// authorize reports whether actor holds code. When it does not, the 403
// response has already been written.
func (s *Server) authorize(ctx echo.Context, actor kernel.Actor, code string) (bool, error) {
	if s.checker == nil {
		return true, nil
	}

	decision := s.checker.Authorize(ctx.Request().Context(), s.permissions, actor, code)
	if decision.Permits() {
		return true, nil
	}

	s.logger.InfoContext(ctx.Request().Context(), "Permission denied",
		"user_id", actor.ID(), "permission", code)
	return false, ctx.JSON(http.StatusForbidden, Error{
		Code:    http.StatusForbidden,
		Message: "missing permission " + code,
	})
}
