package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterConfig carries the optional endpoints next to the API.
type RouterConfig struct {
	// Metrics serves GET /metrics when set.
	Metrics http.Handler
	// OpenAPIJSON is served at GET /openapi.json and backs /swagger/* when set.
	OpenAPIJSON []byte
	Logger      *slog.Logger
}

// NewRouter builds the echo instance serving s. It must be reachable only
// through a gateway that sets the identity headers (see HeaderUserID).
func NewRouter(s *Server, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()

	logger := newLogger(cfg.Logger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
			}
			if v.Error != nil {
				logger.WarnContext(c.Request().Context(), "Request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.DebugContext(c.Request().Context(), "Request served", attrs...)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if cfg.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.Metrics))
	}
	if cfg.OpenAPIJSON != nil {
		doc := cfg.OpenAPIJSON
		e.GET("/openapi.json", func(c echo.Context) error {
			return c.JSONBlob(http.StatusOK, doc)
		})
		e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/openapi.json")))
	}

	v1 := e.Group("/api/v1")
	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders/overdue", s.GetOverdueOrders)
	v1.GET("/orders/:orderId", s.GetOrder)
	v1.POST("/orders/:orderId/transitions", s.TransitionOrder)
	v1.GET("/orders/:orderId/history", s.GetOrderHistory)
	v1.POST("/orders/:orderId/notes", s.AddOrderNote)

	return e
}
