package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"repairshop/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps an application error to its HTTP status and the offending
// field, when there is one.
func statusFor(err error) (int, string) {
	var required *errs.ValueIsRequiredError
	var invalid *errs.ValueIsInvalidError
	var outOfRange *errs.ValueIsOutOfRangeError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &required):
		return http.StatusBadRequest, required.ParamName
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity, invalid.ParamName
	case errors.As(err, &outOfRange):
		return http.StatusUnprocessableEntity, outOfRange.ParamName
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, ""
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests, ""
	case errors.Is(err, errs.ErrRemoteCall):
		return http.StatusBadGateway, ""
	case errors.As(err, &httpErr):
		return httpErr.Code, ""
	default:
		return http.StatusInternalServerError, ""
	}
}

func (s *Server) fail(ctx echo.Context, err error) error {
	code, field := statusFor(err)

	message := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message = fmt.Sprint(httpErr.Message)
	}
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		message = http.StatusText(code)
	}
	if code == http.StatusTooManyRequests {
		ctx.Response().Header().Set("Retry-After", "15")
	}

	return ctx.JSON(code, Error{Code: code, Message: message, Field: field})
}

// newLogger falls back to slog.Default when logger is nil.
func newLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", "http")
}
