package http

import (
	"repairshop/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Identity headers name the acting user. They are read verbatim and never
// authenticated here: a trusted gateway in front of the service must verify
// the caller and overwrite all three on every request. A role of "admin"
// skips the permission grants entirely.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"
)

// actorFromRequest builds the acting user from the identity headers.
func actorFromRequest(ctx echo.Context) (kernel.Actor, error) {
	h := ctx.Request().Header
	return kernel.NewActor(h.Get(HeaderUserID), h.Get(HeaderUserName), h.Get(HeaderUserRole))
}
