package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicware/clinic-backoffice/internal/api/middleware"
	"github.com/clinicware/clinic-backoffice/internal/core/domain"
)

// ctxPrincipal extracts the principal the request gate attached. Its presence
// proves the gate ran; handlers on protected routes treat absence as a
// misconfiguration and reject rather than proceed anonymously.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return p, nil
}
