package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clinicware/clinic-backoffice/internal/api/metrics"
	"github.com/clinicware/clinic-backoffice/internal/core/domain"
	"github.com/clinicware/clinic-backoffice/internal/core/ports"
)

// principalKey is the echo context key the gate stores the Principal under.
const principalKey = "principal"

// publicPaths are reachable without a token. Everything else goes through the
// gate and then the route policy.
var publicPaths = []string{
	"/login",
	"/register",
	"/api/forgot-password",
	"/api/reset-password",
	"/health",
	"/metrics",
}

func isPublic(path string) bool {
	for _, p := range publicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// errUnauthenticated is the single response for every gate failure. Which part
// of the token was wrong is never disclosed to the caller.
var errUnauthenticated = echo.NewHTTPError(http.StatusUnauthorized, "authentication required")

// Gate extracts and validates the bearer token on every non-public request
// and attaches the resulting Principal to the request context. It performs no
// persistence I/O.
func Gate(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isPublic(c.Request().URL.Path) {
				return next(c)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return errUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return errUnauthenticated
			}

			principal, err := tokens.Validate(parts[1])
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				return errUnauthenticated
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom returns the authenticated principal the gate attached, or nil
// on a public route.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "bad_signature"
	default:
		return "malformed"
	}
}
