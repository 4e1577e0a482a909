package middleware

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
)

// Rule grants a path prefix to a set of roles. An empty role set means any
// authenticated principal.
type Rule struct {
	Prefix string
	Roles  []domain.Role
}

// Policy is a static route authorization table. It is built once at startup
// and only read afterwards, so it is safe for concurrent use without locking.
// The most specific (longest) matching prefix wins; paths with no matching
// rule fall back to "any authenticated principal", mirroring a catch-all
// authenticated tier.
type Policy struct {
	rules []Rule
}

func NewPolicy(rules ...Rule) *Policy {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &Policy{rules: sorted}
}

// RolesFor returns the role set required for path. nil means any
// authenticated role is acceptable.
func (p *Policy) RolesFor(path string) []domain.Role {
	for _, r := range p.rules {
		if path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/") {
			return r.Roles
		}
	}
	return nil
}

// Middleware enforces the policy against the principal the gate attached.
// It runs after Gate: a missing principal on a protected route means the gate
// was bypassed, which is treated as unauthenticated, while a role mismatch is
// a distinct forbidden response so clients can tell "log in again" from
// "you lack permission".
func (p *Policy) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if isPublic(path) {
				return next(c)
			}

			principal := PrincipalFrom(c)
			if principal == nil {
				return errUnauthenticated
			}

			required := p.RolesFor(path)
			if len(required) == 0 {
				return next(c)
			}
			for _, role := range required {
				if principal.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
		}
	}
}
