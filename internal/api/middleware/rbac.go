package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/animelist/watchlist-api/internal/core/domain"
)

type roleSet map[domain.Role]struct{}

func newRoleSet(roles []domain.Role) roleSet {
	allowed := make(roleSet, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return allowed
}

// permits reports whether role is allowed. An empty set allows every role.
func (s roleSet) permits(role domain.Role) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[role]
	return ok
}

// RBAC narrows a group already behind Auth to the given roles. It reads the
// identity Auth attached to the request context.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := newRoleSet(allowedRoles)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := domain.IdentityFromContext(c.Request().Context())
			if !id.Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
			}
			if !allowed.permits(id.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
