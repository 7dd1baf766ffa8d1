package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/animelist/watchlist-api/internal/api/metrics"
	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

// Auth guards a route with a bearer token. A missing or non-Bearer
// Authorization header is a 400, a token that fails verification is a 401 and
// a verified role outside roles is a 403. With no roles any authenticated
// caller passes. The verified identity is attached to the request context.
func Auth(verifier ports.TokenVerifier, roles ...domain.Role) echo.MiddlewareFunc {
	allowed := newRoleSet(roles)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.GuardDecisionsTotal.WithLabelValues("bad_request").Inc()
				return echo.NewHTTPError(http.StatusBadRequest, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.GuardDecisionsTotal.WithLabelValues("bad_request").Inc()
				return echo.NewHTTPError(http.StatusBadRequest, "invalid authorization header")
			}

			id, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil || !id.Authenticated() {
				metrics.GuardDecisionsTotal.WithLabelValues("unauthorized").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if !allowed.permits(id.Role) {
				metrics.GuardDecisionsTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}

			metrics.GuardDecisionsTotal.WithLabelValues("allowed").Inc()
			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), id)))

			return next(c)
		}
	}
}
