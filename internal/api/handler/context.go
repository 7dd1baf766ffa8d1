package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/animelist/watchlist-api/internal/api/metrics"
	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
	"github.com/animelist/watchlist-api/internal/core/service"
)

// callerIdentity returns the identity the Auth middleware attached to the
// request context. Its absence means the route was mounted without the guard.
func callerIdentity(c echo.Context) (*domain.Identity, error) {
	id := domain.IdentityFromContext(c.Request().Context())
	if !id.Authenticated() {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// respond renders an envelope: 200 on success, 400 when it carries an error.
func respond(c echo.Context, r domain.Result) error {
	if r.IsError {
		return c.JSON(http.StatusBadRequest, r)
	}
	return c.JSON(http.StatusOK, r)
}

// runPipeline executes one operation with a fresh pipeline and renders the
// resulting envelope.
func runPipeline[D any](c echo.Context, resource string, f ports.PipelineFactory[D], kind domain.OperationKind, in D) error {
	r := service.Run(c.Request().Context(), f.New(kind), in)

	outcome := "ok"
	if r.IsError {
		outcome = "error"
	}
	metrics.PipelineRunsTotal.WithLabelValues(resource, kind.String(), outcome).Inc()

	return respond(c, r)
}

// bindAndValidate decodes the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return id, nil
}
