package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/animelist/watchlist-api/docs"
	"github.com/animelist/watchlist-api/internal/api/handler"
	"github.com/animelist/watchlist-api/internal/api/middleware"
	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
	"github.com/animelist/watchlist-api/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Log zerolog.Logger

	Tokens  ports.TokenVerifier
	Auth    ports.AuthService
	Catalog ports.CatalogService
	Lists   ports.ListService

	Users       ports.PipelineFactory[ports.UserInput]
	Anime       ports.PipelineFactory[ports.AnimeInput]
	ListOps     ports.PipelineFactory[ports.ListInput]
	ListEntries ports.PipelineFactory[ports.ListEntryInput]

	// AuthLimiter throttles sign-up and sign-in. Nil disables throttling.
	AuthLimiter *middleware.RateLimiter

	// Checks are the readiness probes, keyed by dependency name.
	Checks map[string]handler.Check

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(logger.Requests(d.Log, "/health", "/health/ready", "/metrics"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "watchlist",
		Registerer: d.Registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Users)
	animeHandler := handler.NewAnimeHandler(d.Catalog, d.Anime)
	listHandler := handler.NewListHandler(d.Lists, d.ListOps, d.ListEntries)

	authenticated := middleware.Auth(d.Tokens)
	throttle := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if d.AuthLimiter != nil {
		throttle = d.AuthLimiter.Middleware()
	}

	api := e.Group("/api")

	// --- Account routes ---
	login := api.Group("/login")
	login.POST("/signup", authHandler.SignUp, throttle)
	login.POST("/signin", authHandler.SignIn, throttle)
	login.PUT("/user", authHandler.UpdateUser, authenticated)
	login.DELETE("/user/:id", authHandler.DeleteUser, authenticated)
	login.GET("/check", authHandler.Check, middleware.Auth(d.Tokens, domain.RoleUser, domain.RoleAdmin))

	// --- Catalog routes: reads are public, writes need an admin token ---
	anime := api.Group("/anime")
	anime.GET("", animeHandler.List)
	anime.GET("/sheet", animeHandler.Sheet)
	anime.GET("/search/:prefix", animeHandler.Search)
	anime.GET("/:id", animeHandler.Get)

	adminOnly := []echo.MiddlewareFunc{authenticated, middleware.RBAC(domain.RoleAdmin)}
	anime.POST("", animeHandler.Create, adminOnly...)
	anime.PUT("", animeHandler.Update, adminOnly...)
	anime.DELETE("/:id", animeHandler.Delete, adminOnly...)

	// --- List routes ---
	lists := api.Group("/lists", authenticated)
	lists.POST("", listHandler.Create)
	lists.GET("", listHandler.ByUser)
	lists.DELETE("/:id", listHandler.Delete)

	entries := api.Group("/list-animes", authenticated)
	entries.GET("/:id", listHandler.Entries)
	entries.POST("", listHandler.AddEntry)
	entries.PUT("/status", listHandler.UpdateStatus)
	entries.DELETE("", listHandler.RemoveEntry)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
