// Command api serves the watch-list HTTP API.
//
// @title                       Watch-list API
// @version                     1.0
// @description                 Anime catalog and personal watch lists.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/animelist/watchlist-api/internal/api"
	"github.com/animelist/watchlist-api/internal/api/handler"
	"github.com/animelist/watchlist-api/internal/api/middleware"
	"github.com/animelist/watchlist-api/internal/core/service"
	"github.com/animelist/watchlist-api/internal/infrastructure/crypto"
	"github.com/animelist/watchlist-api/internal/infrastructure/db/mongo"
	"github.com/animelist/watchlist-api/internal/infrastructure/db/redis"
	"github.com/animelist/watchlist-api/internal/infrastructure/queue"
	"github.com/animelist/watchlist-api/internal/infrastructure/report"
	"github.com/animelist/watchlist-api/internal/infrastructure/seed"
	"github.com/animelist/watchlist-api/internal/infrastructure/token"
	"github.com/animelist/watchlist-api/internal/pkg/config"
	"github.com/animelist/watchlist-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "watchlist-api",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		IOTimeout:    cfg.Redis.IOTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongo.NewUserRepository(db)
	anime := mongo.NewAnimeRepository(db)
	lists := mongo.NewListRepository(db)
	entries := mongo.NewListEntryRepository(db)
	catalogCache := redis.NewCatalogCache(rdb, cfg.Redis.CatalogTTL)

	// --- Credentials ---
	cipher, err := crypto.NewCipher(cfg.Auth.CipherKey, cfg.Auth.CipherIV)
	if err != nil {
		return err
	}
	hasher, err := crypto.NewPasswordHasher(cfg.Auth.PasswordScheme, cfg.Auth.BcryptCost, cipher)
	if err != nil {
		return err
	}
	codec, err := token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	seeded, err := seed.NewSeeder(users, hasher, logger.Component("seed")).SeedFromFile(ctx, cfg.Auth.AdminSeedPath)
	if err != nil {
		return err
	}
	if seeded > 0 {
		log.Info().Int("users", seeded).Msg("seeded accounts")
	}

	// --- Background credential migration ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	migrator := service.NewCredentialMigrator(users, hasher, logger.Component("rehash"))
	dispatcher := queue.NewDispatcher(cfg.Rehash.Workers, migrator, logger.Component("dispatcher"))
	dispatcher.Start(workerCtx)
	defer func() {
		cancelWorkers()
		dispatcher.Wait()
	}()

	// --- HTTP ---
	authSvc := service.NewAuthService(users, hasher, codec, dispatcher, logger.Component("auth"))
	router := api.NewRouter(api.Deps{
		Log:         log,
		Tokens:      codec,
		Auth:        authSvc,
		Catalog:     service.NewCatalogService(anime, catalogCache, report.NewCatalogSheet(), logger.Component("catalog")),
		Lists:       service.NewListService(lists, entries, authSvc),
		Users:       service.NewUserPipelines(users, hasher, codec, logger.Component("users")),
		Anime:       service.NewAnimePipelines(anime, catalogCache, logger.Component("anime")),
		ListOps:     service.NewListPipelines(lists),
		ListEntries: service.NewListEntryPipelines(entries),
		AuthLimiter: middleware.NewRateLimiter(ctx, rate.Limit(cfg.Auth.RateLimit), cfg.Auth.RateBurst),
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   redis.Ping(rdb),
		},
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("http server listening")
		if err := router.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return router.Shutdown(shutdownCtx)
}
