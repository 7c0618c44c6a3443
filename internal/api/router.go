package api

import (
	"database/sql"
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/trenatra/auth-api/docs"
	"github.com/trenatra/auth-api/internal/api/handler"
	"github.com/trenatra/auth-api/internal/api/middleware"
	"github.com/trenatra/auth-api/internal/core/service"
	redisdb "github.com/trenatra/auth-api/internal/infrastructure/db/redis"
	"github.com/trenatra/auth-api/internal/infrastructure/db/sqlite"
	"github.com/trenatra/auth-api/internal/pkg/config"
)

var (
	promOnce       sync.Once
	promMiddleware echo.MiddlewareFunc
	promHandler    echo.HandlerFunc
)

// prometheusOnce builds the echoprometheus middleware and scrape handler a
// single time per process. Registration with the default registry is not
// idempotent, and routers are constructed more than once in tests.
func prometheusOnce() (echo.MiddlewareFunc, echo.HandlerFunc) {
	promOnce.Do(func() {
		promMiddleware = echoprometheus.NewMiddleware("trenatra")
		promHandler = echoprometheus.NewHandler()
	})
	return promMiddleware, promHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil; the token cache is skipped then.
func NewRouter(db *sql.DB, rdb *goredis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())

	metricsMiddleware, metricsHandler := prometheusOnce()
	e.Use(metricsMiddleware)

	// --- Dependencies ---
	userRepo := sqlite.NewUserRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)

	var cache service.TokenCache
	if rdb != nil {
		cache = redisdb.NewSessionCache(rdb, cfg.Redis.CacheTTL)
	}

	credentials := service.NewCredentialService(userRepo)
	sessions := service.NewSessionService(sessionRepo, userRepo, cache, cfg.Session.TTL, log)
	authHandler := handler.NewAuthHandler(credentials, sessions)

	// --- Auth routes ---
	e.GET("/", handler.Welcome)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login, middleware.BasicAuth(credentials))
	e.GET("/auth/me", authHandler.Me, middleware.BearerAuth(sessions))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", metricsHandler)
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
