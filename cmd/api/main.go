package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/trenatra/auth-api/internal/api"
	redisdb "github.com/trenatra/auth-api/internal/infrastructure/db/redis"
	"github.com/trenatra/auth-api/internal/infrastructure/db/sqlite"
	"github.com/trenatra/auth-api/internal/infrastructure/sweeper"
	"github.com/trenatra/auth-api/internal/pkg/config"
	"github.com/trenatra/auth-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Trenatra API
// @version      0.1.0
// @description  Minimal authentication backend: registration, Basic-auth login, bearer session tokens.
//
// @securityDefinitions.basic  BasicAuth
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer client.Close()
		rdb = client
	}

	e := api.NewRouter(db, rdb, cfg, log)

	if cfg.Session.SweepInterval > 0 {
		sweeper.New(sqlite.NewSessionRepository(db), cfg.Session.SweepInterval, log).Start(ctx)
	}

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
