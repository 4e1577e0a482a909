package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicware/clinic-backoffice/internal/api"
	mongodb "github.com/clinicware/clinic-backoffice/internal/infrastructure/db/mongo"
	redisdb "github.com/clinicware/clinic-backoffice/internal/infrastructure/db/redis"
	"github.com/clinicware/clinic-backoffice/internal/infrastructure/mail"
	"github.com/clinicware/clinic-backoffice/internal/pkg/config"
	"github.com/clinicware/clinic-backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The JWT secret is required: refuse to start without it rather than
		// fall back to a compiled-in value.
		logger.Init(logger.Options{Level: "info"})
		boot := logger.Get()
		boot.Fatal().Err(err).Msg("configuration invalid")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	mailer, err := mail.NewSMTPDispatcher(cfg.SMTP)
	if err != nil {
		log.Fatal().Err(err).Msg("smtp client failed")
	}

	e := api.NewRouter(db, rdb, mailer, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("clinic back office started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
