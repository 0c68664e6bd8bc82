package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/devribero/caremind-sub000/internal/adapters/auth/accounts"
	cacheredis "github.com/devribero/caremind-sub000/internal/adapters/cache/redis"
	pg "github.com/devribero/caremind-sub000/internal/adapters/storage/postgres"
	"github.com/devribero/caremind-sub000/internal/config"
	"github.com/devribero/caremind-sub000/internal/platform/logger"
	"github.com/devribero/caremind-sub000/internal/ports/auth"
	"github.com/devribero/caremind-sub000/internal/router"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "caremind-engine")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	loc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		log.Fatal("invalid default timezone", zap.String("tz", cfg.DefaultTimezone), zap.Error(err))
	}

	var verifier auth.AuthVerifier
	if cfg.Accounts.BaseURL != "" && cfg.Accounts.APIKey != "" {
		verifier = accounts.NewVerifier(accounts.NewClient(accounts.Config{
			BaseURL: cfg.Accounts.BaseURL,
			APIKey:  cfg.Accounts.APIKey,
		}))
	} else {
		log.Warn("accounts verifier not configured, running in dev auth mode")
	}

	opts := router.Options{
		AuthVerifier:   verifier,
		ReportCacheTTL: cfg.ReportCacheTTL,
		Location:       loc,
		Logger:         log,
	}

	if cfg.DatabaseDSN != "" {
		db, err := pg.Open(cfg.DatabaseDSN)
		if err != nil {
			log.Fatal("postgres open failed", zap.Error(err))
		}
		defer func() { _ = db.Close() }()
		opts.DB = db
	} else {
		log.Warn("DB_DSN not set, using in-memory storage")
	}

	if cfg.Redis.Addr != "" {
		client := cacheredis.NewClient(cacheredis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cacheredis.Ping(ctx, client); err != nil {
			// sin cache se recomputa cada reporte; no es fatal
			log.Warn("redis unreachable, report cache disabled", zap.Error(err))
		} else {
			opts.ReportCache = cacheredis.NewKVStore(client)
		}
		cancel()
	}

	addr := ":" + cfg.HTTPPort

	srv := &http.Server{
		Addr:         addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}
}
