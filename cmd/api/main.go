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

	"github.com/geocoder89/worklog/internal/auth"
	"github.com/geocoder89/worklog/internal/config"
	httpx "github.com/geocoder89/worklog/internal/http"
	"github.com/geocoder89/worklog/internal/http/handlers"
	"github.com/geocoder89/worklog/internal/observability"
	"github.com/geocoder89/worklog/internal/ratelimit"
	"github.com/geocoder89/worklog/internal/redisclient"
	"github.com/geocoder89/worklog/internal/security"
	"github.com/geocoder89/worklog/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.InstallLogger(cfg.Env)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, "worklog-api", cfg.OTelEndpoint)
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	prom := observability.NewProm(prometheus.DefaultRegisterer)

	st, err := store.Open(ctx, cfg, prom, log)
	if err != nil {
		log.Error("store init failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL())
	if err != nil {
		log.Error("token manager init failed", "err", err)
		os.Exit(1)
	}

	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	if created, err := store.EnsureSeedUser(ctx, st.Users, hasher, cfg.SeedEmail, cfg.SeedPassword); err != nil {
		log.Error("seed user failed", "err", err)
	} else if created {
		log.Info("seed user created", "email", cfg.SeedEmail)
	}

	ready := map[string]handlers.Pinger{"store": st}

	// auth rate limiting is shared through redis when configured
	var limiter ratelimit.Limiter = ratelimit.NewMemory(cfg.AuthRateLimit, cfg.AuthRateWindow())
	var rdb *redisclient.Client
	if cfg.RedisAddr != "" {
		rdb = redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable at startup, limiter fails open until it recovers", "err", err)
		}
		cancel()

		limiter = ratelimit.NewRedis(rdb.Raw(), "worklog:ratelimit:", cfg.AuthRateLimit, cfg.AuthRateWindow())
		ready["redis"] = rdb
	}

	// set up routers with the log
	router := httpx.NewRouter(log, httpx.Deps{
		Config:    cfg,
		Users:     st.Users,
		Workouts:  st.Workouts,
		Templates: st.Templates,
		Tokens:    tokens,
		Hasher:    hasher,
		Limiter:   limiter,
		Prom:      prom,
		Ready:     ready,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", st.Driver)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if rdb != nil {
			if err := rdb.Close(); err != nil {
				log.Error("redis close failed", "err", err)
			}
		}

		if err := st.Close(ctx); err != nil {
			log.Error("store close failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
