package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	httpapi "ddinvest/internal/http"
	"ddinvest/internal/identity"
	"ddinvest/internal/platform/config"
	"ddinvest/internal/platform/httpserver"
	"ddinvest/internal/platform/logger"
	"ddinvest/internal/platform/metrics"
	"ddinvest/internal/platform/redis"
	"ddinvest/internal/platform/tracing"
	"ddinvest/internal/ratelimit"
	regHandler "ddinvest/internal/registration/handler"
	regMetrics "ddinvest/internal/registration/metrics"
	regService "ddinvest/internal/registration/service"
	regStore "ddinvest/internal/registration/store"
	sessionHandler "ddinvest/internal/session/handler"
	sessionService "ddinvest/internal/session/service"
	sessionStore "ddinvest/internal/session/store"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	idClient, err := identity.New(cfg.Identity.BaseURL,
		identity.WithHTTPClient(&http.Client{Timeout: cfg.Identity.Timeout}),
		identity.WithLogger(log),
		identity.WithMetrics(identity.NewMetrics(reg)),
	)
	if err != nil {
		return err
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var store sessionService.Store = sessionStore.NewInMemory()
	health := func(context.Context) error { return nil }
	if rc != nil {
		defer rc.Close()
		store = sessionStore.NewRedis(rc.Client)
		health = rc.Health
		log.Info("sessions stored in redis")
	}

	sessions, err := sessionService.New(store, idClient,
		sessionService.WithLogger(log),
		sessionService.WithTTL(cfg.Session.TTL),
	)
	if err != nil {
		return err
	}

	registrations, err := regService.New(regStore.NewInMemoryRegistry(), idClient,
		regService.WithLogger(log),
		regService.WithMetrics(regMetrics.New(reg)),
		regService.WithSessionChecker(sessions),
	)
	if err != nil {
		return err
	}

	limitStore := ratelimit.NewInMemoryStore()
	limiter := ratelimit.New(limitStore,
		map[ratelimit.Class]ratelimit.Limit{
			ratelimit.ClassIdentity: {Requests: cfg.RateLimit.Identity, Window: cfg.RateLimit.Window},
			ratelimit.ClassLogin:    {Requests: cfg.RateLimit.Login, Window: cfg.RateLimit.Window},
		},
		ratelimit.WithLogger(log),
		ratelimit.WithMetrics(ratelimit.NewMetrics(reg)),
		ratelimit.WithDisabled(cfg.RateLimit.Disabled),
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:   log,
		Gatherer: reg,
		Metrics:  metrics.NewHTTP(reg),
		Health:   health,
		Routes: []httpapi.Registrar{
			regHandler.New(registrations, log,
				regHandler.WithIdentityLimit(limiter.Limit(ratelimit.ClassIdentity))),
			sessionHandler.New(sessions, log, cfg.Session.SecureCookie,
				sessionHandler.WithLoginLimit(limiter.Limit(ratelimit.ClassLogin))),
		},
	})
	srv := httpserver.New(cfg.Server.Addr, router, cfg.Identity.Timeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting bff", "addr", cfg.Server.Addr, "identity", cfg.Identity.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		sweep(gctx, registrations, cfg.Registration, func() { limitStore.Sweep(cfg.RateLimit.Window) })
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// sweep discards idle registrations and stale rate-limit windows until ctx
// ends.
func sweep(ctx context.Context, registrations *regService.Service, cfg config.Registration, also func()) {
	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			registrations.Sweep(ctx, cfg.IdleTTL)
			also()
		}
	}
}
