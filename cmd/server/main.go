// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tenantadmin/internal/auth"
	"tenantadmin/internal/platform/config"
	"tenantadmin/internal/platform/health"
	"tenantadmin/internal/platform/httpserver"
	"tenantadmin/internal/platform/logger"
	"tenantadmin/internal/platform/mongodb"
	"tenantadmin/internal/tenant/handler"
	tenantmetrics "tenantadmin/internal/tenant/metrics"
	"tenantadmin/internal/tenant/service"
	"tenantadmin/internal/tenant/store"
	"tenantadmin/pkg/platform/httputil"
	"tenantadmin/pkg/platform/middleware/request"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment)
	httputil.Development = cfg.Development()

	log.Info("initializing tenant admin api",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"mongo_database", cfg.MongoDatabase,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoTimeout)
	mongoCfg := mongodb.DefaultConfig()
	mongoCfg.URI = cfg.MongoURI
	mongoCfg.Database = cfg.MongoDatabase
	mongoCfg.ConnectTimeout = cfg.MongoTimeout

	db, err := mongodb.Connect(ctx, mongoCfg)
	cancel()
	if err != nil {
		log.Error("mongodb connection failed", "error", err)
		os.Exit(1)
	}

	tenants := store.NewMongo(db.Database())
	if err := tenants.EnsureIndexes(context.Background()); err != nil {
		log.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	svc := service.New(tenants, log, service.WithMetrics(tenantmetrics.New()))
	tokens := auth.NewJWTService(cfg.JWTSigningKey)

	router := chi.NewRouter()
	router.Use(request.RequestID)
	router.Use(request.Recovery(log))
	router.Use(request.Logger(log))
	router.Use(request.LatencyMiddleware(request.NewMetrics()))
	router.Use(request.Timeout(cfg.RequestTimeout))
	router.Use(request.ContentTypeJSON)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("mongodb", db.Health)
	healthHandler.Register(router)

	router.Handle("/metrics", promhttp.Handler())

	handler.New(svc, tokens, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if err := db.Close(shutdownCtx); err != nil {
		log.Error("mongodb disconnect failed", "error", err)
	}

	log.Info("server stopped")
}
