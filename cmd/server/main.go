package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/anonto42/petconnect/backend/internal/ai"
	"github.com/anonto42/petconnect/backend/internal/async"
	"github.com/anonto42/petconnect/backend/internal/metrics"
	"github.com/anonto42/petconnect/backend/internal/router"
	"github.com/anonto42/petconnect/backend/internal/services"
	"github.com/anonto42/petconnect/backend/pkg/config"
	"github.com/anonto42/petconnect/backend/pkg/firebase"
	"github.com/anonto42/petconnect/backend/pkg/logger"
	"github.com/anonto42/petconnect/backend/validators"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	// Firebase is optional in jwt mode
	var verifier services.IDTokenVerifier
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		if cfg.AuthMode == config.AuthModeFirebase {
			zl.Fatal("Failed to initialize Firebase", zap.Error(err))
		}
		zl.Warn("Firebase not initialized, Firebase login disabled", zap.Error(err))
	} else {
		verifier = firebaseApp.AuthClient
	}

	var generator ai.Generator
	if cfg.GeminiAPIKey != "" {
		generator, err = ai.NewGeminiGenerator(ctx, cfg.GeminiAPIKey)
		if err != nil {
			zl.Fatal("Failed to create model client", zap.Error(err))
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	writer := async.NewWriter(zl, m, cfg.AsyncWriteTimeout)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, zl)

	// Setup routes and dependencies
	err = router.SetupRoutes(ctx, e, router.Deps{
		Config:    cfg,
		Logger:    zl,
		Postgres:  db.Postgres,
		Mongo:     db.MongoDB,
		Verifier:  verifier,
		Generator: generator,
		Metrics:   m,
		Writer:    writer,
	})
	if err != nil {
		zl.Fatal("Failed to set up routes", zap.Error(err))
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zl.Info("Metrics listening", zap.String("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	go func() {
		zl.Info("API listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("API server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("API shutdown failed", zap.Error(err))
	}
	if err := writer.Close(shutdownCtx); err != nil {
		zl.Error("Pending writes did not finish", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("Metrics shutdown failed", zap.Error(err))
	}
}
