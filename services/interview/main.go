// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/mockhire/mockhire/pkg/audit"
	"github.com/mockhire/mockhire/pkg/logging"
	"github.com/mockhire/mockhire/services/interview/admin"
	"github.com/mockhire/mockhire/services/interview/config"
	"github.com/mockhire/mockhire/services/interview/engine"
	"github.com/mockhire/mockhire/services/interview/lock"
	"github.com/mockhire/mockhire/services/interview/observability"
	"github.com/mockhire/mockhire/services/interview/policy"
	"github.com/mockhire/mockhire/services/interview/questionbank"
	"github.com/mockhire/mockhire/services/interview/routes"
	"github.com/mockhire/mockhire/services/interview/store"
	"github.com/mockhire/mockhire/services/interview/supplier"
)

func initTracer(cfg config.TelemetryConfig) (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(cfg.OTLPEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(cfg.ServiceName)))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func newLogger(cfg config.LoggingConfig) *logging.Logger {
	var level logging.Level
	switch cfg.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	default:
		level = logging.LevelInfo
	}
	return logging.New(logging.Config{
		Level:   level,
		Service: "interview",
		Output:  os.Stdout,
		JSON:    cfg.Format != "text",
	})
}

func main() {
	configPath := flag.String("config", os.Getenv("MOCKHIRE_CONFIG"), "path to the service config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logWrapper := newLogger(cfg.Logging)
	defer logWrapper.Close()
	logger := logWrapper.Slog()
	slog.SetDefault(logger)

	if cfg.Telemetry.Enabled {
		cleanup, err := initTracer(cfg.Telemetry)
		if err != nil {
			log.Fatalf("failed to setup the OTLP tracer: %v", err)
		}
		defer cleanup(context.Background())
	}

	metrics := observability.InitMetrics()

	// --- Storage and the session guard ---
	var repo store.Repository
	var guard lock.Guard
	switch cfg.Storage.Backend {
	case "memory":
		repo = store.NewMemoryRepository()
		guard = lock.NewMemoryGuard()
		logger.Warn("using in-memory storage, sessions will not survive a restart")
	default:
		bcfg := store.DefaultBadgerConfig(cfg.Storage.Dir)
		bcfg.Logger = logger
		if cfg.Storage.GCInterval > 0 {
			bcfg.GCInterval = cfg.Storage.GCInterval.Std()
		}
		badgerRepo, err := store.OpenBadger(bcfg)
		if err != nil {
			log.Fatalf("failed to open session storage: %v", err)
		}
		defer badgerRepo.Close()
		repo = badgerRepo
		guard = lock.NewBadgerGuard(badgerRepo.DB(), cfg.Lock.TTL.Std())
	}

	// --- Question supply chain ---
	bank := questionbank.NewBank(repo, logger)
	var provider supplier.Provider
	if cfg.Generation.Enabled {
		apiKey := cfg.Generation.APIKey()
		if apiKey == "" {
			logger.Warn("generation enabled but no API key found, running bank-only",
				"env", cfg.Generation.APIKeyEnv)
		} else {
			p, err := supplier.NewOpenAIProvider(apiKey, cfg.Generation.RequestsPerSecond, logger)
			if err != nil {
				log.Fatalf("failed to configure the generation provider: %v", err)
			}
			provider = p
		}
	}
	sup := supplier.NewSupplier(provider, cfg.Generation.Timeout.Std(), bank, logger)

	// --- Core services ---
	policies := policy.NewStore(repo, logger)
	auditor := audit.NewSlogAuditor(logger)
	sink := &observability.MetricsSink{
		Metrics: metrics,
		Next: &observability.AuditSink{
			Auditor: auditor,
			Next:    &engine.LogSink{Logger: logger},
		},
	}
	eng := engine.New(repo, policies, sup, guard, sink, logger)
	query := admin.NewQuery(repo, logger)

	// --- HTTP surface ---
	router := gin.Default()
	if cfg.Telemetry.Enabled {
		router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	router.Use(observability.AuditMiddleware(auditor))
	routes.SetupRoutes(router, eng, policies, bank, query)

	srv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("interview service listening", "addr", cfg.Server.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
