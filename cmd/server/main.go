package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	convertapp "github.com/lrcatalog/mapper/internal/application/convert"
	mappingapp "github.com/lrcatalog/mapper/internal/application/mapping"
	"github.com/lrcatalog/mapper/internal/infrastructure/config"
	"github.com/lrcatalog/mapper/internal/infrastructure/logger"
	"github.com/lrcatalog/mapper/internal/infrastructure/persistence"
	"github.com/lrcatalog/mapper/internal/infrastructure/telemetry"
	"github.com/lrcatalog/mapper/internal/interfaces/http/handler"
	"github.com/lrcatalog/mapper/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting catalog mapper",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Telemetry
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	loggerProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := loggerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	// Entries from here on are also exported over OTLP
	log = loggerProvider.Attach(log)

	conversionMetrics, err := telemetry.NewConversionMetrics(meterProvider.Meter("catalog-mapper/convert"))
	if err != nil {
		log.Fatal("Failed to register conversion metrics", zap.Error(err))
	}

	// Mapping store
	repo, closeRepo, err := persistence.NewMappingRepositoryFactory(cfg, persistence.WithLogger(log)).Create()
	if err != nil {
		log.Fatal("Failed to create mapping repository", zap.Error(err))
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Error("Error closing mapping repository", zap.Error(err))
		}
	}()

	mappingService := mappingapp.NewService(repo, mappingapp.WithLogger(log.Named("mapping")))
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	err = mappingService.Init(initCtx)
	cancelInit()
	if err != nil {
		// A corrupt store is surfaced instead of silently serving the default
		log.Fatal("Failed to load mapping configuration", zap.Error(err))
	}

	convertService := convertapp.NewService(mappingService,
		convertapp.WithLogger(log.Named("convert")),
		convertapp.WithWorkers(cfg.Convert.Workers),
		convertapp.WithMaxFileSize(cfg.Convert.MaxFileSize),
		convertapp.WithMetrics(conversionMetrics),
	)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engineCfg := router.EngineConfig{
		MaxBodySize:       cfg.HTTP.MaxBodySize,
		TrustedProxies:    cfg.HTTP.TrustedProxies,
		ConvertRateLimit:  cfg.HTTP.ConvertRateLimit,
		ConvertRateWindow: cfg.HTTP.ConvertRateWindow,
	}
	if tracerProvider.IsEnabled() {
		engineCfg.ServiceName = cfg.App.Name
	}
	if meterProvider.IsEnabled() {
		engineCfg.Meter = meterProvider.Meter("http.server")
	}

	engine, err := router.NewEngine(log, engineCfg, router.Handlers{
		Mapping: handler.NewMappingHandler(mappingService),
		Convert: handler.NewConvertHandler(convertService, handler.WithProceedAnyway(cfg.Convert.ProceedAnyway)),
		System:  handler.NewSystemHandler(cfg.App.Name, version, cfg.Mapping.Backend, mappingService),
	})
	if err != nil {
		log.Fatal("Failed to configure HTTP engine", zap.Error(err))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
