// Package main is the entry point for the todo service server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/avelichko/todoservice/internal/auth"
	"github.com/avelichko/todoservice/internal/config"
	"github.com/avelichko/todoservice/internal/events"
	"github.com/avelichko/todoservice/internal/server"
	"github.com/avelichko/todoservice/internal/service"
	"github.com/avelichko/todoservice/internal/store"
)

const serviceName = "todoservice"

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use a basic logger for startup errors
		basicLogger, _ := zap.NewProduction()
		basicLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Initialize logger
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		basicLogger, _ := zap.NewProduction()
		basicLogger.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("configuration loaded",
		zap.Int("server_port", cfg.ServerPort),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("shutdown_timeout", cfg.ShutdownTimeout),
		zap.Bool("metrics_enabled", cfg.MetricsEnabled),
		zap.String("auth_mode", cfg.AuthMode),
		zap.String("storage_backend", cfg.StorageBackend),
	)

	// Initialize tracing when an OTLP endpoint is configured
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := initTracer(context.Background(), cfg.OTLPEndpoint)
		if err != nil {
			logger.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(ctx); err != nil {
				logger.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	// Create authenticator based on config
	authenticator, err := createAuthenticator(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create authenticator", zap.Error(err))
	}

	// Create the item store
	itemStore, cleanup, err := createStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create store", zap.Error(err))
	}
	defer cleanup()

	// Create the event bus and item service
	bus := events.NewBus()
	svc := service.New(itemStore, bus, logger)

	// Create and start server
	srv := server.New(cfg, logger, svc, bus, authenticator)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", zap.Error(err))
		return 1
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		// Create shutdown context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		// Graceful shutdown
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			return 1
		}
	}

	logger.Info("server stopped")
	return 0
}

// initLogger initializes a zap logger with the specified log level.
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}

// initTracer configures the global OTLP trace exporter and returns a
// shutdown function.
func initTracer(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// createAuthenticator creates an authenticator based on the config auth mode.
func createAuthenticator(
	cfg *config.Config,
	logger *zap.Logger,
) (auth.Authenticator, error) {
	switch cfg.AuthMode {
	case "none", "":
		logger.Info("authentication disabled")
		return nil, nil
	case "basic":
		logger.Info("authentication mode: basic auth")
		return auth.NewBasicAuthenticator(cfg.BasicAuthUsers)
	case "apikey":
		logger.Info("authentication mode: API key")
		return auth.NewAPIKeyAuthenticator(cfg.APIKeys)
	default:
		return nil, fmt.Errorf("unknown auth mode: %s", cfg.AuthMode)
	}
}

// createStore creates the item store selected by the config. The returned
// cleanup function releases backend resources and is safe to call always.
func createStore(
	cfg *config.Config,
	logger *zap.Logger,
) (store.Store, func(), error) {
	switch cfg.StorageBackend {
	case "memory", "":
		logger.Info("storage backend: memory")
		return store.NewMemoryStore(), func() {}, nil
	case "postgres":
		logger.Info("storage backend: postgres")

		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("pinging database: %w", err)
		}

		if err := runMigrations(cfg, logger); err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		cleanup := func() {
			if err := db.Close(); err != nil {
				logger.Warn("closing database", zap.Error(err))
			}
		}
		return store.NewPostgresStore(db), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}

// runMigrations applies pending database migrations.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("closing migration source", zap.Error(srcErr))
		}
		if dbErr != nil {
			logger.Warn("closing migration database", zap.Error(dbErr))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	logger.Info("database migrations applied")
	return nil
}
