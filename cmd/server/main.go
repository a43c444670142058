package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/config"
	"github.com/mmynk/settleup/internal/ledger"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/notify"
	"github.com/mmynk/settleup/internal/storage/postgres"
	"github.com/mmynk/settleup/internal/storage/sqlite"
	"github.com/mmynk/settleup/pkg/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	pending, closePending, err := openPendingStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePending()

	mailer, err := newMailer(cfg, logger)
	if err != nil {
		return err
	}

	m := metrics.New()
	dispatcher := notify.NewDispatcher(store, mailer, notify.Config{
		Workers:   cfg.NotifyWorkers,
		QueueSize: cfg.NotifyQueue,
	}, m, logger)
	defer dispatcher.Close()

	jwtManager, err := auth.NewJWTManager(auth.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.TokenTTL,
		Issuer: cfg.JWTIssuer,
	})
	if err != nil {
		return err
	}
	authenticator := auth.NewPasswordAuthenticator(store)

	handler := newRouter(routerDeps{
		store:         store,
		engine:        ledger.NewEngine(store, ledger.WithNotifier(dispatcher), ledger.WithMetrics(m), ledger.WithLogger(logger)),
		authenticator: authenticator,
		signup:        auth.NewSignup(authenticator, pending, mailer, cfg.OTPTTL, logger),
		jwtManager:    jwtManager,
		metrics:       m,
		corsOrigins:   cfg.CORSOrigins,
		logger:        logger,
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", cfg.HTTPAddr, "storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down", "timeout", shutdownTimeout.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config) (appStore, error) {
	if cfg.StorageDriver == config.DriverPostgres {
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		slog.Info("Storage initialized", "driver", cfg.StorageDriver)
		return store, nil
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
	}
	slog.Info("Storage initialized", "driver", cfg.StorageDriver, "database", cfg.DBPath)
	return store, nil
}

func openPendingStore(ctx context.Context, cfg *config.Config) (auth.PendingStore, func(), error) {
	if cfg.RedisAddr == "" {
		slog.Info("Pending signups kept in memory")
		return auth.NewMemoryPendingStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	slog.Info("Pending signups kept in redis", "addr", cfg.RedisAddr)
	return auth.NewRedisPendingStore(client), func() { client.Close() }, nil
}

func newMailer(cfg *config.Config, logger *slog.Logger) (notify.Mailer, error) {
	if !cfg.SMTPEnabled() {
		slog.Warn("SMTP_HOST not set, mail will be logged instead of sent")
		return notify.NewLogMailer(logger), nil
	}
	return notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}
