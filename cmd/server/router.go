package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/ledger"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/reports"
	"github.com/mmynk/settleup/internal/service"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/apiv1/apiv1connect"
)

// appStore is a storage backend the server can health-check.
type appStore interface {
	storage.Store
	Ping(ctx context.Context) error
}

type routerDeps struct {
	store         appStore
	engine        *ledger.Engine
	authenticator auth.Authenticator
	signup        *auth.Signup
	jwtManager    *auth.JWTManager
	metrics       *metrics.Metrics
	corsOrigins   []string
	logger        *slog.Logger
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms", "Content-Disposition"},
		MaxAge:         300,
	}))

	// Auth runs first so the logging interceptor sees the user ID.
	protected := connect.WithInterceptors(middleware.RequireAuth(d.jwtManager), middleware.LoggingInterceptor(d.metrics))
	public := connect.WithInterceptors(middleware.OptionalAuth(d.jwtManager), middleware.LoggingInterceptor(d.metrics))

	r.Mount(apiv1connect.NewLedgerServiceHandler(service.NewLedgerService(d.engine, d.store), protected))
	r.Mount(apiv1connect.NewContactServiceHandler(service.NewContactService(d.store), protected))
	r.Mount(apiv1connect.NewAuthServiceHandler(
		service.NewAuthService(d.authenticator, d.signup, d.jwtManager, d.store, d.logger), public))

	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequireAuthHTTP(d.jwtManager))
		reports.NewHandler(d.store, d.logger).Routes(r)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.store.Ping(ctx); err != nil {
			slog.Error("Health check failed", "error", err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", d.metrics.Handler())

	return r
}
