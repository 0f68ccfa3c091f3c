package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/httpx"
)

const readyTimeout = 500 * time.Millisecond

// newRouter wires the book routes, health probes and middleware chain.
// ctx bounds background work started by middleware.
func newRouter(ctx context.Context, cfg config.Config, logger *slog.Logger, repo book.Repository, ping func(context.Context) error) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := ping(pingCtx); err != nil {
			httpx.JSONError(w, http.StatusServiceUnavailable, "db not ready")
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	book.NewHTTPHandler(book.NewService(repo), logger).Register(router)

	limiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(httpx.ParseOrigins(cfg.CORSAllowedOrigins)),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)
}
