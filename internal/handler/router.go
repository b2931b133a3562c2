package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vaultpass/passgen-go/internal/metrics"
	"github.com/vaultpass/passgen-go/internal/middleware"
)

// RouterOptions controls which routes are mounted and how they are guarded.
type RouterOptions struct {
	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
	Metrics        bool
}

// NewRouter wires the HTTP routes. History routes require an owner token
// only when the auth handler has a passphrase configured.
func NewRouter(opts RouterOptions, gen *GeneratorHandler, auth *AuthHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if opts.Metrics {
		r.Handle("/metrics", metrics.Handler())
	}

	limited := middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst)

	authEnabled := auth != nil && auth.service.Enabled()
	if authEnabled {
		// Anyone may generate, but only the owner's passwords land in history.
		r.With(limited, middleware.OptionalJWTAuth(opts.JWTSecret)).Post("/api/v1/generate", gen.HandleGenerate)
		r.With(limited).Post("/api/v1/auth/token", auth.HandleToken)
	} else {
		r.With(limited).Post("/api/v1/generate", gen.HandleGenerate)
	}

	r.Group(func(r chi.Router) {
		if authEnabled {
			r.Use(middleware.JWTAuth(opts.JWTSecret))
		}
		r.Get("/api/v1/history", gen.HandleHistory)
		r.Post("/api/v1/history", gen.HandleRecord)
	})

	return r
}
