package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vaultpass/passgen-go/internal/config"
	"github.com/vaultpass/passgen-go/internal/handler"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := repository.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		slog.Error("opening history storage failed", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}

	history := service.NewHistoryService(store, cfg.HistoryLimit)
	history.Load(context.Background())

	genService := service.NewGeneratorService(history, cfg.DefaultLength, cfg.MaxLength)
	authService := service.NewAuthService(cfg.OwnerPassphraseHash, cfg.JWTSecret, cfg.JWTExpiry)
	if !authService.Enabled() {
		slog.Warn("OWNER_PASSPHRASE_HASH not set, history routes are unauthenticated")
	}

	r := handler.NewRouter(handler.RouterOptions{
		JWTSecret:      cfg.JWTSecret,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Metrics:        cfg.Metrics,
	}, handler.NewGeneratorHandler(genService), handler.NewAuthHandler(authService))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.Storage, "history_limit", history.Limit())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
