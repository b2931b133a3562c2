package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/vaultpass/passgen-go/internal/cli"
	"github.com/vaultpass/passgen-go/internal/config"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/service"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	// A missing .env is normal for the CLI.
	_ = godotenv.Load()

	// Keep stdout for passwords; diagnostics go to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()

	store, err := repository.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	history := service.NewHistoryService(store, cfg.HistoryLimit)
	history.Load(ctx)

	cmd := cli.NewRootCommand(cli.Deps{
		In:            os.Stdin,
		Out:           os.Stdout,
		History:       history,
		DefaultLength: cfg.DefaultLength,
		Build:         cli.BuildInfo{Version: version, Commit: commit, BuildTime: buildTime},
	})
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", cli.Message(err))
		os.Exit(1)
	}
}
