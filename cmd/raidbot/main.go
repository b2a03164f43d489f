package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/forgo/raidsign/internal/app"
	"github.com/forgo/raidsign/internal/config"
	"github.com/forgo/raidsign/internal/discord"
	"github.com/forgo/raidsign/internal/jobs"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := cfg.RequireToken(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	if err := app.SetupLogging(cfg.Log); err != nil {
		slog.Error("failed to set up logging", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("raidbot stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("raidbot exited")
}

func run(ctx context.Context, cfg *config.Config) error {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	a, err := app.New(connectCtx, cfg, app.Options{})
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("failed to close app", slog.String("error", err.Error()))
		}
	}()

	bot, err := discord.New(discord.Config{
		Token:   cfg.Bot.Token,
		Handler: a.Dispatcher,
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(ctx)
	})
	if a.DB != nil {
		monitor := jobs.NewStoreHealthMonitor(a.DB, time.Minute)
		g.Go(func() error {
			return monitor.Run(ctx)
		})
	}

	slog.Info("starting raidbot",
		slog.String("prefix", cfg.Bot.Prefix),
		slog.String("store", cfg.Database.Driver),
		slog.String("name_policy", string(cfg.Raid.NamePolicy)),
		slog.Bool("locking", cfg.Raid.Locking),
	)
	return g.Wait()
}
