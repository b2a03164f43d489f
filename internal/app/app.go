// Package app assembles the raid bot's components from configuration. Both
// binaries build the same store, service and dispatcher through New.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/forgo/raidsign/internal/config"
	"github.com/forgo/raidsign/internal/database"
	"github.com/forgo/raidsign/internal/handler"
	"github.com/forgo/raidsign/internal/middleware"
	"github.com/forgo/raidsign/internal/repository"
	"github.com/forgo/raidsign/internal/service"
	"github.com/forgo/raidsign/migrations"
)

// App holds the wired components
type App struct {
	Config     *config.Config
	DB         database.Database // nil with the memory driver
	Store      database.DocumentStore
	Repo       *repository.RaidRepository
	Raids      *service.RaidService
	Dispatcher *handler.Dispatcher

	limiter *middleware.RateLimiter
	seen    *middleware.IdempotencyStore
}

// Options adjust how New wires the app
type Options struct {
	// DB replaces the SurrealDB connection built from config
	DB database.Database
	// SkipMigrations leaves the schema untouched
	SkipMigrations bool
}

// New connects the store and builds the command pipeline
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{Config: cfg}

	if err := a.openStore(ctx, opts); err != nil {
		return nil, err
	}

	a.Repo = repository.NewRaidRepository(a.Store, repository.DeletePolicy{
		ChunkSize:   cfg.Raid.DeleteChunkSize,
		MaxAttempts: cfg.Raid.DeleteMaxAttempts,
		Concurrency: cfg.Raid.DeleteConcurrency,
	})
	a.Raids = service.NewRaidService(service.RaidServiceConfig{
		Repo:        a.Repo,
		Roster:      service.NewRosterAggregator(cfg.Raid.UnknownRolePolicy),
		NamePolicy:  cfg.Raid.NamePolicy,
		Locking:     cfg.Raid.Locking,
		Concurrency: cfg.Raid.DeleteConcurrency,
	})

	chain := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.GuildAccess(cfg.Bot.AllowedGuilds),
	}
	if cfg.Bot.DedupeTTL > 0 {
		a.seen = middleware.NewIdempotencyStore(middleware.IdempotencyConfig{TTL: cfg.Bot.DedupeTTL})
		chain = append(chain, middleware.Idempotency(a.seen))
	}
	if cfg.RateLimit.Enabled {
		a.limiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			Rate:   cfg.RateLimit.Rate,
			Window: cfg.RateLimit.Window,
			Burst:  cfg.RateLimit.Burst,
		})
		chain = append(chain, middleware.RateLimit(a.limiter))
	}
	chain = append(chain, middleware.Timeout(cfg.Bot.CommandTimeout))

	a.Dispatcher = handler.NewDispatcher(handler.DispatcherConfig{
		Raids:      a.Raids,
		Prefix:     cfg.Bot.Prefix,
		Middleware: chain,
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context, opts Options) error {
	if a.Config.IsMemory() {
		a.Store = database.NewMemoryStore()
		slog.Warn("using in-memory raid store; raids are lost on exit")
		return nil
	}

	db := opts.DB
	if db == nil {
		db = database.NewSurrealDB(database.Config{
			Host:      a.Config.Database.Host,
			Port:      a.Config.Database.Port,
			User:      a.Config.Database.User,
			Password:  a.Config.Database.Password,
			Namespace: a.Config.Database.Namespace,
			Database:  a.Config.Database.Database,
		})
		if err := db.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		slog.Info("connected to database",
			slog.String("host", a.Config.Database.Host),
			slog.String("database", a.Config.Database.Database),
		)
	}

	if !opts.SkipMigrations {
		applied, err := migrations.Apply(ctx, db)
		if err != nil {
			_ = db.Close()
			return err
		}
		slog.Info("schema up to date", slog.Int("migrations", len(applied)))
	}

	a.DB = db
	a.Store = database.NewSurrealStore(db)
	return nil
}

// Close stops background work and releases the store connection
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.seen != nil {
		a.seen.Stop()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// SetupLogging installs the default slog logger described by cfg
func SetupLogging(cfg config.LogConfig) error {
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch cfg.Format {
	case "json":
		h = slog.NewJSONHandler(os.Stdout, opts)
	case "text":
		h = slog.NewTextHandler(os.Stderr, opts)
	default:
		return errors.New("LOG_FORMAT must be 'json' or 'text'")
	}
	slog.SetDefault(slog.New(h))
	return nil
}
