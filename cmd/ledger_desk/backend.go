package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_desk/internal/adapters/restapi"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_desk/internal/platform/config"
	"github.com/SscSPs/ledger_desk/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_desk/internal/session"
	"github.com/SscSPs/ledger_desk/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
)

// backend is the persistence the desk runs against. pool is nil for the REST
// backend.
type backend struct {
	repos portsrepo.RepositoryProvider
	pool  *pgxpool.Pool
}

func (b *backend) Close() {
	if b.pool != nil {
		database.ClosePgxPool(b.pool)
	}
}

// openBackend connects the configured storage backend. With migrate set the
// pgsql schema is brought up to date first.
func (app *cli) openBackend(ctx context.Context, migrate bool) (*backend, error) {
	cfg := app.cfg
	switch cfg.StorageBackend {
	case config.StoragePgSQL:
		if migrate {
			app.logger.Info("Running database migrations...")
			if err := pgsql.RunMigrations(cfg.DatabaseURL, pgsql.MigrateUp, app.logger); err != nil {
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		repos := pgsql.NewRepositoryProvider(pool, pgsql.TokenConfig{
			Secret: cfg.JWTSecret,
			Issuer: cfg.JWTIssuer,
			TTL:    cfg.JWTExpiryDuration,
		})
		return &backend{repos: repos, pool: pool}, nil
	default:
		app.logger.Info("Using REST persistence backend", slog.String("upstream", cfg.UpstreamAPIURL))
		client := restapi.NewClient(cfg.UpstreamAPIURL, cfg.UpstreamTimeout)
		return &backend{repos: restapi.NewRepositoryProvider(client)}, nil
	}
}

// openSessionStore returns the Redis store when REDIS_URL is set and an
// in-memory store otherwise. The returned func releases the store.
func (app *cli) openSessionStore(ctx context.Context) (portsrepo.SessionStore, func(), error) {
	if app.cfg.RedisURL == "" {
		return session.NewMemoryStore(), func() {}, nil
	}
	client, err := session.NewRedisClient(ctx, app.cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			app.logger.Error("Error closing redis client", slog.String("error", err.Error()))
		}
	}
	return session.NewRedisStore(client), closeFn, nil
}
