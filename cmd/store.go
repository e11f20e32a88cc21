package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/waterfall-cli/internal/config"
	"github.com/sells-group/waterfall-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}

	switch cfg.Store.Driver {
	case config.DriverSQLite:
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case config.DriverBolt:
		return store.NewBolt(cfg.Store.DatabaseURL)
	case config.DriverPostgres:
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns:        cfg.Store.MaxConns,
			MinConns:        cfg.Store.MinConns,
			ConnectAttempts: cfg.Store.ConnectAttempts,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// openStore opens the configured store and applies migrations.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}
