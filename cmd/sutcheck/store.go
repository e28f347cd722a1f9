package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gyeh/sutcheck/internal/db"
	"github.com/gyeh/sutcheck/internal/snapshot"
)

// openStore picks the Postgres store when a DSN is configured, else the file
// store. The returned cleanup func releases the connection pool when present.
func openStore(ctx context.Context, log zerolog.Logger) (snapshot.Store, func(), error) {
	if cfg.DSN != "" {
		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			return nil, nil, err
		}
		return snapshot.NewPGStore(pool), pool.Close, nil
	}
	store, err := snapshot.NewFileStore(cfg.SnapshotDir)
	if err != nil {
		log.Error().Err(err).Msg("snapshot directory not usable")
		return nil, nil, err
	}
	return store, func() {}, nil
}
