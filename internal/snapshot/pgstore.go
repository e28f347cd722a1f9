package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	embedsql "github.com/gyeh/sutcheck/internal/sql"
)

// PGStore persists snapshots as one JSONB document per version in Postgres.
// Rows are append-only; the newest row is the active snapshot.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore wraps an existing pool; the caller owns the pool's lifecycle.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Save(ctx context.Context, doc *Document) error {
	prior, err := s.LoadMetadata(ctx)
	if err != nil && !errors.Is(err, ErrNoSnapshot) {
		return err
	}
	if err := checkDegraded(doc, prior); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.pool.Exec(ctx, embedsql.InsertSnapshot,
		doc.Version, doc.RunID, doc.CreatedAt,
		doc.Stats.EntryCount, doc.Stats.RuleCount, doc.Stats.ResolvedCrossRefs,
		data)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (s *PGStore) LoadLatest(ctx context.Context) (*Document, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, embedsql.LatestSnapshot).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &doc, nil
}

func (s *PGStore) LoadMetadata(ctx context.Context) (*Metadata, error) {
	var meta Metadata
	err := s.pool.QueryRow(ctx, embedsql.LatestSnapshotMeta).Scan(
		&meta.Version, &meta.RunID, &meta.CreatedAt,
		&meta.Stats.EntryCount, &meta.Stats.RuleCount, &meta.Stats.ResolvedCrossRefs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot metadata: %w", err)
	}
	return &meta, nil
}
