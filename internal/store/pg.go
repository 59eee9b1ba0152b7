package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hjmartin/autobidder/internal/config"
	"github.com/hjmartin/autobidder/internal/model"
)

// PGStore persists items in a PostgreSQL items table.
type PGStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// ConnectPG creates a connection pool and verifies it.
func ConnectPG(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*PGStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	poolCfg, err := pgxpool.ParseConfig(ConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("item store connected", "host", cfg.Host, "database", cfg.Name)
	return &PGStore{pool: pool, logger: logger}, nil
}

// LoadItems reads the full candidate list.
func (s *PGStore) LoadItems(ctx context.Context) ([]*model.Item, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, buy, sell, bin FROM items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []*model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Buy, &it.Sell, &it.Bin); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	return items, nil
}

// SaveItems upserts the full candidate list in one batch.
func (s *PGStore) SaveItems(ctx context.Context, items []*model.Item) error {
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`
			INSERT INTO items (id, name, buy, sell, bin)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name,
			    buy  = EXCLUDED.buy,
			    sell = EXCLUDED.sell,
			    bin  = EXCLUDED.bin
		`, it.ID, it.Name, it.Buy, it.Sell, it.Bin)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert item: %w", err)
		}
	}

	s.logger.Debug("items saved", "count", len(items))
	return nil
}

// Ping verifies the connection is healthy.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PGStore) Close() {
	s.pool.Close()
}
