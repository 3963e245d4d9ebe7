package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerport/ledgerport/internal/table"
)

// PostgresStore persists sheets in a single table, one row per sheet
// with cells as JSONB.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pool. The caller owns pool
// configuration; Close releases it.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the sheets table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sheets (
    name        TEXT PRIMARY KEY,
    source_file TEXT NOT NULL DEFAULT '',
    row_count   INTEGER NOT NULL,
    col_count   INTEGER NOT NULL,
    cells       JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveSheet(ctx context.Context, name, sourceFile string, tbl *table.Table) (SheetMeta, error) {
	cells, err := encodeTable(tbl)
	if err != nil {
		return SheetMeta{}, fmt.Errorf("save sheet %s: %w", name, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return SheetMeta{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	meta := SheetMeta{
		Name:       name,
		SourceFile: sourceFile,
		Rows:       tbl.RowCount(),
		Columns:    tbl.Width(),
	}
	err = tx.QueryRow(ctx, `
INSERT INTO sheets (name, source_file, row_count, col_count, cells)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (name) DO UPDATE SET
    source_file = EXCLUDED.source_file,
    row_count   = EXCLUDED.row_count,
    col_count   = EXCLUDED.col_count,
    cells       = EXCLUDED.cells,
    updated_at  = now()
RETURNING created_at, updated_at`,
		name, sourceFile, meta.Rows, meta.Columns, cells,
	).Scan(&meta.CreatedAt, &meta.UpdatedAt)
	if err != nil {
		return SheetMeta{}, fmt.Errorf("save sheet %s: %w", name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return SheetMeta{}, fmt.Errorf("commit: %w", err)
	}
	return meta, nil
}

func (s *PostgresStore) Sheet(ctx context.Context, name string) (*Sheet, error) {
	var (
		meta  SheetMeta
		cells []byte
	)
	err := s.pool.QueryRow(ctx, `
SELECT name, source_file, row_count, col_count, cells, created_at, updated_at
FROM sheets WHERE name = $1`, name,
	).Scan(&meta.Name, &meta.SourceFile, &meta.Rows, &meta.Columns, &cells, &meta.CreatedAt, &meta.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSheetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load sheet %s: %w", name, err)
	}

	tbl, err := decodeTable(cells)
	if err != nil {
		return nil, fmt.Errorf("load sheet %s: %w", name, err)
	}
	return &Sheet{Meta: meta, Table: tbl}, nil
}

func (s *PostgresStore) ListSheets(ctx context.Context) ([]SheetMeta, error) {
	rows, err := s.pool.Query(ctx, `
SELECT name, source_file, row_count, col_count, created_at, updated_at
FROM sheets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	defer rows.Close()

	var metas []SheetMeta
	for rows.Next() {
		var meta SheetMeta
		if err := rows.Scan(&meta.Name, &meta.SourceFile, &meta.Rows, &meta.Columns, &meta.CreatedAt, &meta.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list sheets: %w", err)
		}
		metas = append(metas, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	return metas, nil
}

func (s *PostgresStore) DeleteSheet(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sheets WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete sheet %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSheetNotFound
	}
	return nil
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE sheets`); err != nil {
		return fmt.Errorf("reset sheets: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
