package ledger

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const receiptsSchema = `
CREATE TABLE IF NOT EXISTS receipts (
    seq  BIGSERIAL PRIMARY KEY,
    line TEXT NOT NULL
)`

// PostgresStore keeps the ledger in a receipts table, one line per row,
// ordered by an append sequence. The database enforces the append ordering
// that the file store gets from O_APPEND.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgresStore connects a pgx pool and ensures the receipts table exists.
func NewPostgresStore(ctx context.Context, dsn string, maxConns, minConns int, logger *log.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres store: parse dsn: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	if minConns > 0 {
		poolCfg.MinConns = int32(minConns)
	}

	pool, err := pgxpool.ConnectConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres store: connect: %w", err)
	}

	store := &PostgresStore{pool: pool, logger: logger}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Printf("Postgres ledger store ready (max_conns=%d, min_conns=%d)", poolCfg.MaxConns, poolCfg.MinConns)
	return store, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, receiptsSchema); err != nil {
		return fmt.Errorf("postgres store: ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, line []byte) error {
	if _, err := s.pool.Exec(ctx, `INSERT INTO receipts (line) VALUES ($1)`, string(line)); err != nil {
		return fmt.Errorf("postgres store: append: %w", err)
	}
	return nil
}

func (s *PostgresStore) Iterate(ctx context.Context) (Iterator, error) {
	rows, err := s.pool.Query(ctx, `SELECT line FROM receipts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("postgres store: query: %w", err)
	}
	return &pgIterator{ctx: ctx, rows: rows}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

type pgIterator struct {
	ctx  context.Context
	rows pgx.Rows
	err  error
}

func (it *pgIterator) Next() ([]byte, bool) {
	if err := it.ctx.Err(); err != nil {
		it.err = err
		it.rows.Close()
		return nil, false
	}
	if !it.rows.Next() {
		it.err = it.rows.Err()
		return nil, false
	}
	var line string
	if err := it.rows.Scan(&line); err != nil {
		it.err = err
		return nil, false
	}
	return []byte(line), true
}

func (it *pgIterator) Err() error { return it.err }

func (it *pgIterator) Close() error {
	it.rows.Close()
	return nil
}

var _ Store = (*PostgresStore)(nil)
