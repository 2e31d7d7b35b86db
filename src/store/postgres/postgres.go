// Package postgres implements ledger.Store on PostgreSQL via pgx. Every
// operation runs in a single database transaction (plain statements are
// already atomic; the multi-step draft promotion uses an explicit pgx.Tx)
// and is retried a bounded number of times on transient contention before
// surfacing StoreBusyError.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "embed"

	"github.com/LerianStudio/lib-uncommons/v2/uncommons/backoff"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ledger-server/src/ledger"
)

//go:embed schema.sql
var schemaSQL string

const (
	defaultRetryAttempts = 3
	defaultRetryBase     = 50 * time.Millisecond
)

type Store struct {
	pool     *pgxpool.Pool
	attempts int
	base     time.Duration
}

// Connect opens a pool against the given URL and registers the decimal
// codec so NUMERIC columns scan into decimal.Decimal.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, attempts: defaultRetryAttempts, base: defaultRetryBase}
}

// NewWithRetry overrides the retry budget used for busy-store contention.
func NewWithRetry(pool *pgxpool.Pool, attempts int, base time.Duration) *Store {
	if attempts < 1 {
		attempts = 1
	}
	return &Store{pool: pool, attempts: attempts, base: base}
}

// Migrate applies the schema. Statements are idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schemaSQL)
	return err
}

func (s *Store) Close() {
	s.pool.Close()
}

// withRetry runs fn up to the configured number of attempts, backing off
// with jitter between attempts on transient contention. Domain errors pass
// through untouched on the first attempt.
func (s *Store) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 {
			delay := backoff.ExponentialWithJitter(s.base, attempt)
			if werr := backoff.WaitContext(ctx, delay); werr != nil {
				return werr
			}
		}
		err = fn(ctx)
		if err == nil || !isRetryable(err) {
			return err
		}
	}
	return &ledger.StoreBusyError{Attempts: s.attempts, Err: err}
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", // serialization_failure
		"40P01", // deadlock_detected
		"55P03", // lock_not_available
		"53300": // too_many_connections
		return true
	}
	return false
}

// notFound maps pgx.ErrNoRows onto the ledger's not-found sentinel.
func notFound(err error, what string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, ledger.ErrNotFound)
	}
	return err
}
