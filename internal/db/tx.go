package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	pgDeadlockDetected   = "40P01"
	pgSerializationError = "40001"
)

// Query is one parameterized statement inside a transaction.
type Query struct {
	SQL  string
	Args []any
}

// TxBeginner is satisfied by pgxpool.Pool and by pgxmock pools.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner executes ordered query lists atomically. Deadlock and
// serialization failures retry the whole list with exponential backoff;
// anything else rolls back and propagates immediately.
type TxRunner struct {
	db         TxBeginner
	logger     *zap.Logger
	maxRetries int
	baseDelay  time.Duration
	sleep      func(time.Duration)
}

// NewTxRunner builds a runner with the fixed retry policy (3 retries,
// 1s/2s/4s backoff).
func NewTxRunner(db TxBeginner, logger *zap.Logger) *TxRunner {
	return &TxRunner{
		db:         db,
		logger:     logger,
		maxRetries: 3,
		baseDelay:  time.Second,
		sleep:      time.Sleep,
	}
}

// Run executes the queries in a single transaction, acquiring a connection
// per attempt, and returns the result rows of each query in order.
func (r *TxRunner) Run(ctx context.Context, queries []Query) ([][]Row, error) {
	retries := 0
	for {
		results, err := r.attempt(ctx, queries)
		if err == nil {
			return results, nil
		}
		if !isRetryableTxError(err) || retries >= r.maxRetries {
			return nil, err
		}
		delay := r.baseDelay << retries
		r.logger.Warn("deadlock detected, retrying transaction",
			zap.Duration("backoff", delay),
			zap.Int("retry", retries+1),
		)
		r.sleep(delay)
		retries++
	}
}

func (r *TxRunner) attempt(ctx context.Context, queries []Query) ([][]Row, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	results := make([][]Row, 0, len(queries))
	for _, query := range queries {
		rows, err := tx.Query(ctx, query.SQL, query.Args...)
		if err != nil {
			r.rollback(ctx, tx)
			return nil, fmt.Errorf("run query: %w", err)
		}
		collected, err := collectRows(rows)
		if err != nil {
			r.rollback(ctx, tx)
			return nil, fmt.Errorf("run query: %w", err)
		}
		results = append(results, collected)
	}

	if err := tx.Commit(ctx); err != nil {
		r.rollback(ctx, tx)
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return results, nil
}

func (r *TxRunner) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.Error("transaction rollback failed", zap.Error(err))
	}
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgDeadlockDetected || pgErr.Code == pgSerializationError
	}
	return false
}
