package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queryable is the subset of pgx operations shared by *pgxpool.Pool and
// pgx.Tx. Repositories resolve one per call so the same repository code runs
// either standalone or inside a caller-owned transaction.
type Queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type contextKey string

const txKey contextKey = "db_tx"

// TxFromContext returns the transaction carried by ctx, or nil.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	return tx
}

// Conn returns the transaction carried by ctx when one is present, otherwise
// the pool itself.
func Conn(ctx context.Context, pool *pgxpool.Pool) Queryable {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// TxRunner runs fn inside a transaction boundary. Services depend on this
// function type rather than on a pool so tests can substitute a pass-through.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// NewTxRunner returns a TxRunner bound to pool.
func NewTxRunner(pool *pgxpool.Pool) TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return WithTx(ctx, pool, fn)
	}
}

// WithTx runs fn inside a single transaction. The transaction is injected
// into the context handed to fn, so every repository call made through
// Conn(ctx, ...) joins it. fn returning an error rolls the whole unit back;
// nothing is committed partially.
//
// Nested calls join the outer transaction instead of opening a new one, so a
// service operation can compose smaller transactional helpers.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
