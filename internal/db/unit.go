package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
	"github.com/mertdogan/internhub/internal/pkg/logger"
)

// PooledConn is the slice of *pgxpool.Conn a unit of work needs. It exists so
// the unit lifecycle can be exercised without a live pool.
type PooledConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Release()
}

// Unit is a unit of work: one borrowed connection scoped to a single logical
// operation, usually one HTTP request. A read-write unit holds an open
// transaction from creation until Complete; a read-only unit runs every
// statement in the connection's autocommit mode and never begins one.
//
// A unit is owned exclusively by the request that created it. It must not be
// shared across goroutines or touched after completion.
type Unit struct {
	conn      PooledConn
	tx        pgx.Tx
	readOnly  bool
	completed bool
}

const acquireTimeout = 5 * time.Second

// NewUnit acquires a connection from the pool and, for read-write units,
// immediately begins a transaction on it.
func (db *Postgres) NewUnit(ctx context.Context, readOnly bool) (*Unit, error) {
	// Bound the wait on an exhausted pool.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, acquireTimeout)
		defer cancel()
	}

	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquiring connection: %v", apperrors.ErrDatabaseUnavailable, err)
	}

	return NewUnitFromConn(ctx, conn, readOnly)
}

// NewUnitFromConn builds a unit on an already-acquired connection. The unit
// takes ownership of the connection and releases it on every completion path.
func NewUnitFromConn(ctx context.Context, conn PooledConn, readOnly bool) (*Unit, error) {
	u := &Unit{conn: conn, readOnly: readOnly}

	if !readOnly {
		tx, err := conn.Begin(ctx)
		if err != nil {
			conn.Release()
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		u.tx = tx
	}

	return u, nil
}

// ReadOnly reports whether the unit was opened without a transaction.
func (u *Unit) ReadOnly() bool {
	return u.readOnly
}

// Completed reports whether the unit has reached its terminal state.
func (u *Unit) Completed() bool {
	return u.completed
}

// Exec runs a parameterized statement on the unit's connection.
func (u *Unit) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if u.completed {
		return pgconn.CommandTag{}, apperrors.ErrUnitCompleted
	}
	if u.tx != nil {
		return u.tx.Exec(ctx, sql, args...)
	}
	return u.conn.Exec(ctx, sql, args...)
}

// Query runs a parameterized query on the unit's connection.
func (u *Unit) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if u.completed {
		return nil, apperrors.ErrUnitCompleted
	}
	if u.tx != nil {
		return u.tx.Query(ctx, sql, args...)
	}
	return u.conn.Query(ctx, sql, args...)
}

// QueryRow runs a parameterized single-row query on the unit's connection.
func (u *Unit) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if u.completed {
		return errRow{apperrors.ErrUnitCompleted}
	}
	if u.tx != nil {
		return u.tx.QueryRow(ctx, sql, args...)
	}
	return u.conn.QueryRow(ctx, sql, args...)
}

// Complete finishes the unit. It is idempotent: callers may invoke it from a
// success path and again from a deferred cleanup path.
//
// For a read-write unit the caller must state the outcome: commit == nil is a
// protocol violation and is reported loudly, but the transaction is still
// rolled back and the connection still returns to the pool. For a read-only
// unit commit is ignored since no transaction was opened.
//
// The connection is released on every path, exactly once.
func (u *Unit) Complete(ctx context.Context, commit *bool) error {
	if u.completed {
		return nil
	}
	u.completed = true
	defer u.conn.Release()

	if u.tx == nil {
		return nil
	}

	if commit == nil {
		if err := u.tx.Rollback(ctx); err != nil {
			logger.Error().Err(err).Msg("Rollback after missing commit decision failed")
		}
		return apperrors.ErrCommitDecisionRequired
	}

	if *commit {
		if err := u.tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}

	if err := u.tx.Rollback(ctx); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// Commit completes the unit committing its transaction.
func (u *Unit) Commit(ctx context.Context) error {
	decision := true
	return u.Complete(ctx, &decision)
}

// Rollback completes the unit discarding its transaction. Safe to defer
// alongside an earlier Commit thanks to Complete's idempotency.
func (u *Unit) Rollback(ctx context.Context) error {
	decision := false
	return u.Complete(ctx, &decision)
}

// errRow satisfies pgx.Row for queries issued after completion.
type errRow struct {
	err error
}

func (r errRow) Scan(dest ...any) error {
	return r.err
}
