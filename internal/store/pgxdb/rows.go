package pgxdb

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/compiler/planner"
	"github.com/artifactql/aql/internal/store"
	"github.com/artifactql/aql/internal/store/query"
	"github.com/artifactql/aql/pkg/logger"
	"github.com/artifactql/aql/pkg/result"
)

type rows struct {
	plan    *planner.Plan
	stmt    *query.Statement
	schema  *result.Schema
	scanner *store.Scanner
	logger  logger.Logger

	// ctx ends the transaction; it outlives cancellation of the execution context
	ctx context.Context

	mu    sync.Mutex
	conn  *pgxpool.Conn // GUARDED_BY(mu)
	tx    pgx.Tx        // GUARDED_BY(mu)
	rows  pgx.Rows      // GUARDED_BY(mu)
	done  bool          // GUARDED_BY(mu)
	count int           // GUARDED_BY(mu)
}

var _ result.Rows = (*rows)(nil)

func (r *rows) Schema() *result.Schema {
	return r.schema
}

func (r *rows) Next(ctx context.Context) (*result.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done {
		return nil, result.ErrDone
	}
	if err := ctx.Err(); err != nil {
		return nil, r.fail("", err)
	}

	if r.rows == nil {
		rs, err := r.tx.Query(ctx, r.stmt.SQL, r.stmt.Args...)
		if err != nil {
			return nil, r.fail("", err)
		}
		r.rows = rs
	}

	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return nil, r.fail("", err)
		}
		if err := r.release(true); err != nil {
			return nil, store.WrapRelease(r.plan, err)
		}
		return nil, result.ErrDone
	}

	if err := r.rows.Scan(r.scanner.Targets()...); err != nil {
		return nil, r.fail(errors.ErrScan, err)
	}
	values, err := r.scanner.Values()
	if err != nil {
		return nil, r.fail(errors.ErrScan, err)
	}
	row, err := r.schema.Row(values)
	if err != nil {
		return nil, r.fail(errors.ErrScan, err)
	}
	r.count++
	return row, nil
}

func (r *rows) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done {
		return nil
	}
	return store.WrapRelease(r.plan, r.release(false))
}

func (r *rows) fail(code string, err error) error {
	if code == "" {
		code = store.Classify(err)
	}
	relErr := r.release(false)
	if relErr != nil {
		r.logger.Warn("failed to release after error", zap.Error(relErr))
	}
	return errors.NewExecutionError(code, r.plan.ID, r.plan.Query, store.Append(err, relErr))
}

// release closes the cursor, ends the transaction and returns the connection to the
// pool. The connection goes back even when ending the transaction fails.
func (r *rows) release(commit bool) error {
	if r.done {
		return nil
	}
	r.done = true
	defer r.conn.Release()

	var err error
	if r.rows != nil {
		r.rows.Close()
	}

	var txErr error
	if commit {
		txErr = r.tx.Commit(r.ctx)
	} else {
		txErr = r.tx.Rollback(r.ctx)
	}
	if !stderrors.Is(txErr, pgx.ErrTxClosed) {
		err = store.Append(err, txErr)
	}

	r.logger.Debug("released execution", zap.Int("rows", r.count), zap.Bool("exhausted", commit))
	return err
}
