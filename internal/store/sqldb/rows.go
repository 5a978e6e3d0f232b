package sqldb

import (
	"context"
	"database/sql"
	stderrors "errors"
	"sync"

	"go.uber.org/zap"

	"github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/compiler/planner"
	"github.com/artifactql/aql/internal/store"
	"github.com/artifactql/aql/internal/store/query"
	"github.com/artifactql/aql/pkg/logger"
	"github.com/artifactql/aql/pkg/result"
)

// rows streams one execution. The transaction and cursor are released exactly once: on
// exhaustion, on Close, or on the first error.
type rows struct {
	plan    *planner.Plan
	stmt    *query.Statement
	schema  *result.Schema
	scanner *store.Scanner
	logger  logger.Logger

	mu    sync.Mutex
	tx    *sql.Tx   // GUARDED_BY(mu)
	rows  *sql.Rows // GUARDED_BY(mu)
	done  bool      // GUARDED_BY(mu)
	count int       // GUARDED_BY(mu)
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
		rs, err := r.tx.QueryContext(ctx, r.stmt.SQL, r.stmt.Args...)
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

// fail releases the execution and reports err. An empty code classifies err.
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

// release closes the cursor and ends the transaction. A transaction the driver already
// ended, as it does when the execution context is canceled, is not an error.
func (r *rows) release(commit bool) error {
	if r.done {
		return nil
	}
	r.done = true

	var err error
	if r.rows != nil {
		err = store.Append(err, r.rows.Close())
	}

	var txErr error
	if commit {
		txErr = r.tx.Commit()
	} else {
		txErr = r.tx.Rollback()
	}
	if !stderrors.Is(txErr, sql.ErrTxDone) {
		err = store.Append(err, txErr)
	}

	r.logger.Debug("released execution", zap.Int("rows", r.count), zap.Bool("exhausted", commit))
	return err
}
