// Package result defines how executed plans stream rows back to callers. A Source runs a
// plan and returns Rows, a single-pass iterator that holds its backing resource until it
// is exhausted or closed.
package result

import (
	"context"
	"errors"

	"github.com/artifactql/aql/compiler/planner"
)

// ErrDone is returned by Next after the last row and after Close
var ErrDone = errors.New("no more rows")

// Rows iterates over the rows of one execution. Rows are produced on demand; nothing is
// read before the first call to Next.
type Rows interface {
	// Schema describes the columns of every row
	Schema() *Schema
	// Next returns the next row, or ErrDone once the rows are exhausted. Reaching the end
	// releases the backing resource.
	Next(ctx context.Context) (*Row, error)
	// Close releases the backing resource. It is safe to call more than once.
	Close() error
}

// Source executes plans. The resource an execution needs is acquired when Execute is
// called and released when the returned Rows are exhausted or closed, or when Execute
// fails.
type Source interface {
	Execute(ctx context.Context, plan *planner.Plan) (Rows, error)
}

// SourceFunc adapts a function to a Source
type SourceFunc func(ctx context.Context, plan *planner.Plan) (Rows, error)

func (f SourceFunc) Execute(ctx context.Context, plan *planner.Plan) (Rows, error) {
	return f(ctx, plan)
}

// Collect drains rows and closes them. Rows read before an error are returned with it.
func Collect(ctx context.Context, rows Rows) (out []*Row, err error) {
	defer func() {
		if closeErr := rows.Close(); err == nil {
			err = closeErr
		}
	}()

	for {
		row, err := rows.Next(ctx)
		if errors.Is(err, ErrDone) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, row)
	}
}

// Each calls fn for every row and closes rows. A non-nil error from fn stops iteration
// and is returned.
func Each(ctx context.Context, rows Rows, fn func(*Row) error) (err error) {
	defer func() {
		if closeErr := rows.Close(); err == nil {
			err = closeErr
		}
	}()

	for {
		row, err := rows.Next(ctx)
		if errors.Is(err, ErrDone) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}
