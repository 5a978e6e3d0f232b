package aql

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/artifactql/aql/pkg/logger"
	"github.com/artifactql/aql/pkg/result"
)

// loggedRows reports how an execution ended, once
type loggedRows struct {
	result.Rows
	ctx    context.Context
	logger logger.Logger
	start  time.Time

	mu       sync.Mutex
	count    int
	reported bool
}

func (r *loggedRows) Next(ctx context.Context) (*result.Row, error) {
	row, err := r.Rows.Next(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case err == nil:
		r.count++
	case errors.Is(err, result.ErrDone):
		r.report("execution finished", nil)
	default:
		r.report("execution failed", err)
	}
	return row, err
}

func (r *loggedRows) Close() error {
	err := r.Rows.Close()

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.report("execution failed", err)
	} else {
		r.report("execution closed", nil)
	}
	return err
}

func (r *loggedRows) report(msg string, err error) {
	if r.reported {
		return
	}
	r.reported = true

	fields := []zap.Field{zap.Int("rows", r.count), zap.Duration("duration", time.Since(r.start))}
	if err != nil {
		r.logger.ErrorWithContext(r.ctx, msg, append(fields, zap.Error(err))...)
		return
	}
	r.logger.InfoWithContext(r.ctx, msg, fields...)
}
