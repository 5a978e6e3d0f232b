// Package pgxdb executes plans on a pgx connection pool. Each execution holds one pooled
// connection and a read-only transaction until its rows are exhausted or closed.
package pgxdb

import (
	"context"
	"fmt"

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

// Source runs plans against a pool
type Source struct {
	pool   *pgxpool.Pool
	logger logger.Logger
	owned  bool
}

var _ result.Source = (*Source)(nil)

// Option configures a Source
type Option func(*Source)

// WithLogger sets the logger executions report to
func WithLogger(l logger.Logger) Option {
	return func(s *Source) {
		s.logger = l
	}
}

// New wraps an existing pool. Close leaves the pool open.
func New(pool *pgxpool.Pool, opts ...Option) *Source {
	s := &Source{pool: pool, logger: logger.NewNoopLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a pool for dsn. Connections are made on demand.
func Open(ctx context.Context, dsn string, maxConns int32, opts ...Option) (*Source, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	s := New(pool, opts...)
	s.owned = true
	return s, nil
}

// Pool returns the underlying pool
func (s *Source) Pool() *pgxpool.Pool {
	return s.pool
}

// Ping checks that a connection can be acquired
func (s *Source) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return errors.NewExecutionError(store.Classify(err), "", "", err)
	}
	return nil
}

// Close closes the pool if the source created it
func (s *Source) Close() error {
	if s.owned {
		s.pool.Close()
	}
	return nil
}

// Execute acquires a connection and begins a read-only transaction. The statement runs on
// the first call to Next.
func (s *Source) Execute(ctx context.Context, plan *planner.Plan) (result.Rows, error) {
	if plan == nil {
		return nil, errors.NewSemanticError(errors.ErrInvalidPlan, "no plan to execute")
	}

	stmt, err := query.Render(plan, query.Postgres)
	if err != nil {
		return nil, store.Wrap(plan, err)
	}

	log := s.logger.With(zap.String("plan_id", plan.ID), zap.String("dialect", "pgx"))
	log.DebugWithContext(ctx, "executing plan", zap.String("sql", stmt.SQL), zap.Int("args", len(stmt.Args)))

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		log.WarnWithContext(ctx, "failed to acquire connection", zap.Error(err))
		return nil, store.Wrap(plan, err)
	}

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		conn.Release()
		return nil, store.Wrap(plan, err)
	}

	return &rows{
		plan:    plan,
		stmt:    stmt,
		schema:  result.NewSchema(plan.Columns),
		scanner: store.NewScanner(stmt.Columns),
		logger:  log,
		ctx:     context.WithoutCancel(ctx),
		conn:    conn,
		tx:      tx,
	}, nil
}
