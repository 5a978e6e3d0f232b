// Package sqldb executes plans through database/sql. PostgreSQL is reached with the
// lib/pq or pgx stdlib drivers and SQLite with mattn/go-sqlite3.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/compiler/planner"
	"github.com/artifactql/aql/internal/store"
	"github.com/artifactql/aql/internal/store/query"
	"github.com/artifactql/aql/pkg/logger"
	"github.com/artifactql/aql/pkg/result"
)

// Source runs plans against a database/sql handle. Each execution reads inside its own
// read-only transaction.
type Source struct {
	db      *sql.DB
	dialect query.Dialect
	logger  logger.Logger
	owned   bool
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

// New wraps an open handle. Close leaves the handle open.
func New(db *sql.DB, dialect query.Dialect, opts ...Option) *Source {
	s := &Source{db: db, dialect: dialect, logger: logger.NewNoopLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens dsn with driver, one of postgres, pgx or sqlite3. Close closes the handle.
func Open(driver, dsn string, opts ...Option) (*Source, error) {
	dialect, err := query.ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	s := New(db, dialect, opts...)
	s.owned = true
	return s, nil
}

// DB returns the underlying handle
func (s *Source) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL dialect statements are rendered in
func (s *Source) Dialect() query.Dialect {
	return s.dialect
}

// Ping checks that the database is reachable
func (s *Source) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.NewExecutionError(store.Classify(err), "", "", err)
	}
	return nil
}

// Close closes the handle if the source opened it
func (s *Source) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// Execute begins a read-only transaction for plan. The statement runs on the first call
// to Next and the transaction ends when the rows are exhausted or closed.
func (s *Source) Execute(ctx context.Context, plan *planner.Plan) (result.Rows, error) {
	if plan == nil {
		return nil, errors.NewSemanticError(errors.ErrInvalidPlan, "no plan to execute")
	}

	stmt, err := query.Render(plan, s.dialect)
	if err != nil {
		return nil, store.Wrap(plan, err)
	}

	log := s.logger.With(zap.String("plan_id", plan.ID), zap.String("dialect", s.dialect.String()))
	log.DebugWithContext(ctx, "executing plan", zap.String("sql", stmt.SQL), zap.Int("args", len(stmt.Args)))

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		log.WarnWithContext(ctx, "failed to begin transaction", zap.Error(err))
		return nil, store.Wrap(plan, err)
	}

	return &rows{
		plan:    plan,
		stmt:    stmt,
		schema:  result.NewSchema(plan.Columns),
		scanner: store.NewScanner(stmt.Columns),
		tx:      tx,
		logger:  log,
	}, nil
}
