// Package store holds what the relational row sources share: failure classification and
// the release-path error aggregation.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	stderrors "errors"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/compiler/planner"
)

// PostgreSQL error codes and classes the sources tell apart
const (
	pgUndefinedTable   = "42P01"
	pgUndefinedColumn  = "42703"
	pgConnectionClass  = "08"
	pgQueryCanceled    = "57014"
	pgAdminShutdown    = "57P01"
	pgCannotConnectNow = "57P03"
)

// Classify maps a backend failure to an execution error code
func Classify(err error) string {
	if err == nil {
		return ""
	}

	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.ErrCanceled
	}
	if stderrors.Is(err, sql.ErrConnDone) || stderrors.Is(err, driver.ErrBadConn) {
		return errors.ErrConnection
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return classifyPostgres(pgErr.Code)
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return classifyPostgres(string(pqErr.Code))
	}

	var connectErr *pgconn.ConnectError
	if stderrors.As(err, &connectErr) {
		return errors.ErrConnection
	}

	var liteErr sqlite3.Error
	if stderrors.As(err, &liteErr) {
		switch {
		case liteErr.Code == sqlite3.ErrCantOpen:
			return errors.ErrConnection
		case liteErr.Code == sqlite3.ErrError && strings.Contains(liteErr.Error(), "no such"):
			return errors.ErrUndefinedRelation
		}
	}

	return errors.ErrExecutionFailed
}

func classifyPostgres(code string) string {
	switch {
	case code == pgUndefinedTable, code == pgUndefinedColumn:
		return errors.ErrUndefinedRelation
	case code == pgQueryCanceled:
		return errors.ErrCanceled
	case strings.HasPrefix(code, pgConnectionClass), code == pgAdminShutdown, code == pgCannotConnectNow:
		return errors.ErrConnection
	default:
		return errors.ErrExecutionFailed
	}
}

// Wrap turns a backend failure while running plan into an execution error. A nil err
// yields nil.
func Wrap(plan *planner.Plan, err error) error {
	if err == nil {
		return nil
	}
	var execErr *errors.ExecutionError
	if stderrors.As(err, &execErr) {
		return err
	}
	return errors.NewExecutionError(Classify(err), plan.ID, plan.Query, err)
}

// WrapRelease reports a failure to give back a resource after a plan ran. The code is
// the release code unless the cause says more.
func WrapRelease(plan *planner.Plan, err error) error {
	if err == nil {
		return nil
	}
	code := Classify(err)
	if code == errors.ErrExecutionFailed {
		code = errors.ErrRelease
	}
	return errors.NewExecutionError(code, plan.ID, plan.Query, err)
}

// Append collects errors from a release path. Nil errors are skipped and the result is
// nil when every error was nil.
func Append(err error, errs ...error) error {
	var result *multierror.Error
	if err != nil {
		result = multierror.Append(result, err)
	}
	for _, e := range errs {
		if e != nil {
			result = multierror.Append(result, e)
		}
	}
	return result.ErrorOrNil()
}
