package sqldb

import (
	"context"
	"database/sql"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/compiler/parser"
	"github.com/artifactql/aql/compiler/planner"
	"github.com/artifactql/aql/compiler/typechecker"
	"github.com/artifactql/aql/internal/store/query"
	"github.com/artifactql/aql/internal/store/schema"
	"github.com/artifactql/aql/pkg/domain"
	"github.com/artifactql/aql/pkg/result"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func compile(t *testing.T, text string) *planner.Plan {
	t.Helper()
	graph := domain.Default()
	q, err := parser.Parse(domain.Items, text)
	require.NoError(t, err)
	b, err := typechecker.New(graph).Check(q)
	require.NoError(t, err)
	p, err := planner.New(graph).Compile(b)
	require.NoError(t, err)
	return p
}

func execCode(t *testing.T, err error) string {
	t.Helper()
	var execErr *errors.ExecutionError
	require.True(t, stderrors.As(err, &execErr), "expected execution error, got %v", err)
	return execErr.Code
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

const projection = `include items.name, items.size, items.created, items.type`

func TestExecuteStreamsRows(t *testing.T) {
	db, mock := newMock(t)
	p := compile(t, `name = "a.jar" `+projection)
	stmt, err := query.Render(p, query.Postgres)
	require.NoError(t, err)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(stmt.SQL).WithArgs("a.jar").WillReturnRows(
		sqlmock.NewRows([]string{"node_name", "bin_length", "created", "node_type"}).
			AddRow("a.jar", int64(100), domain.DateToMillis(created), "file").
			AddRow("a.jar", nil, nil, "folder"),
	)
	mock.ExpectCommit()

	src := New(db, query.Postgres)
	rows, err := src.Execute(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "size", "created", "type"}, rows.Schema().Names())

	got, err := result.Collect(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, got, 2)

	size, err := got[0].Int64("size")
	require.NoError(t, err)
	assert.Equal(t, int64(100), size)
	ts, err := got[0].Time("created")
	require.NoError(t, err)
	assert.True(t, created.Equal(ts))
	it, err := got[0].ItemType("type")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemFile, it)

	assert.True(t, got[1].IsNull("size"))
	assert.True(t, got[1].IsNull("created"))

	// exhausted rows stay exhausted
	_, err = rows.Next(context.Background())
	assert.ErrorIs(t, err, result.ErrDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseBeforeNextRollsBack(t *testing.T) {
	db, mock := newMock(t)
	p := compile(t, `name = "a.jar"`)

	mock.ExpectBegin()
	mock.ExpectRollback()

	rows, err := New(db, query.Postgres).Execute(context.Background(), p)
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	require.NoError(t, rows.Close())

	_, err = rows.Next(context.Background())
	assert.ErrorIs(t, err, result.ErrDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginFailure(t *testing.T) {
	db, mock := newMock(t)
	p := compile(t, `name = "a.jar"`)

	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	_, err := New(db, query.Postgres).Execute(context.Background(), p)
	require.Error(t, err)
	assert.Equal(t, errors.ErrConnection, execCode(t, err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryFailureReleases(t *testing.T) {
	db, mock := newMock(t)
	p := compile(t, `name = "a.jar" `+projection)
	stmt, err := query.Render(p, query.Postgres)
	require.NoError(t, err)

	cause := stderrors.New("relation exploded")
	mock.ExpectBegin()
	mock.ExpectQuery(stmt.SQL).WithArgs("a.jar").WillReturnError(cause)
	mock.ExpectRollback()

	rows, err := New(db, query.Postgres).Execute(context.Background(), p)
	require.NoError(t, err)

	_, err = rows.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrExecutionFailed, execCode(t, err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, p.ID, func() string {
		var execErr *errors.ExecutionError
		stderrors.As(err, &execErr)
		return execErr.PlanID
	}())

	// the failure released the execution
	assert.NoError(t, rows.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScanFailure(t *testing.T) {
	db, mock := newMock(t)
	p := compile(t, `name = "a.jar" `+projection)
	stmt, err := query.Render(p, query.Postgres)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(stmt.SQL).WithArgs("a.jar").WillReturnRows(
		sqlmock.NewRows([]string{"node_name", "bin_length", "created", "node_type"}).
			AddRow("a.jar", int64(1), nil, "symlink"),
	)
	mock.ExpectRollback()

	rows, err := New(db, query.Postgres).Execute(context.Background(), p)
	require.NoError(t, err)
	_, err = rows.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrScan, execCode(t, err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCanceledContext(t *testing.T) {
	db, mock := newMock(t)
	p := compile(t, `name = "a.jar"`)

	mock.ExpectBegin()
	mock.ExpectRollback()

	rows, err := New(db, query.Postgres).Execute(context.Background(), p)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = rows.Next(ctx)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCanceled, execCode(t, err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitFailure(t *testing.T) {
	db, mock := newMock(t)
	p := compile(t, `name = "a.jar" `+projection)
	stmt, err := query.Render(p, query.Postgres)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(stmt.SQL).WithArgs("a.jar").WillReturnRows(
		sqlmock.NewRows([]string{"node_name", "bin_length", "created", "node_type"}),
	)
	mock.ExpectCommit().WillReturnError(stderrors.New("commit failed"))

	rows, err := New(db, query.Postgres).Execute(context.Background(), p)
	require.NoError(t, err)
	_, err = rows.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrRelease, execCode(t, err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteNilPlan(t *testing.T) {
	db, _ := newMock(t)
	_, err := New(db, query.Postgres).Execute(context.Background(), nil)
	assert.Equal(t, errors.KindSemantic, errors.KindOf(err))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.Error(t, err)
}

func seed(t *testing.T) *Source {
	t.Helper()
	src, err := Open("sqlite3", filepath.Join(t.TempDir(), "aql.db"))
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	ctx := context.Background()
	require.NoError(t, schema.Apply(ctx, src.DB(), domain.Default(), query.SQLite))

	created := domain.DateToMillis(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	old := domain.DateToMillis(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))
	stmts := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO nodes (node_id, repo, node_path, node_name, node_type, bin_length, created, sha1_actual) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			[]any{1, "libs", "org/a", "a.jar", "file", 100, created, "aaa"}},
		{`INSERT INTO nodes (node_id, repo, node_path, node_name, node_type, bin_length, created, sha1_actual) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			[]any{2, "libs", "org", "org", "folder", nil, old, nil}},
		{`INSERT INTO nodes (node_id, repo, node_path, node_name, node_type, bin_length, created, sha1_actual) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			[]any{3, "libs", "org/b", "b.jar", "file", 200, old, "bbb"}},
		{`INSERT INTO archives (archive_id, archive_sha1) VALUES (?, ?)`, []any{1, "aaa"}},
		{`INSERT INTO archive_entries (entry_id, entry_name, entry_path, archive_id) VALUES (?, ?, ?, ?)`,
			[]any{1, "Foo.class", "x/Foo.class", 1}},
		{`INSERT INTO archive_entries (entry_id, entry_name, entry_path, archive_id) VALUES (?, ?, ?, ?)`,
			[]any{2, "Bar.class", "x/Bar.class", 1}},
	}
	for _, s := range stmts {
		_, err := src.DB().ExecContext(ctx, s.sql, s.args...)
		require.NoError(t, err)
	}
	return src
}

func names(t *testing.T, src *Source, text string) []string {
	t.Helper()
	rows, err := src.Execute(context.Background(), compile(t, text))
	require.NoError(t, err)
	got, err := result.Collect(context.Background(), rows)
	require.NoError(t, err)

	out := make([]string, len(got))
	for i, row := range got {
		out[i], err = row.String("name")
		require.NoError(t, err)
	}
	return out
}

func TestSQLiteEndToEnd(t *testing.T) {
	src := seed(t)

	t.Run("join through archives", func(t *testing.T) {
		// both entries match through the same archive, distinct keeps one row
		got := names(t, src, `archives.entries.name like "%.class" include items.name`)
		assert.Equal(t, []string{"a.jar"}, got)
	})

	t.Run("sort desc", func(t *testing.T) {
		got := names(t, src, `type = "file" include items.name sort items.size desc`)
		assert.Equal(t, []string{"b.jar", "a.jar"}, got)
	})

	t.Run("any item type", func(t *testing.T) {
		got := names(t, src, `type = "any" include items.name sort items.name`)
		assert.Equal(t, []string{"a.jar", "b.jar", "org"}, got)
	})

	t.Run("date comparison", func(t *testing.T) {
		got := names(t, src, `created >= 2024-01-01 include items.name`)
		assert.Equal(t, []string{"a.jar"}, got)
	})

	t.Run("contains escapes wildcards", func(t *testing.T) {
		assert.Empty(t, names(t, src, `name contains "%" include items.name`))
		assert.Equal(t, []string{"a.jar"}, names(t, src, `name contains "a.j" include items.name`))
	})

	t.Run("null size", func(t *testing.T) {
		rows, err := src.Execute(context.Background(), compile(t, `size is null include items.name, items.size`))
		require.NoError(t, err)
		got, err := result.Collect(context.Background(), rows)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].IsNull("size"))
	})

	t.Run("limit and offset", func(t *testing.T) {
		got := names(t, src, `include items.name sort items.name limit 1 offset 1`)
		assert.Equal(t, []string{"b.jar"}, got)
	})

	t.Run("offset without limit", func(t *testing.T) {
		got := names(t, src, `include items.name sort items.name offset 2`)
		assert.Equal(t, []string{"org"}, got)
	})
}

func TestSQLiteMissingTable(t *testing.T) {
	src, err := Open("sqlite3", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer src.Close()

	rows, err := src.Execute(context.Background(), compile(t, `name = "a.jar"`))
	require.NoError(t, err)
	_, err = rows.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrUndefinedRelation, execCode(t, err))
}
