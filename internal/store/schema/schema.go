// Package schema derives the relational layout a row source expects from a domain graph
// and creates it.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/artifactql/aql/internal/store/query"
	"github.com/artifactql/aql/pkg/domain"
)

// Table is the layout of one domain's table
type Table struct {
	Name    string
	Domain  domain.ID
	Columns []Column
	Indexes []string
}

// Column is a table column. Key marks the primary key.
type Column struct {
	Name string
	Type string
	Key  bool
}

// Tables lays out every domain of graph, in graph order. A table holds its key, its field
// columns and any join column that is not already a field.
func Tables(graph *domain.Graph, dialect query.Dialect) []Table {
	domains := graph.Domains()
	tables := make([]Table, 0, len(domains))
	for _, d := range domains {
		tables = append(tables, layout(graph, d, dialect))
	}
	return tables
}

func layout(graph *domain.Graph, d *domain.Domain, dialect query.Dialect) Table {
	t := Table{Name: d.Table, Domain: d.ID}
	seen := map[string]bool{d.Key: true}
	t.Columns = append(t.Columns, Column{Name: d.Key, Type: keyType(dialect), Key: true})

	for _, f := range d.Fields() {
		if seen[f.Column] {
			continue
		}
		seen[f.Column] = true
		t.Columns = append(t.Columns, Column{Name: f.Column, Type: sqlType(f.Type)})
	}

	indexed := map[string]bool{}
	addJoinColumn := func(column string, peer *domain.Domain, peerColumn string) {
		if column != d.Key && !indexed[column] {
			indexed[column] = true
			t.Indexes = append(t.Indexes, column)
		}
		if seen[column] {
			return
		}
		seen[column] = true
		t.Columns = append(t.Columns, Column{Name: column, Type: peerType(peer, peerColumn)})
	}

	for _, tr := range d.Transitions() {
		to, _ := graph.Domain(tr.To)
		addJoinColumn(tr.Join.ParentColumn, to, tr.Join.ChildColumn)
	}
	for _, other := range graph.Domains() {
		for _, tr := range other.Transitions() {
			if tr.To == d.ID {
				addJoinColumn(tr.Join.ChildColumn, other, tr.Join.ParentColumn)
			}
		}
	}
	return t
}

func keyType(dialect query.Dialect) string {
	if dialect == query.SQLite {
		return "INTEGER PRIMARY KEY"
	}
	return "BIGSERIAL PRIMARY KEY"
}

// sqlType maps a field type to its column type. Dates are epoch milliseconds.
func sqlType(t domain.ValueType) string {
	switch t {
	case domain.TypeLong, domain.TypeDate:
		return "BIGINT"
	case domain.TypeInteger:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// peerType types a join column like the column it joins to. Keys and other join
// columns are BIGINT.
func peerType(peer *domain.Domain, column string) string {
	if peer != nil {
		for _, f := range peer.Fields() {
			if f.Column == column {
				return sqlType(f.Type)
			}
		}
	}
	return "BIGINT"
}

// Statements renders the DDL for tables. Every statement is idempotent.
func Statements(tables []Table) []string {
	var out []string
	for _, t := range tables {
		cols := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cols[i] = fmt.Sprintf("  %s %s", pq.QuoteIdentifier(c.Name), c.Type)
		}
		out = append(out, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)",
			pq.QuoteIdentifier(t.Name), strings.Join(cols, ",\n")))
	}
	for _, t := range tables {
		for _, col := range t.Indexes {
			out = append(out, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
				pq.QuoteIdentifier(indexName(t.Name, col)), pq.QuoteIdentifier(t.Name), pq.QuoteIdentifier(col)))
		}
	}
	return out
}

func indexName(table, column string) string {
	return "idx_" + table + "_" + column
}

// Apply creates the tables of graph in one transaction
func Apply(ctx context.Context, db *sql.DB, graph *domain.Graph, dialect query.Dialect) error {
	stmts := Statements(Tables(graph, dialect))
	return WithTransaction(ctx, db, func(tx *sql.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply '%s': %w", firstLine(stmt), err)
			}
		}
		return nil
	})
}

// WithTransaction runs fn in a transaction, committing on success and rolling back on
// error or panic
func WithTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
