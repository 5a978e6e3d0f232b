package result

import (
	"context"
	"sync"
)

// sliceRows serves rows that are already in memory
type sliceRows struct {
	schema *Schema
	mu     sync.Mutex
	rows   []*Row
	pos    int
	closed bool
}

// FromSlice returns Rows over rows. It is used for cached results and tests.
func FromSlice(schema *Schema, rows []*Row) Rows {
	return &sliceRows{schema: schema, rows: rows}
}

func (s *sliceRows) Schema() *Schema {
	return s.schema
}

func (s *sliceRows) Next(ctx context.Context) (*Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.pos >= len(s.rows) {
		s.closed = true
		return nil, ErrDone
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func (s *sliceRows) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.rows = nil
	return nil
}
