package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"

	_ "modernc.org/sqlite"

	"knnlab/pkg/common"
	"knnlab/pkg/dataset"
)

// TableSource produces a labeled feature table.
type TableSource interface {
	LoadTable(ctx context.Context) (*dataset.Table, error)
	Close() error
}

// SQLiteSource reads a feature table out of a SQLite database. The query must
// return D numeric columns followed by one label column, one row per sample.
// The connection is switched to query_only; nothing is ever written back.
type SQLiteSource struct {
	db    *sql.DB
	query string
}

// DefaultQuery reads every column of a table called samples.
const DefaultQuery = "SELECT * FROM samples"

// OpenSQLite opens an existing database file. An empty query means DefaultQuery.
func OpenSQLite(path, query string) (*SQLiteSource, error) {
	if query == "" {
		query = DefaultQuery
	}
	// sqlite would silently create a missing file.
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection, so the pragma below covers every query.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA query_only = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &SQLiteSource{db: db, query: query}, nil
}

// LoadTable runs the query and parses its rows. Column names other than the
// last become the table's feature names.
func (s *SQLiteSource) LoadTable(ctx context.Context) (*dataset.Table, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) < 2 {
		return nil, &common.ParseError{Row: 0, Column: -1, Err: fmt.Errorf("query returns %d columns, need features and a label", len(cols))}
	}

	var (
		features [][]float64
		labels   []common.Label
	)
	dim := len(cols) - 1
	x := make([]sql.NullFloat64, dim)
	var label sql.NullString
	dest := make([]any, len(cols))
	for j := range x {
		dest[j] = &x[j]
	}
	dest[dim] = &label

	for i := 0; rows.Next(); i++ {
		if err := rows.Scan(dest...); err != nil {
			return nil, &common.ParseError{Row: i, Column: -1, Err: err}
		}
		row := make([]float64, dim)
		for j, v := range x {
			if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
				return nil, &common.ParseError{Row: i, Column: j, Value: cols[j], Err: fmt.Errorf("feature is missing or not finite")}
			}
			row[j] = v.Float64
		}
		if !label.Valid || label.String == "" {
			return nil, &common.ParseError{Row: i, Column: dim, Value: cols[dim], Err: fmt.Errorf("label is missing")}
		}
		features = append(features, row)
		labels = append(labels, common.Label(label.String))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	t, err := dataset.NewTable(features, labels)
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return t, nil
	}
	return t.WithNames(cols[:dim])
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

var _ TableSource = (*SQLiteSource)(nil)
