package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"heartrisk/domain/dataset"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Connect opens and pings a Postgres connection pool.
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(4)
	return db, nil
}

// DatasetSource reads the heart dataset from a Postgres table whose column
// names match the CSV header.
type DatasetSource struct {
	db    *sqlx.DB
	table string
}

// NewDatasetSource creates a dataset source over table (optionally schema-qualified).
func NewDatasetSource(db *sqlx.DB, table string) *DatasetSource {
	return &DatasetSource{db: db, table: table}
}

// Describe names the source for logs and the health endpoint.
func (s *DatasetSource) Describe() string {
	return "postgres:" + s.table
}

// Read selects the required columns of every row.
func (s *DatasetSource) Read(ctx context.Context) (*dataset.Table, error) {
	query, err := selectQuery(s.table)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}
	defer rows.Close()

	t := &dataset.Table{Header: append([]string(nil), dataset.RequiredColumns...)}
	cells := make([]sql.NullFloat64, len(t.Header))
	dest := make([]interface{}, len(cells))
	for i := range cells {
		dest[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan dataset row: %w", err)
		}
		row, err := toRow(t.Header, cells, len(t.Rows)+1)
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dataset rows: %w", err)
	}

	return t, nil
}

// selectQuery quotes every identifier; column names contain spaces.
func selectQuery(table string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("dataset table name is empty")
	}
	parts := strings.Split(table, ".")
	for i, p := range parts {
		if p == "" {
			return "", fmt.Errorf("invalid table name %q", table)
		}
		parts[i] = pq.QuoteIdentifier(p)
	}

	cols := make([]string, len(dataset.RequiredColumns))
	for i, c := range dataset.RequiredColumns {
		cols[i] = pq.QuoteIdentifier(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), strings.Join(parts, ".")), nil
}

// toRow rejects NULL and non-finite cells; the cleaning pipeline only knows about zeros.
func toRow(header []string, cells []sql.NullFloat64, rowNum int) ([]float64, error) {
	row := make([]float64, len(cells))
	for i, c := range cells {
		if !c.Valid {
			return nil, fmt.Errorf("row %d column %q is NULL", rowNum, header[i])
		}
		if math.IsNaN(c.Float64) || math.IsInf(c.Float64, 0) {
			return nil, fmt.Errorf("row %d column %q: %g is not a finite number", rowNum, header[i], c.Float64)
		}
		row[i] = c.Float64
	}
	return row, nil
}
