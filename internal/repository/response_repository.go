package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/godilite/survey-dashboard/internal/repository/models"
	"github.com/godilite/survey-dashboard/internal/survey"
)

// ErrUnknownTable is returned for tables outside the allowed set.
var ErrUnknownTable = errors.New("unknown survey table")

// ResponseRepository reads the survey tables filled by the import backend.
// Rows come back as generic records; normalization happens in the loader.
type ResponseRepository struct {
	db     *sql.DB
	tables []string
}

// NewResponseRepository allows reading only the given tables. Table names are
// interpolated into queries, so the allow list is the only source of them.
func NewResponseRepository(db *sql.DB, tables []string) *ResponseRepository {
	return &ResponseRepository{db: db, tables: slices.Clone(tables)}
}

// FetchPart returns every row of a survey table.
func (r *ResponseRepository) FetchPart(ctx context.Context, table string) ([]survey.RawRecord, error) {
	if !slices.Contains(r.tables, table) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT * FROM "`+table+`"`)
	if err != nil {
		return nil, fmt.Errorf("query FetchPart %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns FetchPart %s: %w", table, err)
	}

	records := []survey.RawRecord{}
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan FetchPart %s row: %w", table, err)
		}
		rec := make(survey.RawRecord, len(columns))
		for i, col := range columns {
			rec[col] = columnValue(values[i])
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate FetchPart %s: %w", table, err)
	}
	return records, nil
}

// Tables lists the allowed tables present in the database with their row
// counts.
func (r *ResponseRepository) Tables(ctx context.Context) ([]models.TableInfo, error) {
	const query = `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query Tables: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan Tables row: %w", err)
		}
		if slices.Contains(r.tables, name) {
			names = append(names, name)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate Tables: %w", err)
	}
	rows.Close()

	infos := make([]models.TableInfo, 0, len(names))
	for _, name := range names {
		info := models.TableInfo{Name: name}
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "`+name+`"`).Scan(&info.Rows); err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// columnValue maps driver values onto what a decoded JSON export holds.
func columnValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int64:
		return float64(x)
	}
	return v
}
