package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/seriesdb/seriesdb/internal/database/common"
	"github.com/seriesdb/seriesdb/pkg/driver"
)

// Tables lists user tables from sqlite_master, excluding the sqlite_
// internal namespace.
func (dialect) Tables(ctx context.Context, q common.Querier) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Columns walks PRAGMA table_info in declared column order. The pragma
// reports nothing for a missing table instead of failing, so emptiness is
// checked up front and surfaced as KindProgramming.
func (d dialect) Columns(ctx context.Context, q common.Querier, table string) (*driver.ColumnIter, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", common.QuoteIdentifier(table, '`'))
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	scanNext := func() (*driver.ColumnDescriptor, error) {
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return nil, nil
		}
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		desc := &driver.ColumnDescriptor{
			Ordinal:   cid,
			Name:      name,
			Type:      strings.ToUpper(typ),
			Nullable:  notNull == 0,
			IsPrimary: pk > 0,
		}
		if dflt.Valid {
			v := dflt.String
			desc.Default = &v
		}
		return desc, nil
	}

	// A fresh pass must fail fast when the table does not exist.
	first, err := scanNext()
	if err != nil {
		rows.Close()
		return nil, err
	}
	if first == nil {
		rows.Close()
		return nil, driver.Errorf(dbID, "schema", driver.KindProgramming,
			"table %s does not exist", table)
	}

	pending := first
	fetch := func() (*driver.ColumnDescriptor, error) {
		if pending != nil {
			d := pending
			pending = nil
			return d, nil
		}
		return scanNext()
	}
	return driver.NewColumnIter(fetch, rows.Close), nil
}

var pragmaName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ServerVariable resolves configuration through the PRAGMA namespace. An
// unknown pragma yields no row, which is reported as nil, not an error.
func (dialect) ServerVariable(ctx context.Context, q common.Querier, name string) (*driver.Variable, error) {
	if !pragmaName.MatchString(name) {
		return nil, nil
	}
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA %s", name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var value interface{}
	if err := rows.Scan(&value); err != nil {
		return nil, err
	}
	return &driver.Variable{Name: name, Value: fmt.Sprint(value)}, nil
}
