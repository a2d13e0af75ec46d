package schema

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/procat-search/internal/pkg/query"
)

// ErrTableNotFound is returned when INFORMATION_SCHEMA has no columns for a table.
var ErrTableNotFound = errors.New("table not found")

// Loader reads table descriptors from Spanner's INFORMATION_SCHEMA.
type Loader struct {
	client *spanner.Client
}

// NewLoader creates a Loader for the given client.
func NewLoader(client *spanner.Client) *Loader {
	return &Loader{client: client}
}

// columnRow mirrors the selected INFORMATION_SCHEMA.COLUMNS fields.
type columnRow struct {
	Name        string `spanner:"COLUMN_NAME"`
	SpannerType string `spanner:"SPANNER_TYPE"`
	IsNullable  string `spanner:"IS_NULLABLE"`
}

// Load returns the descriptor of a table in the default schema.
func (l *Loader) Load(ctx context.Context, table string) (*Table, error) {
	txn := l.client.ReadOnlyTransaction()
	defer txn.Close()

	rows, err := l.readColumns(ctx, txn, table)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	keys, err := l.readPrimaryKey(ctx, txn, table)
	if err != nil {
		return nil, err
	}

	return buildTable(table, rows, keys), nil
}

func (l *Loader) readColumns(ctx context.Context, txn *spanner.ReadOnlyTransaction, table string) ([]columnRow, error) {
	stmt := query.From("INFORMATION_SCHEMA.COLUMNS").
		Select("COLUMN_NAME", "SPANNER_TYPE", "IS_NULLABLE").
		Where(tableCriteria(table)).
		OrderBy("ORDINAL_POSITION", query.Asc).
		Build()

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	var rows []columnRow
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
		}

		var col columnRow
		if err := row.ToStruct(&col); err != nil {
			return nil, fmt.Errorf("failed to parse column of %s: %w", table, err)
		}
		rows = append(rows, col)
	}
	return rows, nil
}

func (l *Loader) readPrimaryKey(ctx context.Context, txn *spanner.ReadOnlyTransaction, table string) ([]string, error) {
	criteria := tableCriteria(table).MergeWith(
		query.Comparison{Column: "INDEX_TYPE", Operator: "=", Param: "index_type"},
		map[string]interface{}{"index_type": "PRIMARY_KEY"},
		query.And,
	)
	stmt := query.From("INFORMATION_SCHEMA.INDEX_COLUMNS").
		Select("COLUMN_NAME").
		Where(criteria).
		OrderBy("ORDINAL_POSITION", query.Asc).
		Build()

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	var keys []string
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read primary key of %s: %w", table, err)
		}

		var name string
		if err := row.Columns(&name); err != nil {
			return nil, fmt.Errorf("failed to parse primary key of %s: %w", table, err)
		}
		keys = append(keys, name)
	}
	return keys, nil
}

func tableCriteria(table string) *query.Criteria {
	return query.NewCriteria("").
		MergeWith(
			query.Comparison{Column: "TABLE_SCHEMA", Operator: "=", Param: "table_schema"},
			map[string]interface{}{"table_schema": ""},
			query.And,
		).
		MergeWith(
			query.Comparison{Column: "TABLE_NAME", Operator: "=", Param: "table_name"},
			map[string]interface{}{"table_name": table},
			query.And,
		)
}

// buildTable assembles a Table from INFORMATION_SCHEMA rows.
func buildTable(name string, rows []columnRow, keys []string) *Table {
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}

	cols := make([]Column, 0, len(rows))
	for _, r := range rows {
		cols = append(cols, Column{
			Name:       r.Name,
			Type:       ParseType(r.SpannerType),
			AllowNull:  r.IsNullable == "YES",
			PrimaryKey: isKey[r.Name],
		})
	}

	t := NewTable(name, cols...)
	// Key order follows the index, not column declaration order.
	if len(keys) > 0 {
		t.PrimaryKey = append([]string(nil), keys...)
	}
	return t
}
