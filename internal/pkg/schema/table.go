// Package schema describes Spanner tables for condition building: column
// descriptors, their GoogleSQL types, identifier quoting and value casting.
package schema

import (
	"cloud.google.com/go/spanner/spansql"
)

// Column describes a single table column.
type Column struct {
	Name       string
	RawName    string // Quoted identifier, safe to embed in SQL
	Type       Type
	AllowNull  bool
	PrimaryKey bool
}

// Typecast converts a raw value into the column's native Spanner representation.
// Values that cannot be converted are returned unchanged.
func (c *Column) Typecast(v any) any {
	return typecast(c.Type, c.AllowNull, v)
}

// Table describes a table and its columns in declaration order.
type Table struct {
	Name       string
	PrimaryKey []string

	columns []*Column
	byName  map[string]*Column
}

// NewTable creates a Table from column definitions.
// RawName is filled in for columns that don't set it, and PrimaryKey is
// derived from columns flagged as primary keys unless given explicitly.
func NewTable(name string, columns ...Column) *Table {
	t := &Table{
		Name:    name,
		columns: make([]*Column, 0, len(columns)),
		byName:  make(map[string]*Column, len(columns)),
	}
	for i := range columns {
		col := columns[i]
		if col.RawName == "" {
			col.RawName = QuoteIdentifier(col.Name)
		}
		if col.PrimaryKey {
			t.PrimaryKey = append(t.PrimaryKey, col.Name)
		}
		t.columns = append(t.columns, &col)
		t.byName[col.Name] = &col
	}
	return t
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	col, ok := t.byName[name]
	return col, ok
}

// Columns returns the columns in declaration order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.columns))
	for _, col := range t.columns {
		names = append(names, col.Name)
	}
	return names
}

// QuoteIdentifier returns name as a GoogleSQL identifier, wrapped in
// backticks when it collides with a reserved keyword.
func QuoteIdentifier(name string) string {
	return spansql.ID(name).SQL()
}
