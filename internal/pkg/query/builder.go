package query

import (
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
)

// Direction represents ORDER BY direction.
type Direction int

const (
	// Asc represents ascending order.
	Asc Direction = iota
	// Desc represents descending order.
	Desc
)

// Builder constructs SQL SELECT queries for Cloud Spanner.
// It provides a fluent API for building queries from a table, a WHERE
// criteria, ORDER BY, LIMIT, and OFFSET. Every method returns a new builder.
type Builder struct {
	table      string
	alias      string
	selectCols []string
	where      *Criteria
	orderBy    []orderTerm
	limitVal   int64
	offsetVal  int64
}

type orderTerm struct {
	column    string
	direction Direction
}

// From creates a new Builder for the specified table.
func From(table string) *Builder {
	return &Builder{
		table:      table,
		selectCols: []string{},
	}
}

// As sets the table alias used in the FROM clause.
func (b *Builder) As(alias string) *Builder {
	newBuilder := b.clone()
	newBuilder.alias = alias
	return newBuilder
}

// Select specifies the columns to retrieve.
func (b *Builder) Select(columns ...string) *Builder {
	newBuilder := b.clone()
	newBuilder.selectCols = append(newBuilder.selectCols, columns...)
	return newBuilder
}

// Where adds a WHERE criteria.
// Multiple calls are combined with AND logic.
func (b *Builder) Where(criteria *Criteria) *Builder {
	newBuilder := b.clone()
	if criteria == nil {
		return newBuilder
	}
	if newBuilder.where == nil {
		newBuilder.where = criteria.Clone()
	} else {
		newBuilder.where.Merge(criteria, And)
	}
	return newBuilder
}

// OrderBy appends a sort column and direction.
func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	newBuilder := b.clone()
	newBuilder.orderBy = append(newBuilder.orderBy, orderTerm{column: column, direction: direction})
	return newBuilder
}

// Limit sets the maximum number of rows to return.
func (b *Builder) Limit(limit int64) *Builder {
	newBuilder := b.clone()
	newBuilder.limitVal = limit
	return newBuilder
}

// Offset sets the number of rows to skip.
func (b *Builder) Offset(offset int64) *Builder {
	newBuilder := b.clone()
	newBuilder.offsetVal = offset
	return newBuilder
}

// Count returns a new builder that generates a COUNT(*) query
// with the same FROM and WHERE clauses.
func (b *Builder) Count() *Builder {
	newBuilder := b.clone()
	newBuilder.selectCols = []string{"COUNT(*)"}
	// Clear pagination for count query
	newBuilder.limitVal = 0
	newBuilder.offsetVal = 0
	newBuilder.orderBy = nil
	return newBuilder
}

// Build constructs the final spanner.Statement with SQL and parameters.
func (b *Builder) Build() spanner.Statement {
	var sql strings.Builder
	params := make(map[string]interface{})

	// SELECT clause
	sql.WriteString("SELECT ")
	if len(b.selectCols) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.selectCols, ", "))
	}

	// FROM clause
	sql.WriteString(" FROM ")
	sql.WriteString(b.table)
	if b.alias != "" {
		sql.WriteString(" AS ")
		sql.WriteString(b.alias)
	}

	// WHERE clause
	if !b.where.IsEmpty() {
		sql.WriteString(" WHERE ")
		sql.WriteString(b.where.SQL())
	}
	if b.where != nil {
		for k, v := range b.where.Params {
			params[k] = v
		}
	}

	// ORDER BY clause
	if len(b.orderBy) > 0 {
		sql.WriteString(" ORDER BY ")
		terms := make([]string, 0, len(b.orderBy))
		for _, term := range b.orderBy {
			if term.direction == Desc {
				terms = append(terms, term.column+" DESC")
			} else {
				terms = append(terms, term.column+" ASC")
			}
		}
		sql.WriteString(strings.Join(terms, ", "))
	}

	// LIMIT clause
	if b.limitVal > 0 {
		sql.WriteString(" LIMIT @limit")
		params["limit"] = b.limitVal
	}

	// OFFSET clause
	if b.offsetVal > 0 {
		sql.WriteString(" OFFSET @offset")
		params["offset"] = b.offsetVal
	}

	return spanner.Statement{
		SQL:    sql.String(),
		Params: params,
	}
}

// clone creates a copy of the builder for immutability.
func (b *Builder) clone() *Builder {
	newBuilder := &Builder{
		table:      b.table,
		alias:      b.alias,
		selectCols: make([]string, len(b.selectCols)),
		orderBy:    make([]orderTerm, len(b.orderBy)),
		limitVal:   b.limitVal,
		offsetVal:  b.offsetVal,
	}
	copy(newBuilder.selectCols, b.selectCols)
	copy(newBuilder.orderBy, b.orderBy)
	if b.where != nil {
		newBuilder.where = b.where.Clone()
	}
	return newBuilder
}

// String returns a human-readable representation for debugging.
func (b *Builder) String() string {
	stmt := b.Build()
	return fmt.Sprintf("SQL: %s\nParams: %v", stmt.SQL, stmt.Params)
}
