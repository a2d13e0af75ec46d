// Package condition builds parameterized search conditions from column values.
//
// A ValueSet maps column names to values: Null, a Scalar (optionally prefixed
// with a comparison operator such as ">=10"), a List matched with IN, or
// Composite-key tuples matched as a unit. Builder.Build compiles the set into
// a query.Criteria whose condition references every value through a uniquely
// named bound parameter, merged into a clone of a base criteria.
//
//	table := m_product.Table()
//	values := condition.NewValueSet().
//		SetAny("name", "phone").
//		SetAny("status", []string{"active", "draft"})
//
//	criteria, err := condition.NewBuilder(table).Build(values, nil, condition.BuildOptions{
//		Prefix:  "p",
//		Columns: map[string]condition.ColumnConfig{"name": {PartialMatch: true, Escape: true}},
//	})
//	// criteria.SQL(): p.name LIKE @p0 AND p.status IN (@p1, @p2)
package condition

import (
	"context"
	"log/slog"

	"github.com/light-bringer/procat-search/internal/pkg/query"
	"github.com/light-bringer/procat-search/internal/pkg/schema"
)

// ColumnConfig controls how a column's values are compared.
type ColumnConfig struct {
	// PartialMatch compares with LIKE instead of equality.
	PartialMatch bool
	// Escape escapes LIKE wildcards in the value and wraps it in %...%.
	Escape bool
}

// QuoteFunc quotes a table or alias name for embedding in SQL.
type QuoteFunc func(name string) string

// BuildOptions configures a single Build call.
type BuildOptions struct {
	// Prefix qualifies every column. Defaults to the base criteria's alias,
	// then to the table name.
	Prefix string
	// Operator merges the built conditions into the criteria. Defaults to AND.
	Operator query.Operator
	// UnquotedPrefix leaves Prefix as given instead of quoting it.
	UnquotedPrefix bool
	// Columns holds per-column comparison settings. Missing columns use
	// exact matching.
	Columns map[string]ColumnConfig
}

// Builder compiles value sets into criteria for one table.
// A Builder is immutable and safe for concurrent use.
type Builder struct {
	table  *schema.Table
	quote  QuoteFunc
	params *Allocator
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithAllocator sets the parameter name allocator. Defaults to the
// process-wide allocator.
func WithAllocator(a *Allocator) Option {
	return func(b *Builder) {
		if a != nil {
			b.params = a
		}
	}
}

// WithQuoteFunc sets the identifier quoting function. Defaults to
// schema.QuoteIdentifier.
func WithQuoteFunc(q QuoteFunc) Option {
	return func(b *Builder) {
		if q != nil {
			b.quote = q
		}
	}
}

// WithLogger sets the logger for the builder.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a Builder for the given table.
func NewBuilder(table *schema.Table, opts ...Option) *Builder {
	b := &Builder{
		table:  table,
		quote:  schema.QuoteIdentifier,
		params: defaultAllocator,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Table returns the table the builder validates columns against.
func (b *Builder) Table() *schema.Table {
	return b.table
}

// Build compiles values into a clone of base.
//
// MatchAll and MatchNone merge 1=1 and 0=1. A nil value set returns the clone
// unchanged. Columns missing from the table fail with *UnknownColumnError, in
// which case no criteria is returned. base itself is never modified.
func (b *Builder) Build(values *ValueSet, base *query.Criteria, opts BuildOptions) (*query.Criteria, error) {
	criteria := base.Clone()
	if criteria.Alias == "" {
		criteria.Alias = b.table.Name
	}
	op := opts.Operator
	if op == "" {
		op = query.And
	}

	if values == nil {
		return criteria, nil
	}
	switch values.mode {
	case matchNone:
		return criteria.MergeWith(query.Raw("0=1"), nil, op), nil
	case matchAll:
		return criteria.MergeWith(query.Raw("1=1"), nil, op), nil
	}

	c := &compiler{
		Builder: b,
		prefix:  b.prefix(criteria, opts),
		columns: opts.Columns,
	}

	var composites []Tuple
	for _, e := range values.entries {
		if tuples, ok := e.value.(Composite); ok {
			for _, tuple := range tuples {
				for _, f := range tuple {
					if _, err := c.column(f.Column); err != nil {
						return nil, err
					}
				}
			}
			composites = append(composites, tuples...)
			continue
		}

		col, err := c.column(e.column)
		if err != nil {
			return nil, err
		}
		if cond, params := c.simple(col, e.value); cond != nil {
			criteria.MergeWith(cond, params, op)
		}
	}

	switch {
	case len(composites) == 1:
		if cond, params := c.compositeSingle(composites[0]); cond != nil {
			criteria.MergeWith(cond, params, op)
		}
	case len(composites) > 1:
		cond, params := c.compositeMany(composites)
		criteria.MergeWith(cond, params, op)
	}

	if b.logger.Enabled(context.Background(), slog.LevelDebug) {
		b.logger.Debug("Built search condition",
			"table", b.table.Name,
			"condition", criteria.SQL(),
			"params", len(criteria.Params))
	}

	return criteria, nil
}

func (b *Builder) prefix(criteria *query.Criteria, opts BuildOptions) string {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = criteria.Alias
	}
	if !opts.UnquotedPrefix {
		prefix = b.quote(prefix)
	}
	return prefix + "."
}

// compiler holds the per-call state of Build.
type compiler struct {
	*Builder
	prefix  string
	columns map[string]ColumnConfig
}

func (c *compiler) column(name string) (*schema.Column, error) {
	col, ok := c.table.Column(name)
	if !ok {
		return nil, &UnknownColumnError{Table: c.table.Name, Column: name}
	}
	return col, nil
}

func (c *compiler) ref(col *schema.Column) string {
	return c.prefix + col.RawName
}

// simple compiles the entry of a single column.
func (c *compiler) simple(col *schema.Column, v Value) (query.Expr, map[string]interface{}) {
	switch val := v.(type) {
	case Null:
		return query.NullCheck{Column: c.ref(col)}, nil
	case Scalar:
		return c.match(col, val.V)
	case List:
		switch len(val) {
		case 0:
			return query.Raw("0=1"), nil
		case 1:
			return c.match(col, val[0])
		}
		names := make([]string, len(val))
		params := make(map[string]interface{}, len(val))
		for i, item := range val {
			names[i] = c.params.Next()
			params[names[i]] = col.Typecast(item)
		}
		return query.InList{Column: c.ref(col), Params: names}, params
	}
	return nil, nil
}

// match compiles a single value, applying operator extraction and partial
// matching. It returns a nil expression when the value contributes nothing.
func (c *compiler) match(col *schema.Column, v any) (query.Expr, map[string]interface{}) {
	if v == nil {
		return query.NullCheck{Column: c.ref(col)}, nil
	}

	cfg := c.columns[col.Name]
	m := ResolveMatch(v, cfg.PartialMatch, cfg.Escape)
	if !m.Include {
		return nil, nil
	}

	bound := m.Value
	if !cfg.PartialMatch {
		bound = col.Typecast(bound)
	}
	name := c.params.Next()
	return query.Comparison{Column: c.ref(col), Operator: m.Operator, Param: name},
		map[string]interface{}{name: bound}
}

// compositeSingle ANDs one condition per tuple column.
func (c *compiler) compositeSingle(tuple Tuple) (query.Expr, map[string]interface{}) {
	var exprs []query.Expr
	params := make(map[string]interface{})
	for _, f := range tuple {
		col, _ := c.table.Column(f.Column)
		cond, p := c.match(col, f.Value)
		if cond == nil {
			continue
		}
		exprs = append(exprs, cond)
		for k, v := range p {
			params[k] = v
		}
	}
	if len(exprs) == 0 {
		return nil, nil
	}
	return query.Group{Op: query.And, Exprs: exprs}, params
}

// compositeMany matches the tuples with a row-value IN list. Column order
// comes from the first tuple.
func (c *compiler) compositeMany(tuples []Tuple) (query.Expr, map[string]interface{}) {
	first := tuples[0]
	cols := make([]*schema.Column, len(first))
	refs := make([]string, len(first))
	for i, f := range first {
		cols[i], _ = c.table.Column(f.Column)
		refs[i] = c.ref(cols[i])
	}

	rows := make([][]string, len(tuples))
	params := make(map[string]interface{}, len(tuples)*len(cols))
	for i, tuple := range tuples {
		row := make([]string, len(cols))
		for j, col := range cols {
			v, _ := tuple.Get(col.Name)
			row[j] = c.params.Next()
			params[row[j]] = col.Typecast(v)
		}
		rows[i] = row
	}
	return query.RowInList{Columns: refs, Rows: rows}, params
}
