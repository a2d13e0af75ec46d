package condition

import (
	"github.com/light-bringer/procat-search/internal/pkg/query"
	"github.com/light-bringer/procat-search/internal/pkg/schema"
)

// Record exposes the attribute values a Searcher reads.
type Record interface {
	SearchAttribute(column string) any
}

// Attributes is a Record backed by a map.
type Attributes map[string]any

// SearchAttribute returns the value stored for column, or nil.
func (a Attributes) SearchAttribute(column string) any {
	return a[column]
}

// ColumnSpec declares a searchable column and how it is compared.
type ColumnSpec struct {
	Name string
	ColumnConfig
}

// SearchOptions configures SearchCriteria and BuildCriteria.
type SearchOptions struct {
	// Trim treats blank strings as empty.
	Trim bool
	// Unzipped keeps list attributes as independent IN lists.
	Unzipped bool
	// Prefix overrides the column qualifier. Defaults to the searcher alias.
	Prefix         string
	UnquotedPrefix bool
	// Operator merges the built conditions. Defaults to AND.
	Operator query.Operator
}

// Searcher builds search criteria from records of one table.
type Searcher struct {
	builder *Builder
	alias   string
	columns []ColumnSpec
	configs map[string]ColumnConfig
}

// NewSearcher creates a Searcher over the given columns of table. alias
// qualifies columns in the generated conditions; it defaults to the table name.
func NewSearcher(table *schema.Table, alias string, columns []ColumnSpec, opts ...Option) *Searcher {
	if alias == "" {
		alias = table.Name
	}
	configs := make(map[string]ColumnConfig, len(columns))
	for _, c := range columns {
		configs[c.Name] = c.ColumnConfig
	}
	return &Searcher{
		builder: NewBuilder(table, opts...),
		alias:   alias,
		columns: append([]ColumnSpec(nil), columns...),
		configs: configs,
	}
}

// Alias returns the alias the searcher qualifies columns with.
func (s *Searcher) Alias() string {
	return s.alias
}

// Table returns the searched table.
func (s *Searcher) Table() *schema.Table {
	return s.builder.Table()
}

// Criteria returns a fresh default criteria for the searcher.
func (s *Searcher) Criteria() *query.Criteria {
	return query.NewCriteria(s.alias)
}

// SearchCriteria reads the searchable columns from rec and builds a criteria
// matching them, ANDed with merge when given.
func (s *Searcher) SearchCriteria(rec Record, merge *query.Criteria, opts SearchOptions) (*query.Criteria, error) {
	attrs := make([]Attribute, 0, len(s.columns))
	for _, c := range s.columns {
		attrs = append(attrs, Attribute{Column: c.Name, Value: rec.SearchAttribute(c.Name)})
	}
	values := Classify(attrs, ClassifyOptions{Trim: opts.Trim, Unzipped: opts.Unzipped})
	return s.BuildCriteria(values, merge, opts)
}

// BuildCriteria builds a criteria matching values, ANDed with merge when given.
func (s *Searcher) BuildCriteria(values *ValueSet, merge *query.Criteria, opts SearchOptions) (*query.Criteria, error) {
	base := s.Criteria()
	if merge != nil {
		base.Merge(merge, query.And)
	}
	return s.builder.Build(values, base, BuildOptions{
		Prefix:         opts.Prefix,
		Operator:       opts.Operator,
		UnquotedPrefix: opts.UnquotedPrefix,
		Columns:        s.configs,
	})
}
