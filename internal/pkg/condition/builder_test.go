package condition

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-search/internal/pkg/query"
	"github.com/light-bringer/procat-search/internal/pkg/schema"
)

func productsTable() *schema.Table {
	return schema.NewTable("products",
		schema.Column{Name: "product_id", Type: schema.String, PrimaryKey: true},
		schema.Column{Name: "name", Type: schema.String},
		schema.Column{Name: "category", Type: schema.String},
		schema.Column{Name: "status", Type: schema.String},
		schema.Column{Name: "stock", Type: schema.Int64, AllowNull: true},
		schema.Column{Name: "order", Type: schema.Int64},
	)
}

func newTestBuilder() *Builder {
	return NewBuilder(productsTable(), WithAllocator(NewAllocator("p")))
}

func build(t *testing.T, values *ValueSet, opts BuildOptions) *query.Criteria {
	t.Helper()
	criteria, err := newTestBuilder().Build(values, query.NewCriteria("p"), opts)
	require.NoError(t, err)
	return criteria
}

func TestBuild_ScalarEquality(t *testing.T) {
	criteria := build(t, NewValueSet().SetAny("name", "bob"), BuildOptions{})

	assert.Equal(t, "p.name = @p0", criteria.SQL())
	assert.Equal(t, map[string]interface{}{"p0": "bob"}, criteria.Params)
}

func TestBuild_ListIn(t *testing.T) {
	criteria := build(t, NewValueSet().SetAny("status", []string{"a", "b"}), BuildOptions{})

	assert.Equal(t, "p.status IN (@p0, @p1)", criteria.SQL())
	assert.Equal(t, map[string]interface{}{"p0": "a", "p1": "b"}, criteria.Params)
}

func TestBuild_ListTypecast(t *testing.T) {
	criteria := build(t, NewValueSet().SetAny("stock", []string{"1", "2"}), BuildOptions{})

	assert.Equal(t, "p.stock IN (@p0, @p1)", criteria.SQL())
	assert.Equal(t, map[string]interface{}{"p0": int64(1), "p1": int64(2)}, criteria.Params)
}

func TestBuild_SingleElementListIsScalar(t *testing.T) {
	criteria := build(t, NewValueSet().SetAny("status", []string{">=b"}), BuildOptions{})

	assert.Equal(t, "p.status >= @p0", criteria.SQL())
	assert.Equal(t, map[string]interface{}{"p0": "b"}, criteria.Params)
}

func TestBuild_EmptyListMatchesNothing(t *testing.T) {
	criteria := build(t, NewValueSet().Set("status", List{}), BuildOptions{})

	assert.Equal(t, "0=1", criteria.SQL())
	assert.Empty(t, criteria.Params)
}

func TestBuild_Null(t *testing.T) {
	criteria := build(t, NewValueSet().SetAny("stock", nil), BuildOptions{})

	assert.Equal(t, "p.stock IS NULL", criteria.SQL())
	assert.Empty(t, criteria.Params)
}

func TestBuild_LikeEscaping(t *testing.T) {
	criteria := build(t, NewValueSet().SetAny("name", "50% off"), BuildOptions{
		Columns: map[string]ColumnConfig{"name": {PartialMatch: true, Escape: true}},
	})

	assert.Equal(t, "p.name LIKE @p0", criteria.SQL())
	assert.Equal(t, map[string]interface{}{"p0": `%50\% off%`}, criteria.Params)
}

func TestBuild_PartialMatch(t *testing.T) {
	t.Run("negated operator", func(t *testing.T) {
		criteria := build(t, NewValueSet().SetAny("name", "<>draft"), BuildOptions{
			Columns: map[string]ColumnConfig{"name": {PartialMatch: true}},
		})

		assert.Equal(t, "p.name NOT LIKE @p0", criteria.SQL())
		assert.Equal(t, map[string]interface{}{"p0": "draft"}, criteria.Params)
	})

	t.Run("empty value contributes nothing", func(t *testing.T) {
		criteria := build(t, NewValueSet().SetAny("name", ""), BuildOptions{
			Columns: map[string]ColumnConfig{"name": {PartialMatch: true}},
		})

		assert.True(t, criteria.IsEmpty())
		assert.Empty(t, criteria.Params)
	})

	t.Run("bare operator contributes nothing", func(t *testing.T) {
		criteria := build(t, NewValueSet().SetAny("name", ">="), BuildOptions{
			Columns: map[string]ColumnConfig{"name": {PartialMatch: true}},
		})

		assert.True(t, criteria.IsEmpty())
	})
}

func TestBuild_OperatorPrefix(t *testing.T) {
	criteria := build(t, NewValueSet().SetAny("stock", ">5"), BuildOptions{})

	assert.Equal(t, "p.stock > @p0", criteria.SQL())
	assert.Equal(t, map[string]interface{}{"p0": int64(5)}, criteria.Params)
}

func TestBuild_MultipleColumns(t *testing.T) {
	values := NewValueSet().
		SetAny("name", "bob").
		SetAny("status", []string{"active", "draft"}).
		SetAny("stock", "<=10")

	criteria := build(t, values, BuildOptions{})

	assert.Equal(t, "p.name = @p0 AND p.status IN (@p1, @p2) AND p.stock <= @p3", criteria.SQL())
	assert.Equal(t, map[string]interface{}{
		"p0": "bob",
		"p1": "active",
		"p2": "draft",
		"p3": int64(10),
	}, criteria.Params)
}

func TestBuild_OrOperator(t *testing.T) {
	values := NewValueSet().SetAny("name", "bob").SetAny("category", "tools")

	criteria := build(t, values, BuildOptions{Operator: query.Or})

	assert.Equal(t, "p.name = @p0 OR p.category = @p1", criteria.SQL())
}

func TestBuild_SingleTuple(t *testing.T) {
	values := NewValueSet().AddTuples(Tuple{
		{Column: "category", Value: "a"},
		{Column: "status", Value: "b"},
	})

	criteria := build(t, values, BuildOptions{})

	assert.Equal(t, "(p.category = @p0 AND p.status = @p1)", criteria.SQL())
	assert.Equal(t, map[string]interface{}{"p0": "a", "p1": "b"}, criteria.Params)
}

func TestBuild_SingleTupleWithNull(t *testing.T) {
	values := NewValueSet().AddTuples(Tuple{
		{Column: "category", Value: "a"},
		{Column: "stock", Value: nil},
	})

	criteria := build(t, values, BuildOptions{})

	assert.Equal(t, "(p.category = @p0 AND p.stock IS NULL)", criteria.SQL())
	assert.Equal(t, map[string]interface{}{"p0": "a"}, criteria.Params)
}

func TestBuild_MultipleTuples(t *testing.T) {
	values := NewValueSet().AddTuples(
		Tuple{{Column: "category", Value: "a"}, {Column: "status", Value: "b"}},
		Tuple{{Column: "category", Value: "c"}, {Column: "status", Value: "d"}},
	)

	criteria := build(t, values, BuildOptions{})

	assert.Equal(t, "(p.category, p.status) IN ((@p0, @p1), (@p2, @p3))", criteria.SQL())
	assert.Equal(t, map[string]interface{}{
		"p0": "a",
		"p1": "b",
		"p2": "c",
		"p3": "d",
	}, criteria.Params)
}

func TestBuild_TupleColumnOrderFromFirstTuple(t *testing.T) {
	values := NewValueSet().AddTuples(
		Tuple{{Column: "category", Value: "a"}, {Column: "stock", Value: "1"}},
		Tuple{{Column: "stock", Value: "2"}, {Column: "category", Value: "b"}},
	)

	criteria := build(t, values, BuildOptions{})

	assert.Equal(t, "(p.category, p.stock) IN ((@p0, @p1), (@p2, @p3))", criteria.SQL())
	assert.Equal(t, map[string]interface{}{
		"p0": "a",
		"p1": int64(1),
		"p2": "b",
		"p3": int64(2),
	}, criteria.Params)
}

func TestBuild_CompositesAfterSimpleColumns(t *testing.T) {
	values := NewValueSet().
		AddTuples(Tuple{{Column: "category", Value: "a"}, {Column: "status", Value: "b"}}).
		SetAny("name", "bob")

	criteria := build(t, values, BuildOptions{})

	assert.Equal(t, "p.name = @p0 AND (p.category = @p1 AND p.status = @p2)", criteria.SQL())
}

func TestBuild_UnknownColumn(t *testing.T) {
	t.Run("simple column", func(t *testing.T) {
		criteria, err := newTestBuilder().Build(NewValueSet().SetAny("nope", "x"), nil, BuildOptions{})

		require.Error(t, err)
		assert.Nil(t, criteria)
		assert.ErrorIs(t, err, ErrUnknownColumn)
		assert.EqualError(t, err, `table "products" does not have a column named "nope"`)

		var colErr *UnknownColumnError
		require.True(t, errors.As(err, &colErr))
		assert.Equal(t, "nope", colErr.Column)
		assert.Equal(t, "products", colErr.Table)
	})

	t.Run("composite column", func(t *testing.T) {
		values := NewValueSet().
			SetAny("name", "bob").
			AddTuples(Tuple{{Column: "category", Value: "a"}, {Column: "nope", Value: "b"}})

		criteria, err := newTestBuilder().Build(values, nil, BuildOptions{})

		assert.ErrorIs(t, err, ErrUnknownColumn)
		assert.Nil(t, criteria)
	})
}

func TestBuild_Sentinels(t *testing.T) {
	base := query.NewCriteria("p").MergeWith(query.Raw("p.stock > 0"), nil, query.And)

	t.Run("match none", func(t *testing.T) {
		criteria, err := newTestBuilder().Build(MatchNone(), base, BuildOptions{})
		require.NoError(t, err)
		assert.Equal(t, "p.stock > 0 AND 0=1", criteria.SQL())
	})

	t.Run("match all with OR", func(t *testing.T) {
		criteria, err := newTestBuilder().Build(MatchAll(), base, BuildOptions{Operator: query.Or})
		require.NoError(t, err)
		assert.Equal(t, "p.stock > 0 OR 1=1", criteria.SQL())
	})

	t.Run("base is unchanged", func(t *testing.T) {
		assert.Equal(t, "p.stock > 0", base.SQL())
	})
}

func TestBuild_NilValueSet(t *testing.T) {
	base := query.NewCriteria("p").MergeWith(query.Raw("p.stock > 0"), nil, query.And)

	criteria, err := newTestBuilder().Build(nil, base, BuildOptions{})

	require.NoError(t, err)
	assert.Equal(t, "p.stock > 0", criteria.SQL())
	assert.NotSame(t, base, criteria)
}

func TestBuild_DoesNotModifyBase(t *testing.T) {
	base := query.NewCriteria("p").MergeWith(
		query.Comparison{Column: "p.category", Operator: "=", Param: "c0"},
		map[string]interface{}{"c0": "tools"},
		query.And,
	)

	criteria, err := newTestBuilder().Build(NewValueSet().SetAny("name", "bob"), base, BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, "p.category = @c0 AND p.name = @p0", criteria.SQL())
	assert.Equal(t, map[string]interface{}{"c0": "tools", "p0": "bob"}, criteria.Params)
	assert.Equal(t, "p.category = @c0", base.SQL())
	assert.Equal(t, map[string]interface{}{"c0": "tools"}, base.Params)
}

func TestBuild_Prefix(t *testing.T) {
	values := func() *ValueSet { return NewValueSet().SetAny("name", "bob") }

	t.Run("defaults to table name", func(t *testing.T) {
		criteria, err := newTestBuilder().Build(values(), nil, BuildOptions{})
		require.NoError(t, err)
		assert.Equal(t, "products.name = @p0", criteria.SQL())
		assert.Equal(t, "products", criteria.Alias)
	})

	t.Run("explicit prefix wins over alias", func(t *testing.T) {
		criteria := build(t, values(), BuildOptions{Prefix: "x"})
		assert.Equal(t, "x.name = @p0", criteria.SQL())
	})

	t.Run("reserved prefix is quoted", func(t *testing.T) {
		criteria := build(t, values(), BuildOptions{Prefix: "order"})
		assert.Equal(t, "`order`.name = @p0", criteria.SQL())
	})

	t.Run("unquoted prefix", func(t *testing.T) {
		criteria := build(t, values(), BuildOptions{Prefix: "order", UnquotedPrefix: true})
		assert.Equal(t, "order.name = @p0", criteria.SQL())
	})

	t.Run("custom quote func", func(t *testing.T) {
		b := NewBuilder(productsTable(),
			WithAllocator(NewAllocator("p")),
			WithQuoteFunc(func(name string) string { return "[" + name + "]" }),
		)
		criteria, err := b.Build(values(), query.NewCriteria("p"), BuildOptions{})
		require.NoError(t, err)
		assert.Equal(t, "[p].name = @p0", criteria.SQL())
	})
}

func TestBuild_ReservedColumnIsQuoted(t *testing.T) {
	criteria := build(t, NewValueSet().SetAny("order", "3"), BuildOptions{})

	assert.Equal(t, "p.`order` = @p0", criteria.SQL())
	assert.Equal(t, map[string]interface{}{"p0": int64(3)}, criteria.Params)
}

func TestBuild_UniqueParameterNames(t *testing.T) {
	b := NewBuilder(productsTable())
	values := NewValueSet().SetAny("name", "bob").SetAny("status", []string{"a", "b"})

	first, err := b.Build(values, nil, BuildOptions{})
	require.NoError(t, err)
	second, err := b.Build(values, nil, BuildOptions{})
	require.NoError(t, err)

	require.Len(t, first.Params, 3)
	require.Len(t, second.Params, 3)
	for name := range first.Params {
		assert.NotContains(t, second.Params, name)
	}

	merged := first.Clone().Merge(second, query.And)
	assert.Len(t, merged.Params, 6)
}

func TestBuild_DebugLogging(t *testing.T) {
	build := func(level slog.Level) string {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level}))
		b := NewBuilder(productsTable(), WithAllocator(NewAllocator("d")), WithLogger(logger))

		_, err := b.Build(NewValueSet().SetAny("name", "bob"), nil, BuildOptions{Prefix: "p"})
		require.NoError(t, err)
		return buf.String()
	}

	out := build(slog.LevelDebug)
	assert.Contains(t, out, "Built search condition")
	assert.Contains(t, out, "p.name = @d0")

	assert.Empty(t, build(slog.LevelInfo))
}
