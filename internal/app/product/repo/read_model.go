package repo

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/procat-search/internal/app/product/contracts"
	"github.com/light-bringer/procat-search/internal/models/m_price_history"
	"github.com/light-bringer/procat-search/internal/models/m_product"
	"github.com/light-bringer/procat-search/internal/pkg/clock"
	"github.com/light-bringer/procat-search/internal/pkg/condition"
	"github.com/light-bringer/procat-search/internal/pkg/query"
	"github.com/light-bringer/procat-search/internal/pkg/schema"
)

const (
	productAlias = "p"
	historyAlias = "h"

	defaultPageSize = 50
	maxPageSize     = 100
)

// productColumns are the searchable columns of the products table. Product
// ids are matched separately so they never pair with categories or statuses.
var productColumns = []condition.ColumnSpec{
	{Name: m_product.Name, ColumnConfig: condition.ColumnConfig{PartialMatch: true, Escape: true}},
	{Name: m_product.Description, ColumnConfig: condition.ColumnConfig{PartialMatch: true, Escape: true}},
	{Name: m_product.Category},
	{Name: m_product.Status},
	{Name: m_product.DiscountPercent},
}

// historyColumns are the searchable columns of the price_history table.
var historyColumns = []condition.ColumnSpec{
	{Name: m_price_history.ProductID},
	{Name: m_price_history.ChangedBy},
	{Name: m_price_history.ChangedReason, ColumnConfig: condition.ColumnConfig{PartialMatch: true, Escape: true}},
	{Name: m_price_history.ChangedAt},
}

// Option configures a ReadModelImpl.
type Option func(*config)

type config struct {
	products  *schema.Table
	history   *schema.Table
	allocator *condition.Allocator
	clock     clock.Clock
	logger    *slog.Logger
}

// WithTables replaces the static table descriptors, e.g. with ones read by
// schema.Loader.
func WithTables(products, history *schema.Table) Option {
	return func(c *config) {
		if products != nil {
			c.products = products
		}
		if history != nil {
			c.history = history
		}
	}
}

// WithAllocator sets the parameter name allocator used by the searchers.
func WithAllocator(a *condition.Allocator) Option {
	return func(c *config) {
		c.allocator = a
	}
}

// WithClock sets the clock discounts are evaluated against.
func WithClock(c clock.Clock) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithLogger sets the logger for statements and search conditions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// ReadModelImpl implements ReadModel for Spanner.
type ReadModelImpl struct {
	client   *spanner.Client
	products *condition.Searcher
	history  *condition.Searcher
	clock    clock.Clock
	logger   *slog.Logger
}

// NewReadModel creates a new ReadModel implementation.
func NewReadModel(client *spanner.Client, opts ...Option) *ReadModelImpl {
	cfg := &config{
		products: m_product.Table(),
		history:  m_price_history.Table(),
		clock:    clock.NewRealClock(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	searchOpts := []condition.Option{condition.WithLogger(cfg.logger)}
	if cfg.allocator != nil {
		searchOpts = append(searchOpts, condition.WithAllocator(cfg.allocator))
	}

	return &ReadModelImpl{
		client:   client,
		products: condition.NewSearcher(cfg.products, productAlias, productColumns, searchOpts...),
		history:  condition.NewSearcher(cfg.history, historyAlias, historyColumns, searchOpts...),
		clock:    cfg.clock,
		logger:   cfg.logger,
	}
}

// SearchProducts retrieves products matching the search, most recently created first.
func (rm *ReadModelImpl) SearchProducts(ctx context.Context, search *contracts.ProductSearch) (*contracts.SearchResult, error) {
	stmt, err := rm.productStatement(search)
	if err != nil {
		return nil, fmt.Errorf("failed to build product search: %w", err)
	}
	rm.logger.DebugContext(ctx, "Executing query", "sql", stmt.SQL, "params", len(stmt.Params))

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	now := rm.clock.Now()
	products := make([]*contracts.ProductDTO, 0)

	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}

		dto, err := dataToDTO(&data, now)
		if err != nil {
			return nil, fmt.Errorf("failed to convert to DTO: %w", err)
		}

		products = append(products, dto)
	}

	return &contracts.SearchResult{
		Products:   products,
		TotalCount: int64(len(products)),
	}, nil
}

// productStatement builds the SELECT for a product search.
func (rm *ReadModelImpl) productStatement(search *contracts.ProductSearch) (spanner.Statement, error) {
	if search == nil {
		search = &contracts.ProductSearch{}
	}

	var merge *query.Criteria
	if !search.IncludeArchived {
		merge = rm.products.Criteria().MergeWith(
			query.NullCheck{Column: qualify(productAlias, m_product.ArchivedAt)}, nil, query.And)
	}

	if len(search.ProductIDs) > 0 {
		ids := condition.NewValueSet().SetAny(m_product.ProductID, search.ProductIDs)
		var err error
		merge, err = rm.products.BuildCriteria(ids, merge, condition.SearchOptions{})
		if err != nil {
			return spanner.Statement{}, err
		}
	}

	criteria, err := rm.products.SearchCriteria(search, merge, condition.SearchOptions{
		Trim:     true,
		Unzipped: search.Unzipped,
	})
	if err != nil {
		return spanner.Statement{}, err
	}

	return query.From(m_product.TableName).
		As(productAlias).
		Select(qualifyAll(productAlias, m_product.NewModel().ReadColumns())...).
		Where(criteria).
		OrderBy(qualify(productAlias, m_product.CreatedAt), query.Desc).
		Limit(pageSize(search.PageSize)).
		Build(), nil
}

func pageSize(n int) int64 {
	switch {
	case n <= 0:
		return defaultPageSize
	case n > maxPageSize:
		return maxPageSize
	}
	return int64(n)
}

func qualify(alias, column string) string {
	return alias + "." + schema.QuoteIdentifier(column)
}

func qualifyAll(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = qualify(alias, c)
	}
	return out
}
