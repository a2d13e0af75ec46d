package services

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/procat-search/internal/app/product/queries/search_price_history"
	"github.com/light-bringer/procat-search/internal/app/product/queries/search_products"
	"github.com/light-bringer/procat-search/internal/app/product/repo"
	"github.com/light-bringer/procat-search/internal/models/m_price_history"
	"github.com/light-bringer/procat-search/internal/models/m_product"
	"github.com/light-bringer/procat-search/internal/pkg/clock"
	"github.com/light-bringer/procat-search/internal/pkg/condition"
	"github.com/light-bringer/procat-search/internal/pkg/schema"
	"github.com/light-bringer/procat-search/internal/transport/grpc/search"
)

// Config holds the settings the services depend on.
type Config struct {
	SpannerDB   string
	ParamPrefix string
	// LoadSchema reads table descriptors from INFORMATION_SCHEMA instead
	// of using the static ones in internal/models.
	LoadSchema bool
	// Clock defaults to the system clock when nil.
	Clock  clock.Clock
	Logger *slog.Logger
}

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	SearchHandler *search.Handler
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg Config) (*ServiceOptions, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// 1. Initialize Spanner client
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	// 2. Resolve table schemas
	products, history := m_product.Table(), m_price_history.Table()
	if cfg.LoadSchema {
		loader := schema.NewLoader(spannerClient)
		if products, err = loader.Load(ctx, m_product.TableName); err != nil {
			spannerClient.Close()
			return nil, fmt.Errorf("failed to load %s schema: %w", m_product.TableName, err)
		}
		if history, err = loader.Load(ctx, m_price_history.TableName); err != nil {
			spannerClient.Close()
			return nil, fmt.Errorf("failed to load %s schema: %w", m_price_history.TableName, err)
		}
	}

	// 3. Create read model
	readModel := repo.NewReadModel(spannerClient,
		repo.WithTables(products, history),
		repo.WithAllocator(condition.NewAllocator(cfg.ParamPrefix)),
		repo.WithClock(cfg.Clock),
		repo.WithLogger(logger),
	)

	// 4. Create queries
	searchProductsQuery := search_products.NewQuery(readModel)
	searchPriceHistoryQuery := search_price_history.NewQuery(readModel)

	// 5. Create gRPC handler
	searchHandler := search.NewHandler(searchProductsQuery, searchPriceHistoryQuery, logger)

	return &ServiceOptions{
		SpannerClient: spannerClient,
		SearchHandler: searchHandler,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
