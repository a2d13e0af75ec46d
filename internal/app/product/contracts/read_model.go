package contracts

import (
	"context"
	"time"

	"github.com/light-bringer/procat-search/internal/models/m_product"
)

// ProductDTO is a data transfer object for product queries.
type ProductDTO struct {
	ProductID       string
	Name            string
	Description     string
	Category        string
	BasePrice       float64 // Approximate representation for display
	EffectivePrice  float64 // Current price with discount applied
	DiscountPercent *int64
	DiscountActive  bool
	Status          string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProductSearch describes a product search.
//
// Scalar filters may start with a comparison operator ("<>draft", ">=10").
// Name and Description match substrings. List filters match any of their
// elements; when both Categories and Statuses are given they are matched
// pairwise as (category, status) unless Unzipped is set. ProductIDs are never
// paired.
type ProductSearch struct {
	ProductIDs      []string
	Name            string
	Description     string
	Categories      []string
	Statuses        []string
	DiscountPercent string

	IncludeArchived bool
	Unzipped        bool
	PageSize        int
}

// SearchAttribute returns the filter value for a products column.
func (s *ProductSearch) SearchAttribute(column string) any {
	switch column {
	case m_product.ProductID:
		return s.ProductIDs
	case m_product.Name:
		return s.Name
	case m_product.Description:
		return s.Description
	case m_product.Category:
		return s.Categories
	case m_product.Status:
		return s.Statuses
	case m_product.DiscountPercent:
		return s.DiscountPercent
	}
	return nil
}

// SearchResult contains matching products.
type SearchResult struct {
	Products   []*ProductDTO
	TotalCount int64
}

// ReadModel defines the interface for search queries.
// Read models bypass the write side and return DTOs directly.
type ReadModel interface {
	// SearchProducts returns products matching the search, most recently created first.
	SearchProducts(ctx context.Context, search *ProductSearch) (*SearchResult, error)

	// SearchPriceHistory returns price changes matching the search, most recent first.
	SearchPriceHistory(ctx context.Context, search *PriceHistorySearch) (*PriceHistoryResult, error)
}
