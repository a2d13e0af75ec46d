package search_price_history

import (
	"context"

	"github.com/light-bringer/procat-search/internal/app/product/contracts"
)

// Request contains price history search filters.
type Request struct {
	ProductIDs    []string
	ChangedBy     string
	ChangedReason string
	ChangedAt     string
	Limit         int
}

// Query handles the search price history query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new search price history query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves the price changes matching the request.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.PriceHistoryResult, error) {
	return q.readModel.SearchPriceHistory(ctx, &contracts.PriceHistorySearch{
		ProductIDs:    req.ProductIDs,
		ChangedBy:     req.ChangedBy,
		ChangedReason: req.ChangedReason,
		ChangedAt:     req.ChangedAt,
		Limit:         req.Limit,
	})
}
