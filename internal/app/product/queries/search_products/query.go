package search_products

import (
	"context"

	"github.com/light-bringer/procat-search/internal/app/product/contracts"
)

// Request contains product search filters and pagination.
type Request struct {
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

// Query handles the search products query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new search products query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves the products matching the request.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.SearchResult, error) {
	search := &contracts.ProductSearch{
		ProductIDs:      req.ProductIDs,
		Name:            req.Name,
		Description:     req.Description,
		Categories:      req.Categories,
		Statuses:        req.Statuses,
		DiscountPercent: req.DiscountPercent,
		IncludeArchived: req.IncludeArchived,
		Unzipped:        req.Unzipped,
		PageSize:        req.PageSize,
	}

	return q.readModel.SearchProducts(ctx, search)
}
