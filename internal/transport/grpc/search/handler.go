package search

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/procat-search/internal/app/product/queries/search_price_history"
	"github.com/light-bringer/procat-search/internal/app/product/queries/search_products"
)

// Handler implements SearchServiceServer.
// It's a thin coordinator that delegates to the search queries.
type Handler struct {
	searchProducts     *search_products.Query
	searchPriceHistory *search_price_history.Query
	logger             *slog.Logger
}

// NewHandler creates a new gRPC search handler.
func NewHandler(
	searchProducts *search_products.Query,
	searchPriceHistory *search_price_history.Query,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		searchProducts:     searchProducts,
		searchPriceHistory: searchPriceHistory,
		logger:             logger,
	}
}

// SearchProducts searches the product catalog.
func (h *Handler) SearchProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	// 1. Convert request
	queryReq, err := structToProductRequest(req)
	if err != nil {
		return nil, err
	}

	// 2. Execute query
	result, err := h.searchProducts.Execute(ctx, queryReq)
	if err != nil {
		h.logger.ErrorContext(ctx, "Product search failed", "error", err)
		return nil, mapErrorToGRPC(err)
	}

	// 3. Build reply
	reply, err := productResultToStruct(result)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode reply: %v", err)
	}
	return reply, nil
}

// SearchPriceHistory searches recorded price changes.
func (h *Handler) SearchPriceHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	queryReq, err := structToHistoryRequest(req)
	if err != nil {
		return nil, err
	}

	result, err := h.searchPriceHistory.Execute(ctx, queryReq)
	if err != nil {
		h.logger.ErrorContext(ctx, "Price history search failed", "error", err)
		return nil, mapErrorToGRPC(err)
	}

	reply, err := historyResultToStruct(result)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode reply: %v", err)
	}
	return reply, nil
}
