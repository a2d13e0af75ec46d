package search

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/procat-search/internal/app/product/contracts"
	"github.com/light-bringer/procat-search/internal/app/product/queries/search_price_history"
	"github.com/light-bringer/procat-search/internal/app/product/queries/search_products"
)

// Request and reply field names.
const (
	FieldProductIDs      = "product_ids"
	FieldName            = "name"
	FieldDescription     = "description"
	FieldCategories      = "categories"
	FieldStatuses        = "statuses"
	FieldDiscountPercent = "discount_percent"
	FieldIncludeArchived = "include_archived"
	FieldUnzipped        = "unzipped"
	FieldPageSize        = "page_size"

	FieldChangedBy     = "changed_by"
	FieldChangedReason = "changed_reason"
	FieldChangedAt     = "changed_at"
	FieldLimit         = "limit"

	FieldProducts   = "products"
	FieldTotalCount = "total_count"
	FieldRecords    = "records"
)

// structToProductRequest converts a SearchProducts request to a query request.
func structToProductRequest(req *structpb.Struct) (*search_products.Request, error) {
	f := requestFields(req)
	out := &search_products.Request{}

	var err error
	if out.ProductIDs, err = f.stringList(FieldProductIDs); err != nil {
		return nil, err
	}
	if out.Name, err = f.stringValue(FieldName); err != nil {
		return nil, err
	}
	if out.Description, err = f.stringValue(FieldDescription); err != nil {
		return nil, err
	}
	if out.Categories, err = f.stringList(FieldCategories); err != nil {
		return nil, err
	}
	if out.Statuses, err = f.stringList(FieldStatuses); err != nil {
		return nil, err
	}
	if out.DiscountPercent, err = f.stringValue(FieldDiscountPercent); err != nil {
		return nil, err
	}
	if out.IncludeArchived, err = f.boolValue(FieldIncludeArchived); err != nil {
		return nil, err
	}
	if out.Unzipped, err = f.boolValue(FieldUnzipped); err != nil {
		return nil, err
	}
	if out.PageSize, err = f.intValue(FieldPageSize); err != nil {
		return nil, err
	}
	return out, nil
}

// structToHistoryRequest converts a SearchPriceHistory request to a query request.
func structToHistoryRequest(req *structpb.Struct) (*search_price_history.Request, error) {
	f := requestFields(req)
	out := &search_price_history.Request{}

	var err error
	if out.ProductIDs, err = f.stringList(FieldProductIDs); err != nil {
		return nil, err
	}
	if out.ChangedBy, err = f.stringValue(FieldChangedBy); err != nil {
		return nil, err
	}
	if out.ChangedReason, err = f.stringValue(FieldChangedReason); err != nil {
		return nil, err
	}
	if out.ChangedAt, err = f.stringValue(FieldChangedAt); err != nil {
		return nil, err
	}
	if out.Limit, err = f.intValue(FieldLimit); err != nil {
		return nil, err
	}
	return out, nil
}

// dtoToMap converts a ProductDTO to reply fields.
func dtoToMap(dto *contracts.ProductDTO) map[string]interface{} {
	m := map[string]interface{}{
		"product_id":      dto.ProductID,
		"name":            dto.Name,
		"description":     dto.Description,
		"category":        dto.Category,
		"base_price":      dto.BasePrice,
		"effective_price": dto.EffectivePrice,
		"discount_active": dto.DiscountActive,
		"status":          dto.Status,
		"version":         dto.Version,
		"created_at":      formatTime(dto.CreatedAt),
		"updated_at":      formatTime(dto.UpdatedAt),
	}
	if dto.DiscountPercent != nil {
		m["discount_percent"] = *dto.DiscountPercent
	}
	return m
}

// recordToMap converts a PriceHistoryRecord to reply fields.
func recordToMap(rec *contracts.PriceHistoryRecord) map[string]interface{} {
	m := map[string]interface{}{
		"history_id":     rec.HistoryID,
		"product_id":     rec.ProductID,
		"new_price":      rec.NewPrice,
		"changed_by":     rec.ChangedBy,
		"changed_reason": rec.ChangedReason,
		"changed_at":     formatTime(rec.ChangedAt),
	}
	if rec.OldPrice != nil {
		m["old_price"] = *rec.OldPrice
	}
	return m
}

func productResultToStruct(result *contracts.SearchResult) (*structpb.Struct, error) {
	products := make([]interface{}, 0, len(result.Products))
	for _, dto := range result.Products {
		products = append(products, dtoToMap(dto))
	}
	return structpb.NewStruct(map[string]interface{}{
		FieldProducts:   products,
		FieldTotalCount: result.TotalCount,
	})
}

func historyResultToStruct(result *contracts.PriceHistoryResult) (*structpb.Struct, error) {
	records := make([]interface{}, 0, len(result.Records))
	for _, rec := range result.Records {
		records = append(records, recordToMap(rec))
	}
	return structpb.NewStruct(map[string]interface{}{
		FieldRecords: records,
	})
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
