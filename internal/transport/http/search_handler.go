package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/procat-search/internal/transport/grpc/search"
)

// SearchHandler handles HTTP product search requests.
type SearchHandler struct {
	searchService search.SearchServiceClient
}

// NewSearchHandler creates a new HTTP search handler.
func NewSearchHandler(searchService search.SearchServiceClient) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Product represents a product in the HTTP response.
type Product struct {
	ProductID       string   `json:"product_id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	BasePrice       float64  `json:"base_price"`
	EffectivePrice  float64  `json:"effective_price"`
	DiscountPercent *float64 `json:"discount_percent,omitempty"`
	DiscountActive  bool     `json:"discount_active"`
	Status          string   `json:"status"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// SearchProductsResponse represents the HTTP response for a product search.
type SearchProductsResponse struct {
	Products   []Product `json:"products"`
	TotalCount int64     `json:"total_count"`
}

// errorResponse is the body of failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles GET /api/v1/products/search requests.
// Repeated category, status and product_id parameters are matched as lists.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := searchRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	// Call gRPC service
	resp, err := h.searchService.SearchProducts(r.Context(), req)
	if err != nil {
		st := status.Convert(err)
		writeJSON(w, httpStatus(st.Code()), errorResponse{Error: st.Message()})
		return
	}

	writeJSON(w, http.StatusOK, toResponse(resp))
}

// searchRequest converts URL query parameters into a SearchProducts request.
func searchRequest(r *http.Request) (*structpb.Struct, error) {
	q := r.URL.Query()
	fields := map[string]interface{}{}

	for param, field := range map[string]string{
		"name":             search.FieldName,
		"description":      search.FieldDescription,
		"discount_percent": search.FieldDiscountPercent,
	} {
		if v := q.Get(param); v != "" {
			fields[field] = v
		}
	}

	for param, field := range map[string]string{
		"product_id": search.FieldProductIDs,
		"category":   search.FieldCategories,
		"status":     search.FieldStatuses,
	} {
		if values := q[param]; len(values) > 0 {
			list := make([]interface{}, len(values))
			for i, v := range values {
				list[i] = v
			}
			fields[field] = list
		}
	}

	for param, field := range map[string]string{
		"include_archived": search.FieldIncludeArchived,
		"unzipped":         search.FieldUnzipped,
	} {
		if v := q.Get(param); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%s must be a boolean", param)
			}
			fields[field] = b
		}
	}

	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, errors.New("page_size must be a non-negative integer")
		}
		fields[search.FieldPageSize] = n
	}

	return structpb.NewStruct(fields)
}

func toResponse(resp *structpb.Struct) SearchProductsResponse {
	out := SearchProductsResponse{
		Products:   []Product{},
		TotalCount: int64(resp.GetFields()[search.FieldTotalCount].GetNumberValue()),
	}
	for _, v := range resp.GetFields()[search.FieldProducts].GetListValue().GetValues() {
		f := v.GetStructValue().GetFields()
		p := Product{
			ProductID:      f["product_id"].GetStringValue(),
			Name:           f["name"].GetStringValue(),
			Description:    f["description"].GetStringValue(),
			Category:       f["category"].GetStringValue(),
			BasePrice:      f["base_price"].GetNumberValue(),
			EffectivePrice: f["effective_price"].GetNumberValue(),
			DiscountActive: f["discount_active"].GetBoolValue(),
			Status:         f["status"].GetStringValue(),
			CreatedAt:      f["created_at"].GetStringValue(),
			UpdatedAt:      f["updated_at"].GetStringValue(),
		}
		if d, ok := f["discount_percent"]; ok {
			percent := d.GetNumberValue()
			p.DiscountPercent = &percent
		}
		out.Products = append(out.Products, p)
	}
	return out
}

// httpStatus maps gRPC codes to HTTP status codes.
func httpStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
