package contracts

import (
	"time"

	"github.com/light-bringer/procat-search/internal/models/m_price_history"
)

// PriceHistorySearch describes a price history search.
// ChangedAt accepts an operator prefix, e.g. ">=2025-01-01T00:00:00Z".
type PriceHistorySearch struct {
	ProductIDs    []string
	ChangedBy     string
	ChangedReason string
	ChangedAt     string
	Limit         int
}

// SearchAttribute returns the filter value for a price_history column.
func (s *PriceHistorySearch) SearchAttribute(column string) any {
	switch column {
	case m_price_history.ProductID:
		return s.ProductIDs
	case m_price_history.ChangedBy:
		return s.ChangedBy
	case m_price_history.ChangedReason:
		return s.ChangedReason
	case m_price_history.ChangedAt:
		return s.ChangedAt
	}
	return nil
}

// PriceHistoryRecord represents a price change record.
type PriceHistoryRecord struct {
	HistoryID     string
	ProductID     string
	OldPrice      *float64 // nil for initial price
	NewPrice      float64
	ChangedBy     string
	ChangedReason string
	ChangedAt     time.Time
}

// PriceHistoryResult contains matching price changes.
type PriceHistoryResult struct {
	Records []*PriceHistoryRecord
}
