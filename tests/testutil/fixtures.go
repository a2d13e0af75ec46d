package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-search/internal/models/m_price_history"
	"github.com/light-bringer/procat-search/internal/models/m_product"
)

// ProductOption customizes a fixture product.
type ProductOption func(*m_product.Data)

// WithCategory sets the product category.
func WithCategory(category string) ProductOption {
	return func(d *m_product.Data) { d.Category = category }
}

// WithStatus sets the product status.
func WithStatus(status string) ProductOption {
	return func(d *m_product.Data) { d.Status = status }
}

// WithDescription sets the product description.
func WithDescription(description string) ProductOption {
	return func(d *m_product.Data) { d.Description = description }
}

// WithDiscount gives the product a discount active from an hour ago until tomorrow.
func WithDiscount(percent int64) ProductOption {
	return func(d *m_product.Data) {
		now := time.Now().UTC()
		d.DiscountPercent = spanner.NullInt64{Int64: percent, Valid: true}
		d.DiscountStartDate = spanner.NullTime{Time: now.Add(-time.Hour), Valid: true}
		d.DiscountEndDate = spanner.NullTime{Time: now.Add(24 * time.Hour), Valid: true}
	}
}

// Archived marks the product as archived.
func Archived() ProductOption {
	return func(d *m_product.Data) {
		d.Status = m_product.StatusArchived
		d.ArchivedAt = spanner.NullTime{Time: time.Now().UTC(), Valid: true}
	}
}

// CreateTestProduct creates a test product directly in the database.
// Defaults: category "electronics", status "active", price 100.00.
func CreateTestProduct(t *testing.T, client *spanner.Client, name string, opts ...ProductOption) string {
	t.Helper()

	data := &m_product.Data{
		ProductID:            uuid.New().String(),
		Name:                 name,
		Description:          "Test product description",
		Category:             "electronics",
		BasePriceNumerator:   10000,
		BasePriceDenominator: 100,
		Status:               m_product.StatusActive,
		Version:              1,
	}
	for _, opt := range opts {
		opt(data)
	}

	mutation := m_product.NewModel().InsertMut(data)
	_, err := client.Apply(context.Background(), []*spanner.Mutation{mutation})
	require.NoError(t, err, "failed to create test product")

	return data.ProductID
}

// CreatePriceChange records a price change for a product.
// A zero oldCents records the initial price.
func CreatePriceChange(t *testing.T, client *spanner.Client, productID string, oldCents, newCents int64, reason string, changedAt time.Time) string {
	t.Helper()

	data := &m_price_history.Data{
		HistoryID:           uuid.New().String(),
		ProductID:           productID,
		NewPriceNumerator:   newCents,
		NewPriceDenominator: 100,
		ChangedBy:           spanner.NullString{StringVal: "test-user", Valid: true},
		ChangedAt:           changedAt,
	}
	if oldCents != 0 {
		data.OldPriceNumerator = spanner.NullInt64{Int64: oldCents, Valid: true}
		data.OldPriceDenominator = spanner.NullInt64{Int64: 100, Valid: true}
	}
	if reason != "" {
		data.ChangedReason = spanner.NullString{StringVal: reason, Valid: true}
	}

	mutation, err := m_price_history.NewModel().InsertMut(data)
	require.NoError(t, err)

	_, err = client.Apply(context.Background(), []*spanner.Mutation{mutation})
	require.NoError(t, err, "failed to create price change")

	return data.HistoryID
}
