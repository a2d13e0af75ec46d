package m_product

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the products table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation that writes a product row.
// CreatedAt and UpdatedAt are set to the commit timestamp.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(TableName, m.ReadColumns(), []interface{}{
		data.ProductID,
		data.Name,
		data.Description,
		data.Category,
		data.BasePriceNumerator,
		data.BasePriceDenominator,
		data.DiscountPercent,
		data.DiscountStartDate,
		data.DiscountEndDate,
		data.Status,
		data.Version,
		spanner.CommitTimestamp,
		spanner.CommitTimestamp,
		data.ArchivedAt,
	})
}

// ReadColumns returns the product columns in Data field order.
func (m *Model) ReadColumns() []string {
	return []string{
		ProductID,
		Name,
		Description,
		Category,
		BasePriceNumerator,
		BasePriceDenominator,
		DiscountPercent,
		DiscountStartDate,
		DiscountEndDate,
		Status,
		Version,
		CreatedAt,
		UpdatedAt,
		ArchivedAt,
	}
}
