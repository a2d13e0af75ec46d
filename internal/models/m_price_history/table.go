package m_price_history

import (
	"github.com/light-bringer/procat-search/internal/pkg/schema"
)

var table = schema.NewTable(TableName,
	schema.Column{Name: HistoryID, Type: schema.String, PrimaryKey: true},
	schema.Column{Name: ProductID, Type: schema.String},
	schema.Column{Name: OldPriceNumerator, Type: schema.Int64, AllowNull: true},
	schema.Column{Name: OldPriceDenominator, Type: schema.Int64, AllowNull: true},
	schema.Column{Name: NewPriceNumerator, Type: schema.Int64},
	schema.Column{Name: NewPriceDenominator, Type: schema.Int64},
	schema.Column{Name: ChangedBy, Type: schema.String, AllowNull: true},
	schema.Column{Name: ChangedReason, Type: schema.String, AllowNull: true},
	schema.Column{Name: ChangedAt, Type: schema.Timestamp},
)

// Table returns the schema of the price_history table.
func Table() *schema.Table {
	return table
}
