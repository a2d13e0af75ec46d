package m_product

import (
	"github.com/light-bringer/procat-search/internal/pkg/schema"
)

var table = schema.NewTable(TableName,
	schema.Column{Name: ProductID, Type: schema.String, PrimaryKey: true},
	schema.Column{Name: Name, Type: schema.String},
	schema.Column{Name: Description, Type: schema.String},
	schema.Column{Name: Category, Type: schema.String},
	schema.Column{Name: BasePriceNumerator, Type: schema.Int64},
	schema.Column{Name: BasePriceDenominator, Type: schema.Int64},
	schema.Column{Name: DiscountPercent, Type: schema.Int64, AllowNull: true},
	schema.Column{Name: DiscountStartDate, Type: schema.Timestamp, AllowNull: true},
	schema.Column{Name: DiscountEndDate, Type: schema.Timestamp, AllowNull: true},
	schema.Column{Name: Status, Type: schema.String},
	schema.Column{Name: Version, Type: schema.Int64},
	schema.Column{Name: CreatedAt, Type: schema.Timestamp},
	schema.Column{Name: UpdatedAt, Type: schema.Timestamp},
	schema.Column{Name: ArchivedAt, Type: schema.Timestamp, AllowNull: true},
)

// Table returns the schema of the products table, matching migrations/001_products.sql.
func Table() *schema.Table {
	return table
}
