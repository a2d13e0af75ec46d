package repo

import (
	"errors"
	"math/big"
	"time"

	"github.com/light-bringer/procat-search/internal/app/product/contracts"
	"github.com/light-bringer/procat-search/internal/models/m_product"
)

var errZeroDenominator = errors.New("denominator cannot be zero")

// ratio returns numerator/denominator as an exact rational.
func ratio(numerator, denominator int64) (*big.Rat, error) {
	if denominator == 0 {
		return nil, errZeroDenominator
	}
	return big.NewRat(numerator, denominator), nil
}

func toFloat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}

// discountActive reports whether the row's discount applies at now.
// The period is inclusive on both ends.
func discountActive(data *m_product.Data, now time.Time) bool {
	if !data.DiscountPercent.Valid || !data.DiscountStartDate.Valid || !data.DiscountEndDate.Valid {
		return false
	}
	if data.DiscountPercent.Int64 < 0 || data.DiscountPercent.Int64 > 100 {
		return false
	}
	return !now.Before(data.DiscountStartDate.Time) && !now.After(data.DiscountEndDate.Time)
}

// dataToDTO converts database Data to a ProductDTO.
func dataToDTO(data *m_product.Data, now time.Time) (*contracts.ProductDTO, error) {
	basePrice, err := ratio(data.BasePriceNumerator, data.BasePriceDenominator)
	if err != nil {
		return nil, err
	}

	dto := &contracts.ProductDTO{
		ProductID:      data.ProductID,
		Name:           data.Name,
		Description:    data.Description,
		Category:       data.Category,
		BasePrice:      toFloat(basePrice),
		EffectivePrice: toFloat(basePrice),
		Status:         data.Status,
		Version:        data.Version,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}

	if discountActive(data, now) {
		percent := data.DiscountPercent.Int64
		// effective = base * (100 - percent) / 100
		effective := new(big.Rat).Mul(basePrice, big.NewRat(100-percent, 100))
		dto.DiscountPercent = &percent
		dto.DiscountActive = true
		dto.EffectivePrice = toFloat(effective)
	}

	return dto, nil
}
