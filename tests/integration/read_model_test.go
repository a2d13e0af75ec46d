//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-search/internal/app/product/contracts"
	"github.com/light-bringer/procat-search/internal/app/product/repo"
	"github.com/light-bringer/procat-search/internal/models/m_product"
	"github.com/light-bringer/procat-search/internal/pkg/clock"
	"github.com/light-bringer/procat-search/tests/testutil"
)

func productNames(result *contracts.SearchResult) []string {
	names := make([]string, 0, len(result.Products))
	for _, p := range result.Products {
		names = append(names, p.Name)
	}
	return names
}

func TestReadModel_SearchProducts(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	readModel := repo.NewReadModel(client)

	laptopID := testutil.CreateTestProduct(t, client, "Laptop Pro")
	testutil.CreateTestProduct(t, client, "Laptop Air", testutil.WithStatus(m_product.StatusDraft))
	testutil.CreateTestProduct(t, client, "Desk Lamp", testutil.WithCategory("home"), testutil.WithDiscount(20))
	testutil.CreateTestProduct(t, client, "100% Cotton Sheets", testutil.WithCategory("home"))
	testutil.CreateTestProduct(t, client, "Old Phone", testutil.Archived())

	t.Run("all products exclude archived", func(t *testing.T) {
		result, err := readModel.SearchProducts(ctx, &contracts.ProductSearch{})
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"Laptop Pro", "Laptop Air", "Desk Lamp", "100% Cotton Sheets"}, productNames(result))
		assert.Equal(t, int64(4), result.TotalCount)
	})

	t.Run("include archived", func(t *testing.T) {
		result, err := readModel.SearchProducts(ctx, &contracts.ProductSearch{IncludeArchived: true})
		require.NoError(t, err)
		assert.Len(t, result.Products, 5)
	})

	t.Run("partial name match", func(t *testing.T) {
		result, err := readModel.SearchProducts(ctx, &contracts.ProductSearch{Name: "laptop"})
		require.NoError(t, err)
		// LIKE is case-sensitive in Spanner
		assert.Empty(t, result.Products)

		result, err = readModel.SearchProducts(ctx, &contracts.ProductSearch{Name: "Laptop"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Laptop Pro", "Laptop Air"}, productNames(result))
	})

	t.Run("wildcards in name are literal", func(t *testing.T) {
		result, err := readModel.SearchProducts(ctx, &contracts.ProductSearch{Name: "100%"})
		require.NoError(t, err)
		assert.Equal(t, []string{"100% Cotton Sheets"}, productNames(result))

		result, err = readModel.SearchProducts(ctx, &contracts.ProductSearch{Name: "_"})
		require.NoError(t, err)
		assert.Empty(t, result.Products)
	})

	t.Run("negated partial name", func(t *testing.T) {
		result, err := readModel.SearchProducts(ctx, &contracts.ProductSearch{Name: "<>Laptop"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Desk Lamp", "100% Cotton Sheets"}, productNames(result))
	})

	t.Run("category list", func(t *testing.T) {
		result, err := readModel.SearchProducts(ctx, &contracts.ProductSearch{Categories: []string{"home", "toys"}})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Desk Lamp", "100% Cotton Sheets"}, productNames(result))
	})

	t.Run("paired category and status", func(t *testing.T) {
		result, err := readModel.SearchProducts(ctx, &contracts.ProductSearch{
			Categories: []string{"electronics", "home"},
			Statuses:   []string{m_product.StatusDraft, m_product.StatusActive},
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Laptop Air", "Desk Lamp", "100% Cotton Sheets"}, productNames(result))
	})

	t.Run("status operator", func(t *testing.T) {
		result, err := readModel.SearchProducts(ctx, &contracts.ProductSearch{Statuses: []string{"<>active"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Laptop Air"}, productNames(result))
	})

	t.Run("discount comparison", func(t *testing.T) {
		result, err := readModel.SearchProducts(ctx, &contracts.ProductSearch{DiscountPercent: ">=10"})
		require.NoError(t, err)
		require.Len(t, result.Products, 1)

		dto := result.Products[0]
		assert.Equal(t, "Desk Lamp", dto.Name)
		assert.True(t, dto.DiscountActive)
		assert.Equal(t, 80.0, dto.EffectivePrice)
	})

	t.Run("discount expired at clock time", func(t *testing.T) {
		later := repo.NewReadModel(client, repo.WithClock(clock.Fixed(time.Now().Add(48*time.Hour))))

		result, err := later.SearchProducts(ctx, &contracts.ProductSearch{DiscountPercent: ">=10"})
		require.NoError(t, err)
		require.Len(t, result.Products, 1)

		dto := result.Products[0]
		assert.False(t, dto.DiscountActive)
		assert.Equal(t, 100.0, dto.EffectivePrice)
	})

	t.Run("product id", func(t *testing.T) {
		result, err := readModel.SearchProducts(ctx, &contracts.ProductSearch{ProductIDs: []string{laptopID}})
		require.NoError(t, err)
		require.Len(t, result.Products, 1)
		assert.Equal(t, laptopID, result.Products[0].ProductID)
		assert.Equal(t, 100.0, result.Products[0].BasePrice)
	})

	t.Run("page size", func(t *testing.T) {
		result, err := readModel.SearchProducts(ctx, &contracts.ProductSearch{PageSize: 2})
		require.NoError(t, err)
		assert.Len(t, result.Products, 2)
	})
}

func TestReadModel_SearchPriceHistory(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	readModel := repo.NewReadModel(client)

	productID := testutil.CreateTestProduct(t, client, "Laptop Pro")
	otherID := testutil.CreateTestProduct(t, client, "Desk Lamp")

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	testutil.CreatePriceChange(t, client, productID, 0, 10000, "initial", base)
	testutil.CreatePriceChange(t, client, productID, 10000, 9000, "summer promo", base.AddDate(0, 6, 0))
	testutil.CreatePriceChange(t, client, otherID, 0, 2500, "initial", base.AddDate(0, 1, 0))

	t.Run("by product, most recent first", func(t *testing.T) {
		result, err := readModel.SearchPriceHistory(ctx, &contracts.PriceHistorySearch{ProductIDs: []string{productID}})
		require.NoError(t, err)
		require.Len(t, result.Records, 2)

		assert.Equal(t, 90.0, result.Records[0].NewPrice)
		require.NotNil(t, result.Records[0].OldPrice)
		assert.Equal(t, 100.0, *result.Records[0].OldPrice)
		assert.Nil(t, result.Records[1].OldPrice)
	})

	t.Run("reason substring", func(t *testing.T) {
		result, err := readModel.SearchPriceHistory(ctx, &contracts.PriceHistorySearch{ChangedReason: "promo"})
		require.NoError(t, err)
		require.Len(t, result.Records, 1)
		assert.Equal(t, "summer promo", result.Records[0].ChangedReason)
	})

	t.Run("changed after", func(t *testing.T) {
		result, err := readModel.SearchPriceHistory(ctx, &contracts.PriceHistorySearch{ChangedAt: ">2025-01-15T00:00:00Z"})
		require.NoError(t, err)
		assert.Len(t, result.Records, 2)
	})

	t.Run("limit", func(t *testing.T) {
		result, err := readModel.SearchPriceHistory(ctx, &contracts.PriceHistorySearch{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, result.Records, 1)
	})
}
