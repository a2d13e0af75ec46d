//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-search/internal/models/m_price_history"
	"github.com/light-bringer/procat-search/internal/models/m_product"
	"github.com/light-bringer/procat-search/internal/pkg/schema"
	"github.com/light-bringer/procat-search/tests/testutil"
)

// The static descriptors in internal/models must match the migrated schema.
func TestLoader_MatchesStaticTables(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	loader := schema.NewLoader(client)

	for _, want := range []*schema.Table{m_product.Table(), m_price_history.Table()} {
		t.Run(want.Name, func(t *testing.T) {
			got, err := loader.Load(context.Background(), want.Name)
			require.NoError(t, err)

			assert.Equal(t, want.PrimaryKey, got.PrimaryKey)
			assert.Equal(t, want.ColumnNames(), got.ColumnNames())
			for _, col := range want.Columns() {
				loaded, ok := got.Column(col.Name)
				require.True(t, ok, col.Name)
				assert.Equal(t, col.Type, loaded.Type, col.Name)
				assert.Equal(t, col.AllowNull, loaded.AllowNull, col.Name)
			}
		})
	}
}

func TestLoader_UnknownTable(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	_, err := schema.NewLoader(client).Load(context.Background(), "no_such_table")
	assert.ErrorIs(t, err, schema.ErrTableNotFound)
}
