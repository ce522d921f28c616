package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/country"
)

func TestSeededStoreListsPerCountry(t *testing.T) {
	store := NewSeededMemStore()
	ctx := context.Background()

	nigerian, err := store.List(ctx, Query{Country: country.Nigeria})
	require.NoError(t, err)
	canadian, err := store.List(ctx, Query{Country: country.Canada})
	require.NoError(t, err)

	require.NotEmpty(t, nigerian)
	require.NotEmpty(t, canadian)
	for _, product := range nigerian {
		assert.Equal(t, country.Nigeria, product.Country)
		assert.Equal(t, country.NGN, product.Currency)
	}
	for _, product := range canadian {
		assert.Equal(t, country.Canada, product.Country)
		assert.Equal(t, country.CAD, product.Currency)
	}
}

func TestListFilters(t *testing.T) {
	store := NewSeededMemStore()
	ctx := context.Background()

	byCategory, err := store.List(ctx, Query{Country: country.Nigeria, Category: "Construction Materials"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "ng-003", byCategory[0].ID)

	bySearch, err := store.List(ctx, Query{Country: country.Nigeria, Search: "helmet"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "ng-001", bySearch[0].ID)

	featured, err := store.List(ctx, Query{Country: country.Canada, FeaturedOnly: true})
	require.NoError(t, err)
	for _, product := range featured {
		assert.True(t, product.Featured)
	}
}

func TestListSortsNewestFirst(t *testing.T) {
	store := NewSeededMemStore()

	products, err := store.List(context.Background(), Query{Country: country.Nigeria})
	require.NoError(t, err)

	for i := 1; i < len(products); i++ {
		assert.False(t, products[i-1].CreatedAt.Before(products[i].CreatedAt),
			"expected %s to sort before %s", products[i-1].ID, products[i].ID)
	}
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	store := NewSeededMemStore()
	ctx := context.Background()

	price := 19900.0
	updated, err := store.Update(ctx, "ng-001", ProductPatch{Price: &price})
	require.NoError(t, err)

	assert.Equal(t, 19900.0, updated.Price)
	assert.Equal(t, "Industrial Safety Helmet", updated.Name)
	assert.Equal(t, country.NGN, updated.Currency)
}

func TestDeleteIsUnconditional(t *testing.T) {
	store := NewSeededMemStore()
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, "ng-001"))

	_, err := store.Get(ctx, "ng-001")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "ng-001"), ErrNotFound)
}

func TestInsertRejectsCurrencyCountryMismatch(t *testing.T) {
	store := NewMemStore()
	products := SeedProducts()
	bad := products[0]
	bad.Currency = country.CAD

	err := store.Insert(context.Background(), bad)
	require.Error(t, err)
}

func TestSeedProductsAreValid(t *testing.T) {
	for _, product := range SeedProducts() {
		require.NoError(t, product.Validate(), "seed product %s", product.ID)
	}
}
