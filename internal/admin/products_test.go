package admin

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/catalog"
	"storefront/internal/country"
	"storefront/internal/uploads"
)

func newProductManager(t *testing.T) (*ProductManager, *catalog.MemStore) {
	t.Helper()
	store := catalog.NewSeededMemStore()
	storage, err := uploads.NewStorage(t.TempDir())
	require.NoError(t, err)
	return NewProductManager(store, storage), store
}

func TestAddAssignsSystemFields(t *testing.T) {
	manager, store := newProductManager(t)
	ctx := context.Background()

	product, err := manager.Add(ctx, NewProduct{
		Name:     "Welding Torch Kit",
		Price:    56000,
		Country:  country.Nigeria,
		Category: "Oil & Gas Supplies",
		InStock:  true,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(product.ID, "ni-"))
	assert.Equal(t, country.NGN, product.Currency)
	assert.Zero(t, product.Rating)
	assert.Zero(t, product.Reviews)
	assert.False(t, product.CreatedAt.IsZero())

	stored, err := store.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product, stored)
}

func TestAddDerivesCurrencyFromCountry(t *testing.T) {
	manager, _ := newProductManager(t)

	product, err := manager.Add(context.Background(), NewProduct{
		Name:     "Core Sample Bags (100-Pack)",
		Price:    79,
		Country:  country.Canada,
		Category: "Mining Equipment",
		InStock:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, country.CAD, product.Currency)
}

func TestAddRejectsBadInput(t *testing.T) {
	manager, _ := newProductManager(t)
	ctx := context.Background()

	_, err := manager.Add(ctx, NewProduct{Name: "X", Price: 10, Country: country.Code("germany")})
	require.Error(t, err)

	_, err = manager.Add(ctx, NewProduct{Name: "", Price: 10, Country: country.Nigeria})
	require.Error(t, err)

	_, err = manager.Add(ctx, NewProduct{Name: "X", Price: -1, Country: country.Nigeria})
	require.Error(t, err)
}

func TestUpdateMergesPartialFields(t *testing.T) {
	manager, _ := newProductManager(t)
	ctx := context.Background()

	inStock := false
	updated, err := manager.Update(ctx, "ng-001", catalog.ProductPatch{InStock: &inStock})
	require.NoError(t, err)

	assert.False(t, updated.InStock)
	assert.Equal(t, "Industrial Safety Helmet", updated.Name)
	assert.Equal(t, 18500.0, updated.Price)
}

func TestUpdateValidatesPatchedFields(t *testing.T) {
	manager, _ := newProductManager(t)
	ctx := context.Background()

	bad := -5.0
	_, err := manager.Update(ctx, "ng-001", catalog.ProductPatch{Price: &bad})
	require.Error(t, err)

	empty := "  "
	_, err = manager.Update(ctx, "ng-001", catalog.ProductPatch{Name: &empty})
	require.Error(t, err)
}

func TestDeleteUnknownProduct(t *testing.T) {
	manager, _ := newProductManager(t)

	err := manager.Delete(context.Background(), "ng-does-not-exist")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestAttachImageStoresURLOnRecord(t *testing.T) {
	manager, store := newProductManager(t)
	ctx := context.Background()
	data := []byte("image bytes")

	var lastPct int
	updated, err := manager.AttachImage(ctx, "ng-001", bytes.NewReader(data), "helmet.jpg", int64(len(data)), func(pct int) {
		lastPct = pct
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(updated.Image, "uploads/products/"))
	assert.Equal(t, 100, lastPct)

	stored, err := store.Get(ctx, "ng-001")
	require.NoError(t, err)
	assert.Equal(t, updated.Image, stored.Image)
}

func TestAttachImageUnknownProduct(t *testing.T) {
	manager, _ := newProductManager(t)

	_, err := manager.AttachImage(context.Background(), "ng-missing", bytes.NewReader([]byte("x")), "a.png", 1, nil)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}
