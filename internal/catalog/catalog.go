// Package catalog stores the per-country product lists.
package catalog

import (
	"context"
	"errors"

	"storefront/internal/country"
	"storefront/internal/models"
)

var ErrNotFound = errors.New("product not found")

// Query filters a catalogue listing. Country is required; the rest narrow the
// result the way the shop page does.
type Query struct {
	Country      country.Code
	Category     string
	Search       string
	FeaturedOnly bool
}

// ProductPatch is a partial update. Country and currency are fixed at
// creation; their pairing is an invariant, so neither is patchable.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Image       *string
	InStock     *bool
	Featured    *bool
}

func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.Image == nil && p.InStock == nil && p.Featured == nil
}

// Store is the catalogue port. The Mongo implementation backs production;
// the seeded in-memory one backs tests and demo mode.
type Store interface {
	List(ctx context.Context, q Query) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
	Insert(ctx context.Context, product models.Product) error
	Update(ctx context.Context, id string, patch ProductPatch) (models.Product, error)
	// Delete removes the product unconditionally. Historical orders keep
	// their own item snapshots and are unaffected.
	Delete(ctx context.Context, id string) error
}

// Categories lists the fixed category labels per storefront country.
var Categories = map[country.Code][]string{
	country.Nigeria: {
		"Oil & Gas Supplies",
		"Construction Materials",
		"General Commerce",
		"E-Commerce Goods",
	},
	country.Canada: {
		"Mining Equipment",
		"Construction Materials",
		"Industrial Supplies",
		"General Commerce",
	},
}

func applyPatch(product models.Product, patch ProductPatch) models.Product {
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Image != nil {
		product.Image = *patch.Image
	}
	if patch.InStock != nil {
		product.InStock = *patch.InStock
	}
	if patch.Featured != nil {
		product.Featured = *patch.Featured
	}
	return product
}
