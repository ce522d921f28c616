package admin

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/catalog"
	"storefront/internal/country"
	"storefront/internal/models"
	"storefront/internal/uploads"
)

// NewProduct carries the admin-supplied fields for a new catalogue entry.
// Identity, creation date, rating, and review count are system-assigned.
type NewProduct struct {
	Name        string
	Description string
	Price       float64
	Country     country.Code
	Category    string
	Image       string
	InStock     bool
	Featured    bool
}

// ProductManager is the privileged catalogue CRUD surface.
type ProductManager struct {
	store   catalog.Store
	storage *uploads.Storage
	now     func() time.Time
}

func NewProductManager(store catalog.Store, storage *uploads.Storage) *ProductManager {
	return &ProductManager{store: store, storage: storage, now: time.Now}
}

// Add creates a catalogue entry. The currency is derived from the country,
// never supplied independently.
func (m *ProductManager) Add(ctx context.Context, input NewProduct) (models.Product, error) {
	if !input.Country.Valid() {
		return models.Product{}, fmt.Errorf("unknown country: %q", input.Country)
	}

	product := models.Product{
		ID:          newProductID(input.Country),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Currency:    input.Country.Currency(),
		Country:     input.Country,
		Category:    strings.TrimSpace(input.Category),
		Image:       strings.TrimSpace(input.Image),
		InStock:     input.InStock,
		Featured:    input.Featured,
		Rating:      0,
		Reviews:     0,
		CreatedAt:   m.now().UTC(),
	}

	if err := product.Validate(); err != nil {
		return models.Product{}, err
	}
	if err := m.store.Insert(ctx, product); err != nil {
		return models.Product{}, err
	}

	log.Println("[ADMIN] [INFO] product created:", product.ID)
	return product, nil
}

// Update applies a partial merge to the product record.
func (m *ProductManager) Update(ctx context.Context, id string, patch catalog.ProductPatch) (models.Product, error) {
	if patch.Price != nil && *patch.Price < 0 {
		return models.Product{}, fmt.Errorf("price must not be negative")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return models.Product{}, fmt.Errorf("product name is required")
	}
	return m.store.Update(ctx, id, patch)
}

// Delete removes the product unconditionally. Orders that reference it keep
// their own item snapshots.
func (m *ProductManager) Delete(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Println("[ADMIN] [INFO] product deleted:", id)
	return nil
}

// AttachImage uploads the image bytes, stores the resulting URL on the
// record, and best-effort removes the replaced file. Upload progress is
// observable through the optional callback.
func (m *ProductManager) AttachImage(ctx context.Context, id string, r io.Reader, filename string, size int64, progress func(pct int)) (models.Product, error) {
	previous, err := m.store.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	url, err := m.storage.Save(r, filename, size, progress)
	if err != nil {
		return models.Product{}, err
	}

	updated, err := m.store.Update(ctx, id, catalog.ProductPatch{Image: &url})
	if err != nil {
		// The record was not updated; do not leave the new file behind.
		if cleanupErr := m.storage.Delete(url); cleanupErr != nil {
			log.Println("[ADMIN] [WARN] orphaned upload cleanup failed:", cleanupErr)
		}
		return models.Product{}, err
	}

	if previous.Image != "" && previous.Image != url {
		if err := m.storage.Delete(previous.Image); err != nil {
			log.Println("[ADMIN] [WARN] replaced image cleanup failed:", err)
		}
	}
	return updated, nil
}

func newProductID(code country.Code) string {
	return fmt.Sprintf("%s-%s", string(code)[:2], primitive.NewObjectID().Hex())
}
