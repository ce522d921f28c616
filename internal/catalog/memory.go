package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"storefront/internal/models"
)

// MemStore is an in-memory catalogue for tests and demo mode.
type MemStore struct {
	mu       sync.Mutex
	products map[string]models.Product
}

func NewMemStore() *MemStore {
	return &MemStore{products: make(map[string]models.Product)}
}

// NewSeededMemStore returns a MemStore pre-loaded with the default catalogue.
func NewSeededMemStore() *MemStore {
	store := NewMemStore()
	for _, product := range SeedProducts() {
		store.products[product.ID] = product
	}
	return store
}

func (s *MemStore) List(_ context.Context, q Query) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.Product, 0)
	for _, product := range s.products {
		if product.Country != q.Country {
			continue
		}
		if category := strings.TrimSpace(q.Category); category != "" && product.Category != category {
			continue
		}
		if search := strings.TrimSpace(q.Search); search != "" &&
			!strings.Contains(strings.ToLower(product.Name), strings.ToLower(search)) {
			continue
		}
		if q.FeaturedOnly && !product.Featured {
			continue
		}
		result = append(result, product)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *MemStore) Get(_ context.Context, id string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return product, nil
}

func (s *MemStore) Insert(_ context.Context, product models.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = product
	return nil
}

func (s *MemStore) Update(_ context.Context, id string, patch ProductPatch) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}

	product = applyPatch(product, patch)
	s.products[id] = product
	return product, nil
}

func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}
