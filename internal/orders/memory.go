package orders

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// MemStore is an in-memory Store for tests and demo mode. It honours the same
// contract as MongoStore: assigned ids, store-side creation timestamps, and
// newest-first listings that stay stable when timestamps collide.
type MemStore struct {
	mu     sync.Mutex
	orders []memOrder
	seq    int
}

type memOrder struct {
	order models.Order
	seq   int
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Save(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now().UTC()
	if order.TrackingEvents == nil {
		order.TrackingEvents = []models.TrackingEvent{}
	}

	s.seq++
	s.orders = append(s.orders, memOrder{order: cloneOrder(*order), seq: s.seq})
	return order.ID, nil
}

func (s *MemStore) Get(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.orders {
		if entry.order.ID == id {
			return cloneOrder(entry.order), nil
		}
	}
	return models.Order{}, ErrNotFound
}

func (s *MemStore) ListByOwner(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.list(func(o models.Order) bool {
		return o.UserID != nil && *o.UserID == userID
	}), nil
}

func (s *MemStore) ListAll(_ context.Context) ([]models.Order, error) {
	return s.list(func(models.Order) bool { return true }), nil
}

func (s *MemStore) list(match func(models.Order) bool) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]memOrder, 0, len(s.orders))
	for _, entry := range s.orders {
		if match(entry.order) {
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.order.CreatedAt.Equal(b.order.CreatedAt) {
			return a.order.CreatedAt.After(b.order.CreatedAt)
		}
		return a.seq > b.seq
	})

	result := make([]models.Order, 0, len(entries))
	for _, entry := range entries {
		result = append(result, cloneOrder(entry.order))
	}
	return result
}

func (s *MemStore) Update(_ context.Context, id primitive.ObjectID, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].order.ID != id {
			continue
		}
		if patch.Status != nil {
			s.orders[i].order.Status = *patch.Status
		}
		if patch.TrackingNumber != nil {
			s.orders[i].order.TrackingNumber = *patch.TrackingNumber
		}
		if patch.Notes != nil {
			s.orders[i].order.Notes = *patch.Notes
		}
		if patch.TrackingEvents != nil {
			s.orders[i].order.TrackingEvents = cloneEvents(patch.TrackingEvents)
		}
		return nil
	}
	return ErrNotFound
}

func cloneOrder(order models.Order) models.Order {
	items := make([]models.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	order.TrackingEvents = cloneEvents(order.TrackingEvents)
	return order
}

func cloneEvents(events []models.TrackingEvent) []models.TrackingEvent {
	cloned := make([]models.TrackingEvent, len(events))
	copy(cloned, events)
	return cloned
}
