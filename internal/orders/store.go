// Package orders persists completed checkouts. The Store port has a Mongo
// implementation for production and an in-memory one for tests and demos.
package orders

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

var ErrNotFound = errors.New("order not found")

// Patch is a partial update for an order. Nil fields are left untouched; the
// merge is blind per field (no concurrency token).
type Patch struct {
	Status         *models.OrderStatus
	TrackingNumber *string
	Notes          *string
	// TrackingEvents replaces the whole event log when non-nil. The admin
	// order manager appends locally and writes the full list back.
	TrackingEvents []models.TrackingEvent
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Status == nil && p.TrackingNumber == nil && p.Notes == nil && p.TrackingEvents == nil
}

// Store persists orders. Save assigns the identity and creation timestamp;
// the caller-supplied values for those fields are ignored. Listings are
// ordered newest-first by creation time.
type Store interface {
	Save(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	Update(ctx context.Context, id primitive.ObjectID, patch Patch) error
}
