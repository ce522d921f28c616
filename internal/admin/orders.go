// Package admin holds the privileged order and product managers. Callers are
// expected to sit behind the admin auth middleware.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"storefront/internal/models"
	"storefront/internal/orders"
)

// ErrInvalidTransition rejects status moves that skip a stage, go backward,
// or leave the terminal stage.
var ErrInvalidTransition = errors.New("invalid status transition")

// trackingMessages are the fixed human-readable log messages per stage.
var trackingMessages = map[models.OrderStatus]string{
	models.StatusPlaced:     "Order placed",
	models.StatusProcessing: "Order is being processed",
	models.StatusShipped:    "Order has been shipped",
	models.StatusDelivered:  "Order delivered",
}

// OrderManager advances orders through the fulfilment pipeline and maintains
// the tracking metadata. Updates to the same order are single-flighted so a
// double-click cannot race itself; concurrent edits by two admins remain
// last-write-wins per field (accepted limitation).
type OrderManager struct {
	store orders.Store
	group singleflight.Group
	now   func() time.Time
}

func NewOrderManager(store orders.Store) *OrderManager {
	return &OrderManager{store: store, now: time.Now}
}

// ListAll returns every order, newest first.
func (m *OrderManager) ListAll(ctx context.Context) ([]models.Order, error) {
	return m.store.ListAll(ctx)
}

// StatusCounts tallies orders per pipeline stage for the dashboard.
func (m *OrderManager) StatusCounts(ctx context.Context) (map[models.OrderStatus]int, error) {
	all, err := m.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[models.OrderStatus]int, len(models.StatusPipeline))
	for _, stage := range models.StatusPipeline {
		counts[stage] = 0
	}
	for _, order := range all {
		counts[order.Status]++
	}
	return counts, nil
}

// Advance moves the order to next. Only the immediate next pipeline stage is
// accepted. Re-applying the order's current status is an idempotent no-op and
// never duplicates a tracking event.
func (m *OrderManager) Advance(ctx context.Context, id primitive.ObjectID, next models.OrderStatus) (models.Order, error) {
	if !next.Valid() {
		return models.Order{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}

	result, err, _ := m.group.Do(id.Hex(), func() (interface{}, error) {
		return m.advance(ctx, id, next)
	})
	if err != nil {
		return models.Order{}, err
	}
	return result.(models.Order), nil
}

func (m *OrderManager) advance(ctx context.Context, id primitive.ObjectID, next models.OrderStatus) (models.Order, error) {
	order, err := m.store.Get(ctx, id)
	if err != nil {
		return models.Order{}, err
	}

	if next == order.Status {
		// Already there. Nothing to write, nothing to log twice.
		return order, nil
	}

	expected, ok := order.Status.Next()
	if !ok || next != expected {
		return models.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	patch := orders.Patch{Status: &next}
	if !order.HasTrackingEvent(next) {
		events := append(append([]models.TrackingEvent{}, order.TrackingEvents...), models.TrackingEvent{
			Status:    next,
			Message:   trackingMessages[next],
			Timestamp: m.now().UTC(),
		})
		patch.TrackingEvents = events
	}

	if err := m.store.Update(ctx, id, patch); err != nil {
		return models.Order{}, err
	}

	order.Status = next
	if patch.TrackingEvents != nil {
		order.TrackingEvents = patch.TrackingEvents
	}
	log.Println("[ADMIN] [INFO] order", id.Hex(), "advanced to", next)
	return order, nil
}

// SetTracking updates the tracking number and/or notes, independent of
// status. Nil fields are left untouched.
func (m *OrderManager) SetTracking(ctx context.Context, id primitive.ObjectID, trackingNumber, notes *string) (models.Order, error) {
	result, err, _ := m.group.Do(id.Hex(), func() (interface{}, error) {
		patch := orders.Patch{}
		if trackingNumber != nil {
			trimmed := strings.TrimSpace(*trackingNumber)
			patch.TrackingNumber = &trimmed
		}
		if notes != nil {
			trimmed := strings.TrimSpace(*notes)
			patch.Notes = &trimmed
		}

		if err := m.store.Update(ctx, id, patch); err != nil {
			return nil, err
		}
		return m.store.Get(ctx, id)
	})
	if err != nil {
		return models.Order{}, err
	}
	return result.(models.Order), nil
}
