package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/country"
	"storefront/internal/models"
	"storefront/internal/orders"
)

func placedOrder(t *testing.T, store orders.Store) primitive.ObjectID {
	t.Helper()
	order := &models.Order{
		Reference: "TX123",
		Items: []models.OrderItem{
			{ProductID: "ng-003", Name: "Portland Cement (50kg Bag)", Price: 9800, Quantity: 1, Currency: country.NGN},
		},
		Total:        9800,
		Currency:     country.NGN,
		Country:      country.Nigeria,
		CustomerName: "Ada Obi",
		Email:        "ada@example.com",
		Status:       models.StatusPlaced,
	}
	id, err := store.Save(context.Background(), order)
	require.NoError(t, err)
	return id
}

func TestAdvanceWalksFullPipeline(t *testing.T) {
	store := orders.NewMemStore()
	manager := NewOrderManager(store)
	ctx := context.Background()
	id := placedOrder(t, store)

	for _, next := range []models.OrderStatus{models.StatusProcessing, models.StatusShipped, models.StatusDelivered} {
		order, err := manager.Advance(ctx, id, next)
		require.NoError(t, err)
		assert.Equal(t, next, order.Status)
	}

	final, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, final.Status)
	require.Len(t, final.TrackingEvents, 3)
	assert.Equal(t, models.StatusProcessing, final.TrackingEvents[0].Status)
	assert.Equal(t, models.StatusShipped, final.TrackingEvents[1].Status)
	assert.Equal(t, models.StatusDelivered, final.TrackingEvents[2].Status)
	assert.Equal(t, "Order has been shipped", final.TrackingEvents[1].Message)
}

func TestAdvanceRejectsSkipsAndBackwardMoves(t *testing.T) {
	store := orders.NewMemStore()
	manager := NewOrderManager(store)
	ctx := context.Background()
	id := placedOrder(t, store)

	_, err := manager.Advance(ctx, id, models.StatusShipped)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = manager.Advance(ctx, id, models.StatusProcessing)
	require.NoError(t, err)

	_, err = manager.Advance(ctx, id, models.StatusPlaced)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = manager.Advance(ctx, id, models.OrderStatus("cancelled"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdvanceSameStatusIsIdempotent(t *testing.T) {
	store := orders.NewMemStore()
	manager := NewOrderManager(store)
	ctx := context.Background()
	id := placedOrder(t, store)

	_, err := manager.Advance(ctx, id, models.StatusProcessing)
	require.NoError(t, err)
	_, err = manager.Advance(ctx, id, models.StatusShipped)
	require.NoError(t, err)

	// Re-issuing "advance to shipped" while already shipped changes nothing.
	order, err := manager.Advance(ctx, id, models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, order.Status)

	persisted, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, persisted.TrackingEvents, 2)
}

func TestDeliveredIsTerminal(t *testing.T) {
	store := orders.NewMemStore()
	manager := NewOrderManager(store)
	ctx := context.Background()
	id := placedOrder(t, store)

	for _, next := range []models.OrderStatus{models.StatusProcessing, models.StatusShipped, models.StatusDelivered} {
		_, err := manager.Advance(ctx, id, next)
		require.NoError(t, err)
	}

	_, err := manager.Advance(ctx, id, models.StatusProcessing)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdvanceUnknownOrder(t *testing.T) {
	manager := NewOrderManager(orders.NewMemStore())

	_, err := manager.Advance(context.Background(), primitive.NewObjectID(), models.StatusProcessing)
	assert.ErrorIs(t, err, orders.ErrNotFound)
}

func TestSetTrackingIndependentOfStatus(t *testing.T) {
	store := orders.NewMemStore()
	manager := NewOrderManager(store)
	ctx := context.Background()
	id := placedOrder(t, store)

	tracking := " NG-TRACK-42 "
	notes := "fragile, call on arrival"
	order, err := manager.SetTracking(ctx, id, &tracking, &notes)
	require.NoError(t, err)

	assert.Equal(t, "NG-TRACK-42", order.TrackingNumber)
	assert.Equal(t, notes, order.Notes)
	assert.Equal(t, models.StatusPlaced, order.Status)

	// Updating notes alone must not clear the tracking number.
	newNotes := "leave at reception"
	order, err = manager.SetTracking(ctx, id, nil, &newNotes)
	require.NoError(t, err)
	assert.Equal(t, "NG-TRACK-42", order.TrackingNumber)
	assert.Equal(t, newNotes, order.Notes)
}

func TestStatusCounts(t *testing.T) {
	store := orders.NewMemStore()
	manager := NewOrderManager(store)
	ctx := context.Background()

	first := placedOrder(t, store)
	placedOrder(t, store)
	_, err := manager.Advance(ctx, first, models.StatusProcessing)
	require.NoError(t, err)

	counts, err := manager.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.StatusPlaced])
	assert.Equal(t, 1, counts[models.StatusProcessing])
	assert.Equal(t, 0, counts[models.StatusShipped])
	assert.Equal(t, 0, counts[models.StatusDelivered])
}
