package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/cart"
	"storefront/internal/country"
	"storefront/internal/localstate"
	"storefront/internal/models"
	"storefront/internal/orders"
)

func validForm() Form {
	return Form{
		Name:   "Ada Obi",
		Email:  "ada@example.com",
		Phone:  "+2348012345678",
		Street: "14 Marina Rd",
		City:   "Lagos",
		Region: "Lagos",
	}
}

func seededCart(t *testing.T) *cart.Engine {
	t.Helper()
	engine := cart.New(localstate.NewMemStore(), cart.StateKey)

	cement := models.Product{
		ID:       "ng-003",
		Name:     "Portland Cement (50kg Bag)",
		Price:    9800,
		Currency: country.NGN,
		Country:  country.Nigeria,
		Category: "Construction Materials",
		InStock:  true,
	}
	require.NoError(t, engine.Add(cement))
	return engine
}

func newBuilder(t *testing.T, engine *cart.Engine, store orders.Store) *Builder {
	t.Helper()
	session := country.NewSession(localstate.NewMemStore())
	return NewBuilder(engine, store, session)
}

func TestPlaceOrderSnapshotsCartAndClearsIt(t *testing.T) {
	engine := seededCart(t)
	store := orders.NewMemStore()
	builder := newBuilder(t, engine, store)

	order, err := builder.PlaceOrder(context.Background(), nil, validForm(), "TX123")
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 9800.0, order.Total)
	assert.Equal(t, models.StatusPlaced, order.Status)
	assert.Equal(t, country.NGN, order.Currency)
	assert.Equal(t, country.Nigeria, order.Country)
	assert.Equal(t, "TX123", order.Reference)
	assert.Empty(t, order.TrackingEvents)
	assert.False(t, order.ID.IsZero())

	assert.Zero(t, engine.Count(), "cart must be cleared after a successful order")

	listed, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, order.ID, listed[0].ID)
}

func TestPlaceOrderStampsOwner(t *testing.T) {
	engine := seededCart(t)
	builder := newBuilder(t, engine, orders.NewMemStore())
	owner := primitive.NewObjectID()

	order, err := builder.PlaceOrder(context.Background(), &owner, validForm(), "TX124")
	require.NoError(t, err)
	require.NotNil(t, order.UserID)
	assert.Equal(t, owner, *order.UserID)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	engine := cart.New(localstate.NewMemStore(), cart.StateKey)
	builder := newBuilder(t, engine, orders.NewMemStore())

	_, err := builder.PlaceOrder(context.Background(), nil, validForm(), "TX125")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderMissingReference(t *testing.T) {
	engine := seededCart(t)
	builder := newBuilder(t, engine, orders.NewMemStore())

	_, err := builder.PlaceOrder(context.Background(), nil, validForm(), "   ")
	assert.ErrorIs(t, err, ErrMissingReference)
	assert.Equal(t, 1, engine.Count())
}

func TestPlaceOrderInvalidForm(t *testing.T) {
	engine := seededCart(t)
	builder := newBuilder(t, engine, orders.NewMemStore())

	form := validForm()
	form.Email = ""

	_, err := builder.PlaceOrder(context.Background(), nil, form, "TX126")
	require.Error(t, err)
	assert.Equal(t, 1, engine.Count())
}

type failingStore struct {
	orders.Store
}

func (failingStore) Save(context.Context, *models.Order) (primitive.ObjectID, error) {
	return primitive.NilObjectID, errors.New("write unavailable")
}

func TestPlaceOrderSaveFailureKeepsCart(t *testing.T) {
	engine := seededCart(t)
	builder := newBuilder(t, engine, failingStore{})

	_, err := builder.PlaceOrder(context.Background(), nil, validForm(), "TX127")
	require.Error(t, err)

	assert.Equal(t, 1, engine.Count(), "cart must survive a failed save")
	assert.Equal(t, 9800.0, engine.Total())
}

func TestPlaceOrderSnapshotIsDetachedFromCatalogue(t *testing.T) {
	engine := seededCart(t)
	store := orders.NewMemStore()
	builder := newBuilder(t, engine, store)

	order, err := builder.PlaceOrder(context.Background(), nil, validForm(), "TX128")
	require.NoError(t, err)

	// A later price edit must not reach the stored order.
	order.Items[0].Price = 99999

	persisted, err := store.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 9800.0, persisted.Items[0].Price)
}

func TestPlaceOrderTotalMatchesItsOwnItemsUnderConcurrentEdits(t *testing.T) {
	engine := seededCart(t)
	store := orders.NewMemStore()
	builder := newBuilder(t, engine, store)

	helmet := models.Product{
		ID:       "ng-001",
		Name:     "Industrial Safety Helmet",
		Price:    18500,
		Currency: country.NGN,
		Country:  country.Nigeria,
		Category: "Oil & Gas Supplies",
		InStock:  true,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			_ = engine.Add(helmet)
			engine.Remove(helmet.ID)
		}
	}()

	for i := 0; i < 200; i++ {
		// Keep the cart non-empty between rounds.
		_ = engine.Add(models.Product{
			ID:       "ng-003",
			Name:     "Portland Cement (50kg Bag)",
			Price:    9800,
			Currency: country.NGN,
			Country:  country.Nigeria,
			Category: "Construction Materials",
			InStock:  true,
		})

		order, err := builder.PlaceOrder(context.Background(), nil, validForm(), fmt.Sprintf("TX-race-%d", i))
		require.NoError(t, err)

		sum := 0.0
		for _, item := range order.Items {
			sum += item.Price * float64(item.Quantity)
		}
		require.Equal(t, sum, order.Total,
			"order %s total must equal the sum of its own items", order.Reference)
		require.NotEmpty(t, order.Items)
		assert.Equal(t, country.NGN, order.Currency)
	}
	<-done
}
