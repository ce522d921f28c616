// Package checkout turns the current cart into a persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"storefront/internal/cart"
	"storefront/internal/country"
	"storefront/internal/models"
	"storefront/internal/orders"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrMissingReference = errors.New("payment reference is required")
)

const defaultSaveTimeout = 10 * time.Second

// Form carries the contact and shipping details captured at checkout. The
// values may be pre-filled from the profile but are stored as entered.
type Form struct {
	Name   string
	Email  string
	Phone  string
	Street string
	City   string
	Region string
}

func (f Form) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(f.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if strings.TrimSpace(f.Street) == "" {
		return fmt.Errorf("street address is required")
	}
	if strings.TrimSpace(f.City) == "" {
		return fmt.Errorf("city is required")
	}
	return nil
}

// Builder assembles an immutable order from the cart snapshot and hands it to
// the order store. The cart is cleared only after the store confirms; on
// failure the cart is left intact so the shopper can retry.
type Builder struct {
	Cart    *cart.Engine
	Orders  orders.Store
	Session *country.Session
	// Timeout bounds the store round trip; zero means defaultSaveTimeout.
	Timeout time.Duration

	group singleflight.Group
}

func NewBuilder(cartEngine *cart.Engine, store orders.Store, session *country.Session) *Builder {
	return &Builder{Cart: cartEngine, Orders: store, Session: session}
}

// PlaceOrder snapshots the cart into an order with status placed and persists
// it. Duplicate submissions with the same payment reference (a double-click)
// collapse into a single save.
func (b *Builder) PlaceOrder(ctx context.Context, owner *primitive.ObjectID, form Form, reference string) (models.Order, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return models.Order{}, ErrMissingReference
	}
	if err := form.validate(); err != nil {
		return models.Order{}, err
	}

	result, err, _ := b.group.Do(reference, func() (interface{}, error) {
		return b.placeOrder(ctx, owner, form, reference)
	})
	if err != nil {
		return models.Order{}, err
	}
	return result.(models.Order), nil
}

func (b *Builder) placeOrder(ctx context.Context, owner *primitive.ObjectID, form Form, reference string) (models.Order, error) {
	items := b.Cart.Items()
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	// Total and currency are derived from this one snapshot, not re-read
	// from the engine: a concurrent cart mutation between reads could
	// otherwise persist a total that disagrees with the order's own items.
	snapshot := snapshotItems(items)
	total := 0.0
	for _, item := range snapshot {
		total += item.Price * float64(item.Quantity)
	}

	order := models.Order{
		Reference:      reference,
		UserID:         owner,
		Items:          snapshot,
		Total:          total,
		Currency:       items[0].Currency,
		Country:        b.Session.Active(),
		CustomerName:   strings.TrimSpace(form.Name),
		Email:          strings.TrimSpace(form.Email),
		Phone:          strings.TrimSpace(form.Phone),
		Address:        strings.TrimSpace(form.Street),
		City:           strings.TrimSpace(form.City),
		Region:         strings.TrimSpace(form.Region),
		Status:         models.StatusPlaced,
		TrackingEvents: []models.TrackingEvent{},
	}

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = defaultSaveTimeout
	}
	saveCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	id, err := b.Orders.Save(saveCtx, &order)
	if err != nil {
		log.Println("[CHECKOUT] [ERROR] order save failed, cart preserved:", err)
		return models.Order{}, err
	}
	order.ID = id

	b.Cart.Clear()
	log.Println("[CHECKOUT] [INFO] order placed:", id.Hex(), "reference:", reference)
	return order, nil
}

// snapshotItems deep-copies the cart lines so later cart or catalogue
// mutations cannot reach into the persisted order.
func snapshotItems(items []cart.Item) []models.OrderItem {
	snapshot := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		snapshot = append(snapshot, models.OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Currency:  item.Currency,
			Image:     item.Image,
			Category:  item.Category,
		})
	}
	return snapshot
}
