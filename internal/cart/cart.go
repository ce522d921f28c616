package cart

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"storefront/internal/country"
	"storefront/internal/localstate"
	"storefront/internal/models"
)

// StateKey is the fixed key the cart snapshot is persisted under.
const StateKey = "storefront_cart"

var (
	// ErrOutOfStock rejects adding a product whose inStock flag is false.
	ErrOutOfStock = errors.New("product is out of stock")
	// ErrCurrencyMismatch rejects mixing two currencies in one cart. A cart
	// always belongs to a single country storefront.
	ErrCurrencyMismatch = errors.New("cart already holds items in a different currency")
)

// Item is a product line with its quantity. Within one cart there is at most
// one Item per product id.
type Item struct {
	models.Product
	Quantity int `json:"quantity"`
}

// Engine holds the ordered cart lines and persists a full snapshot to the
// local state store after every mutation. Persistence failures are logged and
// never surfaced to the shopper; the in-memory cart stays authoritative.
type Engine struct {
	mu    sync.Mutex
	store localstate.Store
	key   string
	items []Item
}

// New restores the persisted snapshot under key. A missing or corrupt
// snapshot yields an empty cart.
func New(store localstate.Store, key string) *Engine {
	e := &Engine{store: store, key: key}

	data, ok, err := store.Get(key)
	if err != nil {
		log.Println("[CART] [WARN] read snapshot failed, starting empty:", err)
		return e
	}
	if !ok {
		return e
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		log.Println("[CART] [WARN] corrupt snapshot, starting empty:", err)
		return e
	}
	e.items = items
	return e
}

// Add puts one unit of the product in the cart, incrementing the existing
// line when the product is already present.
func (e *Engine) Add(product models.Product) error {
	if !product.InStock {
		return ErrOutOfStock
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.items) > 0 && e.items[0].Currency != product.Currency {
		return ErrCurrencyMismatch
	}

	for i := range e.items {
		if e.items[i].ID == product.ID {
			e.items[i].Quantity++
			e.persist()
			return nil
		}
	}

	e.items = append(e.items, Item{Product: product, Quantity: 1})
	e.persist()
	return nil
}

// Remove deletes the line for the product id. An absent id is a no-op.
func (e *Engine) Remove(productID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(productID)
}

func (e *Engine) removeLocked(productID string) {
	for i := range e.items {
		if e.items[i].ID == productID {
			e.items = append(e.items[:i], e.items[i+1:]...)
			e.persist()
			return
		}
	}
}

// UpdateQuantity sets the line's quantity to exactly quantity. A value of
// zero or less removes the line.
func (e *Engine) UpdateQuantity(productID string, quantity int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity <= 0 {
		e.removeLocked(productID)
		return
	}

	for i := range e.items {
		if e.items[i].ID == productID {
			e.items[i].Quantity = quantity
			e.persist()
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = nil
	e.persist()
}

// Items returns a copy of the current lines in insertion order.
func (e *Engine) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]Item, len(e.items))
	copy(items, e.items)
	return items
}

// Total is the sum of price times quantity over all lines.
func (e *Engine) Total() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := 0.0
	for _, item := range e.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Count is the sum of quantities over all lines.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, item := range e.items {
		count += item.Quantity
	}
	return count
}

// Currency returns the currency of the cart's lines, or ok=false when the
// cart is empty.
func (e *Engine) Currency() (country.Currency, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.items) == 0 {
		return "", false
	}
	return e.items[0].Currency, true
}

func (e *Engine) persist() {
	items := e.items
	if items == nil {
		items = []Item{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		log.Println("[CART] [ERROR] marshal snapshot failed:", err)
		return
	}
	if err := e.store.Set(e.key, data); err != nil {
		log.Println("[CART] [ERROR] persist snapshot failed:", err)
	}
}
