package models

import (
	"fmt"
	"strings"
	"time"

	"storefront/internal/country"
)

// Product is a sellable item in exactly one country's catalogue.
type Product struct {
	ID          string           `bson:"_id" json:"id"`
	Name        string           `bson:"name" json:"name"`
	Description string           `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64          `bson:"price" json:"price"`
	Currency    country.Currency `bson:"currency" json:"currency"`
	Country     country.Code     `bson:"country" json:"country"`
	Category    string           `bson:"category" json:"category"`
	Image       string           `bson:"image,omitempty" json:"image,omitempty"`
	InStock     bool             `bson:"inStock" json:"inStock"`
	Featured    bool             `bson:"featured" json:"featured"`
	Rating      float64          `bson:"rating" json:"rating"`
	Reviews     int              `bson:"reviews" json:"reviews"`
	CreatedAt   time.Time        `bson:"createdAt" json:"createdAt"`
}

// Validate checks the fields an admin or seed loader must get right before a
// product is stored. The currency must be the canonical one for the country.
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("product id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if !p.Country.Valid() {
		return fmt.Errorf("unknown country: %q", p.Country)
	}
	if p.Currency != p.Country.Currency() {
		return fmt.Errorf("currency %s does not match country %s", p.Currency, p.Country)
	}
	return nil
}
