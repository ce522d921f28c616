package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/country"
)

// Address is a reusable shipping address on a user profile.
type Address struct {
	ID        string `bson:"id" json:"id"`
	Label     string `bson:"label" json:"label"`
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	Region    string `bson:"region" json:"region"`
	IsDefault bool   `bson:"isDefault" json:"isDefault"`
}

// User is the application account with its profile and saved addresses.
// At most one address carries IsDefault=true; SetDefaultAddress maintains
// that invariant.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Country      country.Code       `bson:"country" json:"country"`
	Addresses    []Address          `bson:"addresses" json:"addresses"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SetDefaultAddress marks the address with the given id as the default and
// clears the flag on every other entry. It reports whether the id was found.
func SetDefaultAddress(addresses []Address, id string) bool {
	found := false
	for i := range addresses {
		if addresses[i].ID == id {
			found = true
		}
	}
	if !found {
		return false
	}
	for i := range addresses {
		addresses[i].IsDefault = addresses[i].ID == id
	}
	return true
}

// DefaultAddress returns the default entry, or ok=false when none is set.
func DefaultAddress(addresses []Address) (Address, bool) {
	for _, address := range addresses {
		if address.IsDefault {
			return address, true
		}
	}
	return Address{}, false
}
