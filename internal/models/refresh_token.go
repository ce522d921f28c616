package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RefreshToken is one entry in the storefront's rotation chain. Only the
// sha256 of the opaque token is stored; the plaintext leaves the server once,
// in the login or refresh response. Using a token marks it revoked and links
// the replacement through ReplacedByToken.
type RefreshToken struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"userId" json:"userId"`
	TokenHash       string              `bson:"tokenHash" json:"tokenHash"`
	ExpiresAt       time.Time           `bson:"expiresAt" json:"expiresAt"`
	Revoked         bool                `bson:"revoked" json:"revoked"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	ReplacedByToken *primitive.ObjectID `bson:"replacedByToken,omitempty" json:"replacedByToken,omitempty"`
}

// Expired reports whether the token is past its expiry at the given time.
func (t RefreshToken) Expired(at time.Time) bool {
	return at.After(t.ExpiresAt)
}
