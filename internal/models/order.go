package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/country"
)

// OrderStatus is a stage in the fulfilment pipeline. Orders only ever move
// forward through the sequence; Delivered is terminal.
type OrderStatus string

const (
	StatusPlaced     OrderStatus = "placed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
)

// StatusPipeline is the forward order of the fulfilment stages.
var StatusPipeline = []OrderStatus{StatusPlaced, StatusProcessing, StatusShipped, StatusDelivered}

func (s OrderStatus) Valid() bool {
	for _, stage := range StatusPipeline {
		if s == stage {
			return true
		}
	}
	return false
}

// Next returns the following stage, or ok=false when s is terminal or unknown.
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, stage := range StatusPipeline {
		if s == stage && i+1 < len(StatusPipeline) {
			return StatusPipeline[i+1], true
		}
	}
	return "", false
}

// OrderItem is a frozen copy of a cart line. Prices are captured at checkout
// and are unaffected by later catalogue edits.
type OrderItem struct {
	ProductID string           `bson:"productId" json:"productId"`
	Name      string           `bson:"name" json:"name"`
	Price     float64          `bson:"price" json:"price"`
	Quantity  int              `bson:"quantity" json:"quantity"`
	Currency  country.Currency `bson:"currency" json:"currency"`
	Image     string           `bson:"image,omitempty" json:"image,omitempty"`
	Category  string           `bson:"category,omitempty" json:"category,omitempty"`
}

// TrackingEvent records the first time an order reached a status. The log is
// append-only and holds at most one entry per status.
type TrackingEvent struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Message   string      `bson:"message" json:"message"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
}

// Order is the immutable record of a completed checkout. Only the status,
// tracking metadata, and tracking-event log are mutated afterwards, and only
// by the admin order manager.
type Order struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Reference      string              `bson:"reference" json:"reference"`
	UserID         *primitive.ObjectID `bson:"userId" json:"userId"`
	Items          []OrderItem         `bson:"items" json:"items"`
	Total          float64             `bson:"total" json:"total"`
	Currency       country.Currency    `bson:"currency" json:"currency"`
	Country        country.Code        `bson:"country" json:"country"`
	CustomerName   string              `bson:"customerName" json:"customerName"`
	Email          string              `bson:"email" json:"email"`
	Phone          string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Address        string              `bson:"address" json:"address"`
	City           string              `bson:"city" json:"city"`
	Region         string              `bson:"region" json:"region"`
	Status         OrderStatus         `bson:"status" json:"status"`
	TrackingNumber string              `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	Notes          string              `bson:"notes,omitempty" json:"notes,omitempty"`
	TrackingEvents []TrackingEvent     `bson:"trackingEvents" json:"trackingEvents"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}

// HasTrackingEvent reports whether the log already records the given status.
func (o Order) HasTrackingEvent(status OrderStatus) bool {
	for _, event := range o.TrackingEvents {
		if event.Status == status {
			return true
		}
	}
	return false
}
