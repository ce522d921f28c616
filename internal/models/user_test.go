package models

import (
	"testing"
	"time"
)

func sampleAddresses() []Address {
	return []Address{
		{ID: "a1", Label: "Home", Street: "1 Adeola Odeku St", City: "Lagos", Region: "Lagos", IsDefault: true},
		{ID: "a2", Label: "Office", Street: "14 Marina Rd", City: "Lagos", Region: "Lagos"},
		{ID: "a3", Label: "Warehouse", Street: "2 Creek Rd", City: "Port Harcourt", Region: "Rivers"},
	}
}

func TestSetDefaultAddressClearsOtherFlags(t *testing.T) {
	addresses := sampleAddresses()

	if ok := SetDefaultAddress(addresses, "a3"); !ok {
		t.Fatal("expected SetDefaultAddress to find a3")
	}

	defaults := 0
	for _, address := range addresses {
		if address.IsDefault {
			defaults++
			if address.ID != "a3" {
				t.Fatalf("expected a3 to be default, got %s", address.ID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default address, got %d", defaults)
	}
}

func TestSetDefaultAddressUnknownIDLeavesFlagsAlone(t *testing.T) {
	addresses := sampleAddresses()

	if ok := SetDefaultAddress(addresses, "missing"); ok {
		t.Fatal("expected SetDefaultAddress to report unknown id")
	}

	if def, ok := DefaultAddress(addresses); !ok || def.ID != "a1" {
		t.Fatalf("expected a1 to remain default, got %+v ok=%v", def, ok)
	}
}

func TestOrderStatusNextWalksThePipeline(t *testing.T) {
	cases := []struct {
		status OrderStatus
		next   OrderStatus
		ok     bool
	}{
		{StatusPlaced, StatusProcessing, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusDelivered, "", false},
		{OrderStatus("cancelled"), "", false},
	}

	for _, tc := range cases {
		next, ok := tc.status.Next()
		if ok != tc.ok || next != tc.next {
			t.Fatalf("Next(%s) = (%s, %v), expected (%s, %v)", tc.status, next, ok, tc.next, tc.ok)
		}
	}
}

func TestHasTrackingEvent(t *testing.T) {
	order := Order{TrackingEvents: []TrackingEvent{{Status: StatusProcessing, Message: "Order is being processed"}}}

	if !order.HasTrackingEvent(StatusProcessing) {
		t.Fatal("expected processing event to be found")
	}
	if order.HasTrackingEvent(StatusShipped) {
		t.Fatal("did not expect shipped event")
	}
}

func TestRefreshTokenExpired(t *testing.T) {
	token := RefreshToken{ExpiresAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	if token.Expired(token.ExpiresAt.Add(-time.Minute)) {
		t.Error("token expired before its deadline")
	}
	if !token.Expired(token.ExpiresAt.Add(time.Minute)) {
		t.Error("token not expired after its deadline")
	}
}

func TestDefaultAddress(t *testing.T) {
	addresses := sampleAddresses()

	address, ok := DefaultAddress(addresses)
	if !ok || address.ID != "a1" {
		t.Fatalf("DefaultAddress = %+v, ok=%v; want a1", address, ok)
	}

	for i := range addresses {
		addresses[i].IsDefault = false
	}
	if _, ok := DefaultAddress(addresses); ok {
		t.Fatal("DefaultAddress reported a default when none is set")
	}
}
