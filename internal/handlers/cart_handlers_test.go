package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/country"
	"storefront/internal/localstate"
)

func newTestCart(t *testing.T) *cart.Engine {
	t.Helper()
	return cart.New(localstate.NewMemStore(), cart.StateKey)
}

func performJSON(t *testing.T, handler gin.HandlerFunc, method, path string, body interface{}, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	} else {
		reader = &bytes.Buffer{}
	}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params

	handler(c)
	return rec
}

func TestAddToCartEndpoint(t *testing.T) {
	store := catalog.NewSeededMemStore()
	engine := newTestCart(t)

	rec := performJSON(t, AddToCart(engine, store), "POST", "/cart/items",
		gin.H{"productId": "ng-001"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Items []struct {
			Quantity  int     `json:"quantity"`
			LineTotal float64 `json:"lineTotal"`
		} `json:"items"`
		Count        int     `json:"count"`
		Total        float64 `json:"total"`
		Currency     string  `json:"currency"`
		TotalDisplay string  `json:"totalDisplay"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Count != 1 || payload.Total != 18500 {
		t.Fatalf("unexpected cart payload: %+v", payload)
	}
	if payload.Currency != "NGN" || payload.TotalDisplay != "₦18,500" {
		t.Fatalf("unexpected currency payload: %+v", payload)
	}
	if len(payload.Items) != 1 || payload.Items[0].LineTotal != 18500 || payload.Items[0].Quantity != 1 {
		t.Fatalf("unexpected line payload: %+v", payload.Items)
	}
}

func TestAddToCartEndpointUnknownProduct(t *testing.T) {
	store := catalog.NewSeededMemStore()
	engine := newTestCart(t)

	rec := performJSON(t, AddToCart(engine, store), "POST", "/cart/items",
		gin.H{"productId": "ng-missing"}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if engine.Count() != 0 {
		t.Fatal("cart mutated on failed add")
	}
}

func TestAddToCartEndpointCurrencyConflict(t *testing.T) {
	store := catalog.NewSeededMemStore()
	engine := newTestCart(t)

	rec := performJSON(t, AddToCart(engine, store), "POST", "/cart/items",
		gin.H{"productId": "ng-001"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("seed add failed: %d", rec.Code)
	}

	rec = performJSON(t, AddToCart(engine, store), "POST", "/cart/items",
		gin.H{"productId": "ca-001"}, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestUpdateCartItemEndpointRemovesAtZero(t *testing.T) {
	store := catalog.NewSeededMemStore()
	engine := newTestCart(t)

	performJSON(t, AddToCart(engine, store), "POST", "/cart/items",
		gin.H{"productId": "ng-003"}, nil)

	rec := performJSON(t, UpdateCartItem(engine), "PUT", "/cart/items/ng-003",
		gin.H{"quantity": 0}, gin.Params{{Key: "id", Value: "ng-003"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if engine.Count() != 0 {
		t.Fatalf("count = %d, want 0", engine.Count())
	}
}

func TestSetCountryEndpoint(t *testing.T) {
	session := country.NewSession(localstate.NewMemStore())

	rec := performJSON(t, SetCountry(session), "PUT", "/country",
		gin.H{"country": "canada"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if session.Active() != country.Canada {
		t.Fatalf("active country = %s, want canada", session.Active())
	}

	rec = performJSON(t, SetCountry(session), "PUT", "/country",
		gin.H{"country": "mars"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if session.Active() != country.Canada {
		t.Fatal("invalid country changed the session")
	}
}

func TestGetProductsEndpointFollowsSessionCountry(t *testing.T) {
	store := catalog.NewSeededMemStore()
	session := country.NewSession(localstate.NewMemStore())

	rec := performJSON(t, GetProducts(store, session), "GET", "/products", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var payload struct {
		Products []struct {
			Country string `json:"country"`
		} `json:"products"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Products) == 0 {
		t.Fatal("no products for the default country")
	}
	for _, product := range payload.Products {
		if product.Country != string(country.Nigeria) {
			t.Fatalf("product from wrong country: %s", product.Country)
		}
	}
	if payload.Currency != "NGN" {
		t.Fatalf("currency = %s, want NGN", payload.Currency)
	}
}
