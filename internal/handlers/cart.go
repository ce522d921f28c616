package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/catalog"
)

func GetCart(engine *cart.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		c.JSON(http.StatusOK, cartPayload(engine))
	}
}

type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func AddToCart(engine *cart.Engine, store catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items"
		defer handlePanic(c, route)

		var req AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "productId is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := store.Get(ctx, req.ProductID)
		if errors.Is(err, catalog.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := engine.Add(product); err != nil {
			switch {
			case errors.Is(err, cart.ErrOutOfStock):
				respondWithError(c, http.StatusConflict, route, "product is out of stock")
			case errors.Is(err, cart.ErrCurrencyMismatch):
				respondWithError(c, http.StatusConflict, route, "cart holds items in a different currency")
			default:
				respondWithError(c, http.StatusInternalServerError, route, "could not add item")
			}
			return
		}

		c.JSON(http.StatusOK, cartPayload(engine))
	}
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func UpdateCartItem(engine *cart.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/items/:id"
		defer handlePanic(c, route)

		var req UpdateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "quantity is required")
			return
		}

		engine.UpdateQuantity(c.Param("id"), req.Quantity)
		c.JSON(http.StatusOK, cartPayload(engine))
	}
}

func RemoveFromCart(engine *cart.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/items/:id"
		defer handlePanic(c, route)

		engine.Remove(c.Param("id"))
		c.JSON(http.StatusOK, cartPayload(engine))
	}
}

func ClearCart(engine *cart.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		engine.Clear()
		c.JSON(http.StatusOK, cartPayload(engine))
	}
}

func cartPayload(engine *cart.Engine) gin.H {
	items := engine.Items()
	lines := make([]gin.H, 0, len(items))
	for _, item := range items {
		lines = append(lines, gin.H{
			"product":   item.Product,
			"quantity":  item.Quantity,
			"lineTotal": lineTotal(item.Price, item.Quantity),
		})
	}

	payload := gin.H{
		"items": lines,
		"total": engine.Total(),
		"count": engine.Count(),
	}
	if currency, ok := engine.Currency(); ok {
		payload["currency"] = currency
		payload["totalDisplay"] = formatPrice(engine.Total(), currency)
	}
	return payload
}
