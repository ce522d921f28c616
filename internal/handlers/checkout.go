package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/checkout"
	"storefront/internal/models"
	"storefront/internal/orders"
)

type CheckoutRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	Region    string `json:"region"`
	Reference string `json:"reference" binding:"required"`
}

/*
POST /checkout
- Guests may order; a valid bearer token stamps the order with the user id.
- The payment reference doubles as the duplicate-submission guard.
*/
func PlaceOrder(builder *checkout.Builder, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout"
		defer handlePanic(c, route)

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "name, email, street, city and reference are required")
			return
		}

		owner, err := userIDFromHeader(c.GetHeader("Authorization"), jwtSecret)
		if err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "invalid token")
			return
		}

		form := checkout.Form{
			Name:   req.Name,
			Email:  req.Email,
			Phone:  req.Phone,
			Street: req.Street,
			City:   req.City,
			Region: req.Region,
		}

		order, err := builder.PlaceOrder(c.Request.Context(), owner, form, req.Reference)
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondWithError(c, http.StatusBadRequest, route, "cart is empty")
			return
		}
		if errors.Is(err, checkout.ErrMissingReference) {
			respondWithError(c, http.StatusBadRequest, route, "payment reference is required")
			return
		}
		if err != nil {
			log.Println("[CHECKOUT] [ERROR] order placement failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not place order")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"order": order,
			"confirmation": gin.H{
				"reference":    order.Reference,
				"total":        order.Total,
				"totalDisplay": formatPrice(order.Total, order.Currency),
				"currency":     order.Currency,
				"status":       order.Status,
			},
		})
	}
}

// CheckoutPrefill returns the signed-in shopper's contact details and default
// address so the checkout form can be pre-filled.
func CheckoutPrefill(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /account/checkout-prefill"
		defer handlePanic(c, route)

		user, ok := loadUser(c, db, route)
		if !ok {
			return
		}

		prefill := gin.H{
			"name":  strings.TrimSpace(user.FirstName + " " + user.LastName),
			"email": user.Email,
			"phone": user.Phone,
		}
		if address, ok := models.DefaultAddress(user.Addresses); ok {
			prefill["street"] = address.Street
			prefill["city"] = address.City
			prefill["region"] = address.Region
		}

		c.JSON(http.StatusOK, gin.H{"prefill": prefill})
	}
}

func GetMyOrders(store orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /account/orders"
		defer handlePanic(c, route)

		userID, ok := c.Get("userId")
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		owner, ok := userID.(primitive.ObjectID)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, err := store.ListByOwner(ctx, owner)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"orders": list, "total": len(list)})
	}
}

func GetMyOrder(store orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /account/orders/:id"
		defer handlePanic(c, route)

		userID, ok := c.Get("userId")
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		owner, ok := userID.(primitive.ObjectID)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := store.Get(ctx, orderID)
		if errors.Is(err, orders.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if order.UserID == nil || *order.UserID != owner {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}
