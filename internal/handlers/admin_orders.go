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

	"storefront/internal/admin"
	"storefront/internal/models"
	"storefront/internal/orders"
)

/*
GET /admin/orders
- Optional ?status= filter; pagination optional, same contract as /products.
*/
func AdminGetOrders(manager *admin.OrderManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/orders"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, err := manager.ListAll(ctx)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if raw := strings.TrimSpace(c.Query("status")); raw != "" {
			status := models.OrderStatus(raw)
			if !status.Valid() {
				respondWithError(c, http.StatusBadRequest, route, "unknown status")
				return
			}
			filtered := make([]models.Order, 0, len(list))
			for _, order := range list {
				if order.Status == status {
					filtered = append(filtered, order)
				}
			}
			list = filtered
		}

		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		if pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"orders": paginate(list, page, limit),
				"total":  len(list),
				"page":   page,
				"limit":  limit,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"orders": list, "total": len(list)})
	}
}

func AdminGetOrderCounts(manager *admin.OrderManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/orders/counts"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		counts, err := manager.StatusCounts(ctx)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"counts": counts})
	}
}

type AdvanceOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

func AdminAdvanceOrder(manager *admin.OrderManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/orders/:id/status"
		defer handlePanic(c, route)

		var req AdvanceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "status is required")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := manager.Advance(ctx, orderID, models.OrderStatus(req.Status))
		if errors.Is(err, admin.ErrInvalidTransition) {
			respondWithError(c, http.StatusConflict, route, "invalid status transition")
			return
		}
		if errors.Is(err, orders.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			log.Println("[ADMIN] [ERROR] order status update failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not update order")
			return
		}

		log.Printf("[ADMIN] [INFO] order %s moved to %s", orderID.Hex(), order.Status)
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

type TrackingRequest struct {
	TrackingNumber *string `json:"trackingNumber"`
	Notes          *string `json:"notes"`
}

func AdminSetTracking(manager *admin.OrderManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/orders/:id/tracking"
		defer handlePanic(c, route)

		var req TrackingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}
		if req.TrackingNumber == nil && req.Notes == nil {
			respondWithError(c, http.StatusBadRequest, route, "trackingNumber or notes is required")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := manager.SetTracking(ctx, orderID, req.TrackingNumber, req.Notes)
		if errors.Is(err, orders.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "could not update order")
			return
		}

		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}
