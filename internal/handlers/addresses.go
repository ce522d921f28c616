package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

type AddressRequest struct {
	Label     string `json:"label"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	Region    string `json:"region"`
	IsDefault bool   `json:"isDefault"`
}

func ListAddresses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /account/addresses"
		defer handlePanic(c, route)

		user, ok := loadUser(c, db, route)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": user.Addresses})
	}
}

func AddAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /account/addresses"
		defer handlePanic(c, route)

		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "street and city are required")
			return
		}

		user, ok := loadUser(c, db, route)
		if !ok {
			return
		}

		address := models.Address{
			ID:        primitive.NewObjectID().Hex(),
			Label:     strings.TrimSpace(req.Label),
			Street:    strings.TrimSpace(req.Street),
			City:      strings.TrimSpace(req.City),
			Region:    strings.TrimSpace(req.Region),
			IsDefault: req.IsDefault,
		}

		addresses, created := appendAddress(user.Addresses, address)

		if !saveAddresses(c, db, route, user.ID, addresses) {
			return
		}

		log.Println("[ACCOUNT] [INFO] address added for user:", user.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{"address": created, "addresses": addresses})
	}
}

func UpdateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /account/addresses/:id"
		defer handlePanic(c, route)

		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "street and city are required")
			return
		}

		user, ok := loadUser(c, db, route)
		if !ok {
			return
		}

		addressID := c.Param("id")
		addresses := user.Addresses
		index := -1
		for i := range addresses {
			if addresses[i].ID == addressID {
				index = i
				break
			}
		}
		if index < 0 {
			respondWithError(c, http.StatusNotFound, route, "address not found")
			return
		}

		addresses[index].Label = strings.TrimSpace(req.Label)
		addresses[index].Street = strings.TrimSpace(req.Street)
		addresses[index].City = strings.TrimSpace(req.City)
		addresses[index].Region = strings.TrimSpace(req.Region)
		if req.IsDefault {
			models.SetDefaultAddress(addresses, addressID)
		}

		if !saveAddresses(c, db, route, user.ID, addresses) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}

func DeleteAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /account/addresses/:id"
		defer handlePanic(c, route)

		user, ok := loadUser(c, db, route)
		if !ok {
			return
		}

		addressID := c.Param("id")
		addresses := make([]models.Address, 0, len(user.Addresses))
		removedDefault := false
		found := false
		for _, address := range user.Addresses {
			if address.ID == addressID {
				found = true
				removedDefault = address.IsDefault
				continue
			}
			addresses = append(addresses, address)
		}
		if !found {
			respondWithError(c, http.StatusNotFound, route, "address not found")
			return
		}

		// Deleting the default promotes the first remaining address.
		if removedDefault && len(addresses) > 0 {
			models.SetDefaultAddress(addresses, addresses[0].ID)
		}

		if !saveAddresses(c, db, route, user.ID, addresses) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}

func SetDefaultAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /account/addresses/:id/default"
		defer handlePanic(c, route)

		user, ok := loadUser(c, db, route)
		if !ok {
			return
		}

		addressID := c.Param("id")
		addresses := user.Addresses
		if !models.SetDefaultAddress(addresses, addressID) {
			respondWithError(c, http.StatusNotFound, route, "address not found")
			return
		}

		if !saveAddresses(c, db, route, user.ID, addresses) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}

// appendAddress adds the entry to the list and returns it as stored: the
// first saved address becomes the default automatically, and an explicit
// default clears the flag everywhere else.
func appendAddress(existing []models.Address, address models.Address) ([]models.Address, models.Address) {
	addresses := append(existing, address)
	if address.IsDefault || len(addresses) == 1 {
		models.SetDefaultAddress(addresses, address.ID)
	}
	return addresses, addresses[len(addresses)-1]
}

func loadUser(c *gin.Context, db *mongo.Database, route string) (*models.User, bool) {
	userID, ok := c.Get("userId")
	if !ok {
		respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		respondWithError(c, http.StatusNotFound, route, "user not found")
		return nil, false
	}
	return &user, true
}

func saveAddresses(c *gin.Context, db *mongo.Database, route string, userID primitive.ObjectID, addresses []models.Address) bool {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{
			"addresses": addresses,
			"updatedAt": time.Now(),
		},
	})
	if err != nil {
		log.Println("[ACCOUNT] [ERROR] address save failed:", err)
		respondWithError(c, http.StatusInternalServerError, route, "could not save addresses")
		return false
	}
	return true
}
