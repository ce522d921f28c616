package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/admin"
	"storefront/internal/catalog"
	"storefront/internal/country"
)

/*
=======================
  INPUT STRUCTS
=======================
*/

type NewProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Country     string  `json:"country" binding:"required"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	InStock     bool    `json:"inStock"`
	Featured    bool    `json:"featured"`
}

type ProductPatchRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
	InStock     *bool    `json:"inStock"`
	Featured    *bool    `json:"featured"`
}

func (r ProductPatchRequest) patch() catalog.ProductPatch {
	return catalog.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Image:       r.Image,
		InStock:     r.InStock,
		Featured:    r.Featured,
	}
}

/*
=======================
  HANDLERS
=======================
*/

func AdminCreateProduct(manager *admin.ProductManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/products"
		defer handlePanic(c, route)

		var req NewProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "name and country are required")
			return
		}

		productCountry, err := country.Parse(req.Country)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "unknown country")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := manager.Add(ctx, admin.NewProduct{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Country:     productCountry,
			Category:    req.Category,
			Image:       req.Image,
			InStock:     req.InStock,
			Featured:    req.Featured,
		})
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		c.JSON(http.StatusCreated, gin.H{"product": product})
	}
}

func AdminUpdateProduct(manager *admin.ProductManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/products/:id"
		defer handlePanic(c, route)

		var req ProductPatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		patch := req.patch()
		if patch.IsEmpty() {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := manager.Update(ctx, c.Param("id"), patch)
		if errors.Is(err, catalog.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}

func AdminDeleteProduct(manager *admin.ProductManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/products/:id"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := manager.Delete(ctx, c.Param("id")); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				respondWithError(c, http.StatusNotFound, route, "product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "could not delete product")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}

/*
POST /admin/products/:id/image
- multipart upload, field name "image"
- upload progress is logged server-side in whole percents
*/
func AdminUploadProductImage(manager *admin.ProductManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/products/:id/image"
		defer handlePanic(c, route)

		if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
			log.Println("[ADMIN] [ERROR] multipart parse failed:", err)
			respondWithError(c, http.StatusBadRequest, route, "invalid multipart form")
			return
		}

		file, header, err := c.Request.FormFile("image")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "image file is required")
			return
		}
		defer file.Close()

		productID := c.Param("id")
		progress := func(pct int) {
			log.Printf("[UPLOAD] product=%s progress=%d%%", productID, pct)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		product, err := manager.AttachImage(ctx, productID, file, header.Filename, header.Size, progress)
		if errors.Is(err, catalog.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}

func AdminGetProducts(store catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/products"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		all := []interface{}{}
		for _, code := range country.All() {
			products, err := store.List(ctx, catalog.Query{Country: code})
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			for _, product := range products {
				all = append(all, product)
			}
		}

		c.JSON(http.StatusOK, gin.H{"products": all, "total": len(all)})
	}
}
