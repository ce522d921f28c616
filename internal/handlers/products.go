package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/country"
)

/*
GET /products
- Country defaults to the active session country; ?country= overrides it.
- Pagination is optional: page + limit must both be present to apply.
*/
func GetProducts(store catalog.Store, session *country.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		log.Printf(
			"[%s] hit country=%s category=%s search=%s featured=%s",
			route,
			c.Query("country"),
			c.Query("category"),
			c.Query("search"),
			c.Query("featured"),
		)

		activeCountry := session.Active()
		if raw := strings.TrimSpace(c.Query("country")); raw != "" {
			parsed, err := country.Parse(raw)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "unknown country")
				return
			}
			activeCountry = parsed
		}

		query := catalog.Query{
			Country:      activeCountry,
			Category:     strings.TrimSpace(c.Query("category")),
			Search:       strings.TrimSpace(c.Query("search")),
			FeaturedOnly: c.Query("featured") == "true",
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		products, err := store.List(ctx, query)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
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
				"products": paginate(products, page, limit),
				"total":    len(products),
				"page":     page,
				"limit":    limit,
				"country":  activeCountry,
				"currency": activeCountry.Currency(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"total":    len(products),
			"country":  activeCountry,
			"currency": activeCountry.Currency(),
		})
	}
}

func GetProduct(store catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := store.Get(ctx, c.Param("id"))
		if errors.Is(err, catalog.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}

func GetCategories(session *country.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		activeCountry := session.Active()
		if raw := strings.TrimSpace(c.Query("country")); raw != "" {
			parsed, err := country.Parse(raw)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "unknown country")
				return
			}
			activeCountry = parsed
		}

		c.JSON(http.StatusOK, gin.H{
			"country":    activeCountry,
			"categories": catalog.Categories[activeCountry],
		})
	}
}

func GetCountry(session *country.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /country"
		defer handlePanic(c, route)

		active := session.Active()
		c.JSON(http.StatusOK, gin.H{
			"country":   active,
			"currency":  active.Currency(),
			"supported": country.All(),
		})
	}
}

type SetCountryRequest struct {
	Country string `json:"country" binding:"required"`
}

func SetCountry(session *country.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /country"
		defer handlePanic(c, route)

		var req SetCountryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "country is required")
			return
		}

		parsed, err := country.Parse(req.Country)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "unknown country")
			return
		}

		if err := session.SetActive(parsed); err != nil {
			log.Println("[COUNTRY] [ERROR] could not persist country preference:", err)
		}

		c.JSON(http.StatusOK, gin.H{
			"country":  parsed,
			"currency": parsed.Currency(),
		})
	}
}
