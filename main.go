package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"storefront/internal/admin"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/country"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/localstate"
	"storefront/internal/middleware"
	"storefront/internal/orders"
	"storefront/internal/uploads"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	productStore := catalog.NewMongoStore(db)
	if config.AppEnv.SeedCatalog {
		if err := catalog.EnsureSeed(context.Background(), productStore); err != nil {
			log.Printf("catalogue seed warning: %v", err)
		}
	}

	orderStore := orders.NewMongoStore(db)

	state, err := localstate.NewFileStore(config.AppEnv.StateDir)
	if err != nil {
		log.Fatal(err)
	}

	session := country.NewSession(state)
	if _, ok, _ := state.Get(country.StateKey); !ok {
		if err := session.SetActive(config.AppEnv.DefaultCountry); err != nil {
			log.Printf("country preference warning: %v", err)
		}
	}

	cartEngine := cart.New(state, cart.StateKey)
	builder := checkout.NewBuilder(cartEngine, orderStore, session)
	orderManager := admin.NewOrderManager(orderStore)

	imageStorage, err := uploads.NewStorage(config.AppEnv.UploadDir)
	if err != nil {
		log.Fatal(err)
	}
	productManager := admin.NewProductManager(productStore, imageStorage)

	r := gin.Default()
	r.Static("/public", config.AppEnv.UploadDir)

	r.GET("/country", handlers.GetCountry(session))
	r.PUT("/country", handlers.SetCountry(session))

	r.GET("/products", handlers.GetProducts(productStore, session))
	r.GET("/products/:id", handlers.GetProduct(productStore))
	r.GET("/categories", handlers.GetCategories(session))

	r.GET("/cart", handlers.GetCart(cartEngine))
	r.POST("/cart/items", handlers.AddToCart(cartEngine, productStore))
	r.PUT("/cart/items/:id", handlers.UpdateCartItem(cartEngine))
	r.DELETE("/cart/items/:id", handlers.RemoveFromCart(cartEngine))
	r.DELETE("/cart", handlers.ClearCart(cartEngine))

	r.POST("/checkout", handlers.PlaceOrder(builder, config.AppEnv.JWTSecret))

	r.POST("/auth/register", handlers.Register(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))

	account := r.Group("/account")
	account.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		account.GET("/checkout-prefill", handlers.CheckoutPrefill(db))
		account.GET("/orders", handlers.GetMyOrders(orderStore))
		account.GET("/orders/:id", handlers.GetMyOrder(orderStore))

		account.GET("/addresses", handlers.ListAddresses(db))
		account.POST("/addresses", handlers.AddAddress(db))
		account.PUT("/addresses/:id", handlers.UpdateAddress(db))
		account.DELETE("/addresses/:id", handlers.DeleteAddress(db))
		account.PUT("/addresses/:id/default", handlers.SetDefaultAddress(db))
	}

	r.POST("/admin/login", handlers.AdminLogin(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))

	adminAPI := r.Group("/admin/api")
	adminAPI.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		adminAPI.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		adminAPI.GET("/products", handlers.AdminGetProducts(productStore))
		adminAPI.POST("/products", handlers.AdminCreateProduct(productManager))
		adminAPI.PUT("/products/:id", handlers.AdminUpdateProduct(productManager))
		adminAPI.DELETE("/products/:id", handlers.AdminDeleteProduct(productManager))
		adminAPI.POST("/products/:id/image", handlers.AdminUploadProductImage(productManager))

		adminAPI.GET("/orders", handlers.AdminGetOrders(orderManager))
		adminAPI.GET("/orders/counts", handlers.AdminGetOrderCounts(orderManager))
		adminAPI.PUT("/orders/:id/status", handlers.AdminAdvanceOrder(orderManager))
		adminAPI.PUT("/orders/:id/tracking", handlers.AdminSetTracking(orderManager))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
