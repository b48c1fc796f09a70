package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/controllers"
	"github.com/gonzalofarias/distribuidora-api/middleware"
	"github.com/gonzalofarias/distribuidora-api/models"
	"github.com/gonzalofarias/distribuidora-api/services"
)

func main() {
	log.Println("Starting Distribuidora API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetConfig(cfg)

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Currency{},
		&models.PaymentMethod{},
		&models.OrderState{},
		&models.Salesperson{},
		&models.UserType{},
		&models.User{},
		&models.Client{},
		&models.Supplier{},
		&models.ProductType{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.Item{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if _, err := services.InitStorageService(); err != nil {
		log.Printf("Storage service not available: %v", err)
	}

	router := setupRouter()

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all API routes
func setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", healthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/login", controllers.Login)
			auth.POST("/refresh", controllers.Refresh)
		}

		protected := api.Group("")
		protected.Use(middleware.EnsureValidToken())
		{
			orders := protected.Group("/orders")
			{
				orders.GET("", controllers.ListOrders)
				orders.GET("/order/:id", controllers.GetOrder)
				orders.POST("/create", controllers.CreateOrder)
				orders.PATCH("/update/:id", controllers.UpdateOrder)
				orders.POST("/delete", controllers.DeleteOrders)
				orders.POST("/duplicate", controllers.DuplicateOrder)

				orders.GET("/:id/files", controllers.ListOrderFiles)
				orders.POST("/:id/files", controllers.UploadOrderFile)
				orders.DELETE("/:id/files", controllers.DeleteOrderFiles)
			}

			clients := protected.Group("/clients")
			{
				clients.GET("", controllers.ListClients)
				clients.GET("/:id", controllers.GetClient)
				clients.POST("", controllers.CreateClient)
				clients.PATCH("/:id", controllers.UpdateClient)
				clients.DELETE("/:id", controllers.DeleteClient)
				clients.POST("/fetch", controllers.FetchClients)
			}

			suppliers := protected.Group("/suppliers")
			{
				suppliers.GET("", controllers.ListSuppliers)
				suppliers.GET("/:id", controllers.GetSupplier)
				suppliers.POST("", controllers.CreateSupplier)
				suppliers.PATCH("/:id", controllers.UpdateSupplier)
				suppliers.DELETE("/:id", controllers.DeleteSupplier)
				suppliers.POST("/fetch", controllers.FetchSuppliers)
			}

			products := protected.Group("/products")
			{
				products.GET("", controllers.ListProducts)
				products.GET("/:id", controllers.GetProduct)
				products.POST("", controllers.CreateProduct)
				products.PATCH("/:id", controllers.UpdateProduct)
				products.POST("/:id/components", controllers.SetProductComponents)
				products.DELETE("/:id", controllers.DeleteProduct)
				products.POST("/fetch", controllers.FetchProducts)
			}

			items := protected.Group("/items")
			{
				items.GET("", controllers.ListItems)
				items.GET("/:id", controllers.GetItem)
				items.POST("", controllers.CreateItem)
				items.PATCH("/:id", controllers.UpdateItem)
				items.DELETE("/:id", controllers.DeleteItem)
			}

			protected.GET("/currencies", controllers.ListCurrencies)
			protected.POST("/currencies", controllers.CreateCurrency)
			protected.GET("/payment-methods", controllers.ListPaymentMethods)
			protected.POST("/payment-methods", controllers.CreatePaymentMethod)
			protected.GET("/order-states", controllers.ListOrderStates)
			protected.POST("/order-states", controllers.CreateOrderState)
			protected.GET("/product-types", controllers.ListProductTypes)
			protected.POST("/product-types", controllers.CreateProductType)
			protected.GET("/salespeople", controllers.ListSalespeople)
			protected.POST("/salespeople", controllers.CreateSalesperson)

			reports := protected.Group("/reports")
			{
				reports.POST("/client-report", controllers.ClientReport)
				reports.POST("/supplier-report", controllers.SupplierReport)
				reports.POST("/dates-report", controllers.DatesReport)
				reports.POST("/brand-report", controllers.BrandReport)
				reports.POST("/best-selling-products-report", controllers.BestSellingProductsReport)
			}

			protected.POST("/sync", controllers.FetchData)

			protected.GET("/files/url", controllers.GetFileURL)
			protected.POST("/files/delete", controllers.DeleteFile)

			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/auth/signup", controllers.Signup)
				admin.GET("/users", controllers.ListUsers)
				admin.GET("/users/:id", controllers.GetUser)
				admin.PATCH("/users/:id", controllers.UpdateUser)
				admin.DELETE("/users/:id", controllers.DeleteUser)
				admin.GET("/user-types", controllers.ListUserTypes)
			}
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Distribuidora API is running",
	})
}
