// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-api/internal/pkg/pdf"
)

// Services bundles the domain services the routes dispatch to
type Services struct {
	Users     *user.Service
	Addresses *user.AddressService
	Admin     *user.AdminService
	Products  *product.Service
	Cart      *cart.Service
	Orders    *order.Service
	Invoices  *pdf.Service
}

// SetupRoutes registers every API route on rg
func SetupRoutes(rg *gin.RouterGroup, services *Services) {
	handlers.ConfigureValidator()

	requireAuth := middleware.AuthMiddleware(services.Users)

	SetupAuthRoutes(rg, services, requireAuth)
	SetupUserRoutes(rg, services, requireAuth)
	SetupProductRoutes(rg, services, requireAuth)
	SetupCartRoutes(rg, services, requireAuth)
	SetupOrderRoutes(rg, services, requireAuth)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, services *Services, requireAuth gin.HandlerFunc) {
	authHandler := handlers.NewAuthHandler(services.Users)

	auth := rg.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", requireAuth, authHandler.Me)
	}
}

// SetupUserRoutes sets up user related routes
func SetupUserRoutes(rg *gin.RouterGroup, services *Services, requireAuth gin.HandlerFunc) {
	profileHandler := handlers.NewUserProfileHandler(services.Users)
	addressHandler := handlers.NewUserAddressHandler(services.Addresses)
	adminHandler := handlers.NewUserAdminHandler(services.Admin)

	users := rg.Group("/users")
	users.Use(requireAuth)
	{
		users.GET("/address", addressHandler.GetAddresses)
		users.POST("/address", addressHandler.CreateAddress)
		users.DELETE("/address/:id", addressHandler.DeleteAddress)
		users.PUT("", profileHandler.UpdateProfile)

		admin := users.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("", adminHandler.ListUsers)
			admin.GET("/:id", adminHandler.GetUser)
			admin.PUT("/:id/role", adminHandler.ChangeRole)
		}
	}
}

// SetupProductRoutes sets up product related routes
func SetupProductRoutes(rg *gin.RouterGroup, services *Services, requireAuth gin.HandlerFunc) {
	productHandler := handlers.NewProductHandler(services.Products)

	products := rg.Group("/products")
	products.Use(requireAuth)
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/search", productHandler.SearchProducts)
		products.GET("/:id", productHandler.GetProduct)

		admin := products.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("", productHandler.CreateProduct)
			admin.PUT("/:id", productHandler.UpdateProduct)
			admin.DELETE("/:id", productHandler.DeleteProduct)
		}
	}
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, services *Services, requireAuth gin.HandlerFunc) {
	cartHandler := handlers.NewCartHandler(services.Cart)

	cartGroup := rg.Group("/cart")
	cartGroup.Use(requireAuth)
	{
		cartGroup.POST("", cartHandler.AddItem)
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.DELETE("/:id", cartHandler.RemoveItem)
		cartGroup.PUT("/:id", cartHandler.ChangeQuantity)
	}
}

// SetupOrderRoutes sets up order related routes
func SetupOrderRoutes(rg *gin.RouterGroup, services *Services, requireAuth gin.HandlerFunc) {
	orderHandler := handlers.NewOrderHandler(services.Orders)
	invoiceHandler := handlers.NewInvoiceHandler(services.Orders, services.Users, services.Invoices)

	orders := rg.Group("/orders")
	orders.Use(requireAuth)
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id/cancel", orderHandler.CancelOrder)
		orders.GET("/:id/invoice", invoiceHandler.GenerateInvoice)
		orders.GET("/:id/invoice/data", invoiceHandler.GetInvoiceData)

		admin := orders.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/index", orderHandler.ListAllOrders)
			admin.PUT("/:id/status", orderHandler.ChangeStatus)
			admin.GET("/users/:id", orderHandler.ListUserOrders)
		}
	}
}
