package api

import (
	"littlelemon/internal/config"     // Application configuration
	"littlelemon/internal/middleware" // JWT and role middleware
	"littlelemon/internal/roles"      // Role names and actions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// SetupRouter builds the full route table. Kept separate from main so the
// tests can mount the exact router the server runs.
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	r := gin.Default()              // Gin router instance
	r.HandleMethodNotAllowed = true // Unsupported verbs answer 405 instead of 404

	// Auth routes
	r.POST("/user", RegisterHandler(db))                 // Registration endpoint
	r.POST("/token", LoginHandler(db, cfg.JWTSecret))    // Login endpoint issuing JWTs
	r.GET("/menu-items", ListMenuItemsHandler(db, rdb))  // Public menu listing, cached

	// Everything below requires a valid token
	auth := r.Group("")
	auth.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	// Menu catalog: reads need authentication, writes need the manager role
	auth.GET("/menu-items/:id", GetMenuItemHandler(db)) // Single menu item endpoint
	menuAdmin := auth.Group("")
	menuAdmin.Use(middleware.RequireAction(db, roles.ActionMenuWrite))
	menuAdmin.POST("/menu-items", CreateMenuItemHandler(db, rdb))       // Create menu item endpoint
	menuAdmin.PUT("/menu-items/:id", UpdateMenuItemHandler(db, rdb))    // Full update endpoint
	menuAdmin.PATCH("/menu-items/:id", UpdateMenuItemHandler(db, rdb))  // Partial update endpoint
	menuAdmin.DELETE("/menu-items/:id", DeleteMenuItemHandler(db, rdb)) // Delete menu item endpoint
	auth.GET("/categories", ListCategoriesHandler(db))                  // Category listing endpoint
	menuAdmin.POST("/categories", CreateCategoryHandler(db))            // Create category endpoint

	// Group membership admin (managers only). The delivers path manages the
	// delivery_crew group, keeping the original URL spelling.
	groupAdmin := auth.Group("/groups")
	groupAdmin.Use(middleware.RequireAction(db, roles.ActionGroupAdmin))
	groupAdmin.GET("/manager/users", ListGroupMembersHandler(db, string(roles.Manager)))              // Manager group list endpoint
	groupAdmin.POST("/manager/users", AddGroupMemberHandler(db, string(roles.Manager)))               // Manager group add endpoint
	groupAdmin.DELETE("/manager/users/:userId", RemoveGroupMemberHandler(db, string(roles.Manager)))  // Manager group remove endpoint
	groupAdmin.GET("/delivers/users", ListGroupMembersHandler(db, string(roles.DeliveryCrew)))        // Delivery group list endpoint
	groupAdmin.POST("/delivers/users", AddGroupMemberHandler(db, string(roles.DeliveryCrew)))         // Delivery group add endpoint
	groupAdmin.DELETE("/delivers/users/:userId", RemoveGroupMemberHandler(db, string(roles.DeliveryCrew))) // Delivery group remove endpoint

	// Orders: role branching happens inside the handlers since every role
	// may reach these endpoints with different rules
	auth.GET("/orders", ListOrdersHandler(db))          // Scoped order listing endpoint
	auth.POST("/orders", CreateOrderHandler(db))        // Create order endpoint
	auth.GET("/orders/:id", GetOrderHandler(db))        // Order detail endpoint
	auth.PUT("/orders/:id", UpdateOrderHandler(db))     // Full update endpoint
	auth.PATCH("/orders/:id", UpdateOrderHandler(db))   // Partial update endpoint
	auth.DELETE("/orders/:id", DeleteOrderHandler(db))  // Delete order endpoint

	// Cart: customers only
	cart := auth.Group("/cart")
	cart.Use(middleware.RequireAction(db, roles.ActionCartUse))
	cart.GET("/menu-items", ListCartHandler(db))      // Cart listing endpoint
	cart.POST("/menu-items", AddCartItemHandler(db))  // Add-to-cart endpoint
	cart.DELETE("/menu-items", ClearCartHandler(db))  // Clear cart endpoint

	return r
}
