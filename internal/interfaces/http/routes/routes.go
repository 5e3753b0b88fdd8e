// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/session"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// SetupRoutes wires all storefront routes. Every route is session-scoped
// so the session middleware runs for the whole group.
func SetupRoutes(rg *gin.RouterGroup, registry *session.Registry, client *catalog.Client) {
	rg.Use(middleware.Session())

	setupAuthRoutes(rg, registry)
	setupCartRoutes(rg, registry)
	setupCatalogRoutes(rg, registry, client)
}

func setupAuthRoutes(rg *gin.RouterGroup, registry *session.Registry) {
	authHandler := handlers.NewAuthHandler(registry)

	auth := rg.Group("/auth")
	{
		auth.GET("/session", authHandler.GetIdentity)
		auth.POST("/session", authHandler.SignIn)
		auth.DELETE("/session", authHandler.SignOut)
	}
}

func setupCartRoutes(rg *gin.RouterGroup, registry *session.Registry) {
	cartHandler := handlers.NewCartHandler(registry)

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:id", cartHandler.UpdateItem)
		cart.DELETE("/items/:id", cartHandler.RemoveItem)
	}
}

func setupCatalogRoutes(rg *gin.RouterGroup, registry *session.Registry, client *catalog.Client) {
	catalogHandler := handlers.NewCatalogHandler(registry, client)

	cat := rg.Group("/catalog")
	{
		cat.GET("", catalogHandler.GetView)
		cat.POST("/more", catalogHandler.LoadMore)
		cat.PUT("/filters", catalogHandler.UpdateFilter)
		cat.DELETE("/filters", catalogHandler.ResetFilters)
		cat.GET("/products/:id", catalogHandler.GetProduct)
		cat.GET("/categories", catalogHandler.GetCategories)
		cat.GET("/categories/:slug/products", catalogHandler.GetCategory)
	}
}
