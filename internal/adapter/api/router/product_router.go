package router

import (
	"github.com/labstack/echo/v4"

	"threadmarket/internal/adapter/api/handler"
	"threadmarket/internal/adapter/api/middleware"
)

func SetupProductRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	productHandler := handler.GetProductHandler()

	// Public routes
	products := e.Group("/v1/products")
	products.GET("", productHandler.ListProducts)
	products.GET("/:id", productHandler.GetProduct)
	products.GET("/:id/price-history", productHandler.GetPriceHistory)
	products.GET("/search/:query", productHandler.SearchProducts)

	// Protected routes
	authenticated := e.Group("/v1/products")
	authenticated.Use(authMiddleware.Authenticate)
	authenticated.POST("", productHandler.CreateProduct)
	authenticated.PUT("/:id", productHandler.UpdateProduct)
	authenticated.DELETE("/:id", productHandler.DeleteProduct)
	authenticated.PATCH("/:id/sold", productHandler.MarkProductSold)
}
