package router

import (
	"github.com/labstack/echo/v4"

	"threadmarket/internal/adapter/api/handler"
	"threadmarket/internal/adapter/api/middleware"
)

func SetupReviewRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	reviewHandler := handler.GetReviewHandler()

	// Public routes
	reviews := e.Group("/v1/reviews")
	reviews.GET("/user/:userId", reviewHandler.GetUserReviews)
	reviews.GET("/user/:userId/summary", reviewHandler.GetUserReviewSummary)

	// Protected routes
	authenticated := e.Group("/v1/reviews")
	authenticated.Use(authMiddleware.Authenticate)
	authenticated.POST("", reviewHandler.CreateReview)
}
