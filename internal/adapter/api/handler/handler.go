package handler

import (
	"threadmarket/internal/usecase"
)

var (
	authHandler     *AuthHandler
	userHandler     *UserHandler
	productHandler  *ProductHandler
	reviewHandler   *ReviewHandler
	wishlistHandler *WishlistHandler
	chatHandler     *ChatHandler
	healthHandler   *HealthHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	productUseCase *usecase.ProductUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	wishlistUseCase *usecase.WishlistUseCase,
	chatUseCase *usecase.ChatUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	productHandler = NewProductHandler(productUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	wishlistHandler = NewWishlistHandler(wishlistUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	healthHandler = NewHealthHandler()
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetWishlistHandler() *WishlistHandler {
	return wishlistHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}
