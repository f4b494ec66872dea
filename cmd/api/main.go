package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"threadmarket/internal/adapter/api"
	"threadmarket/internal/adapter/api/handler"
	apimiddleware "threadmarket/internal/adapter/api/middleware"
	"threadmarket/internal/adapter/api/router"
	"threadmarket/internal/adapter/repository"
	"threadmarket/internal/infrastructure/firebase"
	"threadmarket/internal/infrastructure/websocket"
	"threadmarket/internal/usecase"
	"threadmarket/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	productRepo := repository.NewFirestoreProductRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	wishlistRepo := repository.NewFirestoreWishlistRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	priceHistoryRepo := repository.NewFirestorePriceHistoryRepository(firestoreClient)

	firebaseAuthClient := firebase.NewAuthClient(authClient, cfg.FirebaseApiKey)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	userUseCase := usecase.NewUserUseCase(userRepo)
	productUseCase := usecase.NewProductUseCase(productRepo, userRepo, priceHistoryRepo)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, userRepo, productRepo)
	wishlistUseCase := usecase.NewWishlistUseCase(wishlistRepo, productRepo)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, productRepo, wsManager)

	handler.Setup(authUseCase, userUseCase, productUseCase, reviewUseCase, wishlistUseCase, chatUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	router.Setup(e, authMiddleware)
	router.SetupWebSocketRouter(e, handler.NewWebSocketHandler(wsManager, authClient))

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
