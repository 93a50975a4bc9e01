package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"tradepost/internal/adapter/api"
	"tradepost/internal/adapter/api/handler"
	apimiddleware "tradepost/internal/adapter/api/middleware"
	"tradepost/internal/adapter/api/router"
	"tradepost/internal/adapter/repository"
	"tradepost/internal/infrastructure/firebase"
	"tradepost/internal/infrastructure/websocket"
	"tradepost/internal/usecase"
	"tradepost/pkg/config"
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

	fbAuth, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	categoryRepo := repository.NewFirestoreCategoryRepository(firestoreClient)
	itemRepo := repository.NewFirestoreItemRepository(firestoreClient)
	conversationRepo := repository.NewFirestoreConversationRepository(firestoreClient)

	authClient := firebase.NewAuthClient(fbAuth)

	registry := websocket.NewRegistry()
	broadcaster := websocket.NewBroadcaster(registry)

	authUseCase := usecase.NewAuthUseCase(authClient, userRepo)
	userUseCase := usecase.NewUserUseCase(userRepo)
	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo)
	itemUseCase := usecase.NewItemUseCase(itemRepo, categoryRepo, userRepo)
	messagingUseCase := usecase.NewMessagingUseCase(conversationRepo, userRepo, itemRepo, broadcaster)

	handler.Setup(authUseCase, userUseCase, categoryUseCase, itemUseCase, messagingUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	wsHandler := handler.NewWebSocketHandler(registry, messagingUseCase, authMiddleware)

	router.Setup(e, authMiddleware, adminMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	// Polling cadence for clients running the REST fallback.
	e.GET("/v1/client-config", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]int64{
			"conversation_poll_seconds": cfg.ConversationPollSeconds,
			"message_poll_seconds":      cfg.MessagePollSeconds,
			"unread_poll_seconds":       cfg.UnreadPollSeconds,
		})
	})

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
