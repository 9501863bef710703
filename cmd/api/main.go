package main

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"skillswap/internal/adapter/api"
	"skillswap/internal/adapter/api/handler"
	apimiddleware "skillswap/internal/adapter/api/middleware"
	"skillswap/internal/adapter/api/router"
	"skillswap/internal/adapter/repository"
	domainrepo "skillswap/internal/domain/repository"
	"skillswap/internal/domain/service"
	"skillswap/internal/infrastructure/database"
	"skillswap/internal/infrastructure/firebase"
	"skillswap/internal/infrastructure/storage"
	"skillswap/internal/infrastructure/token"
	"skillswap/internal/infrastructure/websocket"
	"skillswap/internal/usecase"
	"skillswap/pkg/config"
	"skillswap/pkg/logger"
	"skillswap/pkg/response"
)

type repositories struct {
	users    domainrepo.UserRepository
	courses  domainrepo.CourseRepository
	requests domainrepo.ChatRequestRepository
	messages domainrepo.MessageRepository
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var (
		firebaseApp *fbapp.App
		googleOpts  []option.ClientOption
	)
	if cfg.UsesFirebase() {
		googleOpts, err = firebase.ClientOptions(cfg)
		if err != nil {
			logger.Fatal("Failed to resolve Firebase credentials: %v", err)
		}
		firebaseApp, err = firebase.NewApp(ctx, cfg, googleOpts)
		if err != nil {
			logger.Fatal("Failed to initialize Firebase: %v", err)
		}
	}

	repos, err := openRepositories(ctx, cfg, googleOpts)
	if err != nil {
		logger.Fatal("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer repos.close()

	tokens, err := newTokenProvider(ctx, cfg, firebaseApp)
	if err != nil {
		logger.Fatal("Failed to initialize %s auth: %v", cfg.AuthProvider, err)
	}

	files, err := newFileService(ctx, cfg, googleOpts)
	if err != nil {
		logger.Fatal("Failed to initialize %s storage: %v", cfg.StorageDriver, err)
	}
	if files != nil {
		defer files.Close()
	}

	wsManager := websocket.NewManager(websocket.NewPresence())

	authUseCase := usecase.NewAuthUseCase(repos.users, tokens)
	userUseCase := usecase.NewUserUseCase(repos.users, files)
	courseUseCase := usecase.NewCourseUseCase(repos.courses, repos.users, files)
	matchUseCase := usecase.NewMatchUseCase(repos.users)
	chatRequestUseCase := usecase.NewChatRequestUseCase(repos.requests, repos.users, repos.courses, wsManager)
	messageUseCase := usecase.NewMessageUseCase(repos.requests, repos.messages, repos.users, wsManager)

	handler.Setup(authUseCase, userUseCase, courseUseCase, matchUseCase, chatRequestUseCase, messageUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler

	authMiddleware := apimiddleware.NewAuthMiddleware(tokens)
	chatEvents := websocket.NewChatEvents(wsManager, messageUseCase)
	wsHandler := handler.NewWebSocketHandler(wsManager, chatEvents, authMiddleware, cfg.CORSOrigins)

	router.Setup(e, authMiddleware, wsHandler, handler.NewHealthHandler(cfg.StoreDriver))

	logger.Info("Starting server on port %s (store=%s, auth=%s, storage=%s)...",
		cfg.ServerPort, cfg.StoreDriver, cfg.AuthProvider, cfg.StorageDriver)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

func openRepositories(ctx context.Context, cfg *config.Config, opts []option.ClientOption) (*repositories, error) {
	if cfg.StoreDriver == config.StoreFirestore {
		client, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
		if err != nil {
			return nil, err
		}
		return &repositories{
			users:    repository.NewFirestoreUserRepository(client),
			courses:  repository.NewFirestoreCourseRepository(client),
			requests: repository.NewFirestoreChatRequestRepository(client),
			messages: repository.NewFirestoreMessageRepository(client),
			close:    func() { client.Close() },
		}, nil
	}

	db, err := database.Open(cfg.StoreDriver, database.DSN(cfg), cfg.Environment == "development")
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		return nil, err
	}

	return &repositories{
		users:    repository.NewGormUserRepository(db),
		courses:  repository.NewGormCourseRepository(db),
		requests: repository.NewGormChatRequestRepository(db),
		messages: repository.NewGormMessageRepository(db),
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		},
	}, nil
}

func newTokenProvider(ctx context.Context, cfg *config.Config, app *fbapp.App) (usecase.TokenProvider, error) {
	if cfg.AuthProvider == config.AuthFirebase {
		authClient, err := app.Auth(ctx)
		if err != nil {
			return nil, err
		}
		return firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseAPIKey), nil
	}

	if cfg.Environment != "development" && cfg.JWTSecret == "your-secret-key" {
		logger.Warn("JWT_SECRET is the default value; set it outside development")
	}
	return token.NewJWTProvider(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second), nil
}

// newFileService returns nil when uploads are disabled; use cases then reject
// file parts and accept URLs only.
func newFileService(ctx context.Context, cfg *config.Config, opts []option.ClientOption) (service.FileUploadService, error) {
	switch cfg.StorageDriver {
	case config.StorageGCS:
		client, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.StorageSupabase:
		return storage.NewSupabaseStorageClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.StorageBucket), nil
	default:
		return nil, nil
	}
}
