package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/classhub-team/classhub/pkg/validator"

	"github.com/classhub-team/classhub/internal/adapter/handler"
	"github.com/classhub-team/classhub/internal/adapter/repository"
	"github.com/classhub-team/classhub/internal/infrastructure/cache"
	"github.com/classhub-team/classhub/internal/infrastructure/database"
	"github.com/classhub-team/classhub/internal/infrastructure/external/embedding"
	"github.com/classhub-team/classhub/internal/infrastructure/external/livekit"
	"github.com/classhub-team/classhub/internal/infrastructure/external/oauth"
	"github.com/classhub-team/classhub/internal/infrastructure/storage"
	"github.com/classhub-team/classhub/internal/usecase/analytics"
	"github.com/classhub-team/classhub/internal/usecase/auth"
	hubUsecase "github.com/classhub-team/classhub/internal/usecase/hub"
	messageUsecase "github.com/classhub-team/classhub/internal/usecase/message"
	notificationUsecase "github.com/classhub-team/classhub/internal/usecase/notification"
	streamUsecase "github.com/classhub-team/classhub/internal/usecase/stream"
	"github.com/classhub-team/classhub/pkg/config"
	"github.com/classhub-team/classhub/pkg/crypto"
	"github.com/classhub-team/classhub/pkg/jwt"
)

// @title           ClassHub API
// @version         1.0
// @description     API for ClassHub classroom hubs with messaging, polls, livestreams and engagement analytics

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Schema is managed by sql-migrate in production; AutoMigrate is a
	// development convenience only.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Object storage for attachments and recordings
	log.Println("🗄️  Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Content encryption key
	box, err := crypto.NewBox(cfg.Crypto.ContentKey)
	if err != nil {
		log.Fatalf("Failed to initialize content encryption: %v", err)
	}

	// Repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	hubRepo := repository.NewHubRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	eventRepo := repository.NewEventRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// OAuth provider
	log.Println("🔐 Initializing OAuth provider...")
	googleProvider := oauth.NewGoogleProvider(
		cfg.OAuth.Google.ClientID,
		cfg.OAuth.Google.ClientSecret,
		cfg.OAuth.Google.RedirectURL,
	)

	// State manager for CSRF protection
	stateManager := oauth.NewStateManager(cache.NewMemoryStore())

	// JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// OAuth service
	log.Println("✨ Initializing OAuth service...")
	oauthService := auth.NewOAuthService(
		userRepo,
		sessionRepo,
		googleProvider,
		stateManager,
		jwtManager,
	)

	// LiveKit
	log.Println("🎥 Initializing LiveKit client...")
	livekitClient := livekit.NewClient(
		cfg.LiveKit.URL,
		cfg.LiveKit.APIKey,
		cfg.LiveKit.APISecret,
		cfg.LiveKit.UseMock,
	)
	if cfg.LiveKit.UseMock {
		log.Println("⚠️  LiveKit running in MOCK mode (no real server needed)")
	} else {
		log.Printf("✅ LiveKit connected to: %s", cfg.LiveKit.URL)
	}
	egressClient := livekit.NewEgressClient(cfg.LiveKit.APIKey, cfg.LiveKit.APISecret, cfg.LiveKit.URL)

	// Embedding service for semantic search, optional
	var embeddingClient *embedding.Client
	if cfg.Embedding.BaseURL != "" {
		log.Printf("🔎 Semantic search enabled via %s", cfg.Embedding.BaseURL)
		embeddingClient = embedding.NewClient(cfg.Embedding.BaseURL, cfg.Embedding.APIKey, cfg.Embedding.Timeout)
	} else {
		log.Println("🔎 Semantic search disabled (EMBEDDING_SERVICE_URL not set)")
	}

	// Usecases
	log.Println("🏫 Initializing services...")
	hubService := hubUsecase.NewHubService(hubRepo, membershipRepo)
	messageService := messageUsecase.NewMessageService(
		hubRepo,
		membershipRepo,
		messageRepo,
		eventRepo,
		bookmarkRepo,
		notificationRepo,
		minioClient,
		box,
	)
	streamService := streamUsecase.NewStreamService(
		hubRepo,
		membershipRepo,
		notificationRepo,
		livekitClient,
		egressClient,
		&cfg.Storage,
	)
	analyticsService := analytics.NewService(
		hubRepo,
		membershipRepo,
		messageRepo,
		eventRepo,
		bookmarkRepo,
		redisClient,
		cfg.Analytics.CacheTTL,
		box,
	)
	notificationService := notificationUsecase.NewNotificationService(notificationRepo)

	// Handlers
	log.Println("🚀 Initializing handlers...")
	authHandler := handler.NewAuth(oauthService)
	hubHandler := handler.NewHubHandler(hubService)
	messageHandler := handler.NewMessageHandler(messageService, hubService, analyticsService, embeddingClient, logger)
	streamHandler := handler.NewStreamHandler(streamService, hubService, cfg.LiveKit.URL)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, hubService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	webhookHandler := handler.NewWebhookHandler(streamService, cfg.LiveKit.APIKey, cfg.LiveKit.APISecret, logger)

	// Routes
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		oauthService,
		authHandler,
		hubHandler,
		messageHandler,
		streamHandler,
		analyticsHandler,
		notificationHandler,
		webhookHandler,
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
