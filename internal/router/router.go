package router

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/anonto42/petconnect/backend/internal/ai"
	"github.com/anonto42/petconnect/backend/internal/async"
	"github.com/anonto42/petconnect/backend/internal/handlers"
	"github.com/anonto42/petconnect/backend/internal/metrics"
	"github.com/anonto42/petconnect/backend/internal/middleware"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"github.com/anonto42/petconnect/backend/internal/services"
	"github.com/anonto42/petconnect/backend/pkg/config"
)

// Deps are the long-lived collaborators the routes are built from
type Deps struct {
	Config    *config.Config
	Logger    *zap.Logger
	Postgres  *gorm.DB
	Mongo     *mongo.Database
	Verifier  services.IDTokenVerifier // nil when Firebase is not configured
	Generator ai.Generator             // nil when no model API key is configured
	Metrics   *metrics.Metrics
	Writer    *async.Writer
}

// AutoMigrate creates or updates the relational schema
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.UserProfile{},
		&models.Pet{},
		&models.Reminder{},
		&models.Comment{},
		&models.Notification{},
	)
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(ctx context.Context, e *echo.Echo, d Deps) error {
	if err := AutoMigrate(d.Postgres); err != nil {
		return err
	}
	d.Logger.Info("PostgreSQL auto-migrations completed")

	e.Use(d.Metrics.Middleware())

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(d.Postgres)
	petRepo := repositories.NewPostgresPetRepository(d.Postgres)
	reminderRepo := repositories.NewPostgresReminderRepository(d.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(d.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(d.Postgres)
	postRepo := repositories.NewMongoPostRepository(d.Mongo)
	eventRepo := repositories.NewMongoEventRepository(d.Mongo)
	adviceRepo := repositories.NewMongoAdviceRepository(d.Mongo)
	conversationRepo := repositories.NewMongoConversationRepository(d.Mongo)

	if err := conversationRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	// --- Services ---
	notificationService := services.NewNotificationService(notificationRepo, d.Writer)
	authService := services.NewAuthService(userRepo, d.Verifier, d.Config.JWTSecret, d.Config.JWTTTL, d.Logger)
	profileService := services.NewProfileService(userRepo, petRepo, d.Logger)
	petService := services.NewPetService(petRepo, userRepo, d.Writer, d.Logger)
	postService := services.NewPostService(postRepo, userRepo, notificationService)
	commentService := services.NewCommentService(commentRepo, postRepo, adviceRepo, userRepo, notificationService, d.Writer)
	eventService := services.NewEventService(eventRepo, userRepo, notificationService)
	reminderService := services.NewReminderService(reminderRepo)
	adviceService := services.NewAdviceService(adviceRepo, userRepo, notificationService)
	messageService := services.NewMessageService(conversationRepo, userRepo, notificationService, d.Writer)

	// --- Unprotected routes for authentication ---
	handlers.NewAuthHandler(authService).RegisterAuthRoutes(e.Group("/api/v1/auth"))

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(authMiddleware(d))

	handlers.NewUserHandler(profileService).RegisterProfileRoutes(api)
	handlers.NewPetHandler(petService).RegisterPetRoutes(api)
	handlers.NewPostHandler(postService).RegisterPostRoutes(api)
	handlers.NewFeedHandler(postService).RegisterFeedRoutes(api)
	handlers.NewLikeHandler(postService).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(api)
	handlers.NewEventHandler(eventService).RegisterEventRoutes(api)
	handlers.NewReminderHandler(reminderService).RegisterReminderRoutes(api)
	handlers.NewAdviceHandler(adviceService).RegisterAdviceRoutes(api)
	handlers.NewMessageHandler(messageService).RegisterMessageRoutes(api)
	handlers.NewNotificationHandler(notificationService).RegisterNotificationRoutes(api)

	if d.Generator != nil {
		breeds := ai.NewBreedIdentifier(d.Generator, d.Config.GeminiModel, d.Logger, d.Metrics)
		advisor := ai.NewAdvisor(d.Generator, d.Config.GeminiModel, d.Logger, d.Metrics)
		handlers.NewAIHandler(breeds, advisor).RegisterAIRoutes(api, aiRateLimiter(d.Config.AIRateLimit))
	} else {
		d.Logger.Warn("No model API key configured, AI routes disabled")
		unavailable := func(c echo.Context) error {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "AI features are not configured")
		}
		api.POST("/ai/breed", unavailable)
		api.POST("/ai/advice", unavailable)
	}

	d.Logger.Info("All routes configured", zap.String("auth_mode", d.Config.AuthMode))
	return nil
}

// authMiddleware picks the identity middleware for the configured auth mode
func authMiddleware(d Deps) echo.MiddlewareFunc {
	if d.Config.AuthMode == config.AuthModeFirebase && d.Verifier != nil {
		return middleware.FirebaseAuthMiddleware(d.Verifier)
	}
	if d.Config.AuthMode == config.AuthModeFirebase {
		d.Logger.Warn("Firebase auth mode requested but Firebase is not configured, falling back to JWT")
	}
	return middleware.JWTAuthMiddleware(d.Config.JWTSecret)
}

// aiRateLimiter limits model calls per identity, falling back to client IP
func aiRateLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	store := eMiddleware.NewRateLimiterMemoryStoreWithConfig(eMiddleware.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(perSecond),
		Burst: burst,
	})
	return eMiddleware.RateLimiterWithConfig(eMiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if id := middleware.IdentityFrom(c); !id.IsZero() {
				return id.UserID, nil
			}
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, please slow down")
		},
	})
}
