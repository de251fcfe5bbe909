package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/huddle-social/backend/internal/handlers"
	"github.com/huddle-social/backend/internal/middleware"
	"github.com/huddle-social/backend/internal/models"
	"github.com/huddle-social/backend/internal/repositories"
	"github.com/huddle-social/backend/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, redisClient *redis.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.Comment{},
		&models.Like{},
		&models.Activity{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database("huddle")
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	albumRepo := repositories.NewMongoAlbumRepository(mongoDB)
	activityRepo := repositories.NewPostgresActivityRepository(pgdb)

	var likeCache *repositories.LikeCache
	if redisClient != nil {
		likeCache = repositories.NewLikeCache(redisClient)
	}

	// --- Initialize Services ---
	visibilityService := services.NewVisibilityService(friendshipRepo)
	subjectRegistry := services.NewSubjectRegistry()
	services.RegisterContentSubjects(subjectRegistry, postRepo, commentRepo, albumRepo)
	activityService := services.NewActivityService(activityRepo, friendshipRepo, userRepo, subjectRegistry)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	postHandler := handlers.NewPostHandler(postRepo, commentRepo, likeRepo, visibilityService, activityService)
	albumHandler := handlers.NewAlbumHandler(albumRepo, visibilityService, activityService)

	// --- Publicly readable routes (viewer optional, may be anonymous) ---
	public := e.Group("/public")
	public.Use(middleware.OptionalJWTAuthMiddleware())
	postHandler.RegisterPublicPostRoutes(public)
	albumHandler.RegisterPublicAlbumRoutes(public)
	log.Println("Public content routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	api.GET("/users/search", userHandler.SearchUsers)
	log.Println("User profile routes configured.")

	// Friendship routes
	friendshipHandler := handlers.NewFriendshipHandler(friendshipRepo, userRepo)
	friendshipHandler.RegisterFriendshipRoutes(api)
	log.Println("Friendship routes configured.")

	// Post routes
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, visibilityService, activityService)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, likeCache, visibilityService, activityService)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	// Album and media routes
	albumHandler.RegisterAlbumRoutes(api)
	log.Println("Album routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(activityService, visibilityService)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	log.Println("All routes configured.")
}
