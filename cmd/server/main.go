package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kanbanhq/tracker-api/internal/authz"
	"github.com/kanbanhq/tracker-api/internal/config"
	"github.com/kanbanhq/tracker-api/internal/database"
	"github.com/kanbanhq/tracker-api/internal/handlers"
	"github.com/kanbanhq/tracker-api/internal/repository"
	"github.com/kanbanhq/tracker-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the permission catalog and default roles
	if err := database.Seed(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize services
	tokenService := services.NewTokenService(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	rbacService := services.NewRBACService(userRepo, roleRepo)
	authService := services.NewAuthService(userRepo, roleRepo, tokenService, rbacService)
	authorizer := authz.NewProjectAuthorizer(projectRepo, taskRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}
	taskService := services.NewTaskService(taskRepo, authorizer, aiService)

	// Initialize Gin router
	r := gin.Default()

	// CORS for the SPA frontend
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Tracker API is running",
		})
	})

	// API routes
	handlers.RegisterRoutes(r, handlers.RouterConfig{
		Tokens:     tokenService,
		RBAC:       rbacService,
		Authorizer: authorizer,
		Auth:       handlers.NewAuthHandler(authService),
		Projects:   handlers.NewProjectHandler(projectService),
		Tasks:      handlers.NewTaskHandler(taskService),
		Roles:      handlers.NewRoleHandler(rbacService),
	})

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
