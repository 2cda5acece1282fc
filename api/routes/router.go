// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"spendly/internal/audit"
	"spendly/internal/auth"
	"spendly/internal/expenses"
	"spendly/internal/shared/clock"
	"spendly/internal/shared/config"
	"spendly/internal/shared/database"
	"spendly/internal/shared/uploads"
	"spendly/internal/tokens"
)

// Router holds all route dependencies
type Router struct {
	config        *config.Config
	db            *database.DB
	tokenManager  *tokens.Manager
	uploader      uploads.Service
	auditProducer audit.Producer
	clock         clock.Clock
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, tokenManager *tokens.Manager, uploader uploads.Service, auditProducer audit.Producer, clk clock.Clock) *Router {
	return &Router{
		config:        cfg,
		db:            db,
		tokenManager:  tokenManager,
		uploader:      uploader,
		auditProducer: auditProducer,
		clock:         clk,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Stored proof attachments
	engine.Static("/media", r.config.Upload.Path)

	// Swagger UI
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupExpenseRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "spendly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "spendly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.tokenManager)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)

	authRouter.SetupRoutes(rg)
}

// setupExpenseRoutes configures expense management routes
func (r *Router) setupExpenseRoutes(rg *gin.RouterGroup) {
	expenseRepo := expenses.NewRepository(r.db.GetPostgreSQL())
	expenseService := expenses.NewService(expenseRepo, r.uploader, r.auditProducer, r.clock, r.config.Upload.BaseURL)
	expenseController := expenses.NewController(expenseService)

	expenses.SetupExpenseRoutes(rg, expenseController, r.tokenManager)
}
