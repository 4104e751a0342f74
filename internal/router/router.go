// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/agrimarket-backend/internal/config"
	"github.com/javajoker/agrimarket-backend/internal/handlers"
	"github.com/javajoker/agrimarket-backend/internal/middleware"
	"github.com/javajoker/agrimarket-backend/internal/services"
)

// Dependencies are the long-lived collaborators the routes are built on.
type Dependencies struct {
	DB       *gorm.DB
	Sessions services.SessionStore
	Files    services.FileStore
	Verifier services.IdentityVerifier
	Policy   services.StatusPolicy
}

// Services groups the domain services so callers outside the router, such as the
// orphan sweeper, can share them.
type Services struct {
	Auth    *services.AuthService
	User    *services.UserService
	Product *services.ProductService
	Request *services.RequestService
	Message *services.MessageService
}

func NewServices(deps Dependencies) *Services {
	return &Services{
		Auth:    services.NewAuthService(deps.DB, deps.Verifier),
		User:    services.NewUserService(deps.DB),
		Product: services.NewProductService(deps.DB, deps.Files),
		Request: services.NewRequestService(deps.DB, deps.Policy),
		Message: services.NewMessageService(deps.DB),
	}
}

func Initialize(cfg *config.Config, deps Dependencies, svc *Services) *gin.Engine {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(svc.Auth, deps.Sessions, cfg.Session)
	userHandler := handlers.NewUserHandler(svc.User)
	productHandler := handlers.NewProductHandler(svc.Product, cfg.Storage.MaxUploadSizeMB)
	requestHandler := handlers.NewRequestHandler(svc.Request)
	messageHandler := handlers.NewMessageHandler(svc.Message)
	uploadHandler := handlers.NewUploadHandler(deps.Files)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.LoadSession(deps.Sessions, svc.User, cfg.Session))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if sqlDB, err := deps.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": "1.0.0",
		})
	})
	r.GET("/metrics", middleware.MetricsHandler())

	r.GET("/uploads/:filename", uploadHandler.ServeFile)

	api := r.Group("/api")
	{
		// Authentication routes
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/google-login", authHandler.GoogleLogin)
		api.POST("/logout", authHandler.Logout)
		api.GET("/check_session", authHandler.CheckSession)
		api.PUT("/update-profile", middleware.AuthRequired(), userHandler.UpdateProfile)

		// Product routes
		api.GET("/products", productHandler.GetProducts)
		api.GET("/product/:id", productHandler.GetProduct)
		api.POST("/products/add", middleware.SellerRequired(), productHandler.CreateProduct)
		api.PUT("/products/update/:id", middleware.SellerRequired(), productHandler.UpdateProduct)
		api.DELETE("/products/delete/:id", middleware.SellerRequired(), productHandler.DeleteProduct)

		// Purchase request routes
		api.POST("/requests/add", middleware.AuthRequired(), requestHandler.CreateRequest)
		api.GET("/requests", middleware.SellerRequired(), requestHandler.GetSellerRequests)
		api.GET("/myrequests", middleware.AuthRequired(), requestHandler.GetMyRequests)
		api.POST("/requests/update/:id", middleware.SellerRequired(), requestHandler.UpdateRequestStatus)

		// Messaging routes
		messages := api.Group("/messages")
		messages.Use(middleware.AuthRequired())
		{
			messages.GET("/conversations", messageHandler.GetConversations)
			messages.GET("/history/:other_user_id", messageHandler.GetHistory)
			messages.POST("/send", messageHandler.SendMessage)
		}
	}

	return r
}
