package routes

import (
	"loanbridge/internal/adapters/http/handlers"
	"loanbridge/internal/adapters/http/middleware"
	"loanbridge/internal/adapters/persistence/repositories"
	"loanbridge/internal/adapters/storage"
	"loanbridge/internal/config"
	"loanbridge/internal/core/services"
	"loanbridge/internal/core/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and returns the cron
// service so the caller can manage its lifecycle.
func Setup(app *fiber.App, db *gorm.DB, store *storage.Client, state *session.State, cfg *config.Config) *services.CronService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	loanRepo := repositories.NewLoanRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, loanRepo, state, cfg)
	loanService := services.NewLoanService(loanRepo, store, state)
	cronService := services.NewCronService(loanRepo, refreshTokenRepo, store)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	loanHandler := handlers.NewLoanHandler(loanService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, loanHandler, cfg)

	return cronService
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	loanHandler *handlers.LoanHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Loan routes
	loanRoutes := router.Group("/loans")
	setupLoanRoutes(loanRoutes, loanHandler, cfg)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited against brute force)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupLoanRoutes configures loan application routes. Submission is
// public (the applicant-facing form needs no account); everything else
// is for authenticated managers.
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler, cfg *config.Config) {
	// Public submission
	router.Post("/", middleware.SubmitRateLimiter(), handler.Submit)

	// Manager routes
	managerRoutes := router.Group("")
	managerRoutes.Use(middleware.AuthMiddleware(cfg))
	managerRoutes.Use(middleware.ManagerOnly())

	managerRoutes.Get("/", handler.List)
	managerRoutes.Get("/:id", handler.GetByID)
	managerRoutes.Put("/:id", handler.Update)
	managerRoutes.Delete("/:id", handler.Delete)
	managerRoutes.Get("/:id/paysheet", handler.DownloadPaysheet)
}
