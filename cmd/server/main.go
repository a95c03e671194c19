package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"loanbridge/internal/adapters/http/middleware"
	"loanbridge/internal/adapters/http/routes"
	"loanbridge/internal/adapters/persistence/models"
	"loanbridge/internal/adapters/storage"
	"loanbridge/internal/config"
	"loanbridge/internal/core/session"

	"github.com/gofiber/fiber/v2"

	_ "loanbridge/docs" // Swagger docs
)

// @title LoanBridge API
// @version 1.0
// @description Loan application intake and management API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@loanbridge.lk

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.loanbridge.lk
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed manager account
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// Document store client
	store := storage.NewClient(storage.Config{
		BaseURL:     cfg.Storage.URL,
		Bucket:      cfg.Storage.Bucket,
		ServiceKey:  cfg.Storage.ServiceKey,
		DownloadDir: cfg.Storage.DownloadDir,
		RetryMax:    cfg.Storage.RetryMax,
	})

	// Session state shared between auth and loan services
	state := session.NewState()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "LoanBridge API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass dependencies for injection)
	cronService := routes.Setup(app, db, store, state, cfg)

	// Start cron service (orphan scan 08:30 daily, token cleanup 03:00)
	cronService.Start()
	defer cronService.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
