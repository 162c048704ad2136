package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"contai/internal/api"
	"contai/internal/api/handlers"
	"contai/internal/repository"
	"contai/internal/service"
	"contai/pkg/config"
	"contai/pkg/logger"
	"contai/pkg/postgres"

	"go.uber.org/zap"
)

// @title ContAI API
// @version 1.0
// @description Servizio di classificazione contabile delle linee fattura XML

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the API key.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting ContAI service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(db, appLogger)
	lineRepo := repository.NewClassificationRepository(db, appLogger)

	// Initialize services
	extractor := service.NewExtractorService(&cfg.Extractor, appLogger)
	searchService := service.NewSearchService(&cfg.Search, appLogger)
	classifierService := service.NewClassifierService(&cfg.Classifier, appLogger)

	uploadDir := "uploads"
	invoiceService := service.NewInvoiceService(
		invoiceRepo,
		lineRepo,
		extractor,
		searchService,
		classifierService,
		cfg.Search.Enabled,
		cfg.Classifier.Concurrency,
		uploadDir,
		appLogger,
	)

	// Initialize handlers
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, appLogger)

	// Setup router
	app := api.SetupRouter(invoiceHandler, cfg.Auth.APIKey, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
