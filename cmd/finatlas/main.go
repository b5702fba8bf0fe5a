package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"finatlas/internal/api"
	"finatlas/internal/api/handlers"
	"finatlas/internal/repository"
	"finatlas/internal/service"
	"finatlas/pkg/auth"
	"finatlas/pkg/config"
	"finatlas/pkg/logger"
	"finatlas/pkg/postgres"

	"go.uber.org/zap"
)

// @title Finatlas API
// @version 1.0
// @description Personal-finance tracking API with geo-aware spending locations

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting finatlas service")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	accountRepo := repository.NewAccountRepository(db, appLogger)
	locationRepo := repository.NewLocationRepository(db, appLogger)
	statementRepo := repository.NewStatementRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)

	// JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	userService := service.NewUserService(userRepo, appLogger)
	accountService := service.NewAccountService(accountRepo, appLogger)
	locationService := service.NewLocationService(locationRepo, appLogger)
	geoService := service.NewGeoService(locationRepo, cfg.Geo.DefaultRadiusMeters, appLogger)
	statementService := service.NewStatementService(statementRepo, txRepo, accountRepo, appLogger)
	txService := service.NewTransactionService(txRepo, accountRepo, locationRepo, appLogger)
	dashboardService := service.NewDashboardService(accountRepo, statementRepo, txRepo, locationRepo, appLogger)

	// Handlers and router
	app := api.SetupRouter(api.Handlers{
		Auth:        handlers.NewAuthHandler(authService, appLogger),
		User:        handlers.NewUserHandler(userService, appLogger),
		Account:     handlers.NewAccountHandler(accountService, appLogger),
		Location:    handlers.NewLocationHandler(locationService, geoService, appLogger),
		Statement:   handlers.NewStatementHandler(statementService, appLogger),
		Transaction: handlers.NewTransactionHandler(txService, appLogger),
		Dashboard:   handlers.NewDashboardHandler(dashboardService, appLogger),
	}, jwtManager, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
