package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"expense-advisor/internal/advisor"
	"expense-advisor/internal/api"
	"expense-advisor/internal/api/handlers"
	"expense-advisor/internal/charts"
	"expense-advisor/internal/llm"
	"expense-advisor/internal/repository"
	"expense-advisor/internal/service"
	"expense-advisor/pkg/auth"
	"expense-advisor/pkg/config"
	"expense-advisor/pkg/logger"
	"expense-advisor/pkg/postgres"

	"go.uber.org/zap"
)

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
	appLogger.Info("Starting expense advisor service")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)

	// JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)

	provider := llm.New(&cfg.LLM, appLogger)
	appLogger.Info("LLM provider selected", zap.String("provider", provider.Name()))

	chartRenderer, err := charts.NewRenderer(cfg.Charts.Dir, cfg.Server.BaseURL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize chart renderer", zap.Error(err))
	}

	advisorService := advisor.NewService(txRepo, userRepo, provider, chartRenderer, &cfg.Advisor, appLogger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	expenseHandler := handlers.NewExpenseHandler(txRepo, appLogger)
	chatHandler := handlers.NewChatHandler(advisorService, appLogger)

	app := api.SetupRouter(authHandler, expenseHandler, chatHandler, jwtManager, cfg.Charts.Dir, appLogger)

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
