package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"

	"github.com/poolotto/poolotto-backend/api/routes"
	"github.com/poolotto/poolotto-backend/internal/config"
	"github.com/poolotto/poolotto-backend/internal/engine"
	"github.com/poolotto/poolotto-backend/internal/handlers"
	"github.com/poolotto/poolotto-backend/internal/ledger"
	"github.com/poolotto/poolotto-backend/internal/repositories"
	mongorepo "github.com/poolotto/poolotto-backend/internal/repositories/mongodb"
	"github.com/poolotto/poolotto-backend/internal/services"
	"github.com/poolotto/poolotto-backend/pkg/mongodb"
)

func main() {
	// Load a local .env when present; real deployments set the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogger(cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(context.Background(), cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("error disconnecting from MongoDB", "error", err)
		}
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var entryRepo repositories.EntryRepository = mongorepo.NewEntryRepository(db)
	var drawRepo repositories.DrawRepository = mongorepo.NewDrawRepository(db)
	var winnerRepo repositories.WinnerRepository = mongorepo.NewWinnerRepository(db)
	var txRepo repositories.TransactionRepository = mongorepo.NewTransactionRepository(db)
	var operatorRepo repositories.OperatorUserRepository = mongorepo.NewOperatorUserRepository(db)

	// Engine and custody ledger
	custodyLedger := ledger.New()
	eng, err := engine.New(engine.Params{
		Operator: engine.Account(cfg.Operator.Account),
		Identity: cfg.Engine.Identity,
		Tiers:    cfg.EngineTiers(),
		Ledger:   custodyLedger,
		Emitter:  services.NewLogEmitter(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}

	// Services
	lotteryService := services.NewLotteryService(eng, entryRepo, drawRepo, winnerRepo, txRepo)
	authService := services.NewAuthService(operatorRepo, cfg)

	if err := authService.EnsureDefaultOperator(context.Background()); err != nil {
		log.Fatalf("Failed to seed operator user: %v", err)
	}

	// Handlers
	deps := routes.HandlerDependencies{
		AuthHandler:    handlers.NewAuthHandler(authService),
		LotteryHandler: handlers.NewLotteryHandler(lotteryService),
		AdminHandler:   handlers.NewAdminHandler(lotteryService),
	}

	router := routes.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	slog.Info("server starting", "port", cfg.Server.Port, "tiers", len(cfg.Tiers))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	slog.Info("server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}
