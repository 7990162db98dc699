package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/harentsoaR/account-api/internal/config"
	"github.com/harentsoaR/account-api/internal/handlers"
	"github.com/harentsoaR/account-api/internal/logger"
	"github.com/harentsoaR/account-api/internal/services"
	"github.com/harentsoaR/account-api/internal/store"
	"github.com/harentsoaR/account-api/internal/utils"
)

func main() {
	found, err := config.LoadDotEnv()
	if err != nil {
		log.Fatalf("Failed to read .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logr.Sync()
	if !found {
		logr.Info("No .env file found, relying on environment variables")
	}

	// --- Account store ---
	var accounts services.AccountStore
	if cfg.UseMemoryStore() {
		logr.Warn("Using in-memory account store, data is lost on exit")
		accounts = store.NewMemoryAccountStore()
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			logr.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logr.Error("Failed to disconnect MongoDB", zap.Error(err))
			}
		}()
		if err := client.Ping(ctx, nil); err != nil {
			logr.Fatal("Failed to ping MongoDB", zap.Error(err))
		}

		mongoStore := store.NewMongoAccountStore(client.Database(cfg.MongoDatabase), logr)
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			logr.Fatal("Failed to ensure account indexes", zap.Error(err))
		}
		accounts = mongoStore
		logr.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	}

	// --- Services and handlers ---
	accountSvc := services.NewAccountService(accounts, utils.NewBcryptHasher(cfg.BcryptCost), logr)
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	h := handlers.NewHandler(accountSvc, tokens, logr)

	// --- Gin Router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	h.Register(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logr.Info("Starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("Server forced to shutdown", zap.Error(err))
	}
}
