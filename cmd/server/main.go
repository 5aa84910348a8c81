package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"wellplay/config"
	"wellplay/internal/cache"
	"wellplay/internal/game"
	"wellplay/internal/repository"
	"wellplay/internal/service"
	"wellplay/internal/transport/rest"
	"wellplay/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories and caches
	questionRepo := repository.NewQuestionRepo(db)
	statsRepo := repository.NewStatsRepo(db)
	leaderboard := cache.NewLeaderboardCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService()
	poolSvc := service.NewPoolService(questionRepo)
	statsSvc := service.NewStatsService(statsRepo)

	// The game manager owns all live sessions; everything else is a
	// collaborator it publishes into.
	manager := game.NewManager(poolSvc, statsSvc, leaderboard)
	manager.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:  authSvc,
		StatsService: statsSvc,
		GameManager:  manager,
		QuestionRepo: questionRepo,
		Leaderboard:  leaderboard,
		WSHub:        wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Printf("Host auth: username=%s", os.Getenv("HOST_USERNAME"))
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/questions")
		log.Println("  POST/GET/DELETE /v1/rooms/{roomId}/game")
		log.Println("  POST /v1/rooms/{roomId}/game/join")
		log.Println("  POST /v1/rooms/{roomId}/game/start")
		log.Println("  POST /v1/rooms/{roomId}/game/answers")
		log.Println("  POST /v1/rooms/{roomId}/game/advance")
		log.Println("  GET  /v1/rooms/{roomId}/game/leaderboard")
		log.Println("  WS  /v1/ws/rooms/{roomId}/host")
		log.Println("  WS  /v1/ws/rooms/{roomId}/player")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
