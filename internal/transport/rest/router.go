package rest

import (
	"net/http"
	"os"

	"wellplay/internal/cache"
	"wellplay/internal/game"
	"wellplay/internal/repository"
	"wellplay/internal/service"
	"wellplay/internal/transport/rest/handler"
	"wellplay/internal/transport/rest/middleware"
	"wellplay/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService  *service.AuthService
	StatsService *service.StatsService
	GameManager  *game.Manager
	QuestionRepo repository.QuestionRepo
	Leaderboard  cache.LeaderboardCache
	WSHub        *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	gameHandler := handler.NewGameHandler(c.GameManager, c.AuthService, c.Leaderboard)
	questionHandler := handler.NewQuestionHandler(c.QuestionRepo, c.StatsService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.GameManager)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/{roomId}/game/join", gameHandler.Join).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/{roomId}/game", gameHandler.Status).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{roomId}/game/leaderboard", gameHandler.Leaderboard).Methods("GET", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/rooms/{roomId}/host", wsHandler.HostWS).Methods("GET")
	v1.HandleFunc("/ws/rooms/{roomId}/player", wsHandler.PlayerWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/rooms/{roomId}/game", gameHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/rooms/{roomId}/game/start", gameHandler.Start).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/rooms/{roomId}/game/advance", gameHandler.Advance).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/rooms/{roomId}/game", gameHandler.End).Methods("DELETE", "OPTIONS")

	hostRoutes.HandleFunc("/questions", questionHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/questions", questionHandler.List).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/questions/{questionId}", questionHandler.Delete).Methods("DELETE", "OPTIONS")
	hostRoutes.HandleFunc("/players/{playerId}/stats", questionHandler.PlayerStats).Methods("GET", "OPTIONS")

	// Player routes (require player auth)
	playerRoutes := v1.NewRoute().Subrouter()
	playerRoutes.Use(authMW.RequirePlayer)

	playerRoutes.HandleFunc("/rooms/{roomId}/game/answers", gameHandler.SubmitAnswer).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
