package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"wordstake/internal/game"
	"wordstake/internal/service"
	"wordstake/internal/transport/rest/handler"
	"wordstake/internal/transport/rest/middleware"
	"wordstake/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	SessionService *service.SessionService
	DepositService *service.DepositService
	StreakService  *service.StreakService
	AdminService   *service.AdminService
	Clock          *game.Clock
	WSHub          *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.AuthService)
	depositHandler := handler.NewDepositHandler(c.DepositService)
	adminHandler := handler.NewAdminHandler(c.AuthService, c.AdminService)
	leaderboardHandler := handler.NewLeaderboardHandler(c.StreakService, c.Clock)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Wallet routes (signature-verified per request in the handlers)
	v1.HandleFunc("/session", sessionHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/session/{id}/guess", sessionHandler.Guess).Methods("POST", "OPTIONS")
	v1.HandleFunc("/session/{id}/abandon", sessionHandler.Abandon).Methods("POST", "OPTIONS")
	v1.HandleFunc("/session/active/{wallet}", sessionHandler.Active).Methods("GET", "OPTIONS")
	v1.HandleFunc("/deposit", depositHandler.Record).Methods("POST", "OPTIONS")

	// Public read-only routes
	v1.HandleFunc("/leaderboard", leaderboardHandler.Top).Methods("GET", "OPTIONS")
	v1.HandleFunc("/streak/{wallet}", leaderboardHandler.Streak).Methods("GET", "OPTIONS")
	v1.HandleFunc("/period", leaderboardHandler.Period).Methods("GET", "OPTIONS")

	// Admin login is public; everything else under /admin requires a token
	v1.HandleFunc("/admin/login", adminHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes
	v1.HandleFunc("/ws/wallet/{wallet}", wsHandler.WalletWS).Methods("GET")
	v1.HandleFunc("/ws/watch", wsHandler.WatchWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Admin routes (require admin auth)
	adminRoutes := v1.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/state", adminHandler.State).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/pause", adminHandler.Pause).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/resume", adminHandler.Resume).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/finish", adminHandler.Finish).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/cancel", adminHandler.Cancel).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/reset", adminHandler.Reset).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/words", adminHandler.QueueWord).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
