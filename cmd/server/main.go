package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"wordstake/internal/cache"
	"wordstake/internal/config"
	"wordstake/internal/game"
	"wordstake/internal/repository"
	"wordstake/internal/service"
	"wordstake/internal/transport/rest"
	"wordstake/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()
	log.Printf("Period width: %s, grace window: %s", cfg.PeriodWidth, cfg.GraceWindow)

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

	db := mongoClient.Database("wordstake")

	// Redis connection
	redisAddr := cfg.RedisURI
	// Remove redis:// prefix if present
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

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

	// Period clock
	clock := &game.Clock{
		Width: cfg.PeriodWidth,
		Grace: cfg.GraceWindow,
	}

	// Initialize repositories
	streakRepo := repository.NewStreakRepo(db)
	depositRepo := repository.NewDepositRepo(db)
	completionRepo := repository.NewCompletionRepo(db)
	wordRepo := repository.NewWordRepo(db)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb)
	leaderboard := cache.NewLeaderboardCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg)
	streakSvc := service.NewStreakService(streakRepo, leaderboard)
	adminSvc := service.NewAdminService(sessionCache, leaderboard, streakRepo, depositRepo, completionRepo, wordRepo, streakSvc)
	depositSvc := service.NewDepositService(depositRepo, clock)
	sessionSvc := service.NewSessionService(sessionCache, wordRepo, depositRepo, completionRepo, streakSvc, clock, adminSvc, cfg)
	periodSvc := service.NewPeriodService(clock, sessionCache, streakRepo, completionRepo, wordRepo, sessionSvc, streakSvc, adminSvc)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	streakSvc.SetBroadcaster(wsHub)
	adminSvc.SetBroadcaster(wsHub)
	depositSvc.SetBroadcaster(wsHub)
	sessionSvc.SetBroadcaster(wsHub)
	periodSvc.SetBroadcaster(wsHub)

	// Start the boundary sweep loop
	runCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	periodSvc.Run(runCtx)
	log.Printf("Period sweep scheduled, next boundary in %s", clock.UntilBoundary().Round(time.Second))

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		SessionService: sessionSvc,
		DepositService: depositSvc,
		StreakService:  streakSvc,
		AdminService:   adminSvc,
		Clock:          clock,
		WSHub:          wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/session")
		log.Println("  POST /v1/session/{id}/guess")
		log.Println("  POST /v1/session/{id}/abandon")
		log.Println("  GET  /v1/session/active/{wallet}")
		log.Println("  POST /v1/deposit")
		log.Println("  GET  /v1/leaderboard")
		log.Println("  GET  /v1/streak/{wallet}")
		log.Println("  GET  /v1/period")
		log.Println("  POST /v1/admin/login")
		log.Println("  POST /v1/admin/pause|resume|finish|cancel|reset|words")
		log.Println("  WS   /v1/ws/wallet/{wallet}")
		log.Println("  WS   /v1/ws/watch")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopSweep()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
