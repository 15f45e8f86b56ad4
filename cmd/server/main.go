package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"identitymap/internal/cache"
	"identitymap/internal/config"
	"identitymap/internal/registry"
	"identitymap/internal/repository"
	"identitymap/internal/service"
	"identitymap/internal/transport/rest"
	"identitymap/internal/transport/ws"
)

// @title Identity Map Survey API
// @version 1.0
// @description Survey scoring engine mapping respondents onto two identity axes
// @host localhost:8080
// @BasePath /v1
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
	redisAddr := cfg.RedisAddr
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

	// Question registry (immutable, loaded once)
	reg := registry.Default()
	log.Printf("Loaded %d questions (%d scored)", len(reg.All()), len(reg.Scored()))

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	answerRepo := repository.NewAnswerRepo(db)
	questionScoreRepo := repository.NewQuestionScoreRepo(db)

	// Initialize caches
	scoreCache := cache.NewScoreCache(rdb)
	axesCache := cache.NewAxesCache(rdb)
	statsCache := cache.NewStatsCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService()
	scoreSvc := service.NewScoreService(answerRepo, scoreCache, statsCache, questionScoreRepo, reg)
	axesSvc := service.NewAxesService(answerRepo, scoreCache, axesCache, reg)
	recalcSvc := service.NewRecalcService(answerRepo, scoreSvc, axesSvc, reg)
	exportSvc := service.NewExportService(answerRepo, scoreCache, statsCache, reg)
	answerSvc := service.NewAnswerService(answerRepo, statsCache, scoreSvc, axesSvc, recalcSvc, reg)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	answerSvc.SetBroadcaster(wsHub)
	recalcSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:   authSvc,
		AnswerService: answerSvc,
		AxesService:   axesSvc,
		RecalcService: recalcSvc,
		ExportService: exportSvc,
		QuestionRepo:  questionScoreRepo,
		Registry:      reg,
		WSHub:         wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/users")
		log.Println("  POST /v1/answers")
		log.Println("  GET  /v1/questions")
		log.Println("  GET  /v1/questions/{questionId}/distribution")
		log.Println("  GET  /v1/scores/{userId}")
		log.Println("  GET  /v1/scores/average")
		log.Println("  POST /v1/admin/recalculate")
		log.Println("  GET  /v1/admin/export")
		log.Println("  WS   /v1/ws/dashboard")

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
