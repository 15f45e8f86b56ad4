package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"identitymap/internal/registry"
	"identitymap/internal/repository"
	"identitymap/internal/service"
	"identitymap/internal/transport/rest/handler"
	"identitymap/internal/transport/rest/middleware"
	"identitymap/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService   *service.AuthService
	AnswerService *service.AnswerService
	AxesService   *service.AxesService
	RecalcService *service.RecalcService
	ExportService *service.ExportService
	QuestionRepo  repository.QuestionScoreRepo
	Registry      *registry.Registry
	WSHub         *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	userHandler := handler.NewUserHandler()
	answerHandler := handler.NewAnswerHandler(c.AnswerService)
	questionHandler := handler.NewQuestionHandler(c.Registry, c.AnswerService)
	scoreHandler := handler.NewScoreHandler(c.AxesService)
	adminHandler := handler.NewAdminHandler(c.RecalcService, c.ExportService, c.QuestionRepo)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/users", userHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/users/{userId}/answers", answerHandler.GetUserAnswers).Methods("GET", "OPTIONS")
	v1.HandleFunc("/answers", answerHandler.Submit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questions", questionHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questions/{questionId}/distribution", questionHandler.Distribution).Methods("GET", "OPTIONS")

	// Fixed path before the variable one so "average" is not a user ID
	v1.HandleFunc("/scores/average", scoreHandler.GetAverage).Methods("GET", "OPTIONS")
	v1.HandleFunc("/scores/{userId}", scoreHandler.GetUserScores).Methods("GET", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/dashboard", wsHandler.DashboardWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Admin routes (require admin auth)
	adminRoutes := v1.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/recalculate", adminHandler.Recalculate).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/export", adminHandler.Export).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{questionId}/stats", adminHandler.QuestionStats).Methods("GET", "OPTIONS")

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
