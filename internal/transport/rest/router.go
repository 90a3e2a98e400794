package rest

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"truthordare/internal/service"
	"truthordare/internal/transport/rest/handler"
	"truthordare/internal/transport/rest/middleware"
	"truthordare/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	GameService     *service.GameService
	QuestionService *service.QuestionService
	WSHub           *ws.Hub
	Logger          *slog.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	sessionHandler := handler.NewSessionHandler(c.GameService)
	questionHandler := handler.NewQuestionHandler(c.QuestionService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.GameService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)
	if c.Logger != nil {
		r.Use(accessLog(c.Logger))
	}

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/player", authHandler.PlayerToken).Methods("POST", "OPTIONS")
	v1.HandleFunc("/leaderboard", sessionHandler.Leaderboard).Methods("GET", "OPTIONS")
	v1.HandleFunc("/help", authHandler.Help).Methods("GET", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1.Handle("/me", authMW.RequireAuth(http.HandlerFunc(authHandler.Me))).Methods("GET", "OPTIONS")

	// Session routes (any authenticated caller)
	sessionRoutes := v1.PathPrefix("/sessions/{id}").Subrouter()
	sessionRoutes.Use(authMW.RequireAuth)

	sessionRoutes.HandleFunc("", sessionHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/actions", sessionHandler.Act).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/callback", sessionHandler.Callback).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/messages", sessionHandler.Message).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/turns", sessionHandler.History).Methods("GET", "OPTIONS")

	// Question bank routes (operator only)
	questionRoutes := v1.PathPrefix("/questions").Subrouter()
	questionRoutes.Use(authMW.RequireAuth, authMW.RequireOperator)

	questionRoutes.HandleFunc("/{category}", questionHandler.List).Methods("GET", "OPTIONS")
	questionRoutes.HandleFunc("/{category}", questionHandler.Add).Methods("POST", "OPTIONS")
	questionRoutes.HandleFunc("/{category}", questionHandler.Remove).Methods("DELETE", "OPTIONS")

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
			allowedHeaders = "Content-Type, Authorization, Accept-Language"
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

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func accessLog(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Hijacking needs the raw writer.
			if r.Header.Get("Upgrade") != "" {
				next.ServeHTTP(w, r)
				return
			}
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "status", rec.status)
		})
	}
}
