// Package server provides the HTTP REST API for the ATS matching engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/ats-engine/internal/analyzer"
	"github.com/jonathan/ats-engine/internal/batch"
	"github.com/jonathan/ats-engine/internal/config"
	"github.com/jonathan/ats-engine/internal/db"
	"github.com/jonathan/ats-engine/internal/llm"
	"github.com/jonathan/ats-engine/internal/rewrite"
	"github.com/jonathan/ats-engine/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	logger      *zap.Logger
	client      llm.Client
	analyzer    *analyzer.Analyzer
	rewriter    *rewrite.Rewriter
	batch       *batch.Processor
	validate    *validator.Validate
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	Concurrency int
	Logger      *zap.Logger
}

// New creates a new server instance
func New(ctx context.Context, cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	// Persistence is optional: without a database URL the server still
	// scores and analyzes, but run records and accounts are unavailable.
	var database *db.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	s := &Server{
		db:       database,
		logger:   logger,
		validate: validator.New(),
	}

	// The collaborator is optional too: without an API key the pure
	// endpoints (score with saved keywords, gaps, ground) keep working.
	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, nil, cfg.APIKey)
		if err != nil {
			if database != nil {
				database.Close()
			}
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		s.client = client
		s.analyzer = analyzer.New(client)
		s.rewriter = rewrite.New(client)
		s.batch = batch.New(client, cfg.Concurrency)
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	authCfg, err := config.NewAuthConfig()
	if err != nil {
		if database != nil {
			database.Close()
		}
		return nil, fmt.Errorf("failed to load auth config: %w", err)
	}
	s.jwtService = NewJWTService(authCfg.JWT)
	if database != nil {
		s.userService = NewUserService(database, authCfg.Password)
		s.authHandler = NewAuthHandler(s.userService, s.jwtService)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // analyze and batch calls block on the collaborator
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router with all middleware applied
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Account endpoints
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.Handle("PUT /auth/password", s.requireAuth(http.HandlerFunc(s.handleUpdatePassword)))

	// Engine endpoints
	mux.Handle("POST /v1/analyze", s.requireAuth(http.HandlerFunc(s.handleAnalyze)))
	mux.Handle("POST /v1/score", s.requireAuth(http.HandlerFunc(s.handleScore)))
	mux.Handle("POST /v1/gaps", s.requireAuth(http.HandlerFunc(s.handleGaps)))
	mux.Handle("POST /v1/ground", s.requireAuth(http.HandlerFunc(s.handleGround)))
	mux.Handle("POST /v1/rewrite", s.requireAuth(http.HandlerFunc(s.handleRewrite)))
	mux.Handle("POST /v1/batch", s.requireAuth(http.HandlerFunc(s.handleBatch)))

	// Run records
	mux.Handle("GET /v1/runs", s.requireAuth(http.HandlerFunc(s.handleListRuns)))
	mux.Handle("GET /v1/runs/{id}", s.requireAuth(http.HandlerFunc(s.handleGetRun)))
	mux.Handle("DELETE /v1/runs/{id}", s.requireAuth(http.HandlerFunc(s.handleDeleteRun)))
	mux.Handle("GET /v1/runs/{id}/artifacts", s.requireAuth(http.HandlerFunc(s.handleRunArtifacts)))
	mux.Handle("GET /v1/batches", s.requireAuth(http.HandlerFunc(s.handleListBatches)))
	mux.Handle("GET /v1/batches/{id}", s.requireAuth(http.HandlerFunc(s.handleGetBatch)))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests and blocks until shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	s.logger.Info("server stopped")
	return nil
}

// requireAuth validates the bearer token and stores the user ID in the
// request context
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return authMiddlewareFor(s.jwtService)(next)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds structured request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleRegister handles user registration requests.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.authHandler == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "accounts require a configured database")
		return
	}
	s.authHandler.Register(w, r)
}

// handleLogin handles user login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.authHandler == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "accounts require a configured database")
		return
	}
	s.authHandler.Login(w, r)
}

// handleUpdatePassword handles password update requests for the
// authenticated user.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	if s.authHandler == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "accounts require a configured database")
		return
	}
	s.authHandler.UpdatePassword(w, r)
}

// extractClientID extracts the client identifier from the request. This uses
// the IP address from RemoteAddr; X-Forwarded-For is deliberately not
// trusted here.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	retryAfter := int(time.Until(info.ResetTime).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     "Too many requests. Please retry later.",
		"retry_after": retryAfter,
	})
}
