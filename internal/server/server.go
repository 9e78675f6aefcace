// Package server provides the HTTP REST API for the obituary search service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/config"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/db"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/pipeline"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/providers"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/scoring"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/server/middleware"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/server/ratelimit"
)

const (
	readTimeout = 30 * time.Second
	// Fan-out searches against live backends can take a while to answer.
	writeTimeout    = 60 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server owns the HTTP listener and everything the handlers need: the
// database, the search pipeline, the rate limiter, and the auth services.
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	searcher    *pipeline.Searcher
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
}

// New creates a new server instance from the effective configuration.
func New(cfg config.Config) (*Server, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required to run the server")
	}

	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Assemble the search pipeline. Backends without credentials degrade to
	// sample adapters, so the server always starts.
	backends, err := providers.FromConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		db: database,
		searcher: pipeline.NewSearcher(pipeline.Options{
			Providers:  backends,
			Scorer:     scoring.NewScorer(cfg.Weights, cfg.AgeWindowYears),
			Exclusions: database,
			MaxResults: cfg.MaxResults,
			Verbose:    cfg.Verbose,
		}),
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
	}

	// Auth services read their own settings from the environment so the
	// signing secret never passes through config files.
	passwordConfig, err := config.PasswordFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.JWTFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return s, nil
}

// routes assembles the router and the middleware chain.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Public auth endpoints
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	// Everything else under /api requires a valid token
	authed := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	mux.Handle("PUT /api/auth/password", authed(http.HandlerFunc(s.handleUpdatePassword)))
	mux.Handle("POST /api/search", authed(http.HandlerFunc(s.handleSearch)))
	mux.Handle("GET /api/searches", authed(http.HandlerFunc(s.handleListSearches)))
	mux.Handle("POST /api/exclusions", authed(http.HandlerFunc(s.handleAddExclusion)))
	mux.Handle("GET /api/exclusions", authed(http.HandlerFunc(s.handleListExclusions)))
	mux.Handle("DELETE /api/exclusions/{id}", authed(http.HandlerFunc(s.handleDeleteExclusion)))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start runs the listener until the process receives SIGINT or SIGTERM,
// then drains in-flight requests and releases the database and limiter.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		s.db.Close()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Println("[server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	s.db.Close()

	log.Println("[server] stopped")
	return nil
}

// withCORS answers preflight requests and stamps the permissive CORS
// headers the browser frontend needs.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit checks every request against the per-client limiter and
// stamps the X-RateLimit-* headers on the way through.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientIP(r), r.URL.Path, r.Method)
		writeRateLimitHeaders(w, info)

		if !allowed {
			s.rejectRateLimited(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code a handler writes so the request
// log can report it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs one line per request with the resolved status and timing.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Printf("[%s] %s %d %s in %v", r.Method, r.URL.Path, rec.status, r.RemoteAddr, time.Since(start))
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
		log.Printf("[server] encoding response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleRegister handles user registration requests.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Register(w, r)
}

// handleLogin handles user login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Login(w, r)
}

// handleUpdatePassword handles password update requests for the
// authenticated caller.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// clientIP identifies the caller by the address the connection came from.
// X-Forwarded-For would need a trusted proxy list before it could be honored.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// writeRateLimitHeaders stamps the standard X-RateLimit-* headers. Requests
// outside any configured limit carry a zero Limit and get no headers.
func writeRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit <= 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
}

// rejectRateLimited answers 429 with the retry schedule in both the headers
// and the body.
func (s *Server) rejectRateLimited(w http.ResponseWriter, info ratelimit.Info) {
	body := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		retry := int(info.RetryAfter.Seconds())
		body["retry_after"] = retry
		w.Header().Set("Retry-After", strconv.Itoa(retry))
	}

	log.Printf("[rate-limit] client over limit: limit=%d remaining=%d reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, body)
}
