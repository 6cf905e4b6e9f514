// Package server provides the HTTP REST API for the resume dashboard.
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
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jmartin/resume-dash/internal/db"
	"github.com/jmartin/resume-dash/internal/llm"
	"github.com/jmartin/resume-dash/internal/render"
	"github.com/jmartin/resume-dash/internal/server/ratelimit"
)

// Renderer prints resolved resume HTML to PDF.
type Renderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// Server is the HTTP server with its dependencies.
type Server struct {
	httpServer  *http.Server
	store       Store
	database    *db.DB
	renderer    Renderer
	llmFactory  llm.Factory
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
}

// Config holds server configuration.
type Config struct {
	Port        int
	DatabaseURL string
	JWTSecret   string
}

// New connects to the database and builds a ready-to-start server.
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := newServer(database, render.NewPDFRenderer(), llm.NewGeminiClient, cfg.JWTSecret)
	s.database = database
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation holds the request while Chrome prints
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// newServer wires handlers against an arbitrary store; tests call it with
// an in-memory store and fake renderer/model factory.
func newServer(store Store, renderer Renderer, factory llm.Factory, jwtSecret string) *Server {
	return &Server{
		store:       store,
		renderer:    renderer,
		llmFactory:  factory,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		jwtService:  NewJWTService(jwtSecret),
	}
}

// Handler builds the route table wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/sections", s.handleListSections)
	mux.HandleFunc("POST /api/sections", s.handleCreateSection)
	mux.HandleFunc("POST /api/sections/bulk", s.handleBulkImportSections)
	mux.HandleFunc("GET /api/sections/{type}/{key}/{flavor}", s.handleListSectionVersions)
	mux.HandleFunc("PUT /api/sections/{type}/{key}/{flavor}", s.handleUpdateSection)
	mux.HandleFunc("DELETE /api/sections/{type}/{key}/{flavor}/{version}", s.handleDeleteSectionVersion)

	mux.HandleFunc("GET /api/applications", s.handleListApplications)
	mux.HandleFunc("POST /api/applications", s.handleCreateApplication)
	mux.HandleFunc("GET /api/applications/{id}", s.handleGetApplication)
	mux.HandleFunc("PUT /api/applications/{id}", s.handleUpdateApplication)
	mux.HandleFunc("DELETE /api/applications/{id}", s.handleDeleteApplication)

	mux.HandleFunc("GET /api/presets", s.handleListPresets)
	mux.HandleFunc("POST /api/presets", s.handleSavePreset)
	mux.HandleFunc("GET /api/presets/{id}", s.handleGetPreset)
	mux.HandleFunc("DELETE /api/presets/{id}", s.handleDeletePreset)

	mux.HandleFunc("GET /api/section-configs", s.handleListSectionConfigs)
	mux.HandleFunc("PUT /api/section-configs", s.handleUpsertSectionConfig)
	mux.HandleFunc("DELETE /api/section-configs/{type}/{key}", s.handleDeleteSectionConfig)

	mux.HandleFunc("GET /api/todos", s.handleListTodos)
	mux.HandleFunc("POST /api/todos", s.handleCreateTodo)
	mux.HandleFunc("PUT /api/todos/reorder", s.handleReorderTodos)
	mux.HandleFunc("DELETE /api/todos/completed", s.handleClearCompletedTodos)
	mux.HandleFunc("PUT /api/todos/{id}", s.handleUpdateTodo)
	mux.HandleFunc("DELETE /api/todos/{id}", s.handleDeleteTodo)

	mux.HandleFunc("POST /api/generate", s.handleGenerate)

	mux.HandleFunc("POST /api/jd/analyze", s.handleAnalyzeJD)
	mux.HandleFunc("POST /api/jd/recalculate-keywords", s.handleRecalculateKeywords)

	mux.HandleFunc("GET /api/outreach/templates", s.handleListTemplates)
	mux.HandleFunc("POST /api/outreach/templates", s.handleCreateTemplate)
	mux.HandleFunc("DELETE /api/outreach/templates/{id}", s.handleDeleteTemplate)
	mux.HandleFunc("GET /api/outreach/threads", s.handleListThreads)
	mux.HandleFunc("POST /api/outreach/threads", s.handleCreateThread)
	mux.HandleFunc("GET /api/outreach/threads/{id}", s.handleGetThread)
	mux.HandleFunc("PUT /api/outreach/threads/{id}", s.handleUpdateThread)
	mux.HandleFunc("DELETE /api/outreach/threads/{id}", s.handleDeleteThread)
	mux.HandleFunc("GET /api/outreach/threads/{id}/messages", s.handleListMessages)
	mux.HandleFunc("POST /api/outreach/threads/{id}/messages", s.handleCreateMessage)
	mux.HandleFunc("DELETE /api/outreach/threads/{id}/messages/{message_id}", s.handleDeleteMessage)
	mux.HandleFunc("POST /api/outreach/generate", s.handleGenerateOutreach)
	mux.HandleFunc("POST /api/outreach/refine", s.handleRefineOutreach)
	mux.HandleFunc("POST /api/outreach/generate-reply", s.handleGenerateReply)
	mux.HandleFunc("POST /api/outreach/parse-conversation", s.handleParseConversation)

	mux.HandleFunc("POST /api/auth/sync", s.handleAuthSync)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening and blocks until an interrupt, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.database != nil {
		s.database.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers for browser clients.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-Id, X-Gemini-API-Key")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit throttles per client IP, with a tighter budget for the
// model-backed endpoints.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, isAIEndpoint(r.URL.Path))

		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
		}
		if !allowed {
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isAIEndpoint(path string) bool {
	if strings.HasPrefix(path, "/api/jd/") {
		return true
	}
	switch path {
	case "/api/outreach/generate", "/api/outreach/refine",
		"/api/outreach/generate-reply", "/api/outreach/parse-conversation":
		return true
	}
	return false
}

func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userID resolves the caller from the user header. Both historical header
// spellings are accepted; Go's header canonicalization makes them the same
// key anyway.
func (s *Server) userID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get("X-User-Id")
	if raw == "" {
		raw = r.Header.Get("X-User-ID")
	}
	if raw == "" {
		return uuid.Nil, &ErrBadRequest{Message: "missing X-User-Id header"}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrBadRequest{Message: "invalid X-User-Id header"}
	}
	return id, nil
}

// geminiClient builds a model client from the per-request API key header.
func (s *Server) geminiClient(ctx context.Context, r *http.Request) (llm.Client, error) {
	key := r.Header.Get("X-Gemini-API-Key")
	if key == "" {
		return nil, &ErrMissingAPIKey{}
	}
	client, err := s.llmFactory(ctx, key)
	if err != nil {
		return nil, &ErrUpstream{Op: "model client init", Cause: err}
	}
	return client, nil
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrBadRequest{Message: "invalid JSON body: " + err.Error()}
	}
	return nil
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response. Clients surface the detail
// field directly.
func (s *Server) errorResponse(w http.ResponseWriter, status int, detail string) {
	s.jsonResponse(w, status, map[string]string{"detail": detail})
}

// handleError maps a handler error to its HTTP response.
func (s *Server) handleError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}
	s.errorResponse(w, status, err.Error())
}
