// Package api содержит REST API блога: маршруты, обработчики и middleware сессии.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/UkralStul/blog-service/internal/auth"
	"github.com/UkralStul/blog-service/internal/dataloader"
	"github.com/UkralStul/blog-service/internal/logging"
	"github.com/UkralStul/blog-service/internal/storage"
)

// Server - корневая структура API.
// Она содержит все зависимости, которые нужны обработчикам.
type Server struct {
	storage        storage.Storage
	tokens         *auth.Tokens
	logger         *zap.Logger
	validate       *validator.Validate
	allowedOrigins []string
}

// Option настраивает Server.
type Option func(*Server)

// WithLogger задает логгер.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithAllowedOrigins задает список источников для CORS.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// NewServer создает API поверх хранилища и сервиса токенов.
func NewServer(store storage.Storage, tokens *auth.Tokens, opts ...Option) *Server {
	s := &Server{
		storage:        store,
		tokens:         tokens,
		logger:         zap.NewNop(),
		validate:       newValidator(),
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes собирает роутер со всеми маршрутами.
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.RequestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", s.health)

	router.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.registerUser)
			r.Post("/login", s.login)
			r.With(s.authenticate).Get("/{id}", s.getUser)
		})

		r.Route("/posts", func(r chi.Router) {
			r.With(dataloader.Middleware(s.storage)).Get("/", s.listPosts)
			r.With(s.authenticate).Post("/", s.createPost)
			r.Get("/{id}", s.getPost)
			r.With(s.authenticate).Put("/{id}", s.updatePost)
			r.With(s.authenticate).Delete("/{id}", s.deletePost)

			r.Get("/{id}/comments", s.listComments)
			r.With(s.authenticate).Post("/{id}/comments", s.createComment)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.Ping(r.Context()); err != nil {
		s.logger.Warn("storage ping failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
