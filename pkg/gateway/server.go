package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jguan/ollama-model-manager/pkg/gateway/middleware"
)

type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	EnableCORS      bool
	CORSConfig      middleware.CORSConfig
	Logger          *slog.Logger
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8000",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    5 * time.Minute,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		EnableCORS:      false,
		CORSConfig:      middleware.DefaultCORSConfig(),
		Logger:          nil,
	}
}

type Server struct {
	config ServerConfig
	http   *http.Server
	router *Router
	logger *slog.Logger
}

func NewServer(svc Service, config ServerConfig) *Server {
	if config.Addr == "" {
		config.Addr = ":8000"
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 15 * time.Second
	}
	if config.WriteTimeout == 0 {
		// Generation responses can take minutes on slow hardware.
		config.WriteTimeout = 5 * time.Minute
	}
	if config.IdleTimeout == 0 {
		config.IdleTimeout = 60 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	return &Server{
		config: config,
		router: NewRouter(&handlers{svc: svc}),
		logger: config.Logger,
	}
}

func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/openapi.json", s.handleOpenAPI)
	mux.Handle("/", s.buildHandler())

	s.http = &http.Server{
		Addr:         s.config.Addr,
		Handler:      mux,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	if s.logger != nil {
		s.logger.Info("starting HTTP server", slog.String("addr", s.config.Addr))
	}

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Handler returns the fully wrapped route handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.buildHandler()
}

func (s *Server) buildHandler() http.Handler {
	var handler http.Handler = s.router

	if s.config.EnableCORS {
		handler = middleware.CORS(s.config.CORSConfig)(handler)
	}

	// RequestID must wrap Logging so log entries carry the ID;
	// Recovery is outermost to catch panics from any middleware.
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}

func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}

	if s.logger != nil {
		s.logger.Info("stopping HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
