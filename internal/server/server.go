// Package server exposes the classification engine over HTTP.
//
// The routes mirror the original ML service surface: /filter/predict for
// moderation of raw text, /filter/analyze for uploaded files, and
// /nlp/process for query understanding. Handlers translate the engine's
// typed outcomes into specific status codes and messages; stack traces never
// reach a response body.
package server

import (
	"github.com/gin-gonic/gin"

	"github.com/jediamps/ZapSync/internal/engine"
)

// Options configures the HTTP facade.
type Options struct {
	// RequestsPerSec caps the accepted request rate; zero disables limiting.
	RequestsPerSec float64

	// MaxUploadBytes bounds multipart file uploads.
	MaxUploadBytes int64
}

// DefaultMaxUploadBytes matches the upstream upload middleware's cap.
const DefaultMaxUploadBytes = 50 * 1024 * 1024

// Server routes classification requests to the engine.
type Server struct {
	engine         *engine.Engine
	router         *gin.Engine
	maxUploadBytes int64
}

// New creates a Server around an initialized engine.
func New(eng *engine.Engine, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID())
	if opts.RequestsPerSec > 0 {
		router.Use(rateLimit(opts.RequestsPerSec))
	}

	s := &Server{
		engine:         eng,
		router:         router,
		maxUploadBytes: opts.MaxUploadBytes,
	}
	s.setupRoutes()
	return s
}

// Run starts serving on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler returns the underlying handler, mainly for tests.
func (s *Server) Handler() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)
	s.router.POST("/filter/predict", s.handlePredict)
	s.router.POST("/filter/analyze", s.handleAnalyze)
	s.router.POST("/nlp/process", s.handleProcessQuery)
}
