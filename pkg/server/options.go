package server

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-loanform/internal/logger"
)

// DefaultShutdownGrace bounds how long Serve waits for in-flight requests.
const DefaultShutdownGrace = 5 * time.Second

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithAssets serves files under GET /assets/.
func WithAssets(files fs.FS) Option {
	return func(s *Server) {
		s.assets = files
	}
}

// WithShutdownGrace overrides DefaultShutdownGrace.
func WithShutdownGrace(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownGrace = d
		}
	}
}
