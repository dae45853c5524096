package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

// StatusServer serves the venue JSON API and /metrics next to the TUI.
type StatusServer struct {
	server   *http.Server
	listener net.Listener
	logger   zerolog.Logger
}

func NewStatusServer(app *App) *StatusServer {
	metricsHandler := promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{Registry: app.Registry})
	return &StatusServer{
		server: &http.Server{
			Addr:              app.Config.HTTP.Addr,
			Handler:           app.VenueHTTP.Router(metricsHandler),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: app.Logger.With().Str("component", "status").Logger(),
	}
}

// Start binds the listener synchronously so address errors surface to the
// caller, then serves in the background.
func (s *StatusServer) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.server.Addr, err)
	}
	s.listener = ln
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("status server started")
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("status server error")
		}
	}()
	return nil
}

// Addr is the bound address, useful when configured with port 0.
func (s *StatusServer) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

func (s *StatusServer) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown status server: %w", err)
	}
	return nil
}
