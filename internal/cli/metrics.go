package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsPath              = "/metrics"
	metricsReadHeaderTimeout = 5 * time.Second
	metricsShutdownTimeout   = 2 * time.Second
)

// metricsServer exposes the client's Prometheus registry over HTTP.
type metricsServer struct {
	srv  *http.Server
	addr string
}

// startMetricsServer listens on addr and serves reg at /metrics until
// Shutdown is called.
func startMetricsServer(ctx context.Context, addr string, reg *prometheus.Registry) (*metricsServer, error) {
	reg.MustRegister(collectors.NewGoCollector())

	r := mux.NewRouter()
	r.Handle(metricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})).
		Methods(http.MethodGet)

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening for metrics on %s: %w", addr, err)
	}

	s := &metricsServer{
		srv: &http.Server{
			Handler:           r,
			ReadHeaderTimeout: metricsReadHeaderTimeout,
		},
		addr: ln.Addr().String(),
	}

	go func() {
		if serveErr := s.srv.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error().Err(serveErr).Str("addr", s.addr).Msg("metrics server stopped")
		}
	}()

	logger.Info().Ctx(ctx).Str("addr", s.addr).Str("path", metricsPath).Msg("serving metrics")
	return s, nil
}

// Addr returns the bound listen address.
func (s *metricsServer) Addr() string {
	return s.addr
}

// Shutdown stops the server, waiting briefly for in-flight scrapes.
func (s *metricsServer) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
