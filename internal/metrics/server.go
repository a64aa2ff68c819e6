package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	jww "github.com/spf13/jwalterweatherman"
)

// Server serves /metrics for a registry.
type Server struct {
	server *http.Server
}

// NewServer builds a metrics server on addr for gatherer g.
func NewServer(addr string, g prometheus.Gatherer) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return &Server{server: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}}
}

// Start listens in the background. Errors other than a clean shutdown are
// logged.
func (s *Server) Start() {
	go func() {
		jww.INFO.Printf("metrics listening on %s/metrics", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				jww.DEBUG.Printf("metrics server shut down")
				return
			}
			jww.ERROR.Printf("metrics server: %v", err)
		}
	}()
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
