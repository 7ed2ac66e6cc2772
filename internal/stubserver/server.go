package stubserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mahamat-dev/sahelpay/pkg/metrics"
)

// NewServer creates a configured *http.Server for the wallet stub.
func NewServer(port uint16, store *Store, collector *metrics.Collector) *http.Server {
	mux := NewRouter(store, collector)

	addr := fmt.Sprintf(":%d", port)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
