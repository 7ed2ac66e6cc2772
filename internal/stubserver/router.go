package stubserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mahamat-dev/sahelpay/pkg/metrics"
)

// NewRouter constructs the stub's HTTP surface: the four wallet
// endpoints behind auth, plus health and metrics.
func NewRouter(store *Store, collector *metrics.Collector) http.Handler {
	h := NewHandlers(store, collector)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Method(http.MethodGet, "/metrics", collector.Handler())

	r.Group(func(r chi.Router) {
		r.Use(h.Auth)

		r.Get("/wallet/balance", h.GetBalance)
		r.Get("/wallet/transactions", h.GetTransactions)

		r.Group(func(r chi.Router) {
			r.Use(h.Idempotency)

			r.Post("/wallet/p2p-transfer", h.PostTransfer)
			r.Post("/wallet/pay-bill", h.PostPayBill)
		})
	})

	return r
}
