// Package metrics collects Prometheus counters for the wallet flow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns its registry so tests can run several side by side.
type Collector struct {
	registry *prometheus.Registry

	transfersProcessed prometheus.Counter
	transfersFailed    prometheus.Counter
	billsProcessed     prometheus.Counter
	billsFailed        prometheus.Counter
	settledAmount      prometheus.Histogram
	walletBalance      *prometheus.GaugeVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		transfersProcessed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "wallet_transfers_processed_total",
			Help: "P2P transfers committed",
		}),
		transfersFailed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "wallet_transfers_failed_total",
			Help: "P2P transfers rejected",
		}),
		billsProcessed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "wallet_bill_payments_processed_total",
			Help: "Bill payments committed",
		}),
		billsFailed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "wallet_bill_payments_failed_total",
			Help: "Bill payments rejected",
		}),
		settledAmount: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "wallet_settled_amount_xaf",
			Help:    "Distribution of settled amounts in XAF minor units",
			Buckets: []float64{1000, 5000, 10000, 50000, 100000, 500000, 1000000},
		}),
		walletBalance: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "wallet_balance_xaf",
			Help: "Current wallet balance in XAF minor units",
		}, []string{"phone"}),
	}
}

// RecordTransfer counts one transfer outcome; amount is observed only
// for committed transfers.
func (c *Collector) RecordTransfer(amountMinor int64, ok bool) {
	if ok {
		c.transfersProcessed.Inc()
		c.settledAmount.Observe(float64(amountMinor))

		return
	}

	c.transfersFailed.Inc()
}

// RecordBillPayment counts one bill payment outcome.
func (c *Collector) RecordBillPayment(amountMinor int64, ok bool) {
	if ok {
		c.billsProcessed.Inc()
		c.settledAmount.Observe(float64(amountMinor))

		return
	}

	c.billsFailed.Inc()
}

// SetBalance tracks a wallet's balance after a committed operation.
func (c *Collector) SetBalance(phone string, balanceMinor int64) {
	c.walletBalance.WithLabelValues(phone).Set(float64(balanceMinor))
}

// Handler serves the collector's registry, mounted at /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
