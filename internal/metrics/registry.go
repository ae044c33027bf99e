package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the application's instrumentation. All collectors live on a
// private prometheus registry so tests can create isolated instances.
type Registry struct {
	reg *prometheus.Registry

	// Auction lifecycle
	AuctionsStarted  prometheus.Counter
	AuctionsSettled  *prometheus.CounterVec
	RemainingSeconds prometheus.Gauge

	// Bidding
	BidsAccepted prometheus.Counter
	BidsRejected *prometheus.CounterVec

	// Broadcast fan-out
	ObserversConnected prometheus.Gauge
	EventsPublished    *prometheus.CounterVec

	// HTTP
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with all auction metrics registered
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		reg: reg,
		AuctionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jpl_auctions_started_total",
			Help: "Auction cycles started.",
		}),
		AuctionsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jpl_auctions_settled_total",
			Help: "Auction cycles settled, by outcome.",
		}, []string{"outcome"}),
		RemainingSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jpl_auction_remaining_seconds",
			Help: "Seconds left on the live auction countdown.",
		}),
		BidsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jpl_bids_accepted_total",
			Help: "Bids accepted into the ledger.",
		}),
		BidsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jpl_bids_rejected_total",
			Help: "Bids rejected, by reason.",
		}, []string{"reason"}),
		ObserversConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jpl_observers_connected",
			Help: "Websocket observers currently connected.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jpl_events_published_total",
			Help: "Broadcast events published, by type.",
		}, []string{"type"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jpl_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		r.AuctionsStarted,
		r.AuctionsSettled,
		r.RemainingSeconds,
		r.BidsAccepted,
		r.BidsRejected,
		r.ObserversConnected,
		r.EventsPublished,
		r.RequestDuration,
	)
	return r
}

// Handler serves the registry in Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
