// Package metrics exposes daemon counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records API, unread and outbox metrics.
type Collector struct {
	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	unread      prometheus.Gauge
	posts       *prometheus.CounterVec

	// GRPC instruments the daemon's gRPC server.
	GRPC *grpc_prometheus.ServerMetrics
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weibo_api_requests_total",
			Help: "Weibo API calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weibo_api_latency_seconds",
			Help:    "Weibo API call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		unread: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "weibo_unread_statuses",
			Help: "Last unread status count reported by the API.",
		}),
		posts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weibo_outbox_posts_total",
			Help: "Outbox post attempts by result.",
		}, []string{"result"}),
		GRPC: grpc_prometheus.NewServerMetrics(),
	}

	reg.MustRegister(c.apiRequests, c.apiLatency, c.unread, c.posts, c.GRPC)
	return c
}

// ObserveAPI has the signature of weibo.MetricsHook.
func (c *Collector) ObserveAPI(endpoint string, success bool, d time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	c.apiRequests.WithLabelValues(endpoint, outcome).Inc()
	c.apiLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

// SetUnread records the latest unread count.
func (c *Collector) SetUnread(n int) {
	c.unread.Set(float64(n))
}

// CountPost records one outbox attempt.
func (c *Collector) CountPost(result string) {
	c.posts.WithLabelValues(result).Inc()
}

// RegisterFunc exposes a counter read from fn at scrape time.
func RegisterFunc(reg prometheus.Registerer, name, help string, fn func() float64) {
	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{Name: name, Help: help}, fn))
}

// Handler returns the ops router: /metrics for gatherer and /healthz, which
// answers 200 with the session state when state reports it can serve and
// 503 otherwise.
func Handler(gatherer prometheus.Gatherer, state func() (string, bool)) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		name, ok := state()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_, _ = w.Write([]byte(name + "\n"))
	})
	return r
}
