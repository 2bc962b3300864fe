package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"service_directory/internal/domain"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "directory", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "directory", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	StorageEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "directory", Name: "storage_events_total", Help: "Key-value storage operations."},
		[]string{"store", "op", "result"}, // result: ok|miss|error
	)
	Listings = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "directory", Name: "listings", Help: "Listings by verification state."},
		[]string{"state"},
	)
	AdminLogins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "directory", Name: "admin_logins_total", Help: "Admin login attempts."},
		[]string{"result"},
	)
)

// NewMetricsServer returns a side server exposing reg, or nil when addr is empty.
func NewMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	if addr == "" {
		return nil // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, StorageEvents, Listings, AdminLogins)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveStorage(store, op, result string) {
	StorageEvents.WithLabelValues(store, op, result).Inc()
}

func ObserveLogin(ok bool) {
	if ok {
		AdminLogins.WithLabelValues("ok").Inc()
		return
	}
	AdminLogins.WithLabelValues("rejected").Inc()
}

// ObserveListings is meant to be subscribed to store snapshots.
func ObserveListings(bs []domain.Business) {
	var verified int
	for _, b := range bs {
		if b.Verified {
			verified++
		}
	}
	Listings.WithLabelValues("verified").Set(float64(verified))
	Listings.WithLabelValues("pending").Set(float64(len(bs) - verified))
}

func ResultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}
