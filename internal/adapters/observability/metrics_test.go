package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"service_directory/internal/adapters/observability"
	"service_directory/internal/domain"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveStorage("memory", "set", "ok")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{"directory_http_requests_total", "directory_storage_events_total"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestObserveListings(t *testing.T) {
	reg := observability.InitRegistry()
	observability.ObserveListings([]domain.Business{{ID: 1, Verified: true}, {ID: 2}, {ID: 3}})

	rr := httptest.NewRecorder()
	observability.MetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	out := rr.Body.String()
	if !strings.Contains(out, `directory_listings{state="pending"} 2`) {
		t.Fatalf("pending gauge missing:\n%s", out)
	}
	if !strings.Contains(out, `directory_listings{state="verified"} 1`) {
		t.Fatalf("verified gauge missing:\n%s", out)
	}
}

func TestNewMetricsServer_DisabledWithoutAddr(t *testing.T) {
	if srv := observability.NewMetricsServer("", observability.InitRegistry()); srv != nil {
		t.Fatalf("expected nil server when addr is empty")
	}
}

func TestNewMetricsServer_ServesGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	sideOnly := prometheus.NewCounter(prometheus.CounterOpts{Name: "side_only_total", Help: "only on reg"})
	reg.MustRegister(sideOnly)
	sideOnly.Inc()

	srv := observability.NewMetricsServer(":0", reg)
	if srv == nil {
		t.Fatalf("expected a server")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	out := rr.Body.String()
	if !strings.Contains(out, "side_only_total 1") {
		t.Fatalf("registry metric missing:\n%s", out)
	}
	if strings.Contains(out, "go_goroutines") {
		t.Fatalf("default registry leaked into side server:\n%s", out)
	}
}
