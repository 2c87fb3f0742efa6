package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ItemCreated()
	m.ItemCreated()
	m.ItemUpdated()
	m.ItemDeleted()
	m.DeletionScheduled()
	m.DeletionUndone()
	m.SetPendingDeletions(3)

	checks := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"created", m.itemsCreated, 2},
		{"updated", m.itemsUpdated, 1},
		{"deleted", m.itemsDeleted, 1},
		{"scheduled", m.deletionsScheduled, 1},
		{"undone", m.deletionsUndone, 1},
		{"pending", m.pendingDeletions, 3},
	}
	for _, c := range checks {
		if got := testutil.ToFloat64(c.c); got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ItemCreated()
	m.SetPendingDeletions(1)
	m.ObserveRequest(http.MethodGet, "/", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerExposesRequests(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveRequest(http.MethodPost, "POST /api/items", http.StatusCreated, 5*time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	want := `wishlist_http_requests_total{code="201",method="POST",route="POST /api/items"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("exposition missing %q", want)
	}
}
