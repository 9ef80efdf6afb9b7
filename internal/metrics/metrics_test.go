package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/suppleit/supplefront/internal/gateway"
)

// CollectorはゲートウェイのMetricsRecorderとして使用される
var _ gateway.MetricsRecorder = (*Collector)(nil)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	server := httptest.NewServer(Handler(reg))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("failed to scrape metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read metrics body: %v", err)
	}
	return string(body)
}

func TestRecordBackendCall_ExposesCounterAndLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBackendCall("schedule", 200, 150*time.Millisecond)
	c.RecordBackendCall("schedule", 200, 80*time.Millisecond)
	c.RecordBackendCall("auth", 401, 30*time.Millisecond)

	body := scrape(t, reg)
	if !strings.Contains(body, `supplefront_backend_calls_total{path_class="schedule",status_code="200"} 2`) {
		t.Errorf("missing schedule call counter in output:\n%s", body)
	}
	if !strings.Contains(body, `supplefront_backend_calls_total{path_class="auth",status_code="401"} 1`) {
		t.Errorf("missing auth call counter in output:\n%s", body)
	}
	if !strings.Contains(body, `supplefront_backend_latency_seconds_count{path_class="schedule"} 2`) {
		t.Errorf("missing latency histogram in output:\n%s", body)
	}
}

func TestRecordTokenRefresh_LabelsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTokenRefresh(true)
	c.RecordTokenRefresh(true)
	c.RecordTokenRefresh(false)

	body := scrape(t, reg)
	if !strings.Contains(body, `supplefront_token_refresh_total{result="success"} 2`) {
		t.Errorf("missing refresh success counter in output:\n%s", body)
	}
	if !strings.Contains(body, `supplefront_token_refresh_total{result="failure"} 1`) {
		t.Errorf("missing refresh failure counter in output:\n%s", body)
	}
}

func TestRecordSessionsCleaned_Accumulates(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSessionsCleaned(3)
	c.RecordSessionsCleaned(2)

	body := scrape(t, reg)
	if !strings.Contains(body, "supplefront_sessions_cleaned_total 5") {
		t.Errorf("missing cleaned sessions counter in output:\n%s", body)
	}
}
