package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tripstay/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors are exported
	observability.ObserveHTTP("/v1/recommendations", "POST", 200, 12*time.Millisecond)
	observability.ObserveRecommendation("package", "high", 0.91)
	observability.ObserveSkipped("no_rooms")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"tripstay_http_requests_total",
		`tripstay_recommendations_total{booking_type="package",confidence="high"}`,
		"tripstay_recommendation_score_bucket",
		`tripstay_recommendation_skipped_total{reason="no_rooms"}`,
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestNewLogger_Level(t *testing.T) {
	if l := observability.NewLogger("prod", "debug"); l.GetLevel().String() != "debug" {
		t.Fatalf("level = %s, want debug", l.GetLevel())
	}
	if l := observability.NewLogger("dev", "bogus"); l.GetLevel().String() != "info" {
		t.Fatalf("level = %s, want info fallback", l.GetLevel())
	}
}
