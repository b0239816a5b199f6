package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/items/:id", func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	body := scrape(t, reg)
	if !strings.Contains(body, `budong_http_requests_total{method="GET",path="/items/:id",status="204"} 1`) {
		t.Errorf("expected request counter for route pattern, got:\n%s", body)
	}
}

func TestCollector_AuthMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTokenVerification("expired")
	c.RecordTokenVerification("expired")
	c.ObservePasswordHash(30 * time.Millisecond)
	c.ObserveSearchCandidates("building", 120)

	body := scrape(t, reg)
	if !strings.Contains(body, `budong_auth_token_verifications_total{outcome="expired"} 2`) {
		t.Errorf("expected 2 expired verifications, got:\n%s", body)
	}
	if !strings.Contains(body, "budong_auth_password_hash_seconds_count 1") {
		t.Error("expected one password hash observation")
	}
	if !strings.Contains(body, `budong_search_candidates_count{kind="building"} 1`) {
		t.Error("expected one search candidates observation")
	}
}

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	b, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}
