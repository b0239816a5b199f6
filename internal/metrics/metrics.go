// Package metrics collects Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "budong"

// Collector owns the service metrics. It is registered on an explicit
// registry so tests can use their own.
type Collector struct {
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	tokenVerifications *prometheus.CounterVec
	passwordHash       prometheus.Histogram
	searchCandidates   *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "path"}),
		tokenVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "token_verifications_total",
			Help:      "Token verifications by outcome",
		}, []string{"outcome"}),
		passwordHash: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "password_hash_seconds",
			Help:      "Time spent hashing passwords",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}),
		searchCandidates: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "candidates",
			Help:      "Candidates scanned per proximity search",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 7),
		}, []string{"kind"}),
	}

	reg.MustRegister(c.httpRequests, c.httpDuration, c.tokenVerifications, c.passwordHash, c.searchCandidates)
	return c
}

// RecordTokenVerification counts a verification outcome ("ok", "expired",
// "signature", "malformed", ...). Callers of the token service never see
// these reasons; they only exist here and in debug logs.
func (c *Collector) RecordTokenVerification(outcome string) {
	c.tokenVerifications.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObservePasswordHash(d time.Duration) {
	c.passwordHash.Observe(d.Seconds())
}

func (c *Collector) ObserveSearchCandidates(kind string, n int) {
	c.searchCandidates.WithLabelValues(kind).Observe(float64(n))
}

// Middleware records request count and latency per route pattern.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := ctx.Request.Method
		c.httpRequests.WithLabelValues(method, path, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
