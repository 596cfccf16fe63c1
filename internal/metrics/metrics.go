// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes recorded on RouteSearchesTotal.
const (
	OutcomeFound       = "found"
	OutcomeEmpty       = "empty"
	OutcomeInvalid     = "invalid"
	OutcomeNotFound    = "location_not_found"
	OutcomeUnavailable = "unavailable"
)

var (
	// RouteSearchesTotal counts searches by outcome.
	RouteSearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "route_searches_total",
		Help: "Total route searches by outcome",
	}, []string{"outcome"})

	RouteSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_search_duration_seconds",
		Help:    "End-to-end route search duration",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})

	RouteCandidateLegs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_candidate_legs",
		Help:    "Candidate legs per search after narrowing",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	RoutesReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_results",
		Help:    "Routes returned per search",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})

	// HTTPRequestsTotal counts HTTP requests by route template, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// ObserveSearch records the outcome and duration of one search.
func ObserveSearch(outcome string, started time.Time) {
	RouteSearchesTotal.WithLabelValues(outcome).Inc()
	RouteSearchDuration.Observe(time.Since(started).Seconds())
}

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// RegisterRoutes exposes the default registry on /metrics.
func RegisterRoutes(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
