// Package metrics holds the Prometheus collectors of the server and the gin
// middleware that feeds the HTTP ones.
//
//	r.Use(metrics.Middleware())
//	r.GET("/metrics", gin.WrapH(metrics.Handler()))
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dinedash"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	OrdersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders persisted, by payment path.",
		},
		[]string{"payment"}, // "cash" | "sslcommerz"
	)

	LineTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "line_transitions_total",
			Help:      "Line item status changes, by kind and target status.",
		},
		[]string{"kind", "status"},
	)

	DeliveriesCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "riders",
		Name:      "deliveries_completed_total",
		Help:      "Deliveries completed by riders.",
	})

	RiderEarnings = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "riders",
		Name:      "earnings_total",
		Help:      "Flat delivery fees credited to riders.",
	})

	GatewayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "gateway_duration_seconds",
			Help:      "Duration of payment gateway session requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total cache hits.",
		},
		[]string{"driver"},
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total cache misses.",
		},
		[]string{"driver"},
	)
)

// Registry is the registry exposed on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	Registry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		OrdersPlaced,
		LineTransitions,
		DeliveriesCompleted,
		RiderEarnings,
		GatewayDuration,
		CacheHits,
		CacheMisses,
	)
}

// Middleware records duration, count and in-flight gauge per route
// template, so path parameters do not explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		RequestInFlight.Inc()
		defer RequestInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func ObserveGateway(start time.Time, status int) {
	GatewayDuration.WithLabelValues(strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}
