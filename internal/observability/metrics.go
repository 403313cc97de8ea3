package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamechat_http_requests_total",
			Help: "Total number of HTTP requests processed by the gamechat service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamechat_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamechat_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamechat_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gamechat_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
	navigationOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamechat_navigation_outcomes_total",
			Help: "Navigation resolutions by kind and ladder outcome.",
		},
		[]string{"kind", "outcome"},
	)
	timelineMaterializeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gamechat_timeline_materialize_total",
			Help: "Total number of timeline materialization passes.",
		},
	)
	timelineDiscardsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamechat_timeline_discards_total",
			Help: "Timeline deliveries discarded, by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
		navigationOutcomesTotal,
		timelineMaterializeTotal,
		timelineDiscardsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event string) {
	wsEventsTotal.WithLabelValues(event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}

func IncNavigationOutcome(kind, outcome string) {
	navigationOutcomesTotal.WithLabelValues(kind, outcome).Inc()
}

func IncTimelineMaterialize() {
	timelineMaterializeTotal.Inc()
}

func IncTimelineDiscard(reason string) {
	timelineDiscardsTotal.WithLabelValues(reason).Inc()
}
