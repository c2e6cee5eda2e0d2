// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "meeting_notetaker"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	// Transcript metrics
	TranscriptsParsed *prometheus.CounterVec
	SegmentsStored    prometheus.Counter

	// Participant metrics
	ParticipantSource *prometheus.CounterVec

	// Bot provider metrics
	BotAPIRequests *prometheus.CounterVec
	RecordingsSync *prometheus.CounterVec

	// Webhook metrics
	WebhooksReceived *prometheus.CounterVec

	// Maintenance metrics
	MaintenanceRuns    *prometheus.CounterVec
	RecordingsTimedOut prometheus.Counter
	ExportsDelivered   *prometheus.CounterVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics creates all metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		TranscriptsParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_parsed_total",
			Help:      "Transcripts parsed by detected format",
		}, []string{"format"}),
		SegmentsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_stored_total",
			Help:      "Transcript segments written to the database",
		}),

		ParticipantSource: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "participant_resolutions_total",
			Help:      "Participant resolutions by winning source",
		}, []string{"source"}),

		BotAPIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bot_api_requests_total",
			Help:      "Requests to the meeting bot provider by operation and outcome",
		}, []string{"operation", "outcome"}),
		RecordingsSync: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recording_syncs_total",
			Help:      "Recording syncs by resulting status",
		}, []string{"status"}),

		WebhooksReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_received_total",
			Help:      "Inbound webhooks by kind and outcome",
		}, []string{"kind", "outcome"}),

		MaintenanceRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maintenance_runs_total",
			Help:      "Maintenance job runs by job and outcome",
		}, []string{"job", "outcome"}),
		RecordingsTimedOut: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recordings_timed_out_total",
			Help:      "Recordings moved to timeout by the stale cleanup",
		}),
		ExportsDelivered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Transcript exports by outcome",
		}, []string{"outcome"}),
	}
}

// Outcome maps an error to the "success"/"error" label value
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// EchoMiddleware records request count and latency per route template
func (m *Metrics) EchoMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.HTTPLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
