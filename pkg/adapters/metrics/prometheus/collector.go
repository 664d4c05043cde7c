// Package prometheus implements the ports.Metrics interface on top of
// Prometheus collectors, exported on the HTTP server's /metrics route.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements ports.Metrics using Prometheus
type Collector struct {
	intentsSubmitted   *prometheus.CounterVec
	workflowsCompleted *prometheus.CounterVec
	workflowDuration   *prometheus.HistogramVec
	activeWorkflows    prometheus.Gauge
	broadcastEvents    prometheus.Counter
	notificationsSent  prometheus.Counter
	workerPoolIdle     prometheus.Gauge
	workerPoolBusy     prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	return &Collector{
		intentsSubmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coflow_intents_submitted_total",
				Help: "Total number of intents submitted",
			},
			[]string{"intent"},
		),
		workflowsCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coflow_workflows_completed_total",
				Help: "Total number of workflows completed",
			},
			[]string{"intent", "outcome"},
		),
		workflowDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coflow_workflow_duration_seconds",
				Help:    "Workflow execution duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"intent"},
		),
		activeWorkflows: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "coflow_active_workflows",
				Help: "Number of currently running workflows",
			},
		),
		broadcastEvents: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "coflow_broadcast_events_total",
				Help: "Total number of events published on the broadcast channel",
			},
		),
		notificationsSent: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "coflow_notifications_total",
				Help: "Total number of notifications pushed onto the queue channel",
			},
		),
		workerPoolIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "coflow_worker_pool_idle",
				Help: "Number of idle workers",
			},
		),
		workerPoolBusy: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "coflow_worker_pool_busy",
				Help: "Number of busy workers",
			},
		),
	}
}

// RecordIntentSubmitted increments the count of submitted intents
func (c *Collector) RecordIntentSubmitted(intent string) {
	c.intentsSubmitted.WithLabelValues(intent).Inc()
}

// RecordWorkflowStarted marks a workflow as active
func (c *Collector) RecordWorkflowStarted(intent string) {
	c.activeWorkflows.Inc()
}

// RecordWorkflowCompleted records a finished workflow and its duration
func (c *Collector) RecordWorkflowCompleted(intent string, outcome string, duration time.Duration) {
	c.activeWorkflows.Dec()
	c.workflowsCompleted.WithLabelValues(intent, outcome).Inc()
	c.workflowDuration.WithLabelValues(intent).Observe(duration.Seconds())
}

// RecordBroadcastEvent increments the broadcast event counter
func (c *Collector) RecordBroadcastEvent() {
	c.broadcastEvents.Inc()
}

// RecordNotificationQueued increments the queued notification counter
func (c *Collector) RecordNotificationQueued() {
	c.notificationsSent.Inc()
}

// RecordWorkerPoolStatus records worker pool occupancy
func (c *Collector) RecordWorkerPoolStatus(idle, busy int) {
	c.workerPoolIdle.Set(float64(idle))
	c.workerPoolBusy.Set(float64(busy))
}
