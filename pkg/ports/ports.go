// Package ports declares the interfaces the application core depends on, so
// adapters (metrics backends, history recorders) can be swapped without
// touching the orchestrator.
package ports

import "time"

// Metrics records operational metrics for the orchestrator and its channels.
type Metrics interface {
	RecordIntentSubmitted(intent string)
	RecordWorkflowStarted(intent string)
	RecordWorkflowCompleted(intent string, outcome string, duration time.Duration)
	RecordBroadcastEvent()
	RecordNotificationQueued()
	RecordWorkerPoolStatus(idle, busy int)
}

// NopMetrics is a Metrics implementation that discards everything. Used in
// tests and in the demo command.
type NopMetrics struct{}

func (NopMetrics) RecordIntentSubmitted(string)                          {}
func (NopMetrics) RecordWorkflowStarted(string)                          {}
func (NopMetrics) RecordWorkflowCompleted(string, string, time.Duration) {}
func (NopMetrics) RecordBroadcastEvent()                                 {}
func (NopMetrics) RecordNotificationQueued()                             {}
func (NopMetrics) RecordWorkerPoolStatus(int, int)                       {}
