// Package workers provides the goroutine pool the orchestrator schedules
// workflow jobs onto, plus a health monitor that periodically reports pool
// occupancy to the logger and the metrics collector.
//
// Submission never blocks the caller: when every worker is busy and the job
// queue is full, the job is run on an overflow goroutine instead.
package workers
