// Package repository is the mock data source behind the orchestrator's fetch
// workflows. Every operation is a cold flow: no work happens until the flow
// is started, and starting it again replays the operation from scratch.
//
// Latencies are simulated waits taken from configuration; the fixed user
// lists are illustrative stand-ins for a real backend.
package repository
