// Package http provides the REST API surface of the coflow service:
// intent submission, current state, recent state history, health and
// Prometheus metrics.
package http
