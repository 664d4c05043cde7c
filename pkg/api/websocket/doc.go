// Package websocket streams the orchestrator's output channels to clients
// as typed JSON frames.
package websocket
