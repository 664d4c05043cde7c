// Package model defines the domain types shared by the orchestrator and the
// API surfaces: the User value, the copy-on-write UIState snapshot, and the
// closed Intent enumeration that selects a workflow.
package model
