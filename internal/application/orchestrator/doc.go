// Package orchestrator implements the asynchronous task orchestration core.
//
// The orchestrator accepts named intents and runs the corresponding workflow
// on the worker pool:
//   - Dispatching is fire-and-forget: Submit never blocks and never returns
//     an error; every outcome surfaces through the output channels.
//   - Workflow failures are isolated: one workflow's error only affects its
//     own published state, never sibling workflows or the orchestrator.
//   - Every UI state replacement is folded through a single state-owner
//     goroutine, so snapshots are replaced atomically in a total order even
//     though workflows run concurrently.
//
// Outcomes surface on three channels with distinct delivery semantics: the
// conflated state channel, the multicast broadcast channel for progress and
// transformation events, and the rendezvous notification queue for messages
// that must reach exactly one consumer.
package orchestrator
