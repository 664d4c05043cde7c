// Package channels implements the three delivery policies the orchestrator
// publishes on. They are deliberately separate abstractions, not one generic
// event bus, because their guarantees differ:
//
//   - State: conflated latest-value. Always has a current value; a new
//     subscriber immediately sees the latest snapshot, then every subsequent
//     replacement. Producers never block; intermediate values may be skipped.
//   - Broadcast: multicast without replay. Subscribers only see events
//     published after they subscribed; a subscriber that falls behind its
//     buffer misses events rather than slowing the producer.
//   - Queue: point-to-point delivery. Each value is received by exactly one
//     consumer; with no buffer the producer blocks until a consumer is ready.
package channels
