// Package scheduler runs the cooperative state machine driving the
// trading session. It decides when to spawn the next Watcher or Bidder,
// consumes their message stream, classifies failures, applies the
// escalating ban-wait backoff, and enforces the maximum continuous
// session duration.
//
// At most one worker is active at any instant. Workers run to natural
// completion; the scheduler never interrupts an in-flight worker, it
// only decides whether to start the next one. All session state is
// owned by the scheduler and mutated on its tick loop.
package scheduler
