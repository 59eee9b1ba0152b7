// Package watch implements the market sampling worker.
//
// The Watcher:
//   - Discovers live auctions for a set of items, paging until an
//     auction expires beyond the horizon
//   - Polls tracked trades until none remains active
//   - Emits an immutable per-item Snapshot on every poll
//   - Forwards any marketplace error upstream and exits; retrying is
//     the scheduler's responsibility
package watch
