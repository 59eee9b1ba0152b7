// Package bid implements the automated bidding worker.
//
// One Run is one cycle: fetch the watchlist and credits, bid on
// candidate auctions priced within each item's buy limit while keeping
// credits above the configured floor, reconcile wins and sells against
// the previous watchlist, and report a CycleResult. Errors are forwarded
// upstream and end the cycle; retrying is the scheduler's job.
package bid
