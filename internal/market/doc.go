// Package market provides access to the remote auction marketplace.
//
// The Client interface is the full capability surface the engine needs:
// session reset, auction search, trade status, watchlist, bidding, and
// credits. Failures surface as *Error classified into exactly one of
// session-expired, permission-denied, or transient. The HTTP
// implementation never retries; the scheduler is the sole retry
// authority.
package market
