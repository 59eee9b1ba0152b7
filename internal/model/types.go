package model

// Item is a tradable entity with its policy prices. The candidate list is
// supplied by the caller; only the pricing policy mutates the prices.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Buy  int    `json:"buy"`  // max bid worth paying
	Sell int    `json:"sell"` // target list price
	Bin  int    `json:"bin"`  // buy-it-now price
}

// Trade is one observed auction instance of an item. Records are updated
// in place on every poll and kept after expiry for final aggregation.
type Trade struct {
	TradeID     string `json:"tradeId"`
	ItemID      string `json:"itemId"`
	CurrentBid  int    `json:"currentBid"`
	StartingBid int    `json:"startingBid"`
	Expires     int    `json:"expires"` // seconds; 0 = just ended, -1 = ended unsold
	Winning     bool   `json:"winning"` // account is the high bidder
}

// Ended reports whether the auction is over.
func (t Trade) Ended() bool { return t.Expires <= 0 }

// UnsoldExpired reports whether the auction ended without a single bid.
func (t Trade) UnsoldExpired() bool { return t.CurrentBid == 0 && t.Expires == -1 }

// WatchEntry maps a held trade to the item it is an auction of.
type WatchEntry struct {
	TradeID string `json:"tradeId"`
	ItemID  string `json:"itemId"`
}

// Snapshot is an immutable per-item aggregate over all tracked trades,
// emitted once per item per poll and never mutated afterwards.
type Snapshot struct {
	ItemID        string `json:"itemId"`
	Total         int    `json:"total"`         // trades tracked
	Active        int    `json:"active"`        // trades still running
	Bidding       int    `json:"bidding"`       // trades with a live bid
	Lowest        int    `json:"lowest"`        // lowest active bid
	Median        int    `json:"median"`        // lower-middle active bid
	Mean          int    `json:"mean"`          // mean active bid, truncated
	MinUnsoldList int    `json:"minUnsoldList"` // min starting bid among unsold-expired
}
