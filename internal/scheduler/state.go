package scheduler

import "time"

// State is the scheduler's position in the session state machine.
type State int

const (
	// Idle means no session is running and nothing is scheduled.
	Idle State = iota
	// Bidding means the session is live and bidder cycles are spawned
	// on the configured cadence.
	Bidding
	// PriceUpdating means a watcher is repricing the candidate list;
	// no bidder cycles are spawned until it completes.
	PriceUpdating
	// Paused means the session was suspended (pacing or error backoff)
	// with an automatic resume scheduled.
	Paused
	// LoggedOut means the remote session expired and the scheduler is
	// re-authenticating before restarting.
	LoggedOut
)

var stateNames = [...]string{"idle", "bidding", "price_updating", "paused", "logged_out"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// SessionState holds the counters owned exclusively by the scheduler.
// Workers never see it; they only report messages.
type SessionState struct {
	Cycle      int             // bidder cycles spawned this session
	Errors     int             // consecutive-error counter
	BanWait    int             // escalation level, never reset
	StartedAt  time.Time       // current session start
	LastUpdate time.Time       // last completed price update
	Repriced   map[string]bool // item ids done in the current update pass
	Won        int             // cumulative auctions won
	Sold       int             // cumulative items sold
}
