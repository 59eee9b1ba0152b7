// Package metrics exposes Prometheus collectors for the trading engine.
//
// Primary series:
//   - trader_cycles_total                   – bidding cycles spawned
//   - trader_bids_placed_total              – bids placed on auctions
//   - trader_auctions_won_total             – auctions won
//   - trader_items_sold_total               – items sold off the market
//   - trader_errors_total{kind}             – classified marketplace errors
//   - trader_state_transitions_total{from,to} – scheduler state changes
//   - trader_pauses_total{reason}           – pacing and ban-wait pauses
//   - trader_credits                        – account credits (gauge)
//   - trader_state{state}                   – active state indicator (0/1)
//
// Registered in init() and served by the HTTP handler started in
// cmd/trader at /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	cycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trader_cycles_total",
			Help: "Bidding cycles spawned",
		},
	)

	bidsPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trader_bids_placed_total",
			Help: "Bids placed on auctions",
		},
	)

	auctionsWon = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trader_auctions_won_total",
			Help: "Auctions won",
		},
	)

	itemsSold = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trader_items_sold_total",
			Help: "Items sold off the market",
		},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trader_errors_total",
			Help: "Marketplace errors by kind",
		},
		[]string{"kind"},
	)

	stateTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trader_state_transitions_total",
			Help: "Scheduler state transitions",
		},
		[]string{"from", "to"},
	)

	pauses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trader_pauses_total",
			Help: "Session pauses by reason (pacing|errors)",
		},
		[]string{"reason"},
	)

	credits = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trader_credits",
			Help: "Account credits",
		},
	)

	// trader_state exposes one labeled series per state flipped between
	// 0/1 to keep dashboards simple.
	stateGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trader_state",
			Help: "Active scheduler state indicator (one series per state).",
		},
		[]string{"state"},
	)
)

func init() {
	prometheus.MustRegister(cycles, bidsPlaced, auctionsWon, itemsSold)
	prometheus.MustRegister(errorsTotal, stateTransitions, pauses)
	prometheus.MustRegister(credits, stateGauge)
}

// CycleSpawned counts one bidding cycle.
func CycleSpawned() { cycles.Inc() }

// BidPlaced counts one placed bid.
func BidPlaced() { bidsPlaced.Inc() }

// AuctionsWon adds newly won auctions.
func AuctionsWon(n int) { auctionsWon.Add(float64(n)) }

// ItemsSold adds newly sold items.
func ItemsSold(n int) { itemsSold.Add(float64(n)) }

// ErrorObserved counts a classified error.
func ErrorObserved(kind string) { errorsTotal.WithLabelValues(kind).Inc() }

// StateTransition counts a scheduler state change and flips the state
// indicator series.
func StateTransition(from, to string) {
	stateTransitions.WithLabelValues(from, to).Inc()
	stateGauge.WithLabelValues(from).Set(0)
	stateGauge.WithLabelValues(to).Set(1)
}

// PauseTriggered counts a pause by reason.
func PauseTriggered(reason string) { pauses.WithLabelValues(reason).Inc() }

// SetCredits records the latest credits snapshot.
func SetCredits(n int) { credits.Set(float64(n)) }
