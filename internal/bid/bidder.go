package bid

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hjmartin/autobidder/internal/bus"
	"github.com/hjmartin/autobidder/internal/ladder"
	"github.com/hjmartin/autobidder/internal/market"
	"github.com/hjmartin/autobidder/internal/metrics"
	"github.com/hjmartin/autobidder/internal/model"
)

// Config holds bidder tuning.
type Config struct {
	MinCredits int    // credits floor that bidding never crosses
	PageSize   int    // search page size (default: 50)
	SearchKind string // auction search kind (default: "player")
}

// Bidder evaluates the candidate list against the live market for one
// cycle. It owns the remote session while running.
type Bidder struct {
	cfg      Config
	client   market.Client
	ladder   *ladder.Ladder
	items    []*model.Item
	prior    map[string]string // tradeID -> itemID, watchlist before the cycle
	credited map[string]bool   // trade ids already counted as wins in earlier cycles
	out      *bus.Queue
	logger   *slog.Logger
}

// New creates a Bidder for one cycle. prior is the watchlist observed by
// the scheduler before spawning, used to reconcile wins and sells.
// credited carries the trade ids whose wins were already reported; it is
// shared across cycles so a won trade left on the watchlist is not
// counted again. A nil credited starts a fresh set.
func New(cfg Config, client market.Client, l *ladder.Ladder, items []*model.Item, prior map[string]string, credited map[string]bool, out *bus.Queue, logger *slog.Logger) *Bidder {
	if logger == nil {
		logger = slog.Default()
	}
	if credited == nil {
		credited = make(map[string]bool)
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 50
	}
	if cfg.SearchKind == "" {
		cfg.SearchKind = "player"
	}
	return &Bidder{
		cfg:      cfg,
		client:   client,
		ladder:   l,
		items:    items,
		prior:    prior,
		credited: credited,
		out:      out,
		logger:   logger,
	}
}

// Run executes one evaluate-and-bid cycle.
func (b *Bidder) Run(ctx context.Context) {
	entries, err := b.client.Watchlist(ctx)
	if err != nil {
		b.report(err)
		return
	}
	current := make(map[string]string, len(entries))
	held := make(map[string]bool, len(entries))
	for _, e := range entries {
		current[e.TradeID] = e.ItemID
		held[e.ItemID] = true
	}

	credits, err := b.client.Credits(ctx)
	if err != nil {
		b.report(err)
		return
	}
	metrics.SetCredits(credits)

	// tradeID -> true for every bid placed this cycle; a cycle never bids
	// twice on the same trade.
	placed := make(map[string]bool)

	for _, item := range b.items {
		if item.Buy <= 0 || held[item.ID] {
			continue
		}

		found, err := b.client.SearchAuctions(ctx, b.cfg.SearchKind, item.ID, 0, b.cfg.PageSize)
		if err != nil {
			b.report(err)
			return
		}

		for _, tr := range found {
			if tr.Expires <= 0 || placed[tr.TradeID] {
				continue
			}
			if _, already := current[tr.TradeID]; already {
				continue
			}

			amount := tr.StartingBid
			if tr.CurrentBid > 0 {
				amount = b.ladder.Increment(tr.CurrentBid)
			}
			if amount > item.Buy {
				continue
			}
			if credits-amount <= b.cfg.MinCredits {
				b.log("credits floor reached, skipping %s at %d", item.Name, amount)
				continue
			}

			if err := b.client.Bid(ctx, tr.TradeID, amount); err != nil {
				b.report(err)
				return
			}
			credits -= amount
			placed[tr.TradeID] = true
			current[tr.TradeID] = item.ID
			metrics.BidPlaced()
			metrics.SetCredits(credits)
			b.log("bid %d on %s (trade %s, expires %ds)", amount, item.Name, tr.TradeID, tr.Expires)
		}
	}

	won, sold, err := b.reconcile(ctx, current, placed)
	if err != nil {
		b.report(err)
		return
	}

	b.out.Send(model.CycleResult{Won: won, Sold: sold})
}

// reconcile counts wins across trades we hold or just bid on, and sells
// as prior watchlist entries that have left the market. Each trade is
// credited at most once: a win is recorded the first cycle the trade
// shows ended-and-winning, and a won trade never counts as a sell.
func (b *Bidder) reconcile(ctx context.Context, current map[string]string, placed map[string]bool) (won, sold int, err error) {
	ids := make([]string, 0, len(b.prior)+len(placed))
	seen := make(map[string]bool, len(b.prior)+len(placed))
	for id := range b.prior {
		ids = append(ids, id)
		seen[id] = true
	}
	for id := range placed {
		if !seen[id] {
			ids = append(ids, id)
		}
	}

	if len(ids) > 0 {
		trades, err := b.client.TradeStatus(ctx, ids)
		if err != nil {
			return 0, 0, err
		}
		for _, tr := range trades {
			if tr.Ended() && tr.Winning && !b.credited[tr.TradeID] {
				b.credited[tr.TradeID] = true
				won++
				b.log("won trade %s at %d", tr.TradeID, tr.CurrentBid)
			}
		}
	}

	for id := range b.prior {
		if b.credited[id] {
			continue
		}
		if _, still := current[id]; !still {
			sold++
		}
	}

	if won > 0 {
		metrics.AuctionsWon(won)
	}
	if sold > 0 {
		metrics.ItemsSold(sold)
	}
	return won, sold, nil
}

func (b *Bidder) report(err error) {
	b.logger.Warn("bid cycle aborted", "err", err)
	b.out.Send(market.Report(err))
}

func (b *Bidder) log(format string, args ...any) {
	b.out.Send(model.LogLine{Time: time.Now(), Text: fmt.Sprintf(format, args...)})
}
