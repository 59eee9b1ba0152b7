package watch

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/hjmartin/autobidder/internal/bus"
	"github.com/hjmartin/autobidder/internal/market"
	"github.com/hjmartin/autobidder/internal/model"
)

// Config holds watcher tuning.
type Config struct {
	HorizonSec   int           // max remaining seconds for discovery (default: 1200)
	PageSize     int           // search page size (default: 50)
	MaxPages     int           // max pages per item (default: 5)
	PollInterval time.Duration // delay between status polls (default: 1s)
	SearchKind   string        // auction search kind (default: "player")
}

// DefaultConfig returns sensible defaults for a full scan.
func DefaultConfig() Config {
	return Config{
		HorizonSec:   1200,
		PageSize:     50,
		MaxPages:     5,
		PollInterval: time.Second,
		SearchKind:   "player",
	}
}

// Watcher samples the market for a set of items and streams snapshots
// until no tracked trade remains active. It owns the remote session for
// its whole run.
type Watcher struct {
	cfg     Config
	client  market.Client
	itemIDs []string
	out     *bus.Queue
	logger  *slog.Logger
}

// New creates a Watcher.
func New(cfg Config, client market.Client, itemIDs []string, out *bus.Queue, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 50
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = 5
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.SearchKind == "" {
		cfg.SearchKind = "player"
	}
	return &Watcher{
		cfg:     cfg,
		client:  client,
		itemIDs: itemIDs,
		out:     out,
		logger:  logger,
	}
}

// Run executes one watch session to natural completion.
func (w *Watcher) Run(ctx context.Context) {
	if err := w.client.ResetSession(ctx); err != nil {
		w.report(err)
		return
	}

	trades, err := w.discover(ctx)
	if err != nil {
		w.report(err)
		return
	}

	total := 0
	for _, m := range trades {
		total += len(m)
	}
	if total == 0 {
		w.logger.Info("nothing to watch", "items", len(w.itemIDs))
		return
	}
	w.logger.Info("watch started", "items", len(w.itemIDs), "trades", total, "horizon_sec", w.cfg.HorizonSec)

	w.poll(ctx, trades)
}

// discover pages through search results per item, stopping at the first
// auction expiring beyond the horizon. Results are ordered
// soonest-expiring first, which bounds the paging cost.
func (w *Watcher) discover(ctx context.Context) (map[string]map[string]model.Trade, error) {
	trades := make(map[string]map[string]model.Trade, len(w.itemIDs))

	for _, itemID := range w.itemIDs {
		trades[itemID] = make(map[string]model.Trade)

		for page := 0; page < w.cfg.MaxPages; page++ {
			found, err := w.client.SearchAuctions(ctx, w.cfg.SearchKind, itemID, page*w.cfg.PageSize, w.cfg.PageSize)
			if err != nil {
				return nil, err
			}

			stop := len(found) < w.cfg.PageSize
			for _, tr := range found {
				if tr.Expires > w.cfg.HorizonSec {
					stop = true
					break
				}
				trades[itemID][tr.TradeID] = tr
			}
			if stop {
				break
			}
		}
	}

	return trades, nil
}

// poll updates tracked trades until all have ended, emitting one
// snapshot per item per iteration. Trades are never dropped; expired
// records feed the final aggregation.
func (w *Watcher) poll(ctx context.Context, trades map[string]map[string]model.Trade) {
	for {
		anyActive := false

		for _, itemID := range w.itemIDs {
			tracked := trades[itemID]
			if len(tracked) == 0 {
				continue
			}

			ids := make([]string, 0, len(tracked))
			for id := range tracked {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			updated, err := w.client.TradeStatus(ctx, ids)
			if err != nil {
				w.report(err)
				return
			}
			for _, tr := range updated {
				tracked[tr.TradeID] = tr
				if tr.Expires > 0 {
					anyActive = true
				}
			}

			w.out.Send(model.PriceSnapshot{Snapshot: aggregate(itemID, tracked)})
		}

		if !anyActive {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.cfg.PollInterval):
		}
	}
}

func (w *Watcher) report(err error) {
	w.logger.Warn("watch aborted", "err", err)
	w.out.Send(market.Report(err))
}
