// Package pricing applies the sell-anchored pricing policy to candidate
// items: buy at 90% and list buy-it-now at 125% of the target sell
// price, both snapped onto the price ladder.
package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hjmartin/autobidder/internal/ladder"
	"github.com/hjmartin/autobidder/internal/model"
)

// Store persists the candidate item list.
type Store interface {
	SaveItems(ctx context.Context, items []*model.Item) error
}

// Notify delivers a message to the engine's outbound stream.
type Notify func(model.Message)

// Policy derives and persists item policy prices.
type Policy struct {
	ladder *ladder.Ladder
	store  Store
	notify Notify
	logger *slog.Logger
}

// New creates a pricing policy.
func New(l *ladder.Ladder, store Store, notify Notify, logger *slog.Logger) *Policy {
	if logger == nil {
		logger = slog.Default()
	}
	if notify == nil {
		notify = func(model.Message) {}
	}
	return &Policy{ladder: l, store: store, notify: notify, logger: logger}
}

// SetPrice sets item's sell price and derives buy and bin from it, then
// persists the full list. items must contain item.
func (p *Policy) SetPrice(ctx context.Context, items []*model.Item, item *model.Item, sell int) error {
	item.Sell = sell
	item.Buy = p.ladder.Round(int(0.9 * float64(sell)))
	item.Bin = p.ladder.Round(int(1.25 * float64(sell)))

	if err := p.store.SaveItems(ctx, items); err != nil {
		return fmt.Errorf("save items: %w", err)
	}

	p.logger.Info("item repriced",
		"item", item.Name,
		"buy", item.Buy,
		"sell", item.Sell,
		"bin", item.Bin,
	)
	p.notify(model.LogLine{
		Time: time.Now(),
		Text: fmt.Sprintf("setting %s to %d/%d/%d", item.Name, item.Buy, item.Sell, item.Bin),
	})
	return nil
}
