package market

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hjmartin/autobidder/internal/model"
)

// tradeJSON is the wire form of one auction.
type tradeJSON struct {
	TradeID     string `json:"tradeId"`
	ItemID      string `json:"itemId"`
	CurrentBid  int    `json:"currentBid"`
	StartingBid int    `json:"startingBid"`
	Expires     int    `json:"expires"`
	BidState    string `json:"bidState"` // "highest" when the account leads
}

func (t tradeJSON) toModel() model.Trade {
	return model.Trade{
		TradeID:     t.TradeID,
		ItemID:      t.ItemID,
		CurrentBid:  t.CurrentBid,
		StartingBid: t.StartingBid,
		Expires:     t.Expires,
		Winning:     t.BidState == "highest",
	}
}

// ResetSession re-establishes the authenticated session.
func (c *HTTPClient) ResetSession(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/session/reset", nil, nil)
	return err
}

// SearchAuctions fetches one page of live auctions for an item.
func (c *HTTPClient) SearchAuctions(ctx context.Context, kind, itemID string, start, pageSize int) ([]model.Trade, error) {
	query := url.Values{}
	query.Set("type", kind)
	query.Set("itemId", itemID)
	query.Set("start", strconv.Itoa(start))
	query.Set("num", strconv.Itoa(pageSize))

	var resp struct {
		AuctionInfo []tradeJSON `json:"auctionInfo"`
	}
	if err := c.get(ctx, "/auctions", query, &resp); err != nil {
		return nil, err
	}

	trades := make([]model.Trade, 0, len(resp.AuctionInfo))
	for _, t := range resp.AuctionInfo {
		trades = append(trades, t.toModel())
	}
	return trades, nil
}

// TradeStatus batch-fetches the current state of the given trades.
func (c *HTTPClient) TradeStatus(ctx context.Context, ids []string) ([]model.Trade, error) {
	query := url.Values{}
	query.Set("tradeIds", strings.Join(ids, ","))

	var resp struct {
		AuctionInfo []tradeJSON `json:"auctionInfo"`
	}
	if err := c.get(ctx, "/trades/status", query, &resp); err != nil {
		return nil, err
	}

	trades := make([]model.Trade, 0, len(resp.AuctionInfo))
	for _, t := range resp.AuctionInfo {
		trades = append(trades, t.toModel())
	}
	return trades, nil
}

// Watchlist returns the trades currently held by the account.
func (c *HTTPClient) Watchlist(ctx context.Context) ([]model.WatchEntry, error) {
	var resp struct {
		Entries []model.WatchEntry `json:"entries"`
	}
	if err := c.get(ctx, "/watchlist", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// Bid places a bid on a trade.
func (c *HTTPClient) Bid(ctx context.Context, tradeID string, amount int) error {
	payload := struct {
		Bid int `json:"bid"`
	}{Bid: amount}

	_, err := c.doRequest(ctx, http.MethodPut, "/trades/"+tradeID+"/bid", nil, payload)
	return err
}

// Credits returns the account's remaining credits.
func (c *HTTPClient) Credits(ctx context.Context) (int, error) {
	var resp struct {
		Credits int `json:"credits"`
	}
	if err := c.get(ctx, "/credits", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Credits, nil
}
