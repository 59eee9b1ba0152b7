// Package refprice looks up advisory reference prices from an external
// price-tracking site. Results are best effort and only steer the
// fast path of price updates; the live market remains authoritative.
package refprice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Prices maps platform name to a reference buy-it-now price.
type Prices map[string]int

// Lookup resolves a display name to per-platform reference prices.
type Lookup interface {
	BuyNow(ctx context.Context, name string) (Prices, error)
}

// LookupFunc is a function adapter for Lookup.
type LookupFunc func(ctx context.Context, name string) (Prices, error)

func (f LookupFunc) BuyNow(ctx context.Context, name string) (Prices, error) {
	return f(ctx, name)
}

// HTTPLookup queries a price-tracking site over HTTP.
type HTTPLookup struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPLookup creates a lookup client.
func NewHTTPLookup(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPLookup {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &HTTPLookup{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// BuyNow fetches reference buy-it-now prices for a display name.
func (l *HTTPLookup) BuyNow(ctx context.Context, name string) (Prices, error) {
	query := url.Values{}
	query.Set("name", name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup %q: status %d", name, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var body struct {
		Prices Prices `json:"prices"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	l.logger.Debug("reference prices fetched", "name", name, "prices", body.Prices)
	return body.Prices, nil
}
