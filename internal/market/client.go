package market

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hjmartin/autobidder/internal/model"
)

// Client is the capability surface the engine depends on. Exactly one
// worker (or the scheduler between workers) uses the session at a time.
type Client interface {
	// ResetSession re-establishes an authenticated session.
	ResetSession(ctx context.Context) error

	// SearchAuctions pages through live auctions for an item, ordered by
	// soonest-expiring first.
	SearchAuctions(ctx context.Context, kind, itemID string, start, pageSize int) ([]model.Trade, error)

	// TradeStatus batch-fetches current state for a set of trade ids.
	TradeStatus(ctx context.Context, ids []string) ([]model.Trade, error)

	// Watchlist returns the trades currently held by the account.
	Watchlist(ctx context.Context) ([]model.WatchEntry, error)

	// Bid places a bid on a trade.
	Bid(ctx context.Context, tradeID string, amount int) error

	// Credits returns the account's remaining credits.
	Credits(ctx context.Context) (int, error)
}

// HTTPClient implements Client against the marketplace REST API.
type HTTPClient struct {
	baseURL    string
	platform   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// NewHTTPClient creates a marketplace API client.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = d
	}
}

// WithPlatform sets the console platform sent with every request.
func WithPlatform(platform string) Option {
	return func(c *HTTPClient) {
		c.platform = platform
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}
