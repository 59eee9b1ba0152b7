package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPITimeout        = 30 * time.Second
	DefaultReferenceTimeout  = 15 * time.Second
	DefaultPlatform          = "xbox"
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 10
	DefaultMinConns          = 2
	DefaultItemsFile         = "configs/items.json"
	DefaultMinCredits        = 1000
	DefaultCycleInterval     = 5 * time.Second
	DefaultTickInterval      = 100 * time.Millisecond
	DefaultUpdateInterval    = time.Hour
	DefaultSessionMax        = 5 * time.Hour
	DefaultPacingPause       = time.Hour
	DefaultBanStep           = 5 * time.Minute
	DefaultErrorLimit        = 3
	DefaultDecayInterval     = 15 * time.Minute
	DefaultDeviationPct      = 0.10
	DefaultMinBidSamples     = 2
	DefaultHorizonSec        = 1200
	DefaultRepriceHorizonSec = 900
	DefaultPageSize          = 50
	DefaultMaxPages          = 5
	DefaultPollInterval      = time.Second
	DefaultSearchKind        = "player"
	DefaultMetricsPort       = 9090
	DefaultMetricsPath       = "/metrics"
	DefaultStreamPort        = 8080
	DefaultStreamPath        = "/stream"
)

func (c *TraderConfig) applyDefaults() {
	// Market defaults
	if c.Market.Timeout == 0 {
		c.Market.Timeout = DefaultAPITimeout
	}
	if c.Market.Platform == "" {
		c.Market.Platform = DefaultPlatform
	}

	// Reference lookup defaults
	if c.Reference.Timeout == 0 {
		c.Reference.Timeout = DefaultReferenceTimeout
	}

	// Database defaults (only meaningful when a host is configured)
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Item file store defaults
	if c.Items.File == "" {
		c.Items.File = DefaultItemsFile
	}

	// Bidding defaults
	if c.Bidding.MinCredits == 0 {
		c.Bidding.MinCredits = DefaultMinCredits
	}
	if c.Bidding.CycleInterval == 0 {
		c.Bidding.CycleInterval = DefaultCycleInterval
	}
	if c.Bidding.TickInterval == 0 {
		c.Bidding.TickInterval = DefaultTickInterval
	}
	if c.Bidding.UpdateInterval == 0 {
		c.Bidding.UpdateInterval = DefaultUpdateInterval
	}
	if c.Bidding.SessionMax == 0 {
		c.Bidding.SessionMax = DefaultSessionMax
	}
	if c.Bidding.PacingPause == 0 {
		c.Bidding.PacingPause = DefaultPacingPause
	}
	if c.Bidding.BanStep == 0 {
		c.Bidding.BanStep = DefaultBanStep
	}
	if c.Bidding.ErrorLimit == 0 {
		c.Bidding.ErrorLimit = DefaultErrorLimit
	}
	if c.Bidding.DecayInterval == 0 {
		c.Bidding.DecayInterval = DefaultDecayInterval
	}
	if c.Bidding.DeviationPct == 0 {
		c.Bidding.DeviationPct = DefaultDeviationPct
	}
	if c.Bidding.MinBidSamples == 0 {
		c.Bidding.MinBidSamples = DefaultMinBidSamples
	}

	// Watcher defaults
	if c.Watcher.HorizonSec == 0 {
		c.Watcher.HorizonSec = DefaultHorizonSec
	}
	if c.Watcher.RepriceHorizonSec == 0 {
		c.Watcher.RepriceHorizonSec = DefaultRepriceHorizonSec
	}
	if c.Watcher.PageSize == 0 {
		c.Watcher.PageSize = DefaultPageSize
	}
	if c.Watcher.MaxPages == 0 {
		c.Watcher.MaxPages = DefaultMaxPages
	}
	if c.Watcher.PollInterval == 0 {
		c.Watcher.PollInterval = DefaultPollInterval
	}
	if c.Watcher.SearchKind == "" {
		c.Watcher.SearchKind = DefaultSearchKind
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	// Stream defaults
	if c.Stream.Port == 0 {
		c.Stream.Port = DefaultStreamPort
	}
	if c.Stream.Path == "" {
		c.Stream.Path = DefaultStreamPath
	}
}
