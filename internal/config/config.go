package config

import "time"

// TraderConfig is the root configuration for a trading session engine.
type TraderConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Market    MarketConfig    `yaml:"market"`
	Reference ReferenceConfig `yaml:"reference"`
	Database  DBConfig        `yaml:"database"`
	Items     ItemsConfig     `yaml:"items"`
	Bidding   BiddingConfig   `yaml:"bidding"`
	Watcher   WatcherConfig   `yaml:"watcher"`
	Ladder    LadderConfig    `yaml:"ladder"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Stream    StreamConfig    `yaml:"stream"`
}

// InstanceConfig identifies this trader.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// MarketConfig holds remote marketplace API settings.
type MarketConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Platform string        `yaml:"platform"` // e.g. "xbox", "ps"
	Timeout  time.Duration `yaml:"timeout"`
}

// ReferenceConfig holds the advisory reference-price lookup settings.
type ReferenceConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DBConfig holds the optional Postgres item store connection. When Host
// is empty the engine falls back to the JSON file store.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ItemsConfig holds the JSON file store settings.
type ItemsConfig struct {
	File string `yaml:"file"`
}

// BiddingConfig holds scheduler and bidder pacing settings.
type BiddingConfig struct {
	MinCredits     int           `yaml:"min_credits"`
	CycleInterval  time.Duration `yaml:"cycle_interval"`
	TickInterval   time.Duration `yaml:"tick_interval"`
	AutoUpdate     bool          `yaml:"auto_update"`
	UpdateInterval time.Duration `yaml:"update_interval"`
	SessionMax     time.Duration `yaml:"session_max"`
	PacingPause    time.Duration `yaml:"pacing_pause"`
	BanStep        time.Duration `yaml:"ban_step"`
	ErrorLimit     int           `yaml:"error_limit"`
	DecayInterval  time.Duration `yaml:"decay_interval"`
	DeviationPct   float64       `yaml:"deviation_pct"`
	MinBidSamples  int           `yaml:"min_bid_samples"`
}

// WatcherConfig holds market sampling settings.
type WatcherConfig struct {
	HorizonSec        int           `yaml:"horizon_sec"`
	RepriceHorizonSec int           `yaml:"reprice_horizon_sec"`
	PageSize          int           `yaml:"page_size"`
	MaxPages          int           `yaml:"max_pages"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	SearchKind        string        `yaml:"search_kind"`
}

// LadderConfig holds the price ladder tier table. An empty table selects
// the marketplace's published tiers.
type LadderConfig struct {
	Tiers []TierConfig `yaml:"tiers"`
}

// TierConfig is one ladder band; the final tier uses ceiling 0.
type TierConfig struct {
	Ceiling int `yaml:"ceiling"`
	Step    int `yaml:"step"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// StreamConfig holds the websocket event stream settings.
type StreamConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
