package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *TraderConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}
	if c.Market.BaseURL == "" {
		return errors.New("market.base_url is required")
	}
	if c.Market.Platform == "" {
		return errors.New("market.platform is required")
	}

	if c.Database.Host != "" {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	} else if c.Items.File == "" {
		return errors.New("either database.host or items.file is required")
	}

	if c.Bidding.MinCredits < 0 {
		return errors.New("bidding.min_credits must be >= 0")
	}
	if c.Bidding.ErrorLimit < 1 {
		return errors.New("bidding.error_limit must be >= 1")
	}
	if c.Bidding.DeviationPct <= 0 || c.Bidding.DeviationPct >= 1 {
		return fmt.Errorf("bidding.deviation_pct must be between 0 and 1, got %g", c.Bidding.DeviationPct)
	}
	if c.Bidding.CycleInterval <= 0 {
		return errors.New("bidding.cycle_interval must be positive")
	}
	if c.Bidding.TickInterval <= 0 {
		return errors.New("bidding.tick_interval must be positive")
	}

	if c.Watcher.HorizonSec < 1 {
		return errors.New("watcher.horizon_sec must be >= 1")
	}
	if c.Watcher.RepriceHorizonSec < 1 {
		return errors.New("watcher.reprice_horizon_sec must be >= 1")
	}
	if c.Watcher.PageSize < 1 {
		return errors.New("watcher.page_size must be >= 1")
	}
	if c.Watcher.MaxPages < 1 {
		return errors.New("watcher.max_pages must be >= 1")
	}

	for i, t := range c.Ladder.Tiers {
		if t.Step < 1 {
			return fmt.Errorf("ladder.tiers[%d].step must be >= 1", i)
		}
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}
	if c.Stream.Port < 1 || c.Stream.Port > 65535 {
		return fmt.Errorf("stream.port must be between 1 and 65535, got %d", c.Stream.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
