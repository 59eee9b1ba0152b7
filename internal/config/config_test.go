package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: test-trader
market:
  base_url: https://utas.example.test/ut/game
  platform: ps
bidding:
  min_credits: 2500
  auto_update: true
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-trader" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-trader")
	}
	if cfg.Market.BaseURL != "https://utas.example.test/ut/game" {
		t.Errorf("Market.BaseURL = %q", cfg.Market.BaseURL)
	}
	if cfg.Market.Platform != "ps" {
		t.Errorf("Market.Platform = %q, want %q", cfg.Market.Platform, "ps")
	}
	if cfg.Bidding.MinCredits != 2500 {
		t.Errorf("Bidding.MinCredits = %d, want 2500", cfg.Bidding.MinCredits)
	}
	if !cfg.Bidding.AutoUpdate {
		t.Error("Bidding.AutoUpdate = false, want true")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
instance:
  id: test-trader
market:
  base_url: https://utas.example.test/ut/game
database:
  host: localhost
  name: trader
  user: trader
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: test-trader
market:
  base_url: https://utas.example.test/ut/game
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Market.Platform != DefaultPlatform {
		t.Errorf("Market.Platform = %q, want default %q", cfg.Market.Platform, DefaultPlatform)
	}
	if cfg.Bidding.CycleInterval != DefaultCycleInterval {
		t.Errorf("Bidding.CycleInterval = %v, want default %v", cfg.Bidding.CycleInterval, DefaultCycleInterval)
	}
	if cfg.Bidding.SessionMax != 5*time.Hour {
		t.Errorf("Bidding.SessionMax = %v, want 5h", cfg.Bidding.SessionMax)
	}
	if cfg.Bidding.BanStep != 5*time.Minute {
		t.Errorf("Bidding.BanStep = %v, want 5m", cfg.Bidding.BanStep)
	}
	if cfg.Watcher.HorizonSec != DefaultHorizonSec {
		t.Errorf("Watcher.HorizonSec = %d, want default %d", cfg.Watcher.HorizonSec, DefaultHorizonSec)
	}
	if cfg.Watcher.RepriceHorizonSec != DefaultRepriceHorizonSec {
		t.Errorf("Watcher.RepriceHorizonSec = %d, want default %d", cfg.Watcher.RepriceHorizonSec, DefaultRepriceHorizonSec)
	}
	if cfg.Metrics.Port != DefaultMetricsPort {
		t.Errorf("Metrics.Port = %d, want default %d", cfg.Metrics.Port, DefaultMetricsPort)
	}
	if cfg.Items.File != DefaultItemsFile {
		t.Errorf("Items.File = %q, want default %q", cfg.Items.File, DefaultItemsFile)
	}
}

func TestValidate(t *testing.T) {
	valid := func() TraderConfig {
		cfg := TraderConfig{
			Instance: InstanceConfig{ID: "test"},
			Market:   MarketConfig{BaseURL: "https://utas.example.test", Platform: "xbox"},
			Items:    ItemsConfig{File: "items.json"},
		}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*TraderConfig)
		wantErr string
	}{
		{
			name:    "missing instance id",
			mutate:  func(c *TraderConfig) { c.Instance.ID = "" },
			wantErr: "instance.id is required",
		},
		{
			name:    "missing market url",
			mutate:  func(c *TraderConfig) { c.Market.BaseURL = "" },
			wantErr: "market.base_url is required",
		},
		{
			name: "no store at all",
			mutate: func(c *TraderConfig) {
				c.Database.Host = ""
				c.Items.File = ""
			},
			wantErr: "either database.host or items.file is required",
		},
		{
			name: "db missing password",
			mutate: func(c *TraderConfig) {
				c.Database.Host = "localhost"
				c.Database.Name = "trader"
				c.Database.User = "trader"
				c.Database.Password = ""
			},
			wantErr: "database.password is required",
		},
		{
			name: "db min conns exceeds max",
			mutate: func(c *TraderConfig) {
				c.Database.Host = "localhost"
				c.Database.Name = "trader"
				c.Database.User = "trader"
				c.Database.Password = "pass"
				c.Database.MinConns = 10
				c.Database.MaxConns = 5
			},
			wantErr: "database.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name:    "bad deviation",
			mutate:  func(c *TraderConfig) { c.Bidding.DeviationPct = 1.5 },
			wantErr: "bidding.deviation_pct must be between 0 and 1, got 1.5",
		},
		{
			name:    "bad ladder tier",
			mutate:  func(c *TraderConfig) { c.Ladder.Tiers = []TierConfig{{Ceiling: 100, Step: 0}} },
			wantErr: "ladder.tiers[0].step must be >= 1",
		},
		{
			name:    "valid config",
			mutate:  func(c *TraderConfig) {},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}
