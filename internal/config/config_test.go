package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestIncrementFor(t *testing.T) {
	cfg := Default()

	tests := []struct {
		category string
		want     int64
	}{
		{"allrounders", 2000},
		{"allrounders-1", 1000},
		{"best-batters-bowlers", 500},
		{"wk-bat-bowl", 500},
		{"new-to-game", 200},
		{"mystery", 500},        // falls back to default
		{"  Allrounders ", 2000}, // normalized
	}
	for _, tt := range tests {
		got := cfg.IncrementFor(tt.category)
		if !got.Equal(decimal.NewFromInt(tt.want)) {
			t.Errorf("IncrementFor(%q) = %s, want %d", tt.category, got, tt.want)
		}
	}
}

func TestBudgetFor(t *testing.T) {
	cfg := Default()

	if got := cfg.BudgetFor("Kingsmen"); !got.Equal(decimal.NewFromInt(97000)) {
		t.Errorf("expected override 97000 for Kingsmen, got %s", got)
	}
	if got := cfg.BudgetFor("MINISTRY OF DARKNESS"); !got.Equal(decimal.NewFromInt(95000)) {
		t.Errorf("expected case-insensitive override 95000, got %s", got)
	}
	if got := cfg.BudgetFor("Some Other Team"); !got.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("expected default budget 100000, got %s", got)
	}
}

func TestCategoryCapFor(t *testing.T) {
	cfg := Default()
	cfg.ScarceCategories = []string{"mystery"}

	if got := cfg.CategoryCapFor("mystery"); got != 1 {
		t.Errorf("expected scarce cap 1, got %d", got)
	}
	if got := cfg.CategoryCapFor("allrounders"); got != 2 {
		t.Errorf("expected generic cap 2, got %d", got)
	}
}

func TestIsBlocked(t *testing.T) {
	cfg := Default()

	if !cfg.IsBlocked("allrounders-p") {
		t.Error("expected allrounders-p to be blocked")
	}
	if !cfg.IsBlocked(" Allrounders-P ") {
		t.Error("expected normalized category to be blocked")
	}
	if cfg.IsBlocked("allrounders") {
		t.Error("allrounders should not be blocked")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty category order", func(c *Config) { c.CategoryOrder = nil }},
		{"zero roster cap", func(c *Config) { c.RosterCap = 0 }},
		{"zero category cap", func(c *Config) { c.CategoryCap = 0 }},
		{"negative budget", func(c *Config) { c.DefaultBudget = decimal.NewFromInt(-1) }},
		{"zero default increment", func(c *Config) { c.DefaultIncrement = decimal.Zero }},
		{"negative increment", func(c *Config) {
			c.Increments = map[string]decimal.Decimal{"x": decimal.NewFromInt(-5)}
		}},
		{"negative override", func(c *Config) {
			c.BudgetOverrides = map[string]decimal.Decimal{"x": decimal.NewFromInt(-5)}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadFileLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auction.json")
	content := `{"roster_cap": 8, "default_budget": "50000"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.RosterCap != 8 {
		t.Errorf("expected roster cap 8 from file, got %d", cfg.RosterCap)
	}
	if !cfg.DefaultBudget.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("expected budget 50000 from file, got %s", cfg.DefaultBudget)
	}
	// Untouched fields keep defaults
	if len(cfg.CategoryOrder) != 6 {
		t.Errorf("expected default category order preserved, got %v", cfg.CategoryOrder)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/auction.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auction.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
