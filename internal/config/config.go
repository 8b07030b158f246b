// Package config holds the auction ruleset. Everything that varied between
// editions of the event (category order, bid increments, roster caps,
// blocked categories, team budgets) is data here, not logic in the engine.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/ashwinpillai/eclauction/internal/models"
)

// Config is the full auction ruleset
type Config struct {
	// CategoryOrder is the fixed primary-phase sequence of category tags
	CategoryOrder []string `json:"category_order"`

	// Increments maps a category tag to its bid step; DefaultIncrement
	// applies to any unconfigured category
	Increments       map[string]decimal.Decimal `json:"increments"`
	DefaultIncrement decimal.Decimal            `json:"default_increment"`

	// RosterCap is the absolute per-team roster size limit, captain and
	// vice-captain included
	RosterCap int `json:"roster_cap"`

	// CategoryCap is the generic per-team per-category limit;
	// ScarceCategories are limited to one; BlockedCategories cannot be
	// bought at all
	CategoryCap       int      `json:"category_cap"`
	ScarceCategories  []string `json:"scarce_categories"`
	BlockedCategories []string `json:"blocked_categories"`

	// DefaultBudget is the per-team purse; BudgetOverrides (keyed by
	// normalized team name) replace it for specific teams
	DefaultBudget   decimal.Decimal            `json:"default_budget"`
	BudgetOverrides map[string]decimal.Decimal `json:"budget_overrides"`
}

// Default returns the ruleset of the original event
func Default() *Config {
	return &Config{
		CategoryOrder: []string{
			"new-to-game",
			"wk-bat-bowl",
			"mystery",
			"best-batters-bowlers",
			"allrounders-1",
			"allrounders",
		},
		Increments: map[string]decimal.Decimal{
			"allrounders":          decimal.NewFromInt(2000),
			"allrounders-1":        decimal.NewFromInt(1000),
			"best-batters-bowlers": decimal.NewFromInt(500),
			"wk-bat-bowl":          decimal.NewFromInt(500),
			"new-to-game":          decimal.NewFromInt(200),
		},
		DefaultIncrement:  decimal.NewFromInt(500),
		RosterCap:         10,
		CategoryCap:       2,
		ScarceCategories:  nil,
		BlockedCategories: []string{"allrounders-p"},
		DefaultBudget:     decimal.NewFromInt(100000),
		BudgetOverrides: map[string]decimal.Decimal{
			"ministry of darkness": decimal.NewFromInt(95000),
			"kingsmen":             decimal.NewFromInt(97000),
			"striking stallions":   decimal.NewFromInt(97000),
		},
	}
}

// LoadFile reads a JSON ruleset from path, layered over the defaults:
// fields absent from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the ruleset for values the engine cannot run with
func (c *Config) Validate() error {
	if len(c.CategoryOrder) == 0 {
		return fmt.Errorf("category_order must not be empty")
	}
	if c.RosterCap <= 0 {
		return fmt.Errorf("roster_cap must be positive, got %d", c.RosterCap)
	}
	if c.CategoryCap <= 0 {
		return fmt.Errorf("category_cap must be positive, got %d", c.CategoryCap)
	}
	if c.DefaultBudget.Sign() < 0 {
		return fmt.Errorf("default_budget must not be negative, got %s", c.DefaultBudget)
	}
	if c.DefaultIncrement.Sign() <= 0 {
		return fmt.Errorf("default_increment must be positive, got %s", c.DefaultIncrement)
	}
	for cat, inc := range c.Increments {
		if inc.Sign() <= 0 {
			return fmt.Errorf("increment for category %q must be positive, got %s", cat, inc)
		}
	}
	for name, budget := range c.BudgetOverrides {
		if budget.Sign() < 0 {
			return fmt.Errorf("budget override for team %q must not be negative, got %s", name, budget)
		}
	}
	return nil
}

// IncrementFor returns the bid step for a category
func (c *Config) IncrementFor(category string) decimal.Decimal {
	if inc, ok := c.Increments[models.NormalizeCategory(category)]; ok {
		return inc
	}
	return c.DefaultIncrement
}

// CategoryCapFor returns the per-team limit for a category (1 for scarce
// categories, CategoryCap otherwise)
func (c *Config) CategoryCapFor(category string) int {
	cat := models.NormalizeCategory(category)
	for _, scarce := range c.ScarceCategories {
		if cat == scarce {
			return 1
		}
	}
	return c.CategoryCap
}

// IsBlocked reports whether a category is removed from the auction
func (c *Config) IsBlocked(category string) bool {
	cat := models.NormalizeCategory(category)
	for _, blocked := range c.BlockedCategories {
		if cat == blocked {
			return true
		}
	}
	return false
}

// BudgetFor returns the purse cap for a team, applying overrides by
// normalized team name
func (c *Config) BudgetFor(teamName string) decimal.Decimal {
	if b, ok := c.BudgetOverrides[models.NormalizeName(teamName)]; ok {
		return b
	}
	return c.DefaultBudget
}
