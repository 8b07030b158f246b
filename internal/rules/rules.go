// Package rules implements the roster-composition eligibility checks. The
// engine is pure: it looks only at the candidate, the team and the team's
// current roster, and never touches budgets. Budget sufficiency is the
// ledger's job at commit time.
package rules

import (
	"fmt"

	"github.com/ashwinpillai/eclauction/internal/config"
	"github.com/ashwinpillai/eclauction/internal/models"
)

// Rule identifies which check rejected an assignment
type Rule string

const (
	RuleRosterSize      Rule = "roster_size"
	RuleCategoryBlocked Rule = "category_blocked"
	RuleCategoryCap     Rule = "category_cap"
)

// Decision is the outcome of an eligibility check. Rule and Reason are set
// only when the assignment is disallowed, and name the first rule that
// failed.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Rule    Rule   `json:"rule,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Engine evaluates roster rules against a configured ruleset
type Engine struct {
	cfg *config.Config
}

// New creates a rule engine
func New(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// CanAssign decides whether team may take player given the team's current
// roster. The roster must include seeded captains and vice-captains; they
// occupy roster and category slots from session start.
//
// Rules are evaluated in priority order and the first failure wins:
//  1. absolute roster size cap
//  2. blocked category
//  3. per-category cap (1 for scarce categories, the generic cap otherwise)
func (e *Engine) CanAssign(team models.Team, player models.Player, roster []models.Player) Decision {
	category := models.NormalizeCategory(player.Category)

	rosterSize := len(roster)
	categoryCount := 0
	alreadyCounted := false
	for _, p := range roster {
		if models.NormalizeCategory(p.Category) == category {
			categoryCount++
		}
		if p.ID == player.ID {
			alreadyCounted = true
		}
	}

	// A player already on the roster (e.g. a captain) projects no new slot
	countIfNew := 1
	if alreadyCounted {
		countIfNew = 0
	}

	if rosterSize+countIfNew > e.cfg.RosterCap {
		return Decision{
			Rule:   RuleRosterSize,
			Reason: fmt.Sprintf("max roster size reached (%d players already signed, limit %d)", rosterSize, e.cfg.RosterCap),
		}
	}

	if e.cfg.IsBlocked(category) {
		return Decision{
			Rule:   RuleCategoryBlocked,
			Reason: fmt.Sprintf("category %s is removed from the auction", category),
		}
	}

	cap := e.cfg.CategoryCapFor(category)
	if categoryCount+countIfNew > cap {
		return Decision{
			Rule:   RuleCategoryCap,
			Reason: fmt.Sprintf("limit reached: max %d players in %s for %s (captain and vice-captain included)", cap, category, team.Name),
		}
	}

	return Decision{Allowed: true}
}
