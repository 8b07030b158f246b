// Package ledger owns the only mutable shared state of an auction session:
// per-team budgets and the player->assignment map. Every mutation funnels
// through Seed, Commit and Undo so the budget and single-assignment
// invariants are checked in one place.
package ledger

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ashwinpillai/eclauction/internal/errors"
	"github.com/ashwinpillai/eclauction/internal/logger"
	"github.com/ashwinpillai/eclauction/internal/models"
)

// Assignment records a player sold (or seeded) to a team
type Assignment struct {
	PlayerID       string          `json:"player_id"`
	TeamID         string          `json:"team_id"`
	Price          decimal.Decimal `json:"price"`
	EffectiveSpend decimal.Decimal `json:"effective_spend"`
	PreAssigned    bool            `json:"pre_assigned,omitempty"`
	PreSold        bool            `json:"pre_sold,omitempty"`
}

// Seed is a pre-auction assignment: captains, vice-captains and pre-sold
// players installed at price zero before any bidding.
type Seed struct {
	PlayerID string
	TeamID   string
	PreSold  bool
}

// Ledger tracks budgets and assignments for one auction session
type Ledger struct {
	log logger.Logger

	mu          sync.Mutex
	players     map[string]models.Player
	caps        map[string]decimal.Decimal
	remaining   map[string]decimal.Decimal
	assignments map[string]Assignment
	lastSale    *Assignment
	seeded      bool

	// onCommit/onUndo are invoked on their own goroutine after a
	// successful mutation. Their failure or delay must never affect
	// ledger state; they exist for external persistence and audit.
	onCommit func(Assignment)
	onUndo   func(Assignment)
}

// New creates a ledger for the given players with per-team budget caps
// keyed by team ID.
func New(log logger.Logger, players []models.Player, caps map[string]decimal.Decimal) *Ledger {
	idx := make(map[string]models.Player, len(players))
	for _, p := range players {
		idx[p.ID] = p
	}
	remaining := make(map[string]decimal.Decimal, len(caps))
	for teamID, cap := range caps {
		remaining[teamID] = cap
	}
	return &Ledger{
		log:         log,
		players:     idx,
		caps:        caps,
		remaining:   remaining,
		assignments: make(map[string]Assignment),
	}
}

// SetOnCommit installs the commit listener. Must be called before the
// auction starts; the listener runs asynchronously per sale.
func (l *Ledger) SetOnCommit(fn func(Assignment)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onCommit = fn
}

// SetOnUndo installs the undo listener (async, best-effort)
func (l *Ledger) SetOnUndo(fn func(Assignment)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onUndo = fn
}

// Seed installs pre-auction assignments at price zero. It must run exactly
// once per session, before any Commit. Seeded entries are not validated
// against roster caps; they define the caps' starting counts instead.
func (l *Ledger) Seed(seeds []Seed) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seeded {
		return errors.Conflict("ledger already seeded")
	}
	l.seeded = true

	for _, s := range seeds {
		if _, ok := l.players[s.PlayerID]; !ok {
			l.log.Warn("Skipping seed for unknown player", "player_id", s.PlayerID)
			continue
		}
		if _, ok := l.assignments[s.PlayerID]; ok {
			continue
		}
		l.assignments[s.PlayerID] = Assignment{
			PlayerID:       s.PlayerID,
			TeamID:         s.TeamID,
			Price:          decimal.Zero,
			EffectiveSpend: decimal.Zero,
			PreAssigned:    true,
			PreSold:        s.PreSold,
		}
	}
	l.log.Info("Ledger seeded", "pre_assignments", len(l.assignments))
	return nil
}

// Commit sells a player to a team at the given price. All checks run
// before any mutation, so a failed commit leaves no partial state.
// Only the effective spend (price above base) is deducted from the budget.
func (l *Ledger) Commit(playerID, teamID string, price decimal.Decimal) (Assignment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	player, ok := l.players[playerID]
	if !ok {
		return Assignment{}, errors.NotFoundf("unknown player %q", playerID)
	}
	remaining, ok := l.remaining[teamID]
	if !ok {
		return Assignment{}, errors.NotFoundf("unknown team %q", teamID)
	}
	if _, exists := l.assignments[playerID]; exists {
		return Assignment{}, errors.Conflictf("player %s is already assigned", player.Name)
	}
	if price.Sign() <= 0 {
		return Assignment{}, errors.InvalidBidf("bid must be positive, got %s", price)
	}
	if price.LessThan(player.BasePrice) {
		return Assignment{}, errors.InvalidBidf("bid %s is below base price %s", price, player.BasePrice)
	}
	if price.GreaterThan(remaining) {
		return Assignment{}, errors.BudgetExceededf("bid %s exceeds remaining budget %s", price, remaining)
	}

	spend := price.Sub(player.BasePrice)
	if spend.Sign() < 0 {
		spend = decimal.Zero
	}

	a := Assignment{
		PlayerID:       playerID,
		TeamID:         teamID,
		Price:          price,
		EffectiveSpend: spend,
	}
	l.assignments[playerID] = a
	l.remaining[teamID] = remaining.Sub(spend)
	l.lastSale = &a

	l.log.Info("Sale committed",
		"player", player.Name, "team_id", teamID,
		"price", price, "effective_spend", spend,
		"remaining", l.remaining[teamID])

	if l.onCommit != nil {
		go l.onCommit(a)
	}
	return a, nil
}

// Undo removes an assignment and restores the team's budget by the stored
// effective spend. It is a no-op when the player has no assignment. Any
// assignment can be undone by ID; restricting undo to the most recent sale
// is a session policy, not a ledger constraint.
func (l *Ledger) Undo(playerID string) (Assignment, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.assignments[playerID]
	if !ok {
		return Assignment{}, false
	}

	delete(l.assignments, playerID)
	if remaining, ok := l.remaining[a.TeamID]; ok {
		l.remaining[a.TeamID] = remaining.Add(a.EffectiveSpend)
	}
	if l.lastSale != nil && l.lastSale.PlayerID == playerID {
		l.lastSale = nil
	}

	l.log.Info("Assignment undone", "player_id", playerID, "team_id", a.TeamID, "restored", a.EffectiveSpend)

	if l.onUndo != nil {
		go l.onUndo(a)
	}
	return a, true
}

// Remaining returns a team's remaining budget
func (l *Ledger) Remaining(teamID string) (decimal.Decimal, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.remaining[teamID]
	return r, ok
}

// Cap returns a team's budget cap
func (l *Ledger) Cap(teamID string) (decimal.Decimal, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.caps[teamID]
	return c, ok
}

// Assignment returns a player's assignment, if any
func (l *Ledger) Assignment(playerID string) (Assignment, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.assignments[playerID]
	return a, ok
}

// Assignments returns a copy of the full assignment map
func (l *Ledger) Assignments() map[string]Assignment {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]Assignment, len(l.assignments))
	for id, a := range l.assignments {
		out[id] = a
	}
	return out
}

// LastSale returns the most recent committed sale, if it has not been
// undone since.
func (l *Ledger) LastSale() (Assignment, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastSale == nil {
		return Assignment{}, false
	}
	return *l.lastSale, true
}
