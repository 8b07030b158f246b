package auction

import (
	"github.com/ashwinpillai/eclauction/internal/models"
)

// Phase identifies which pass of the auction is running
type Phase string

const (
	// PhasePrimary walks the configured categories in order
	PhasePrimary Phase = "primary"
	// PhaseResurfacing replays the unsold queue, FIFO, after the last
	// primary category is exhausted
	PhaseResurfacing Phase = "resurfacing"
)

// Notice is the blocking "category starting" announcement shown to the
// operator before any player of the next stage is surfaced.
type Notice struct {
	Category   string `json:"category"`
	FinalRound bool   `json:"final_round"`
}

// Sequencer owns the ordered category progression. The index only moves
// forward; the single exception is the terminal switch into resurfacing.
type Sequencer struct {
	order []string
	index int
	phase Phase
}

// NewSequencer creates a sequencer over the fixed category order
func NewSequencer(order []string) *Sequencer {
	return &Sequencer{order: order, phase: PhasePrimary}
}

// Phase returns the current auction phase
func (s *Sequencer) Phase() Phase { return s.phase }

// Index returns the 0-based position in the category order
func (s *Sequencer) Index() int { return s.index }

// Category returns the live category tag. During resurfacing there is no
// live category; the unsold queue drives selection instead.
func (s *Sequencer) Category() string {
	if s.phase == PhaseResurfacing || s.index >= len(s.order) {
		return ""
	}
	return s.order[s.index]
}

// CategoryPassed reports whether cat lies strictly behind the current
// position, meaning its primary round is over.
func (s *Sequencer) CategoryPassed(cat string) bool {
	if s.phase == PhaseResurfacing {
		return true
	}
	cat = models.NormalizeCategory(cat)
	for i, c := range s.order {
		if c == cat {
			return i < s.index
		}
	}
	// Unknown categories never come up in the primary phase
	return true
}

// Due returns the players still to be auctioned in the live category:
// matching category, not assigned, not parked in the unsold queue.
func (s *Sequencer) Due(players []models.Player, assigned func(id string) bool, unsold func(id string) bool) []models.Player {
	if s.phase != PhasePrimary {
		return nil
	}
	cat := s.Category()
	var due []models.Player
	for _, p := range players {
		if models.NormalizeCategory(p.Category) != cat {
			continue
		}
		if assigned(p.ID) || unsold(p.ID) {
			continue
		}
		due = append(due, p)
	}
	return due
}

// Advance applies the phase-transition rule once the live category has no
// players due. It moves forward by exactly one category, or switches into
// resurfacing when primary categories are exhausted and unsold players
// remain. It returns the notice to show, or done=true when nothing is left
// to surface.
func (s *Sequencer) Advance(unsoldLen int) (notice Notice, advanced bool, done bool) {
	switch s.phase {
	case PhasePrimary:
		if s.index+1 < len(s.order) {
			s.index++
			return Notice{Category: s.order[s.index]}, true, false
		}
		if unsoldLen > 0 {
			s.phase = PhaseResurfacing
			return Notice{Category: "unsold players", FinalRound: true}, true, false
		}
		return Notice{}, false, true
	default: // PhaseResurfacing
		if unsoldLen == 0 {
			return Notice{}, false, true
		}
		// Resurfacing never re-announces; the queue simply continues
		return Notice{}, false, false
	}
}
