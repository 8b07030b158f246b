package auction

import (
	"github.com/shopspring/decimal"

	"github.com/ashwinpillai/eclauction/internal/ledger"
	"github.com/ashwinpillai/eclauction/internal/models"
	"github.com/ashwinpillai/eclauction/internal/rules"
)

// TeamView is a team's live standing, including whether it could take the
// on-block player at the current bid and why not.
type TeamView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Captain     string          `json:"captain"`
	ViceCaptain string          `json:"vice_captain,omitempty"`
	Cap         decimal.Decimal `json:"cap"`
	Remaining   decimal.Decimal `json:"remaining"`
	RosterSize  int             `json:"roster_size"`
	CanBuy      bool            `json:"can_buy"`
	Reason      string          `json:"reason,omitempty"`
}

// Stats summarizes auction progress
type Stats struct {
	TotalPlayers int `json:"total_players"`
	Assigned     int `json:"assigned"`
	Remaining    int `json:"remaining"`
}

// Snapshot is the full session view pushed to the console and spectators
// on every state change.
type Snapshot struct {
	SessionID string `json:"session_id"`
	Version   int    `json:"version"`
	State     State  `json:"state"`
	Phase     Phase  `json:"phase"`
	Category  string `json:"category,omitempty"`

	Notice     *Notice `json:"notice,omitempty"`
	Intro      *Intro  `json:"intro,omitempty"`
	IntroIndex int     `json:"intro_index,omitempty"`
	IntroTotal int     `json:"intro_total,omitempty"`

	OnBlock        *models.Player  `json:"on_block,omitempty"`
	Stage          BlockStage      `json:"stage,omitempty"`
	Bid            decimal.Decimal `json:"bid"`
	Increment      decimal.Decimal `json:"increment"`
	ProposedTeamID string          `json:"proposed_team_id,omitempty"`

	LastSale *ledger.Assignment `json:"last_sale,omitempty"`
	Teams    []TeamView         `json:"teams"`
	Unsold   []models.Player    `json:"unsold"`
	Stats    Stats              `json:"stats"`
}

// Snapshot returns the current session view
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID: s.id,
		Version:   s.version,
		State:     s.state,
		Phase:     s.seq.Phase(),
		Category:  s.seq.Category(),
		Bid:       s.bid,
		Increment: s.cfg.DefaultIncrement,
		Unsold:    s.unsold.Players(),
	}
	if cat := s.seq.Category(); cat != "" {
		snap.Increment = s.cfg.IncrementFor(cat)
	}
	if s.seq.Phase() == PhaseResurfacing {
		snap.Category = "unsold players"
	}

	if s.state == StateCategoryNotice {
		notice := s.notice
		snap.Notice = &notice
	}
	if s.state == StateIntro && s.introIndex < len(s.intros) {
		intro := s.intros[s.introIndex]
		snap.Intro = &intro
		snap.IntroIndex = s.introIndex
		snap.IntroTotal = len(s.intros)
	}
	if s.onBlock != nil {
		player := *s.onBlock
		snap.OnBlock = &player
		snap.Stage = s.stage
		snap.Increment = s.cfg.IncrementFor(player.Category)
		snap.ProposedTeamID = s.proposed
	}
	if last, ok := s.ledger.LastSale(); ok {
		snap.LastSale = &last
	}

	assignments := s.ledger.Assignments()
	snap.Stats = Stats{
		TotalPlayers: len(s.players),
		Assigned:     len(assignments),
		Remaining:    len(s.players) - len(assignments),
	}

	snap.Teams = make([]TeamView, 0, len(s.teams))
	for _, t := range s.teams {
		snap.Teams = append(snap.Teams, s.teamViewLocked(t))
	}
	return snap
}

// teamViewLocked builds one team's standing. Disable reasons follow the
// console's priority: roster size first, then budget, then the remaining
// roster rules.
func (s *Session) teamViewLocked(t models.Team) TeamView {
	remaining, _ := s.ledger.Remaining(t.ID)
	cap, _ := s.ledger.Cap(t.ID)
	roster := s.rosterOfLocked(t.ID)

	view := TeamView{
		ID:          t.ID,
		Name:        t.Name,
		Captain:     t.Captain,
		ViceCaptain: t.ViceCaptain,
		Cap:         cap,
		Remaining:   remaining,
		RosterSize:  len(roster),
		CanBuy:      true,
	}
	if s.onBlock == nil {
		return view
	}

	decision := s.rules.CanAssign(t, *s.onBlock, roster)
	budgetShort := remaining.LessThan(s.bid)
	switch {
	case !decision.Allowed && decision.Rule == rules.RuleRosterSize:
		view.CanBuy = false
		view.Reason = decision.Reason
	case budgetShort:
		view.CanBuy = false
		view.Reason = "insufficient budget"
	case !decision.Allowed:
		view.CanBuy = false
		view.Reason = decision.Reason
	}
	return view
}
