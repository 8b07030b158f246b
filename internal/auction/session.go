// Package auction drives one live auction session: the category sequencer,
// the unsold resurfacing queue and the operator-facing state machine that
// ties them to the roster ledger and the rule engine.
package auction

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ashwinpillai/eclauction/internal/config"
	"github.com/ashwinpillai/eclauction/internal/errors"
	"github.com/ashwinpillai/eclauction/internal/ledger"
	"github.com/ashwinpillai/eclauction/internal/logger"
	"github.com/ashwinpillai/eclauction/internal/models"
	"github.com/ashwinpillai/eclauction/internal/rules"
)

// State is the top-level session state
type State string

const (
	// StateIntro runs the captain/vice-captain introductions
	StateIntro State = "intro"
	// StateCategoryNotice blocks until the operator acknowledges the
	// "category starting" announcement
	StateCategoryNotice State = "category_notice"
	// StateOpen awaits the next player selection in the live stage
	StateOpen State = "open"
	// StateOnBlock has a player surfaced and awaiting a decision
	StateOnBlock State = "on_block"
	// StateComplete is terminal
	StateComplete State = "complete"
)

// BlockStage is the sub-state while a player is on the block
type BlockStage string

const (
	// StageDeciding: bidding is open, no team picked yet
	StageDeciding BlockStage = "deciding"
	// StageProposed: a team is tentatively picked at the current bid,
	// awaiting the final confirm (or a reopen)
	StageProposed BlockStage = "proposed"
)

// Broadcaster pushes session snapshots to connected viewers
type Broadcaster interface {
	BroadcastSnapshot(snap Snapshot)
}

// Session is the auction state machine. All operations are serialized by
// one mutex: a single operator, one in-flight transition at a time.
type Session struct {
	log   logger.Logger
	cfg   *config.Config
	rules *rules.Engine

	players    []models.Player
	playerByID map[string]models.Player
	teams      []models.Team
	teamByID   map[string]models.Team

	mu          sync.Mutex
	id          string
	version     int
	ledger      *ledger.Ledger
	seq         *Sequencer
	unsold      *UnsoldQueue
	state       State
	notice      Notice
	intros      []Intro
	introIndex  int
	onBlock     *models.Player
	stage       BlockStage
	bid         decimal.Decimal
	proposed    string // team ID of the tentative sale
	rng         *rand.Rand
	broadcaster Broadcaster
}

// NewSession builds a session over loaded data: budgets initialized from
// config, captains/vice-captains/pre-sold players seeded into the ledger,
// the introduction parade queued up.
func NewSession(log logger.Logger, cfg *config.Config, players []models.Player, teams []models.Team) (*Session, error) {
	if len(players) == 0 {
		return nil, errors.DataLoad("no players loaded", nil)
	}
	if len(teams) == 0 {
		return nil, errors.DataLoad("no teams loaded", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrDataLoad, "invalid auction config")
	}

	caps := make(map[string]decimal.Decimal, len(teams))
	for _, t := range teams {
		caps[t.ID] = cfg.BudgetFor(t.Name)
	}

	lgr := ledger.New(log, players, caps)
	if err := lgr.Seed(BuildSeeds(players, teams)); err != nil {
		return nil, err
	}

	playerByID := make(map[string]models.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}
	teamByID := make(map[string]models.Team, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
	}

	intros := BuildIntros(players, teams)
	s := &Session{
		log:        log,
		cfg:        cfg,
		rules:      rules.New(cfg),
		players:    players,
		playerByID: playerByID,
		teams:      teams,
		teamByID:   teamByID,
		id:         uuid.NewString(),
		ledger:     lgr,
		seq:        NewSequencer(cfg.CategoryOrder),
		unsold:     NewUnsoldQueue(),
		intros:     intros,
		notice:     Notice{Category: cfg.CategoryOrder[0]},
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if len(intros) > 0 {
		s.state = StateIntro
	} else {
		s.state = StateCategoryNotice
	}

	log.Info("Auction session created",
		"session_id", s.id,
		"players", len(players),
		"teams", len(teams),
		"intros", len(intros),
		"pre_assigned", len(lgr.Assignments()))
	return s, nil
}

// SetBroadcaster installs the snapshot broadcaster (the websocket hub)
func (s *Session) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = b
}

// ID returns the session identifier
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Ledger exposes the roster ledger for wiring and read-only consumers
func (s *Session) Ledger() *ledger.Ledger { return s.ledger }

// Players returns the loaded player list
func (s *Session) Players() []models.Player { return s.players }

// Teams returns the loaded team list
func (s *Session) Teams() []models.Team { return s.teams }

// Player looks up a player by ID
func (s *Session) Player(id string) (models.Player, bool) {
	p, ok := s.playerByID[id]
	return p, ok
}

// Team looks up a team by ID
func (s *Session) Team(id string) (models.Team, bool) {
	t, ok := s.teamByID[id]
	return t, ok
}

// NextIntro acknowledges the current introduction card. After the last one
// the session moves to the first category notice.
func (s *Session) NextIntro() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIntro {
		return errors.Conflictf("no introduction in progress (state %s)", s.state)
	}
	s.introIndex++
	if s.introIndex >= len(s.intros) {
		s.state = StateCategoryNotice
	}
	s.bumpLocked()
	return nil
}

// StartCategory acknowledges the blocking category notice
func (s *Session) StartCategory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCategoryNotice {
		return errors.Conflictf("no category notice pending (state %s)", s.state)
	}
	s.state = StateOpen
	s.bumpLocked()
	return nil
}

// SelectNext surfaces the next player: uniformly at random from the live
// category during the primary phase, the FIFO head of the unsold queue
// during resurfacing. When the live category is exhausted it advances the
// sequencer instead and raises the next notice. A no-op once complete.
func (s *Session) SelectNext() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateComplete {
		return nil
	}
	if s.state != StateOpen {
		return errors.Conflictf("cannot select a player now (state %s)", s.state)
	}

	var next models.Player
	switch s.seq.Phase() {
	case PhasePrimary:
		due := s.dueLocked()
		if len(due) == 0 {
			s.advanceLocked()
			s.bumpLocked()
			return nil
		}
		next = due[s.rng.Intn(len(due))]
	default:
		head, ok := s.unsold.Head()
		if !ok {
			s.completeLocked()
			s.bumpLocked()
			return nil
		}
		next = head
	}

	s.onBlock = &next
	s.stage = StageDeciding
	s.bid = next.BasePrice
	s.proposed = ""
	s.state = StateOnBlock
	s.log.Info("Player on the block", "player", next.Name, "category", next.Category, "base_price", next.BasePrice)
	s.bumpLocked()
	return nil
}

// Raise bumps the current bid by the live category's configured increment
func (s *Session) Raise() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(StageDeciding); err != nil {
		return err
	}
	s.bid = s.bid.Add(s.cfg.IncrementFor(s.onBlock.Category))
	s.bumpLocked()
	return nil
}

// SetBid sets the bid directly, floored at the player's base price
func (s *Session) SetBid(amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(StageDeciding); err != nil {
		return err
	}
	if amount.LessThan(s.onBlock.BasePrice) {
		amount = s.onBlock.BasePrice
	}
	s.bid = amount
	s.bumpLocked()
	return nil
}

// Propose tentatively sells the on-block player to a team at the current
// bid. Roster rules and budget are checked here so an invalid pick is
// rejected before the confirm step; the ledger re-checks at commit time.
func (s *Session) Propose(teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(StageDeciding); err != nil {
		return err
	}
	team, ok := s.teamByID[teamID]
	if !ok {
		return errors.NotFoundf("unknown team %q", teamID)
	}

	decision := s.rules.CanAssign(team, *s.onBlock, s.rosterOfLocked(teamID))
	if !decision.Allowed {
		return errors.RosterRule(decision.Reason)
	}
	remaining, _ := s.ledger.Remaining(teamID)
	if remaining.LessThan(s.bid) {
		return errors.BudgetExceededf("%s has %s remaining, bid is %s", team.Name, remaining, s.bid)
	}

	s.proposed = teamID
	s.stage = StageProposed
	s.bumpLocked()
	return nil
}

// Reopen cancels a tentative sale and reopens bidding without losing the
// current bid amount.
func (s *Session) Reopen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(StageProposed); err != nil {
		return err
	}
	s.proposed = ""
	s.stage = StageDeciding
	s.bumpLocked()
	return nil
}

// Confirm finalizes the tentative sale: the ledger commits at the price
// fixed now, the player leaves the unsold queue if present, and the session
// moves on (possibly into the next category notice).
func (s *Session) Confirm() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(StageProposed); err != nil {
		return err
	}

	player := *s.onBlock
	if _, err := s.ledger.Commit(player.ID, s.proposed, s.bid); err != nil {
		return err
	}
	s.unsold.MarkSold(player.ID)
	s.clearBlockLocked()
	s.advanceIfExhaustedLocked()
	s.bumpLocked()
	return nil
}

// MarkUnsold parks the on-block player in the unsold queue: appended once
// during the primary phase, cycled to the tail during resurfacing.
func (s *Session) MarkUnsold() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(StageDeciding); err != nil {
		return err
	}
	player := *s.onBlock
	s.unsold.MarkUnsold(player, s.seq.Phase())
	s.log.Info("Player marked unsold", "player", player.Name, "phase", s.seq.Phase(), "queue_len", s.unsold.Len())
	s.clearBlockLocked()
	s.advanceIfExhaustedLocked()
	s.bumpLocked()
	return nil
}

// Undo reverts the most recent sale. If the undone player's category has
// already passed, or the session is resurfacing, the player is re-enqueued
// at the unsold tail; otherwise they reappear naturally in their category.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateIntro:
		return errors.Conflict("auction has not started")
	case StateComplete:
		return errors.Conflict("auction already completed")
	}

	last, ok := s.ledger.LastSale()
	if !ok {
		return errors.NotFound("no sale to undo")
	}
	if _, ok := s.ledger.Undo(last.PlayerID); !ok {
		return errors.NotFound("no sale to undo")
	}

	player := s.playerByID[last.PlayerID]
	if s.seq.Phase() == PhaseResurfacing || s.seq.CategoryPassed(player.Category) {
		s.unsold.MarkUnsold(player, s.seq.Phase())
	}
	s.log.Info("Sale undone", "player", player.Name, "team_id", last.TeamID, "price", last.Price)
	s.bumpLocked()
	return nil
}

// Finish forces completion from any state
func (s *Session) Finish() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateComplete {
		return nil
	}
	s.completeLocked()
	s.bumpLocked()
	return nil
}

// requireStage checks that a player is on the block in the given sub-state
func (s *Session) requireStage(stage BlockStage) error {
	if s.state != StateOnBlock || s.onBlock == nil {
		return errors.Conflictf("no player on the block (state %s)", s.state)
	}
	if s.stage != stage {
		return errors.Conflictf("invalid action for stage %s", s.stage)
	}
	return nil
}

func (s *Session) clearBlockLocked() {
	s.onBlock = nil
	s.proposed = ""
	s.stage = ""
	s.bid = decimal.Zero
	s.state = StateOpen
}

// dueLocked lists players still due in the live primary category
func (s *Session) dueLocked() []models.Player {
	return s.seq.Due(s.players,
		func(id string) bool { _, ok := s.ledger.Assignment(id); return ok },
		s.unsold.Contains)
}

// advanceIfExhaustedLocked applies the transition rule after the block
// clears: when the live stage has nothing left, move to the next notice or
// complete the session.
func (s *Session) advanceIfExhaustedLocked() {
	switch s.seq.Phase() {
	case PhasePrimary:
		if len(s.dueLocked()) > 0 {
			return
		}
		s.advanceLocked()
	default:
		if s.unsold.Len() == 0 {
			s.completeLocked()
		}
	}
}

// advanceLocked moves the sequencer forward and raises the matching notice
func (s *Session) advanceLocked() {
	notice, advanced, done := s.seq.Advance(s.unsold.Len())
	switch {
	case done:
		s.completeLocked()
	case advanced:
		s.notice = notice
		s.state = StateCategoryNotice
		s.log.Info("Category starting", "category", notice.Category, "final_round", notice.FinalRound)
	}
}

func (s *Session) completeLocked() {
	s.state = StateComplete
	s.log.Info("Auction complete", "session_id", s.id, "assigned", len(s.ledger.Assignments()))
}

// rosterOfLocked scans the player list for everyone currently attributed
// to the team, seeded captains included. Sessions are tens of players, so
// the scan is the simplest correct roster view.
func (s *Session) rosterOfLocked(teamID string) []models.Player {
	var roster []models.Player
	for _, p := range s.players {
		if a, ok := s.ledger.Assignment(p.ID); ok && a.TeamID == teamID {
			roster = append(roster, p)
		}
	}
	return roster
}

func (s *Session) bumpLocked() {
	s.version++
	if s.broadcaster != nil {
		s.broadcaster.BroadcastSnapshot(s.snapshotLocked())
	}
}
