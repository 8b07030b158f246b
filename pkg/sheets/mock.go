package sheets

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ashwinpillai/eclauction/internal/models"
)

// MockClient is a mock sheets client for testing and offline demo mode
type MockClient struct {
	mu         sync.Mutex
	players    []models.Player
	teams      []models.Team
	sales      []SaleRecord
	playersErr error
	teamsErr   error
	saveErr    error
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithPlayers sets the players to return
func WithPlayers(players []models.Player) MockOption {
	return func(m *MockClient) {
		m.players = players
	}
}

// WithTeams sets the teams to return
func WithTeams(teams []models.Team) MockOption {
	return func(m *MockClient) {
		m.teams = teams
	}
}

// WithPlayersError sets an error to return from LoadPlayers
func WithPlayersError(err error) MockOption {
	return func(m *MockClient) {
		m.playersErr = err
	}
}

// WithTeamsError sets an error to return from LoadTeams
func WithTeamsError(err error) MockOption {
	return func(m *MockClient) {
		m.teamsErr = err
	}
}

// WithSaveError sets an error to return from SaveSale
func WithSaveError(err error) MockOption {
	return func(m *MockClient) {
		m.saveErr = err
	}
}

// NewMockClient creates a new mock sheets client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		players: DefaultMockPlayers(),
		teams:   DefaultMockTeams(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadPlayers returns the configured mock players or error
func (m *MockClient) LoadPlayers(ctx context.Context) ([]models.Player, error) {
	if m.playersErr != nil {
		return nil, m.playersErr
	}
	return m.players, nil
}

// LoadTeams returns the configured mock teams or error
func (m *MockClient) LoadTeams(ctx context.Context) ([]models.Team, error) {
	if m.teamsErr != nil {
		return nil, m.teamsErr
	}
	return m.teams, nil
}

// SaveSale records the sale in memory
func (m *MockClient) SaveSale(ctx context.Context, sale SaleRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales = append(m.sales, sale)
	return nil
}

// Sales returns the recorded sales (for testing)
func (m *MockClient) Sales() []SaleRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SaleRecord, len(m.sales))
	copy(out, m.sales)
	return out
}

// DefaultMockPlayers returns a small sample pool for testing
func DefaultMockPlayers() []models.Player {
	price := func(n int64) decimal.Decimal { return decimal.NewFromInt(n) }
	return []models.Player{
		{ID: "player-1", Name: "Arjun Nair", Role: "Batter", Category: "best-batters-bowlers", BasePrice: price(2000)},
		{ID: "player-2", Name: "Vikram Shetty", Role: "Bowler", Category: "best-batters-bowlers", BasePrice: price(2000)},
		{ID: "player-3", Name: "Rahul Menon", Role: "All-rounder", Category: "allrounders", BasePrice: price(5000)},
		{ID: "player-4", Name: "Sandeep Iyer", Role: "All-rounder", Category: "allrounders-1", BasePrice: price(3000)},
		{ID: "player-5", Name: "Kiran Das", Role: "Wicket-keeper", Category: "wk-bat-bowl", BasePrice: price(1500)},
		{ID: "player-6", Name: "Joseph Mathew", Role: "Batter", Category: "new-to-game", BasePrice: price(500)},
		{ID: "player-7", Name: "Anup Kumar", Role: "Bowler", Category: "new-to-game", BasePrice: price(500)},
		{ID: "player-8", Name: "Suresh Pillai", Role: "Batter", Category: "mystery", BasePrice: price(1000)},
	}
}

// DefaultMockTeams returns a small sample team list for testing
func DefaultMockTeams() []models.Team {
	return []models.Team{
		{ID: "team-1", Name: "Kingsmen", Captain: "Arjun Nair", ViceCaptain: "Kiran Das"},
		{ID: "team-2", Name: "Striking Stallions", Captain: "Rahul Menon"},
	}
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
