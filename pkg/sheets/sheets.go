// Package sheets provides a client for published Google Sheets. Player and
// team rosters are read from the sheets' CSV export URLs, and completed
// sales are posted back through an Apps Script web endpoint so the sheet
// stays the system of record after the event.
package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ashwinpillai/eclauction/internal/errors"
	"github.com/ashwinpillai/eclauction/internal/logger"
	"github.com/ashwinpillai/eclauction/internal/models"
)

// SaleRecord is one completed sale, posted to the Apps Script endpoint
type SaleRecord struct {
	PlayerName string          `json:"playerName"`
	TeamName   string          `json:"teamName"`
	BasePrice  decimal.Decimal `json:"basePrice"`
	SoldPrice  decimal.Decimal `json:"soldPrice"`
	Category   string          `json:"category"`
	Role       string          `json:"role"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Client defines the interface for sheet operations
type Client interface {
	// LoadPlayers fetches and parses the players sheet
	LoadPlayers(ctx context.Context) ([]models.Player, error)
	// LoadTeams fetches and parses the teams sheet
	LoadTeams(ctx context.Context) ([]models.Team, error)
	// SaveSale records a completed sale on the results sheet
	SaveSale(ctx context.Context, sale SaleRecord) error
}

// HTTPClient is a real HTTP client for published Google Sheets
type HTTPClient struct {
	playersURL string
	teamsURL   string
	scriptURL  string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a sheets client. scriptURL may be empty, in which
// case SaveSale is a no-op.
func NewHTTPClient(playersURL, teamsURL, scriptURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		playersURL: playersURL,
		teamsURL:   teamsURL,
		scriptURL:  scriptURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// NewHTTPClientWithHTTPClient creates a sheets client with a custom http.Client
func NewHTTPClientWithHTTPClient(playersURL, teamsURL, scriptURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		playersURL: playersURL,
		teamsURL:   teamsURL,
		scriptURL:  scriptURL,
		httpClient: httpClient,
		log:        log,
	}
}

// LoadPlayers fetches and parses the players sheet. A sheet that yields no
// usable rows is an error: the auction cannot start without players.
func (c *HTTPClient) LoadPlayers(ctx context.Context) ([]models.Player, error) {
	rows, err := c.fetchCSV(ctx, c.playersURL)
	if err != nil {
		return nil, errors.DataLoad("failed to fetch players sheet", err)
	}

	players, err := ParsePlayers(rows)
	if err != nil {
		return nil, err
	}

	c.log.Info("Loaded players from sheet", "count", len(players))
	return players, nil
}

// LoadTeams fetches and parses the teams sheet
func (c *HTTPClient) LoadTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := c.fetchCSV(ctx, c.teamsURL)
	if err != nil {
		return nil, errors.DataLoad("failed to fetch teams sheet", err)
	}

	teams, err := ParseTeams(rows)
	if err != nil {
		return nil, err
	}

	c.log.Info("Loaded teams from sheet", "count", len(teams))
	return teams, nil
}

// SaveSale posts a completed sale to the Apps Script endpoint. The endpoint
// redirects and returns opaque bodies, so only transport-level failures and
// non-2xx statuses are reported.
func (c *HTTPClient) SaveSale(ctx context.Context, sale SaleRecord) error {
	if c.scriptURL == "" {
		c.log.Debug("No script URL configured, skipping sale record", "player", sale.PlayerName)
		return nil
	}

	payload, err := json.Marshal(sale)
	if err != nil {
		return fmt.Errorf("failed to encode sale: %w", err)
	}

	c.log.Debug("Sheets request", "method", "POST", "url", c.scriptURL, "player", sale.PlayerName, "team", sale.TeamName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.scriptURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach script endpoint: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("script endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) fetchCSV(ctx context.Context, url string) ([][]string, error) {
	c.log.Debug("Sheets request", "method", "GET", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet returned status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1 // published sheets pad rows unevenly
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// ParsePlayers converts raw CSV rows into players. The first row is the
// header; column matching ignores case, spaces and underscores so sheet
// edits like "Base Price" vs "base_price" both work. Rows without a name
// are skipped. A base price cell of "sold" marks the player pre-sold at
// zero cost.
func ParsePlayers(rows [][]string) ([]models.Player, error) {
	if len(rows) == 0 {
		return nil, errors.DataLoad("players sheet is empty", nil)
	}

	cols := headerIndex(rows[0])
	nameCol := cols.find("name", "playername", "player")
	roleCol := cols.find("role", "playerrole")
	categoryCol := cols.find("category", "playercategory", "set")
	priceCol := cols.find("baseprice", "basevalue", "price")
	photoCol := cols.find("photo", "photourl", "image", "imageurl")
	teamCol := cols.find("team", "initialteam", "presoldteam")

	var players []models.Player
	for i, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, nameCol))
		if name == "" {
			continue
		}
		price, preSold := parseBasePrice(cell(row, priceCol))
		players = append(players, models.Player{
			ID:                  fmt.Sprintf("player-%d", i+1),
			Name:                name,
			Role:                strings.TrimSpace(cell(row, roleCol)),
			Category:            models.NormalizeCategory(cell(row, categoryCol)),
			BasePrice:           price,
			Photo:               strings.TrimSpace(cell(row, photoCol)),
			PreAssignedTeamName: strings.TrimSpace(cell(row, teamCol)),
			PreSold:             preSold,
		})
	}

	if len(players) == 0 {
		return nil, errors.DataLoad("players sheet has no usable rows", nil)
	}
	return players, nil
}

// ParseTeams converts raw CSV rows into teams. Same header rules as
// ParsePlayers; rows without a team name are skipped.
func ParseTeams(rows [][]string) ([]models.Team, error) {
	if len(rows) == 0 {
		return nil, errors.DataLoad("teams sheet is empty", nil)
	}

	cols := headerIndex(rows[0])
	nameCol := cols.find("teamname", "team", "name")
	captainCol := cols.find("captain", "captainname")
	viceCol := cols.find("vicecaptain", "vicecaptainname", "vc")

	var teams []models.Team
	for i, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, nameCol))
		if name == "" {
			continue
		}
		teams = append(teams, models.Team{
			ID:          fmt.Sprintf("team-%d", i+1),
			Name:        name,
			Captain:     strings.TrimSpace(cell(row, captainCol)),
			ViceCaptain: strings.TrimSpace(cell(row, viceCol)),
		})
	}

	if len(teams) == 0 {
		return nil, errors.DataLoad("teams sheet has no usable rows", nil)
	}
	return teams, nil
}

// columns maps normalized header names to their column index
type columns map[string]int

func headerIndex(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, exists := cols[key]; !exists {
			cols[key] = i
		}
	}
	return cols
}

// find returns the index of the first matching alias, or -1
func (c columns) find(aliases ...string) int {
	for _, alias := range aliases {
		if idx, ok := c[alias]; ok {
			return idx
		}
	}
	return -1
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "")
	h = strings.ReplaceAll(h, "_", "")
	return h
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseBasePrice reads a base price cell. "sold" marks a pre-sold player
// whose price never counts against a budget; anything unparseable is
// treated as zero rather than aborting the load.
func parseBasePrice(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "sold") {
		return decimal.Zero, true
	}
	if raw == "" {
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return price, false
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)
