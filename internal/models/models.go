package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Player is an auctionable player loaded from the players sheet.
// Players are immutable once loaded; assignment state lives in the ledger.
type Player struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Role                string          `json:"role"`
	Category            string          `json:"category"` // normalized lowercase tag
	BasePrice           decimal.Decimal `json:"base_price"`
	Photo               string          `json:"photo,omitempty"`
	PreAssignedTeamName string          `json:"pre_assigned_team_name,omitempty"`
	PreSold             bool            `json:"pre_sold,omitempty"`
}

// Team is a franchise bidding in the auction
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Captain     string `json:"captain"`
	ViceCaptain string `json:"vice_captain,omitempty"`
}

// NormalizeName lowercases and trims a name for case/whitespace-insensitive
// matching (captain resolution, team name lookups).
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeCategory produces the canonical category tag used for
// sequencing, increments and roster caps.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
