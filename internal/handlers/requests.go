package handlers

import "github.com/shopspring/decimal"

// SetBidRequest is the request body for typing a bid directly
type SetBidRequest struct {
	Bid decimal.Decimal `json:"bid"`
}

// ProposeRequest is the request body for tentatively selling to a team
type ProposeRequest struct {
	TeamID string `json:"team_id"`
}
