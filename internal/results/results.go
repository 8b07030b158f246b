// Package results builds the end-of-auction report: every team's final
// roster with prices and budget position, plus the players nobody took.
package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ashwinpillai/eclauction/internal/ledger"
	"github.com/ashwinpillai/eclauction/internal/models"
)

// PlayerLine is one signed player in a team's report
type PlayerLine struct {
	PlayerID       string          `json:"player_id"`
	Name           string          `json:"name"`
	Role           string          `json:"role"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
	EffectiveSpend decimal.Decimal `json:"effective_spend"`
	PreAssigned    bool            `json:"pre_assigned"`
	PreSold        bool            `json:"pre_sold"`
}

// TeamReport is one team's final standing
type TeamReport struct {
	TeamID     string          `json:"team_id"`
	TeamName   string          `json:"team_name"`
	Captain    string          `json:"captain"`
	Players    []PlayerLine    `json:"players"`
	RosterSize int             `json:"roster_size"`
	Cap        decimal.Decimal `json:"cap"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// Report is the full end-of-auction summary
type Report struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Teams       []TeamReport    `json:"teams"`
	Unassigned  []models.Player `json:"unassigned"`
}

// Build assembles the report from the final ledger state. Teams appear in
// their sheet order; each roster is sorted by price, most expensive first,
// with ties broken by name so the output is stable.
func Build(players []models.Player, teams []models.Team, led *ledger.Ledger) Report {
	assignments := led.Assignments()
	playerByID := make(map[string]models.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}

	report := Report{GeneratedAt: time.Now()}

	for _, team := range teams {
		cap, _ := led.Cap(team.ID)
		remaining, _ := led.Remaining(team.ID)
		tr := TeamReport{
			TeamID:    team.ID,
			TeamName:  team.Name,
			Captain:   team.Captain,
			Cap:       cap,
			Remaining: remaining,
			Spent:     cap.Sub(remaining),
		}

		for playerID, a := range assignments {
			if a.TeamID != team.ID {
				continue
			}
			p, ok := playerByID[playerID]
			if !ok {
				continue
			}
			tr.Players = append(tr.Players, PlayerLine{
				PlayerID:       p.ID,
				Name:           p.Name,
				Role:           p.Role,
				Category:       p.Category,
				Price:          a.Price,
				EffectiveSpend: a.EffectiveSpend,
				PreAssigned:    a.PreAssigned,
				PreSold:        a.PreSold,
			})
		}

		sort.Slice(tr.Players, func(i, j int) bool {
			if !tr.Players[i].Price.Equal(tr.Players[j].Price) {
				return tr.Players[i].Price.GreaterThan(tr.Players[j].Price)
			}
			return tr.Players[i].Name < tr.Players[j].Name
		})
		tr.RosterSize = len(tr.Players)
		report.Teams = append(report.Teams, tr)
	}

	for _, p := range players {
		if _, ok := assignments[p.ID]; !ok {
			report.Unassigned = append(report.Unassigned, p)
		}
	}

	return report
}

// WriteCSV writes the report as CSV for sharing after the event. One row
// per signed player, then a blank line and the unassigned players.
func WriteCSV(w io.Writer, report Report) error {
	cw := csv.NewWriter(w)

	header := []string{"team", "player", "role", "category", "price", "effective_spend", "pre_assigned", "team_spent", "team_remaining"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, team := range report.Teams {
		for _, p := range team.Players {
			row := []string{
				team.TeamName,
				p.Name,
				p.Role,
				p.Category,
				p.Price.String(),
				p.EffectiveSpend.String(),
				fmt.Sprintf("%t", p.PreAssigned),
				team.Spent.String(),
				team.Remaining.String(),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	if len(report.Unassigned) > 0 {
		if err := cw.Write([]string{}); err != nil {
			return err
		}
		if err := cw.Write([]string{"unassigned", "player", "role", "category", "base_price"}); err != nil {
			return err
		}
		for _, p := range report.Unassigned {
			row := []string{"", p.Name, p.Role, p.Category, p.BasePrice.String()}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
