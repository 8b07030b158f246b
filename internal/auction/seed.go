package auction

import (
	"fmt"

	"github.com/ashwinpillai/eclauction/internal/ledger"
	"github.com/ashwinpillai/eclauction/internal/models"
)

// Intro is one captain/vice-captain introduction card shown before the
// auction starts.
type Intro struct {
	TeamID     string        `json:"team_id"`
	TeamName   string        `json:"team_name"`
	RoleLabel  string        `json:"role_label"`
	PersonName string        `json:"person_name"`
	Player     models.Player `json:"player"`
}

// BuildSeeds resolves captains, vice-captains and pre-sold players into
// pre-auction ledger seeds. Name matching is case/whitespace-insensitive;
// a captain or vice-captain that does not resolve to a player is silently
// skipped. Captain/vice-captain pairings take priority over the players
// sheet's own pre-assigned team column.
func BuildSeeds(players []models.Player, teams []models.Team) []ledger.Seed {
	byName := make(map[string]models.Player, len(players))
	for _, p := range players {
		byName[models.NormalizeName(p.Name)] = p
	}

	seeded := make(map[string]bool)
	var seeds []ledger.Seed

	add := func(playerID, teamID string, preSold bool) {
		if seeded[playerID] {
			return
		}
		seeded[playerID] = true
		seeds = append(seeds, ledger.Seed{PlayerID: playerID, TeamID: teamID, PreSold: preSold})
	}

	for _, team := range teams {
		if p, ok := byName[models.NormalizeName(team.Captain)]; ok {
			add(p.ID, team.ID, false)
		}
		if team.ViceCaptain != "" {
			if p, ok := byName[models.NormalizeName(team.ViceCaptain)]; ok {
				add(p.ID, team.ID, false)
			}
		}
	}

	// Players the sheet already ties to a team (pre-sold column)
	teamByName := make(map[string]models.Team, len(teams))
	for _, t := range teams {
		teamByName[models.NormalizeName(t.Name)] = t
	}
	for _, p := range players {
		if p.PreAssignedTeamName == "" {
			continue
		}
		if t, ok := teamByName[models.NormalizeName(p.PreAssignedTeamName)]; ok {
			add(p.ID, t.ID, p.PreSold)
		}
	}

	return seeds
}

// BuildIntros assembles the pre-auction introduction parade: every captain
// followed by the team's vice-captain, in team order. Names that resolve
// to a player use the player's card; others get a placeholder card.
func BuildIntros(players []models.Player, teams []models.Team) []Intro {
	byName := make(map[string]models.Player, len(players))
	for _, p := range players {
		byName[models.NormalizeName(p.Name)] = p
	}

	var intros []Intro
	push := func(team models.Team, label, name string, seq int) {
		if name == "" {
			return
		}
		player, ok := byName[models.NormalizeName(name)]
		if !ok {
			player = models.Player{
				ID:   fmt.Sprintf("intro-%d", seq),
				Name: name,
				Role: label,
			}
		}
		intros = append(intros, Intro{
			TeamID:     team.ID,
			TeamName:   team.Name,
			RoleLabel:  label,
			PersonName: name,
			Player:     player,
		})
	}

	for _, team := range teams {
		push(team, "Captain", team.Captain, len(intros))
		push(team, "Vice-Captain", team.ViceCaptain, len(intros))
	}
	return intros
}
