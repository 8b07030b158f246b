package auction

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ashwinpillai/eclauction/internal/models"
)

func seedPlayers() []models.Player {
	return []models.Player{
		{ID: "player-1", Name: "Arjun Nair", Category: "best-batters-bowlers", BasePrice: decimal.NewFromInt(2000)},
		{ID: "player-2", Name: "Kiran Das", Category: "wk-bat-bowl", BasePrice: decimal.NewFromInt(1500)},
		{ID: "player-3", Name: "Rahul Menon", Category: "allrounders", BasePrice: decimal.NewFromInt(5000)},
		{ID: "player-4", Name: "Vikram Shetty", Category: "mystery", BasePrice: decimal.NewFromInt(1000), PreAssignedTeamName: "Striking Stallions", PreSold: true},
	}
}

func seedTeams() []models.Team {
	return []models.Team{
		{ID: "team-1", Name: "Kingsmen", Captain: "Arjun Nair", ViceCaptain: "Kiran Das"},
		{ID: "team-2", Name: "Striking Stallions", Captain: "Rahul Menon"},
	}
}

func TestBuildSeeds(t *testing.T) {
	seeds := BuildSeeds(seedPlayers(), seedTeams())

	byPlayer := make(map[string]string)
	preSold := make(map[string]bool)
	for _, s := range seeds {
		byPlayer[s.PlayerID] = s.TeamID
		preSold[s.PlayerID] = s.PreSold
	}

	if len(seeds) != 4 {
		t.Fatalf("expected 4 seeds, got %d", len(seeds))
	}
	if byPlayer["player-1"] != "team-1" || byPlayer["player-2"] != "team-1" {
		t.Errorf("captain and vice-captain must seed to their team: %v", byPlayer)
	}
	if byPlayer["player-3"] != "team-2" {
		t.Errorf("expected Rahul Menon seeded to team-2, got %v", byPlayer)
	}
	if byPlayer["player-4"] != "team-2" || !preSold["player-4"] {
		t.Errorf("pre-sold player must seed to sheet team: %v presold=%v", byPlayer, preSold)
	}
}

func TestBuildSeedsNameMatchingIsInsensitive(t *testing.T) {
	teams := []models.Team{{ID: "team-1", Name: "Kingsmen", Captain: "  ARJUN NAIR "}}
	seeds := BuildSeeds(seedPlayers(), teams)

	if len(seeds) != 1 || seeds[0].PlayerID != "player-1" {
		t.Errorf("expected case-insensitive captain resolution, got %+v", seeds)
	}
}

func TestBuildSeedsUnresolvedNamesSkipped(t *testing.T) {
	teams := []models.Team{{ID: "team-1", Name: "Kingsmen", Captain: "Nobody Known", ViceCaptain: ""}}
	if seeds := BuildSeeds(seedPlayers(), teams); len(seeds) != 0 {
		t.Errorf("unresolved captain must be skipped, got %+v", seeds)
	}
}

func TestBuildSeedsCaptainBeatsPreAssignedColumn(t *testing.T) {
	players := seedPlayers()
	// The sheet also claims Arjun for team-2; the captaincy wins
	players[0].PreAssignedTeamName = "Striking Stallions"

	seeds := BuildSeeds(players, seedTeams())
	for _, s := range seeds {
		if s.PlayerID == "player-1" && s.TeamID != "team-1" {
			t.Errorf("captain pairing must take priority, got team %s", s.TeamID)
		}
	}
}

func TestBuildIntros(t *testing.T) {
	intros := BuildIntros(seedPlayers(), seedTeams())

	// team-1 captain, team-1 vice-captain, team-2 captain
	if len(intros) != 3 {
		t.Fatalf("expected 3 intros, got %d", len(intros))
	}
	if intros[0].RoleLabel != "Captain" || intros[0].PersonName != "Arjun Nair" {
		t.Errorf("unexpected first intro: %+v", intros[0])
	}
	if intros[1].RoleLabel != "Vice-Captain" || intros[1].PersonName != "Kiran Das" {
		t.Errorf("unexpected second intro: %+v", intros[1])
	}
	if intros[2].TeamName != "Striking Stallions" {
		t.Errorf("unexpected third intro: %+v", intros[2])
	}
	if intros[0].Player.ID != "player-1" {
		t.Errorf("intro must carry the resolved player card, got %s", intros[0].Player.ID)
	}
}

func TestBuildIntrosPlaceholderForUnresolvedName(t *testing.T) {
	teams := []models.Team{{ID: "team-1", Name: "Kingsmen", Captain: "Guest Captain"}}
	intros := BuildIntros(seedPlayers(), teams)

	if len(intros) != 1 {
		t.Fatalf("expected 1 intro, got %d", len(intros))
	}
	if intros[0].Player.Name != "Guest Captain" || intros[0].Player.Role != "Captain" {
		t.Errorf("expected placeholder card, got %+v", intros[0].Player)
	}
}
