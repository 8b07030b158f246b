package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ashwinpillai/eclauction/internal/errors"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleSale(sessionID, playerID string) Sale {
	return Sale{
		SessionID:  sessionID,
		PlayerID:   playerID,
		PlayerName: "Arjun Nair",
		TeamID:     "team-1",
		TeamName:   "Kingsmen",
		BasePrice:  decimal.NewFromInt(2000),
		SoldPrice:  decimal.NewFromInt(5000),
		Category:   "best-batters-bowlers",
		Role:       "Batter",
	}
}

func TestInsertAndListSales(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.InsertSale(ctx, sampleSale("s1", "player-1")); err != nil {
		t.Fatalf("InsertSale failed: %v", err)
	}
	second := sampleSale("s1", "player-2")
	second.PlayerName = "Kiran Das"
	second.SoldPrice = decimal.NewFromInt(1500)
	if _, err := repo.InsertSale(ctx, second); err != nil {
		t.Fatalf("InsertSale failed: %v", err)
	}

	sales, err := repo.ListSales(ctx, "s1")
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(sales))
	}
	if sales[0].PlayerID != "player-1" || sales[1].PlayerID != "player-2" {
		t.Errorf("expected commit order, got %s then %s", sales[0].PlayerID, sales[1].PlayerID)
	}
	if !sales[0].SoldPrice.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("expected sold price 5000, got %s", sales[0].SoldPrice)
	}
	if !sales[0].BasePrice.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("expected base price 2000, got %s", sales[0].BasePrice)
	}
}

func TestInsertSaleReplacesOnReconfirm(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.InsertSale(ctx, sampleSale("s1", "player-1")); err != nil {
		t.Fatalf("InsertSale failed: %v", err)
	}

	// Same player sold again after an undo, to a different team
	resale := sampleSale("s1", "player-1")
	resale.TeamID = "team-2"
	resale.TeamName = "Striking Stallions"
	resale.SoldPrice = decimal.NewFromInt(7000)
	if _, err := repo.InsertSale(ctx, resale); err != nil {
		t.Fatalf("InsertSale (resale) failed: %v", err)
	}

	sales, err := repo.ListSales(ctx, "s1")
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("expected single row after reconfirm, got %d", len(sales))
	}
	if sales[0].TeamID != "team-2" || !sales[0].SoldPrice.Equal(decimal.NewFromInt(7000)) {
		t.Errorf("expected updated sale, got %+v", sales[0])
	}
}

func TestDeleteSale(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.InsertSale(ctx, sampleSale("s1", "player-1")); err != nil {
		t.Fatalf("InsertSale failed: %v", err)
	}
	if err := repo.DeleteSale(ctx, "s1", "player-1"); err != nil {
		t.Fatalf("DeleteSale failed: %v", err)
	}

	count, err := repo.CountSales(ctx, "s1")
	if err != nil {
		t.Fatalf("CountSales failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 sales after delete, got %d", count)
	}
}

func TestClearSalesScopedToSession(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.InsertSale(ctx, sampleSale("s1", "player-1")); err != nil {
		t.Fatalf("InsertSale failed: %v", err)
	}
	if _, err := repo.InsertSale(ctx, sampleSale("s1", "player-2")); err != nil {
		t.Fatalf("InsertSale failed: %v", err)
	}
	if _, err := repo.InsertSale(ctx, sampleSale("s2", "player-1")); err != nil {
		t.Fatalf("InsertSale failed: %v", err)
	}

	if err := repo.ClearSales(ctx, "s1"); err != nil {
		t.Fatalf("ClearSales failed: %v", err)
	}

	count, err := repo.CountSales(ctx, "s1")
	if err != nil {
		t.Fatalf("CountSales failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 sales in cleared session, got %d", count)
	}

	count, err = repo.CountSales(ctx, "s2")
	if err != nil {
		t.Fatalf("CountSales failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected other session untouched, got %d sales", count)
	}
}

func TestGetSaleNotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.GetSale(context.Background(), "s1", "missing")
	if err == nil {
		t.Fatal("expected error for missing sale")
	}
	if errors.KindOf(err) != errors.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", errors.KindOf(err))
	}
}

func TestListSalesScopedToSession(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.InsertSale(ctx, sampleSale("s1", "player-1")); err != nil {
		t.Fatalf("InsertSale failed: %v", err)
	}
	if _, err := repo.InsertSale(ctx, sampleSale("s2", "player-1")); err != nil {
		t.Fatalf("InsertSale failed: %v", err)
	}

	sales, err := repo.ListSales(ctx, "s1")
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(sales) != 1 || sales[0].SessionID != "s1" {
		t.Errorf("expected only session s1 rows, got %+v", sales)
	}
}
