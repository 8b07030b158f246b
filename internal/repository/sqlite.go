// Package repository persists the auction's sale log to a local SQLite
// file. The sheet endpoint is fire-and-forget, so this log is the durable
// on-site record the operator can recover from if the venue network drops.
package repository

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ashwinpillai/eclauction/internal/errors"
)

// Sale is one row of the sale audit log
type Sale struct {
	ID         int64
	SessionID  string
	PlayerID   string
	PlayerName string
	TeamID     string
	TeamName   string
	BasePrice  decimal.Decimal
	SoldPrice  decimal.Decimal
	Category   string
	Role       string
	PreSold    bool
	CreatedAt  time.Time
}

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		return nil, err
	}
	return repo, nil
}

// NewWithDB creates a Repository around an existing connection (for tests)
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations. Prices are stored as TEXT so decimal
// values round-trip exactly.
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			player_id TEXT NOT NULL,
			player_name TEXT NOT NULL,
			team_id TEXT NOT NULL,
			team_name TEXT NOT NULL,
			base_price TEXT NOT NULL,
			sold_price TEXT NOT NULL,
			category TEXT,
			role TEXT,
			pre_sold BOOLEAN DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(session_id, player_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_session ON sales(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_team ON sales(session_id, team_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// InsertSale appends a sale to the audit log. Re-inserting the same player
// within a session (confirm after undo) replaces the earlier row.
func (r *Repository) InsertSale(ctx context.Context, sale Sale) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO sales (session_id, player_id, player_name, team_id, team_name, base_price, sold_price, category, role, pre_sold, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, player_id) DO UPDATE SET
			team_id = excluded.team_id,
			team_name = excluded.team_name,
			sold_price = excluded.sold_price,
			created_at = excluded.created_at
	`, sale.SessionID, sale.PlayerID, sale.PlayerName, sale.TeamID, sale.TeamName,
		sale.BasePrice.String(), sale.SoldPrice.String(), sale.Category, sale.Role, sale.PreSold, time.Now())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// DeleteSale removes a player's sale row after an undo
func (r *Repository) DeleteSale(ctx context.Context, sessionID, playerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE session_id = ? AND player_id = ?`, sessionID, playerID)
	return err
}

// ListSales returns a session's sales in commit order
func (r *Repository) ListSales(ctx context.Context, sessionID string) ([]Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, player_id, player_name, team_id, team_name, base_price, sold_price, category, role, pre_sold, created_at
		FROM sales WHERE session_id = ? ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

// GetSale returns a single sale row
func (r *Repository) GetSale(ctx context.Context, sessionID, playerID string) (*Sale, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, session_id, player_id, player_name, team_id, team_name, base_price, sold_price, category, role, pre_sold, created_at
		FROM sales WHERE session_id = ? AND player_id = ?
	`, sessionID, playerID)

	sale, err := scanSale(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("sale not found")
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// ClearSales removes every sale recorded for a session, for restarting an
// event against the same database file.
func (r *Repository) ClearSales(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE session_id = ?`, sessionID)
	return err
}

// CountSales returns the number of sales recorded for a session
func (r *Repository) CountSales(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales WHERE session_id = ?`, sessionID).Scan(&count)
	return count, err
}

// scanner covers both sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSale(s scanner) (Sale, error) {
	var sale Sale
	var basePrice, soldPrice string
	var category, role sql.NullString
	if err := s.Scan(&sale.ID, &sale.SessionID, &sale.PlayerID, &sale.PlayerName, &sale.TeamID, &sale.TeamName,
		&basePrice, &soldPrice, &category, &role, &sale.PreSold, &sale.CreatedAt); err != nil {
		return Sale{}, err
	}

	var err error
	if sale.BasePrice, err = decimal.NewFromString(basePrice); err != nil {
		return Sale{}, err
	}
	if sale.SoldPrice, err = decimal.NewFromString(soldPrice); err != nil {
		return Sale{}, err
	}
	sale.Category = category.String
	sale.Role = role.String
	return sale, nil
}
