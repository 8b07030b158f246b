package repository

import "context"

// SaleRepository defines sale audit log operations
type SaleRepository interface {
	InsertSale(ctx context.Context, sale Sale) (int64, error)
	DeleteSale(ctx context.Context, sessionID, playerID string) error
	ListSales(ctx context.Context, sessionID string) ([]Sale, error)
	ClearSales(ctx context.Context, sessionID string) error
	GetSale(ctx context.Context, sessionID, playerID string) (*Sale, error)
	CountSales(ctx context.Context, sessionID string) (int, error)
}

// Ensure Repository implements the interface
var _ SaleRepository = (*Repository)(nil)
