package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"khata-backend/internal/models"
)

// The services consume small store interfaces rather than the concrete
// pgx repositories, so the ledger logic is testable against in-memory
// fakes. The repositories package satisfies all of them.

type InventoryStore interface {
	Create(ctx context.Context, lot *models.InventoryLot) error
	List(ctx context.Context) ([]*models.InventoryLot, error)
	LatestLotByItem(ctx context.Context, item string) (*models.InventoryLot, error)
	TotalPurchased(ctx context.Context, item string) (int, error)
	StockByItem(ctx context.Context) ([]*models.ItemStock, error)
	Categories(ctx context.Context) ([]string, error)
	Suppliers(ctx context.Context) ([]string, error)
	TotalInvestment(ctx context.Context) (decimal.Decimal, error)
}

type SalesStore interface {
	CreateWithStockCheck(ctx context.Context, sale *models.SaleRecord, credit *models.CreditEntry) error
	List(ctx context.Context) ([]*models.SaleRecord, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.SaleRecord, error)
	TotalSold(ctx context.Context, item string) (int, error)
	Totals(ctx context.Context) (*models.SalesTotals, error)
}

type CreditStore interface {
	Create(ctx context.Context, entry *models.CreditEntry) error
	Get(ctx context.Context, id int) (*models.CreditEntry, error)
	List(ctx context.Context, statuses ...models.CreditStatus) ([]*models.CreditEntry, error)
	UpdateStatus(ctx context.Context, id int, status models.CreditStatus) error
	Summary(ctx context.Context) (*models.CreditSummary, error)
	CustomerSubtotal(ctx context.Context, customer string) (decimal.Decimal, error)
	ListByCustomer(ctx context.Context, customer string) ([]*models.CreditEntry, error)
}

type DocumentStore interface {
	Create(ctx context.Context, doc *models.DocumentRef) error
	Get(ctx context.Context, id int) (*models.DocumentRef, error)
	ListFor(ctx context.Context, refType models.ReferenceType, refID int) ([]*models.DocumentRef, error)
	Delete(ctx context.Context, id int) error
}
