package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"khata-backend/internal/models"
)

type SalesRepository struct {
	DB *pgxpool.Pool
}

func NewSalesRepository(db *pgxpool.Pool) *SalesRepository {
	return &SalesRepository{DB: db}
}

// CreateWithStockCheck inserts a sale after re-deriving the remaining
// quantity for the item inside one transaction. A per-item advisory lock
// serializes concurrent sales of the same item, so the check-then-insert
// sequence cannot oversell under concurrent writers.
//
// When credit is non-nil (Credit/Partial payment leaving a balance), the
// credit entry is written in the same transaction: either both records
// commit or neither does.
func (r *SalesRepository) CreateWithStockCheck(ctx context.Context, sale *models.SaleRecord, credit *models.CreditEntry) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin sale transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Held until commit; other writers on the same item queue behind it.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", sale.ProductID); err != nil {
		return fmt.Errorf("failed to lock item %q: %w", sale.ProductID, err)
	}

	var purchased, sold int
	err = tx.QueryRow(ctx, `
		SELECT
			(SELECT COALESCE(SUM(quantity_purchased), 0) FROM inventory WHERE item = $1),
			(SELECT COALESCE(SUM(quantity), 0) FROM sales WHERE product_id = $1)
	`, sale.ProductID).Scan(&purchased, &sold)
	if err != nil {
		return fmt.Errorf("failed to derive remaining stock for %q: %w", sale.ProductID, err)
	}

	remaining := purchased - sold
	if sale.Quantity > remaining {
		return &models.InsufficientStockError{
			Item:      sale.ProductID,
			Requested: sale.Quantity,
			Remaining: remaining,
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO sales (
			product_id, category, quantity, sale_date, sale_price,
			price_per_unit, cost_per_unit, profit_per_unit,
			payment_type, amount_received, amount_pending
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`,
		sale.ProductID,
		sale.Category,
		sale.Quantity,
		sale.SaleDate,
		sale.SalePrice,
		sale.PricePerUnit,
		sale.CostPerUnit,
		sale.ProfitPerUnit,
		sale.PaymentType,
		sale.AmountReceived,
		sale.AmountPending,
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}

	if credit != nil {
		err = tx.QueryRow(ctx, `
			INSERT INTO credit_book (customer, contact, amount, date, due_date, description, status)
			VALUES ($1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''), $7)
			RETURNING id, created_at
		`,
			credit.Customer,
			credit.Contact,
			credit.Amount,
			credit.Date,
			credit.DueDate,
			credit.Description,
			credit.Status,
		).Scan(&credit.ID, &credit.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create credit entry for sale: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit sale: %w", err)
	}
	return nil
}

func (r *SalesRepository) List(ctx context.Context) ([]*models.SaleRecord, error) {
	query := `
		SELECT id, product_id, category, quantity, sale_date, sale_price,
		       price_per_unit, cost_per_unit, profit_per_unit,
		       payment_type, amount_received, amount_pending, created_at
		FROM sales
		ORDER BY id
	`
	return r.query(ctx, query)
}

// ListByDateRange returns sales whose sale_date falls in [from, to].
func (r *SalesRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.SaleRecord, error) {
	query := `
		SELECT id, product_id, category, quantity, sale_date, sale_price,
		       price_per_unit, cost_per_unit, profit_per_unit,
		       payment_type, amount_received, amount_pending, created_at
		FROM sales
		WHERE sale_date BETWEEN $1 AND $2
		ORDER BY id
	`
	return r.query(ctx, query, from, to)
}

func (r *SalesRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.SaleRecord, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*models.SaleRecord
	for rows.Next() {
		s := &models.SaleRecord{}
		err := rows.Scan(
			&s.ID,
			&s.ProductID,
			&s.Category,
			&s.Quantity,
			&s.SaleDate,
			&s.SalePrice,
			&s.PricePerUnit,
			&s.CostPerUnit,
			&s.ProfitPerUnit,
			&s.PaymentType,
			&s.AmountReceived,
			&s.AmountPending,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}

	return sales, rows.Err()
}

// TotalSold sums quantity over every sale referencing this item name.
func (r *SalesRepository) TotalSold(ctx context.Context, item string) (int, error) {
	var total int
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM sales
		WHERE product_id = $1
	`, item).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *SalesRepository) Totals(ctx context.Context) (*models.SalesTotals, error) {
	t := &models.SalesTotals{}
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(sale_price), 0),
		       COALESCE(SUM(profit_per_unit * quantity), 0),
		       COALESCE(SUM(amount_pending), 0),
		       COUNT(*)
		FROM sales
	`).Scan(&t.TotalRevenue, &t.TotalProfit, &t.TotalPending, &t.SaleCount)
	if err != nil {
		return nil, err
	}
	return t, nil
}
