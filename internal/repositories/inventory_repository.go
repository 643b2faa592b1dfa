package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"khata-backend/internal/models"
)

type InventoryRepository struct {
	DB *pgxpool.Pool
}

func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{DB: db}
}

// Create appends a purchase lot. Lots are never updated or deleted.
func (r *InventoryRepository) Create(ctx context.Context, lot *models.InventoryLot) error {
	query := `
		INSERT INTO inventory (
			item, category, quantity_purchased, date_purchased,
			total_purchase_price, variable_expenses, cost_per_unit, supplier
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.DB.QueryRow(ctx, query,
		lot.Item,
		lot.Category,
		lot.QuantityPurchased,
		lot.DatePurchased,
		lot.TotalPurchasePrice,
		lot.VariableExpenses,
		lot.CostPerUnit,
		lot.Supplier,
	).Scan(&lot.ID, &lot.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create inventory lot: %w", err)
	}
	return nil
}

func (r *InventoryRepository) List(ctx context.Context) ([]*models.InventoryLot, error) {
	query := `
		SELECT id, item, category, quantity_purchased, date_purchased,
		       total_purchase_price, variable_expenses, cost_per_unit, supplier, created_at
		FROM inventory
		ORDER BY id
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []*models.InventoryLot
	for rows.Next() {
		lot := &models.InventoryLot{}
		err := rows.Scan(
			&lot.ID,
			&lot.Item,
			&lot.Category,
			&lot.QuantityPurchased,
			&lot.DatePurchased,
			&lot.TotalPurchasePrice,
			&lot.VariableExpenses,
			&lot.CostPerUnit,
			&lot.Supplier,
			&lot.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}

	return lots, rows.Err()
}

// LatestLotByItem returns the most recently inserted lot for an item name,
// or nil when no lot exists for it.
func (r *InventoryRepository) LatestLotByItem(ctx context.Context, item string) (*models.InventoryLot, error) {
	query := `
		SELECT id, item, category, quantity_purchased, date_purchased,
		       total_purchase_price, variable_expenses, cost_per_unit, supplier, created_at
		FROM inventory
		WHERE item = $1
		ORDER BY id DESC
		LIMIT 1
	`

	lot := &models.InventoryLot{}
	err := r.DB.QueryRow(ctx, query, item).Scan(
		&lot.ID,
		&lot.Item,
		&lot.Category,
		&lot.QuantityPurchased,
		&lot.DatePurchased,
		&lot.TotalPurchasePrice,
		&lot.VariableExpenses,
		&lot.CostPerUnit,
		&lot.Supplier,
		&lot.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// TotalPurchased sums quantity_purchased over every lot with this item name.
func (r *InventoryRepository) TotalPurchased(ctx context.Context, item string) (int, error) {
	var total int
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity_purchased), 0)
		FROM inventory
		WHERE item = $1
	`, item).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// StockByItem reconciles purchased against sold per item name. The FULL
// OUTER JOIN keeps items that appear only in sales: their remaining
// quantity comes out negative and is reported, not hidden.
func (r *InventoryRepository) StockByItem(ctx context.Context) ([]*models.ItemStock, error) {
	query := `
		SELECT COALESCE(p.item, s.product_id) AS item,
		       COALESCE(p.total_purchased, 0),
		       COALESCE(s.total_sold, 0)
		FROM (
			SELECT item, SUM(quantity_purchased) AS total_purchased
			FROM inventory GROUP BY item
		) p
		FULL OUTER JOIN (
			SELECT product_id, SUM(quantity) AS total_sold
			FROM sales GROUP BY product_id
		) s ON p.item = s.product_id
		ORDER BY 1
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []*models.ItemStock
	for rows.Next() {
		st := &models.ItemStock{}
		if err := rows.Scan(&st.Item, &st.TotalPurchased, &st.TotalSold); err != nil {
			return nil, err
		}
		st.Remaining = st.TotalPurchased - st.TotalSold
		st.NegativeStock = st.Remaining < 0
		stocks = append(stocks, st)
	}

	return stocks, rows.Err()
}

func (r *InventoryRepository) Categories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "SELECT DISTINCT category FROM inventory ORDER BY category")
}

func (r *InventoryRepository) Suppliers(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "SELECT DISTINCT supplier FROM inventory ORDER BY supplier")
}

func (r *InventoryRepository) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// TotalInvestment is the sum of purchase price plus expenses over all lots.
func (r *InventoryRepository) TotalInvestment(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_purchase_price + variable_expenses), 0)
		FROM inventory
	`).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
