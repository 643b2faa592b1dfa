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

type CreditRepository struct {
	DB *pgxpool.Pool
}

func NewCreditRepository(db *pgxpool.Pool) *CreditRepository {
	return &CreditRepository{DB: db}
}

func (r *CreditRepository) Create(ctx context.Context, entry *models.CreditEntry) error {
	query := `
		INSERT INTO credit_book (customer, contact, amount, date, due_date, description, status)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''), $7)
		RETURNING id, created_at
	`

	err := r.DB.QueryRow(ctx, query,
		entry.Customer,
		entry.Contact,
		entry.Amount,
		entry.Date,
		entry.DueDate,
		entry.Description,
		entry.Status,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create credit entry: %w", err)
	}
	return nil
}

func (r *CreditRepository) Get(ctx context.Context, id int) (*models.CreditEntry, error) {
	query := `
		SELECT id, customer, COALESCE(contact, ''), amount, date, due_date,
		       COALESCE(description, ''), status, created_at
		FROM credit_book
		WHERE id = $1
	`

	entry := &models.CreditEntry{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.Customer,
		&entry.Contact,
		&entry.Amount,
		&entry.Date,
		&entry.DueDate,
		&entry.Description,
		&entry.Status,
		&entry.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &models.NotFoundError{Resource: "credit entry", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns credit entries in insertion order, optionally filtered
// to a set of statuses.
func (r *CreditRepository) List(ctx context.Context, statuses ...models.CreditStatus) ([]*models.CreditEntry, error) {
	query := `
		SELECT id, customer, COALESCE(contact, ''), amount, date, due_date,
		       COALESCE(description, ''), status, created_at
		FROM credit_book
	`
	var args []interface{}
	if len(statuses) > 0 {
		query += " WHERE status = ANY($1)"
		strs := make([]string, len(statuses))
		for i, s := range statuses {
			strs[i] = string(s)
		}
		args = append(args, strs)
	}
	query += " ORDER BY id"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.CreditEntry
	for rows.Next() {
		entry := &models.CreditEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.Customer,
			&entry.Contact,
			&entry.Amount,
			&entry.Date,
			&entry.DueDate,
			&entry.Description,
			&entry.Status,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// UpdateStatus sets the status of one credit entry. An unknown id is a
// NotFoundError, never a silent success.
func (r *CreditRepository) UpdateStatus(ctx context.Context, id int, status models.CreditStatus) error {
	tag, err := r.DB.Exec(ctx,
		"UPDATE credit_book SET status = $1 WHERE id = $2",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update credit status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &models.NotFoundError{Resource: "credit entry", ID: id}
	}
	return nil
}

func (r *CreditRepository) Summary(ctx context.Context) (*models.CreditSummary, error) {
	s := &models.CreditSummary{}
	err := r.DB.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status <> 'Paid'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'Paid'), 0),
			COUNT(*) FILTER (WHERE status = 'Pending'),
			COUNT(*) FILTER (WHERE status = 'Overdue'),
			COUNT(*) FILTER (WHERE status = 'Paid')
		FROM credit_book
	`).Scan(
		&s.TotalOutstanding,
		&s.TotalSettled,
		&s.PendingCount,
		&s.OverdueCount,
		&s.PaidCount,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CustomerSubtotal is the outstanding amount (status != Paid) for one customer.
func (r *CreditRepository) CustomerSubtotal(ctx context.Context, customer string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM credit_book
		WHERE customer = $1 AND status <> 'Paid'
	`, customer).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// ListByCustomer returns every entry for one customer, newest first.
func (r *CreditRepository) ListByCustomer(ctx context.Context, customer string) ([]*models.CreditEntry, error) {
	query := `
		SELECT id, customer, COALESCE(contact, ''), amount, date, due_date,
		       COALESCE(description, ''), status, created_at
		FROM credit_book
		WHERE customer = $1
		ORDER BY id DESC
	`

	rows, err := r.DB.Query(ctx, query, customer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.CreditEntry
	for rows.Next() {
		entry := &models.CreditEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.Customer,
			&entry.Contact,
			&entry.Amount,
			&entry.Date,
			&entry.DueDate,
			&entry.Description,
			&entry.Status,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
