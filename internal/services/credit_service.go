package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"khata-backend/internal/cache"
	"khata-backend/internal/events"
	"khata-backend/internal/metrics"
	"khata-backend/internal/models"
	"khata-backend/internal/pricing"
)

type CreditService struct {
	credits CreditStore
	hub     *events.Hub
}

func NewCreditService(credits CreditStore, hub *events.Hub) *CreditService {
	return &CreditService{credits: credits, hub: hub}
}

// CreateEntry logs a credit directly in the khata book. Entries opened
// automatically by unpaid sales do not pass through here; they are
// written inside the sale transaction.
func (s *CreditService) CreateEntry(ctx context.Context, req *models.CreateCreditRequest) (*models.CreditEntry, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, &models.ValidationError{Field: "amount", Message: "must be greater than 0"}
	}
	if req.DueDate.Before(req.Date) {
		return nil, &models.ValidationError{Field: "due_date", Message: "must not be before the credit date"}
	}

	entry := &models.CreditEntry{
		Customer:    req.Customer,
		Contact:     req.Contact,
		Amount:      pricing.Round2(req.Amount),
		Date:        req.Date,
		DueDate:     req.DueDate,
		Description: req.Description,
		Status:      models.CreditStatusPending,
	}

	if err := s.credits.Create(ctx, entry); err != nil {
		return nil, &models.PersistenceError{Op: "create credit entry", Err: err}
	}

	metrics.LedgerRecordsTotal.WithLabelValues("credit").Inc()
	cache.InvalidateCreditCaches(ctx)
	if s.hub != nil {
		s.hub.Publish("credit", "created", entry.ID)
	}
	return entry, nil
}

// UpdateStatus moves an entry through the settlement state machine.
// Disallowed transitions (including no-op same-state updates) are
// rejected before anything is written. Amount, customer and dates are
// untouched: settling and reactivating only ever flips status.
func (s *CreditService) UpdateStatus(ctx context.Context, id int, next models.CreditStatus) (*models.CreditEntry, error) {
	if !next.Valid() {
		return nil, &models.ValidationError{Field: "status", Message: "must be one of Pending, Overdue, Paid"}
	}

	entry, err := s.credits.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entry.Status.CanTransitionTo(next) {
		return nil, &models.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("cannot move from %s to %s", entry.Status, next),
		}
	}

	if err := s.credits.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	entry.Status = next

	cache.InvalidateCreditCaches(ctx)
	if s.hub != nil {
		s.hub.Publish("credit", "status_changed", id)
	}
	return entry, nil
}

func (s *CreditService) Get(ctx context.Context, id int) (*models.CreditEntry, error) {
	return s.credits.Get(ctx, id)
}

func (s *CreditService) List(ctx context.Context) ([]*models.CreditEntry, error) {
	return s.credits.List(ctx)
}

// ListActive returns unsettled entries (Pending and Overdue).
func (s *CreditService) ListActive(ctx context.Context) ([]*models.CreditEntry, error) {
	return s.credits.List(ctx, models.CreditStatusPending, models.CreditStatusOverdue)
}

// ListSettled returns entries marked Paid.
func (s *CreditService) ListSettled(ctx context.Context) ([]*models.CreditEntry, error) {
	return s.credits.List(ctx, models.CreditStatusPaid)
}

func (s *CreditService) Summary(ctx context.Context) (*models.CreditSummary, error) {
	summary, err := s.credits.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to derive credit summary: %w", err)
	}
	return summary, nil
}

// CustomerSubtotal is the customer's unsettled balance (Pending plus
// Overdue; Paid entries do not count).
func (s *CreditService) CustomerSubtotal(ctx context.Context, customer string) (decimal.Decimal, error) {
	if customer == "" {
		return decimal.Zero, &models.ValidationError{Field: "customer", Message: "is required"}
	}
	return s.credits.CustomerSubtotal(ctx, customer)
}

func (s *CreditService) ListByCustomer(ctx context.Context, customer string) ([]*models.CreditEntry, error) {
	if customer == "" {
		return nil, &models.ValidationError{Field: "customer", Message: "is required"}
	}
	return s.credits.ListByCustomer(ctx, customer)
}
