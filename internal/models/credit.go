package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditStatus is the settlement state of a credit entry.
//
// Transitions are always explicit user actions; the passing of a due date
// never changes status on its own (there is deliberately no background
// sweep job).
type CreditStatus string

const (
	CreditStatusPending CreditStatus = "Pending"
	CreditStatusOverdue CreditStatus = "Overdue"
	CreditStatusPaid    CreditStatus = "Paid"
)

// Valid reports whether s is one of the accepted statuses.
func (s CreditStatus) Valid() bool {
	switch s {
	case CreditStatusPending, CreditStatusOverdue, CreditStatusPaid:
		return true
	}
	return false
}

// CanTransitionTo reports whether the move from s to next is allowed:
// any state -> Paid (mark as paid), Pending -> Overdue (manual flag),
// Paid -> Pending (reactivate, undoes settlement).
func (s CreditStatus) CanTransitionTo(next CreditStatus) bool {
	if s == next {
		return false
	}
	switch next {
	case CreditStatusPaid:
		return true
	case CreditStatusOverdue:
		return s == CreditStatusPending
	case CreditStatusPending:
		return s == CreditStatusPaid
	}
	return false
}

// CreditEntry is one customer credit obligation in the khata book.
// Only Status is mutable after creation.
type CreditEntry struct {
	ID          int             `json:"id"`
	Customer    string          `json:"customer"`
	Contact     string          `json:"contact,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	DueDate     time.Time       `json:"due_date"`
	Description string          `json:"description,omitempty"`
	Status      CreditStatus    `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateCreditRequest is the input for logging a credit directly
// (as opposed to one opened automatically by an unpaid sale).
type CreateCreditRequest struct {
	Customer    string          `json:"customer" validate:"required"`
	Contact     string          `json:"contact" validate:"omitempty,len=10,numeric"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date" validate:"required"`
	DueDate     time.Time       `json:"due_date" validate:"required"`
	Description string          `json:"description"`
}

// CreditSummary aggregates the credit book for the dashboard.
type CreditSummary struct {
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalSettled     decimal.Decimal `json:"total_settled"`
	PendingCount     int             `json:"pending_count"`
	OverdueCount     int             `json:"overdue_count"`
	PaidCount        int             `json:"paid_count"`
}
