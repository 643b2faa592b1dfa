package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"khata-backend/internal/models"
)

func seedCredit(t *testing.T, credits *fakeCredits, customer string, amount string, status models.CreditStatus) *models.CreditEntry {
	t.Helper()
	entry := &models.CreditEntry{
		Customer: customer,
		Amount:   decimal.RequireFromString(amount),
		Date:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		DueDate:  time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		Status:   status,
	}
	if err := credits.Create(context.Background(), entry); err != nil {
		t.Fatalf("seed credit: %v", err)
	}
	return entry
}

func TestCreateEntry(t *testing.T) {
	_, _, _, credits := newFakes()
	svc := NewCreditService(credits, nil)

	entry, err := svc.CreateEntry(context.Background(), &models.CreateCreditRequest{
		Customer: "Ramesh",
		Contact:  "9876543210",
		Amount:   decimal.RequireFromString("500.505"),
		Date:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		DueDate:  time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if entry.Status != models.CreditStatusPending {
		t.Errorf("status = %s, want Pending", entry.Status)
	}
	if !entry.Amount.Equal(decimal.RequireFromString("500.51")) {
		t.Errorf("amount = %s, want rounded to 500.51", entry.Amount)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	_, _, _, credits := newFakes()
	svc := NewCreditService(credits, nil)

	date := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		req  *models.CreateCreditRequest
	}{
		{"zero amount", &models.CreateCreditRequest{
			Customer: "Ramesh", Amount: decimal.Zero, Date: date, DueDate: date,
		}},
		{"due before date", &models.CreateCreditRequest{
			Customer: "Ramesh", Amount: decimal.RequireFromString("100"),
			Date: date, DueDate: date.AddDate(0, 0, -1),
		}},
		{"missing customer", &models.CreateCreditRequest{
			Amount: decimal.RequireFromString("100"), Date: date, DueDate: date,
		}},
		{"bad contact", &models.CreateCreditRequest{
			Customer: "Ramesh", Contact: "12345",
			Amount: decimal.RequireFromString("100"), Date: date, DueDate: date,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEntry(context.Background(), tt.req)
			var vErr *models.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.CreditStatus
		to      models.CreditStatus
		allowed bool
	}{
		{"pending to paid", models.CreditStatusPending, models.CreditStatusPaid, true},
		{"pending to overdue", models.CreditStatusPending, models.CreditStatusOverdue, true},
		{"overdue to paid", models.CreditStatusOverdue, models.CreditStatusPaid, true},
		{"paid to pending reactivates", models.CreditStatusPaid, models.CreditStatusPending, true},
		{"overdue to pending", models.CreditStatusOverdue, models.CreditStatusPending, false},
		{"paid to overdue", models.CreditStatusPaid, models.CreditStatusOverdue, false},
		{"pending to pending", models.CreditStatusPending, models.CreditStatusPending, false},
		{"paid to paid", models.CreditStatusPaid, models.CreditStatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, credits := newFakes()
			svc := NewCreditService(credits, nil)
			entry := seedCredit(t, credits, "Ramesh", "200", tt.from)

			updated, err := svc.UpdateStatus(context.Background(), entry.ID, tt.to)
			if tt.allowed {
				if err != nil {
					t.Fatalf("transition %s -> %s: %v", tt.from, tt.to, err)
				}
				if updated.Status != tt.to {
					t.Errorf("status = %s, want %s", updated.Status, tt.to)
				}
				return
			}

			var vErr *models.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("transition %s -> %s: err = %v, want ValidationError", tt.from, tt.to, err)
			}
			current, _ := svc.Get(context.Background(), entry.ID)
			if current.Status != tt.from {
				t.Errorf("rejected transition changed status to %s", current.Status)
			}
		})
	}
}

// Settling and reactivating only ever flips status; amount, customer
// and dates survive the round trip untouched.
func TestReactivateRoundTripPreservesEntry(t *testing.T) {
	_, _, _, credits := newFakes()
	svc := NewCreditService(credits, nil)
	entry := seedCredit(t, credits, "Ramesh", "450.75", models.CreditStatusPending)

	if _, err := svc.UpdateStatus(context.Background(), entry.ID, models.CreditStatusPaid); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), entry.ID, models.CreditStatusPending); err != nil {
		t.Fatalf("reactivate: %v", err)
	}

	got, err := svc.Get(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Amount.Equal(entry.Amount) || got.Customer != entry.Customer ||
		!got.DueDate.Equal(entry.DueDate) {
		t.Errorf("round trip changed entry: %+v", got)
	}
	if got.Status != models.CreditStatusPending {
		t.Errorf("status = %s, want Pending after reactivation", got.Status)
	}
}

func TestUpdateStatusUnknownID(t *testing.T) {
	_, _, _, credits := newFakes()
	svc := NewCreditService(credits, nil)

	_, err := svc.UpdateStatus(context.Background(), 99, models.CreditStatusPaid)
	var nfErr *models.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

// The customer balance counts Pending and Overdue entries; Paid entries
// belong to history only.
func TestCustomerSubtotalExcludesPaid(t *testing.T) {
	_, _, _, credits := newFakes()
	svc := NewCreditService(credits, nil)

	seedCredit(t, credits, "Ramesh", "100", models.CreditStatusPending)
	seedCredit(t, credits, "Ramesh", "250", models.CreditStatusOverdue)
	seedCredit(t, credits, "Ramesh", "999", models.CreditStatusPaid)
	seedCredit(t, credits, "Suresh", "400", models.CreditStatusPending)

	total, err := svc.CustomerSubtotal(context.Background(), "Ramesh")
	if err != nil {
		t.Fatalf("CustomerSubtotal: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("350")) {
		t.Errorf("subtotal = %s, want 350", total)
	}
}

func TestActiveAndSettledViews(t *testing.T) {
	_, _, _, credits := newFakes()
	svc := NewCreditService(credits, nil)

	seedCredit(t, credits, "A", "100", models.CreditStatusPending)
	seedCredit(t, credits, "B", "200", models.CreditStatusOverdue)
	seedCredit(t, credits, "C", "300", models.CreditStatusPaid)

	active, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("active entries = %d, want 2", len(active))
	}

	settled, err := svc.ListSettled(context.Background())
	if err != nil {
		t.Fatalf("ListSettled: %v", err)
	}
	if len(settled) != 1 {
		t.Errorf("settled entries = %d, want 1", len(settled))
	}

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !summary.TotalOutstanding.Equal(decimal.RequireFromString("300")) {
		t.Errorf("outstanding = %s, want 300", summary.TotalOutstanding)
	}
	if !summary.TotalSettled.Equal(decimal.RequireFromString("300")) {
		t.Errorf("settled = %s, want 300", summary.TotalSettled)
	}
}
