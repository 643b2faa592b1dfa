package models_test

import (
	"testing"

	"khata-backend/internal/models"
)

func TestCreditStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to models.CreditStatus
		allowed  bool
	}{
		{models.CreditStatusPending, models.CreditStatusPaid, true},
		{models.CreditStatusOverdue, models.CreditStatusPaid, true},
		{models.CreditStatusPending, models.CreditStatusOverdue, true},
		{models.CreditStatusPaid, models.CreditStatusPending, true}, // reactivate
		{models.CreditStatusOverdue, models.CreditStatusPending, false},
		{models.CreditStatusPaid, models.CreditStatusOverdue, false},
		{models.CreditStatusPending, models.CreditStatusPending, false},
		{models.CreditStatusPaid, models.CreditStatusPaid, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestEnumValidity(t *testing.T) {
	for _, s := range []models.CreditStatus{
		models.CreditStatusPending, models.CreditStatusOverdue, models.CreditStatusPaid,
	} {
		if !s.Valid() {
			t.Errorf("status %s should be valid", s)
		}
	}
	if models.CreditStatus("Settled").Valid() {
		t.Error("unknown status accepted")
	}

	for _, p := range []models.PaymentType{
		models.PaymentTypeCash, models.PaymentTypeUPI,
		models.PaymentTypeCredit, models.PaymentTypePartial,
	} {
		if !p.Valid() {
			t.Errorf("payment type %s should be valid", p)
		}
	}
	if models.PaymentType("Cheque").Valid() {
		t.Error("unknown payment type accepted")
	}

	for _, r := range []models.ReferenceType{
		models.ReferenceTypeInventory, models.ReferenceTypeSales, models.ReferenceTypeCredit,
	} {
		if !r.Valid() {
			t.Errorf("reference type %s should be valid", r)
		}
	}
	if models.ReferenceType("purchase").Valid() {
		t.Error("unknown reference type accepted")
	}
}
