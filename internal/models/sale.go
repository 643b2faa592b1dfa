package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType is how a sale was settled at the counter.
type PaymentType string

const (
	PaymentTypeCash    PaymentType = "Cash"
	PaymentTypeUPI     PaymentType = "UPI"
	PaymentTypeCredit  PaymentType = "Credit"
	PaymentTypePartial PaymentType = "Partial"
)

// Valid reports whether t is one of the accepted payment types.
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeCash, PaymentTypeUPI, PaymentTypeCredit, PaymentTypePartial:
		return true
	}
	return false
}

// SaleRecord is one sale event against an item name (a soft string join to
// inventory.item, not a foreign key). Immutable once created.
type SaleRecord struct {
	ID             int             `json:"id"`
	ProductID      string          `json:"product_id"`
	Category       string          `json:"category"`
	Quantity       int             `json:"quantity"`
	SaleDate       time.Time       `json:"sale_date"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	PricePerUnit   decimal.Decimal `json:"price_per_unit"`
	CostPerUnit    decimal.Decimal `json:"cost_per_unit"`
	ProfitPerUnit  decimal.Decimal `json:"profit_per_unit"`
	PaymentType    PaymentType     `json:"payment_type"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	AmountPending  decimal.Decimal `json:"amount_pending"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TotalProfit is profit_per_unit * quantity, rounded to the paisa.
func (s *SaleRecord) TotalProfit() decimal.Decimal {
	return s.ProfitPerUnit.Mul(decimal.NewFromInt(int64(s.Quantity))).Round(2)
}

// CreateSaleRequest is the input for recording a sale. Category, unit
// prices and profit are derived from the most recent matching lot;
// AmountPending is always derived as SalePrice - AmountReceived.
//
// Customer and Contact are only consulted when the sale leaves an unpaid
// balance (Credit or Partial payment), in which case Customer is required
// and a credit entry is opened in the same transaction.
type CreateSaleRequest struct {
	ProductID      string          `json:"product_id" validate:"required"`
	Quantity       int             `json:"quantity" validate:"required,gt=0"`
	SaleDate       time.Time       `json:"sale_date" validate:"required"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	PaymentType    PaymentType     `json:"payment_type" validate:"required"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	Customer       string          `json:"customer"`
	Contact        string          `json:"contact" validate:"omitempty,len=10,numeric"`
	DueDate        *time.Time      `json:"due_date"`
}
