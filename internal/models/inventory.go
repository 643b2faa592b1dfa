package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLot is one purchase batch of an item. Lots are append-only:
// multiple lots may share an item name, each is a distinct batch.
type InventoryLot struct {
	ID                 int             `json:"id"`
	Item               string          `json:"item"`
	Category           string          `json:"category"`
	QuantityPurchased  int             `json:"quantity_purchased"`
	DatePurchased      time.Time       `json:"date_purchased"`
	TotalPurchasePrice decimal.Decimal `json:"total_purchase_price"`
	VariableExpenses   decimal.Decimal `json:"variable_expenses"`
	CostPerUnit        decimal.Decimal `json:"cost_per_unit"`
	Supplier           string          `json:"supplier"`
	CreatedAt          time.Time       `json:"created_at"`
}

// CreateInventoryLotRequest is the input for recording a purchase.
// CostPerUnit is derived by the service, never supplied by the caller.
type CreateInventoryLotRequest struct {
	Item               string          `json:"item" validate:"required"`
	Category           string          `json:"category" validate:"required"`
	QuantityPurchased  int             `json:"quantity_purchased" validate:"required,gt=0"`
	DatePurchased      time.Time       `json:"date_purchased" validate:"required"`
	TotalPurchasePrice decimal.Decimal `json:"total_purchase_price"`
	VariableExpenses   decimal.Decimal `json:"variable_expenses"`
	Supplier           string          `json:"supplier" validate:"required"`
}

// ItemStock is the reconciled stock position for one item name.
// Remaining may be negative when sales reference an item with no (or not
// enough) recorded lots; that is surfaced, never clamped to zero.
type ItemStock struct {
	Item           string `json:"item"`
	TotalPurchased int    `json:"total_purchased"`
	TotalSold      int    `json:"total_sold"`
	Remaining      int    `json:"remaining"`
	NegativeStock  bool   `json:"negative_stock"`
}
