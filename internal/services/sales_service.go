package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"khata-backend/internal/cache"
	"khata-backend/internal/events"
	"khata-backend/internal/metrics"
	"khata-backend/internal/models"
	"khata-backend/internal/pricing"
)

// defaultCreditTermDays is applied when an unpaid sale carries no
// explicit due date.
const defaultCreditTermDays = 30

type SalesService struct {
	inventory InventoryStore
	sales     SalesStore
	hub       *events.Hub
}

func NewSalesService(inventory InventoryStore, sales SalesStore, hub *events.Hub) *SalesService {
	return &SalesService{
		inventory: inventory,
		sales:     sales,
		hub:       hub,
	}
}

// RecordSale validates and persists one sale. Unit price, cost and
// profit are derived from the most recent lot matching the item name.
// A sale that leaves an unpaid balance (Credit or Partial) opens a
// credit entry in the same transaction as the sale row; the returned
// entry is nil for fully settled sales.
//
// Oversells fail with InsufficientStockError and write nothing. The
// authoritative quantity check runs inside the store transaction under
// a per-item lock; the check here only fails fast.
func (s *SalesService) RecordSale(ctx context.Context, req *models.CreateSaleRequest) (*models.SaleRecord, *models.CreditEntry, error) {
	if err := validateStruct(req); err != nil {
		return nil, nil, err
	}
	if !req.PaymentType.Valid() {
		return nil, nil, &models.ValidationError{Field: "payment_type", Message: "must be one of Cash, UPI, Credit, Partial"}
	}
	if !req.SalePrice.IsPositive() {
		return nil, nil, &models.ValidationError{Field: "sale_price", Message: "must be greater than 0"}
	}

	lot, err := s.inventory.LatestLotByItem(ctx, req.ProductID)
	if err != nil {
		return nil, nil, &models.PersistenceError{Op: "look up inventory lot", Err: err}
	}
	if lot == nil {
		return nil, nil, &models.ValidationError{Field: "product_id", Message: fmt.Sprintf("no inventory lot recorded for %q", req.ProductID)}
	}

	purchased, err := s.inventory.TotalPurchased(ctx, req.ProductID)
	if err != nil {
		return nil, nil, &models.PersistenceError{Op: "sum purchases", Err: err}
	}
	sold, err := s.sales.TotalSold(ctx, req.ProductID)
	if err != nil {
		return nil, nil, &models.PersistenceError{Op: "sum sales", Err: err}
	}
	if remaining := purchased - sold; req.Quantity > remaining {
		metrics.StockRejectionsTotal.Inc()
		return nil, nil, &models.InsufficientStockError{
			Item:      req.ProductID,
			Requested: req.Quantity,
			Remaining: remaining,
		}
	}

	received, pending, err := splitPayment(req.PaymentType, req.SalePrice, req.AmountReceived)
	if err != nil {
		return nil, nil, err
	}

	pricePerUnit := pricing.Round2(pricing.PricePerUnit(req.SalePrice, req.Quantity))
	profitPerUnit := pricing.Round2(pricing.ProfitPerUnit(
		pricing.PricePerUnit(req.SalePrice, req.Quantity), lot.CostPerUnit))

	sale := &models.SaleRecord{
		ProductID:      req.ProductID,
		Category:       lot.Category,
		Quantity:       req.Quantity,
		SaleDate:       req.SaleDate,
		SalePrice:      pricing.Round2(req.SalePrice),
		PricePerUnit:   pricePerUnit,
		CostPerUnit:    lot.CostPerUnit,
		ProfitPerUnit:  profitPerUnit,
		PaymentType:    req.PaymentType,
		AmountReceived: received,
		AmountPending:  pending,
	}

	var credit *models.CreditEntry
	if pending.IsPositive() {
		if req.Customer == "" {
			return nil, nil, &models.ValidationError{Field: "customer", Message: "is required when the sale leaves an unpaid balance"}
		}
		due := req.SaleDate.AddDate(0, 0, defaultCreditTermDays)
		if req.DueDate != nil {
			due = *req.DueDate
		}
		credit = &models.CreditEntry{
			Customer:    req.Customer,
			Contact:     req.Contact,
			Amount:      pending,
			Date:        req.SaleDate,
			DueDate:     due,
			Description: fmt.Sprintf("Credit from sale of %d x %s", req.Quantity, req.ProductID),
			Status:      models.CreditStatusPending,
		}
	}

	if err := s.sales.CreateWithStockCheck(ctx, sale, credit); err != nil {
		var stockErr *models.InsufficientStockError
		if errors.As(err, &stockErr) {
			metrics.StockRejectionsTotal.Inc()
			return nil, nil, stockErr
		}
		return nil, nil, &models.PersistenceError{Op: "create sale", Err: err}
	}

	metrics.LedgerRecordsTotal.WithLabelValues("sales").Inc()
	cache.InvalidateSalesCaches(ctx)
	if s.hub != nil {
		s.hub.Publish("sales", "created", sale.ID)
	}
	if credit != nil {
		metrics.LedgerRecordsTotal.WithLabelValues("credit").Inc()
		if s.hub != nil {
			s.hub.Publish("credit", "created", credit.ID)
		}
	}
	return sale, credit, nil
}

// splitPayment normalizes received/pending by payment type so that
// received + pending always equals the sale price to the paisa.
func splitPayment(paymentType models.PaymentType, salePrice, amountReceived decimal.Decimal) (received, pending decimal.Decimal, err error) {
	salePrice = pricing.Round2(salePrice)

	switch paymentType {
	case models.PaymentTypeCash, models.PaymentTypeUPI:
		received, pending = salePrice, decimal.Zero
	case models.PaymentTypeCredit:
		received, pending = decimal.Zero, salePrice
	case models.PaymentTypePartial:
		received = pricing.Round2(amountReceived)
		if !received.IsPositive() {
			return decimal.Zero, decimal.Zero, &models.ValidationError{
				Field: "amount_received", Message: "must be greater than 0 for a partial payment",
			}
		}
		if received.GreaterThanOrEqual(salePrice) {
			return decimal.Zero, decimal.Zero, &models.ValidationError{
				Field: "amount_received", Message: "must be less than the sale price for a partial payment",
			}
		}
		pending = salePrice.Sub(received)
	default:
		return decimal.Zero, decimal.Zero, &models.ValidationError{
			Field: "payment_type", Message: "must be one of Cash, UPI, Credit, Partial",
		}
	}

	if !pricing.WithinTolerance(received.Add(pending), salePrice) {
		return decimal.Zero, decimal.Zero, &models.ValidationError{
			Field: "amount_received", Message: "received and pending amounts do not add up to the sale price",
		}
	}
	return received, pending, nil
}

func (s *SalesService) List(ctx context.Context) ([]*models.SaleRecord, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

func (s *SalesService) ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.SaleRecord, error) {
	sales, err := s.sales.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales by date: %w", err)
	}
	return sales, nil
}

func (s *SalesService) Totals(ctx context.Context) (*models.SalesTotals, error) {
	totals, err := s.sales.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to derive sales totals: %w", err)
	}
	return totals, nil
}
