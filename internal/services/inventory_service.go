package services

import (
	"context"
	"fmt"

	"khata-backend/internal/cache"
	"khata-backend/internal/events"
	"khata-backend/internal/metrics"
	"khata-backend/internal/models"
	"khata-backend/internal/pricing"
)

type InventoryService struct {
	inventory InventoryStore
	sales     SalesStore
	hub       *events.Hub
}

func NewInventoryService(inventory InventoryStore, sales SalesStore, hub *events.Hub) *InventoryService {
	return &InventoryService{
		inventory: inventory,
		sales:     sales,
		hub:       hub,
	}
}

// CreateLot records one purchase batch. Cost per unit is derived here
// from (total price + variable expenses) / quantity and rounded to the
// paisa at the persistence boundary; the caller never supplies it.
func (s *InventoryService) CreateLot(ctx context.Context, req *models.CreateInventoryLotRequest) (*models.InventoryLot, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.TotalPurchasePrice.IsNegative() {
		return nil, &models.ValidationError{Field: "total_purchase_price", Message: "must not be negative"}
	}
	if req.VariableExpenses.IsNegative() {
		return nil, &models.ValidationError{Field: "variable_expenses", Message: "must not be negative"}
	}

	lot := &models.InventoryLot{
		Item:               req.Item,
		Category:           req.Category,
		QuantityPurchased:  req.QuantityPurchased,
		DatePurchased:      req.DatePurchased,
		TotalPurchasePrice: pricing.Round2(req.TotalPurchasePrice),
		VariableExpenses:   pricing.Round2(req.VariableExpenses),
		CostPerUnit:        pricing.Round2(pricing.CostPerUnit(req.TotalPurchasePrice, req.VariableExpenses, req.QuantityPurchased)),
		Supplier:           req.Supplier,
	}

	if err := s.inventory.Create(ctx, lot); err != nil {
		return nil, &models.PersistenceError{Op: "create inventory lot", Err: err}
	}

	metrics.LedgerRecordsTotal.WithLabelValues("inventory").Inc()
	cache.InvalidateInventoryCaches(ctx)
	if s.hub != nil {
		s.hub.Publish("inventory", "created", lot.ID)
	}
	return lot, nil
}

func (s *InventoryService) List(ctx context.Context) ([]*models.InventoryLot, error) {
	lots, err := s.inventory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory lots: %w", err)
	}
	return lots, nil
}

// Remaining reconciles purchased vs sold for one item name. Negative
// values are surfaced as-is: sales can reference items with no recorded
// lots and the discrepancy must stay visible.
func (s *InventoryService) Remaining(ctx context.Context, item string) (*models.ItemStock, error) {
	purchased, err := s.inventory.TotalPurchased(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to sum purchases for %q: %w", item, err)
	}
	sold, err := s.sales.TotalSold(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to sum sales for %q: %w", item, err)
	}

	remaining := purchased - sold
	return &models.ItemStock{
		Item:           item,
		TotalPurchased: purchased,
		TotalSold:      sold,
		Remaining:      remaining,
		NegativeStock:  remaining < 0,
	}, nil
}

// StockStatus is the reconciled position for every item that appears in
// either table, including items that were only ever sold.
func (s *InventoryService) StockStatus(ctx context.Context) ([]*models.ItemStock, error) {
	stock, err := s.inventory.StockByItem(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stock status: %w", err)
	}
	return stock, nil
}

func (s *InventoryService) Categories(ctx context.Context) ([]string, error) {
	return s.inventory.Categories(ctx)
}

func (s *InventoryService) Suppliers(ctx context.Context) ([]string, error) {
	return s.inventory.Suppliers(ctx)
}
