package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"khata-backend/internal/cache"
	"khata-backend/internal/models"
	"khata-backend/internal/timeutil"
)

// dashboardTTL bounds staleness when a write-path invalidation is
// missed; aggregates are always re-derivable from the store.
const dashboardTTL = 5 * time.Minute

type ReportService struct {
	inventory InventoryStore
	sales     SalesStore
	credits   CreditStore
}

func NewReportService(inventory InventoryStore, sales SalesStore, credits CreditStore) *ReportService {
	return &ReportService{
		inventory: inventory,
		sales:     sales,
		credits:   credits,
	}
}

// DashboardSummary derives the top-level aggregates, read-through
// cached. A cache miss or unreachable Redis always falls back to the
// store; the cache never becomes authoritative.
func (s *ReportService) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	if data, ok := cache.GetCached(ctx, cache.DashboardKey); ok {
		summary := &models.DashboardSummary{}
		if err := json.Unmarshal(data, summary); err == nil {
			return summary, nil
		}
	}

	investment, err := s.inventory.TotalInvestment(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum investment: %w", err)
	}
	saleTotals, err := s.sales.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to derive sales totals: %w", err)
	}
	creditSummary, err := s.credits.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to derive credit summary: %w", err)
	}

	summary := &models.DashboardSummary{
		TotalInvestment: investment,
		Sales:           saleTotals,
		Credit:          creditSummary,
	}

	if data, err := json.Marshal(summary); err == nil {
		cache.SetCached(ctx, cache.DashboardKey, data, dashboardTTL)
	}
	return summary, nil
}

// DailySummary collects every sale of one IST business day.
func (s *ReportService) DailySummary(ctx context.Context, day time.Time) (*models.DailySummary, error) {
	from := timeutil.StartOfDay(day)
	to := timeutil.EndOfDay(day)

	sales, err := s.sales.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales for %s: %w", from.Format(timeutil.DateLayout), err)
	}

	summary := &models.DailySummary{
		Date:  from.Format(timeutil.DateLayout),
		Sales: sales,
	}
	for _, sale := range sales {
		summary.TotalRevenue = summary.TotalRevenue.Add(sale.SalePrice)
		summary.TotalProfit = summary.TotalProfit.Add(sale.TotalProfit())
		summary.TotalPending = summary.TotalPending.Add(sale.AmountPending)
	}
	return summary, nil
}

// CreditStatementPDF renders one customer's full khata page: every
// entry with its status plus the unsettled balance.
func (s *ReportService) CreditStatementPDF(ctx context.Context, customer string) ([]byte, error) {
	if customer == "" {
		return nil, &models.ValidationError{Field: "customer", Message: "is required"}
	}

	entries, err := s.credits.ListByCustomer(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("failed to list credits for %q: %w", customer, err)
	}
	outstanding, err := s.credits.CustomerSubtotal(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("failed to derive balance for %q: %w", customer, err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Khata - Credit Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, fmt.Sprintf("Customer: %s", customer), "1", 1, "L", true, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(30, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Due Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Status", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 7, "Description", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, e := range entries {
		pdf.CellFormat(30, 6, timeutil.ToIST(e.Date).Format("02-01-2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, timeutil.ToIST(e.DueDate).Format("02-01-2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, "Rs. "+e.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, string(e.Status), "1", 0, "C", false, 0, "")
		desc := e.Description
		if len(desc) > 45 {
			desc = desc[:42] + "..."
		}
		pdf.CellFormat(70, 6, desc, "1", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	if outstanding.IsPositive() {
		pdf.SetFillColor(255, 230, 230)
	} else {
		pdf.SetFillColor(230, 255, 230)
	}
	pdf.CellFormat(190, 10, fmt.Sprintf("Outstanding Balance: Rs. %s", outstanding.StringFixed(2)), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render credit statement: %w", err)
	}
	return buf.Bytes(), nil
}

// DailySummaryPDF renders one business day's sales sheet.
func (s *ReportService) DailySummaryPDF(ctx context.Context, day time.Time) ([]byte, error) {
	summary, err := s.DailySummary(ctx, day)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Khata - Daily Sales Summary", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(190, 6, fmt.Sprintf("Date: %s", summary.Date), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(50, 7, "Item", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Sale Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Payment", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Received", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Pending", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, sale := range summary.Sales {
		item := sale.ProductID
		if len(item) > 30 {
			item = item[:27] + "..."
		}
		pdf.CellFormat(50, 6, item, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, strconv.Itoa(sale.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, "Rs. "+sale.SalePrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, string(sale.PaymentType), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, "Rs. "+sale.AmountReceived.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, "Rs. "+sale.AmountPending.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(63, 8, fmt.Sprintf("Revenue: Rs. %s", summary.TotalRevenue.StringFixed(2)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Profit: Rs. %s", summary.TotalProfit.StringFixed(2)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("Pending: Rs. %s", summary.TotalPending.StringFixed(2)), "1", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render daily summary: %w", err)
	}
	return buf.Bytes(), nil
}

// SalesCSV exports the full sales book for spreadsheet work.
func (s *ReportService) SalesCSV(ctx context.Context) ([]byte, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{
		"id", "product_id", "category", "quantity", "sale_date", "sale_price",
		"price_per_unit", "cost_per_unit", "profit_per_unit",
		"payment_type", "amount_received", "amount_pending",
	})
	for _, sale := range sales {
		_ = w.Write([]string{
			strconv.Itoa(sale.ID),
			sale.ProductID,
			sale.Category,
			strconv.Itoa(sale.Quantity),
			timeutil.ToIST(sale.SaleDate).Format(timeutil.DateLayout),
			sale.SalePrice.StringFixed(2),
			sale.PricePerUnit.StringFixed(2),
			sale.CostPerUnit.StringFixed(2),
			sale.ProfitPerUnit.StringFixed(2),
			string(sale.PaymentType),
			sale.AmountReceived.StringFixed(2),
			sale.AmountPending.StringFixed(2),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write sales csv: %w", err)
	}
	return buf.Bytes(), nil
}
