package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"khata-backend/internal/models"
)

// ledgerData is shared in-memory state behind the store fakes, so a
// sale recorded through fakeSales is visible to fakeInventory's stock
// reconciliation the way a shared database would make it.
type ledgerData struct {
	lots    []*models.InventoryLot
	sales   []*models.SaleRecord
	credits []*models.CreditEntry
}

func newFakes() (*ledgerData, *fakeInventory, *fakeSales, *fakeCredits) {
	d := &ledgerData{}
	return d, &fakeInventory{d: d}, &fakeSales{d: d}, &fakeCredits{d: d}
}

type fakeInventory struct {
	d *ledgerData
}

func (f *fakeInventory) Create(_ context.Context, lot *models.InventoryLot) error {
	lot.ID = len(f.d.lots) + 1
	lot.CreatedAt = time.Now()
	f.d.lots = append(f.d.lots, lot)
	return nil
}

func (f *fakeInventory) List(_ context.Context) ([]*models.InventoryLot, error) {
	return f.d.lots, nil
}

func (f *fakeInventory) LatestLotByItem(_ context.Context, item string) (*models.InventoryLot, error) {
	for i := len(f.d.lots) - 1; i >= 0; i-- {
		if f.d.lots[i].Item == item {
			return f.d.lots[i], nil
		}
	}
	return nil, nil
}

func (f *fakeInventory) TotalPurchased(_ context.Context, item string) (int, error) {
	total := 0
	for _, lot := range f.d.lots {
		if lot.Item == item {
			total += lot.QuantityPurchased
		}
	}
	return total, nil
}

func (f *fakeInventory) StockByItem(_ context.Context) ([]*models.ItemStock, error) {
	purchased := map[string]int{}
	sold := map[string]int{}
	var order []string
	seen := map[string]bool{}

	for _, lot := range f.d.lots {
		purchased[lot.Item] += lot.QuantityPurchased
		if !seen[lot.Item] {
			seen[lot.Item] = true
			order = append(order, lot.Item)
		}
	}
	for _, sale := range f.d.sales {
		sold[sale.ProductID] += sale.Quantity
		if !seen[sale.ProductID] {
			seen[sale.ProductID] = true
			order = append(order, sale.ProductID)
		}
	}

	var stock []*models.ItemStock
	for _, item := range order {
		remaining := purchased[item] - sold[item]
		stock = append(stock, &models.ItemStock{
			Item:           item,
			TotalPurchased: purchased[item],
			TotalSold:      sold[item],
			Remaining:      remaining,
			NegativeStock:  remaining < 0,
		})
	}
	return stock, nil
}

func (f *fakeInventory) Categories(_ context.Context) ([]string, error) {
	return f.distinct(func(lot *models.InventoryLot) string { return lot.Category }), nil
}

func (f *fakeInventory) Suppliers(_ context.Context) ([]string, error) {
	return f.distinct(func(lot *models.InventoryLot) string { return lot.Supplier }), nil
}

func (f *fakeInventory) distinct(key func(*models.InventoryLot) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, lot := range f.d.lots {
		if k := key(lot); k != "" && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

func (f *fakeInventory) TotalInvestment(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, lot := range f.d.lots {
		total = total.Add(lot.TotalPurchasePrice).Add(lot.VariableExpenses)
	}
	return total, nil
}

type fakeSales struct {
	d         *ledgerData
	createErr error
}

func (f *fakeSales) CreateWithStockCheck(_ context.Context, sale *models.SaleRecord, credit *models.CreditEntry) error {
	if f.createErr != nil {
		return f.createErr
	}

	purchased, sold := 0, 0
	for _, lot := range f.d.lots {
		if lot.Item == sale.ProductID {
			purchased += lot.QuantityPurchased
		}
	}
	for _, s := range f.d.sales {
		if s.ProductID == sale.ProductID {
			sold += s.Quantity
		}
	}
	if remaining := purchased - sold; sale.Quantity > remaining {
		return &models.InsufficientStockError{
			Item:      sale.ProductID,
			Requested: sale.Quantity,
			Remaining: remaining,
		}
	}

	sale.ID = len(f.d.sales) + 1
	sale.CreatedAt = time.Now()
	f.d.sales = append(f.d.sales, sale)

	if credit != nil {
		credit.ID = len(f.d.credits) + 1
		credit.CreatedAt = time.Now()
		f.d.credits = append(f.d.credits, credit)
	}
	return nil
}

func (f *fakeSales) List(_ context.Context) ([]*models.SaleRecord, error) {
	return f.d.sales, nil
}

func (f *fakeSales) ListByDateRange(_ context.Context, from, to time.Time) ([]*models.SaleRecord, error) {
	var out []*models.SaleRecord
	for _, s := range f.d.sales {
		if !s.SaleDate.Before(from) && !s.SaleDate.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSales) TotalSold(_ context.Context, item string) (int, error) {
	total := 0
	for _, s := range f.d.sales {
		if s.ProductID == item {
			total += s.Quantity
		}
	}
	return total, nil
}

func (f *fakeSales) Totals(_ context.Context) (*models.SalesTotals, error) {
	t := &models.SalesTotals{}
	for _, s := range f.d.sales {
		t.TotalRevenue = t.TotalRevenue.Add(s.SalePrice)
		t.TotalProfit = t.TotalProfit.Add(s.TotalProfit())
		t.TotalPending = t.TotalPending.Add(s.AmountPending)
		t.SaleCount++
	}
	return t, nil
}

type fakeCredits struct {
	d         *ledgerData
	updateErr error
}

func (f *fakeCredits) Create(_ context.Context, entry *models.CreditEntry) error {
	entry.ID = len(f.d.credits) + 1
	entry.CreatedAt = time.Now()
	f.d.credits = append(f.d.credits, entry)
	return nil
}

func (f *fakeCredits) Get(_ context.Context, id int) (*models.CreditEntry, error) {
	for _, e := range f.d.credits {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, &models.NotFoundError{Resource: "credit entry", ID: id}
}

func (f *fakeCredits) List(_ context.Context, statuses ...models.CreditStatus) ([]*models.CreditEntry, error) {
	if len(statuses) == 0 {
		return f.d.credits, nil
	}
	var out []*models.CreditEntry
	for _, e := range f.d.credits {
		for _, s := range statuses {
			if e.Status == s {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCredits) UpdateStatus(_ context.Context, id int, status models.CreditStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, e := range f.d.credits {
		if e.ID == id {
			e.Status = status
			return nil
		}
	}
	return &models.NotFoundError{Resource: "credit entry", ID: id}
}

func (f *fakeCredits) Summary(_ context.Context) (*models.CreditSummary, error) {
	s := &models.CreditSummary{}
	for _, e := range f.d.credits {
		switch e.Status {
		case models.CreditStatusPaid:
			s.TotalSettled = s.TotalSettled.Add(e.Amount)
			s.PaidCount++
		case models.CreditStatusOverdue:
			s.TotalOutstanding = s.TotalOutstanding.Add(e.Amount)
			s.OverdueCount++
		default:
			s.TotalOutstanding = s.TotalOutstanding.Add(e.Amount)
			s.PendingCount++
		}
	}
	return s, nil
}

func (f *fakeCredits) CustomerSubtotal(_ context.Context, customer string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range f.d.credits {
		if e.Customer == customer && e.Status != models.CreditStatusPaid {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (f *fakeCredits) ListByCustomer(_ context.Context, customer string) ([]*models.CreditEntry, error) {
	var out []*models.CreditEntry
	for _, e := range f.d.credits {
		if e.Customer == customer {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeDocs struct {
	docs   []*models.DocumentRef
	nextID int
}

func (f *fakeDocs) Create(_ context.Context, doc *models.DocumentRef) error {
	f.nextID++
	doc.ID = f.nextID
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeDocs) Get(_ context.Context, id int) (*models.DocumentRef, error) {
	for _, d := range f.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, &models.NotFoundError{Resource: "document", ID: id}
}

func (f *fakeDocs) ListFor(_ context.Context, refType models.ReferenceType, refID int) ([]*models.DocumentRef, error) {
	var out []*models.DocumentRef
	for _, d := range f.docs {
		if d.ReferenceType == refType && d.ReferenceID == refID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocs) Delete(_ context.Context, id int) error {
	for i, d := range f.docs {
		if d.ID == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return nil
		}
	}
	return &models.NotFoundError{Resource: "document", ID: id}
}

const fakeBlobBaseURL = "https://files.test"

type fakeBlobs struct {
	objects   map[string][]byte
	uploadErr error
	deleteErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}}
}

func (f *fakeBlobs) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.objects[key] = data
	return fakeBlobBaseURL + "/" + key, nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobs) KeyFromLocator(locator string) string {
	return strings.TrimPrefix(strings.TrimPrefix(locator, fakeBlobBaseURL), "/")
}
