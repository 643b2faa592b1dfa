package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"khata-backend/internal/models"
	"khata-backend/internal/services"
	"khata-backend/internal/timeutil"
	"khata-backend/pkg/utils"
)

type SalesHandler struct {
	SalesService *services.SalesService
}

func NewSalesHandler(salesService *services.SalesService) *SalesHandler {
	return &SalesHandler{SalesService: salesService}
}

// RecordSale validates and records a sale; an unpaid balance opens a
// credit entry in the same transaction and returns it alongside
// POST /api/sales
func (h *SalesHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sale, credit, err := h.SalesService.RecordSale(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	response := map[string]interface{}{"sale": sale}
	if credit != nil {
		response["credit_entry"] = credit
	}
	utils.JSON(w, http.StatusCreated, response)
}

// ListSales returns the sales book, optionally bounded to one IST day
// range with ?from=2025-07-01&to=2025-07-31
// GET /api/sales
func (h *SalesHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	if fromStr != "" || toStr != "" {
		from, to, err := parseDateRange(fromStr, toStr)
		if err != nil {
			utils.Error(w, err)
			return
		}
		sales, err := h.SalesService.ListByDateRange(r.Context(), from, to)
		if err != nil {
			utils.Error(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, sales)
		return
	}

	sales, err := h.SalesService.List(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, sales)
}

// Totals returns book-wide revenue, profit and pending aggregates
// GET /api/sales/totals
func (h *SalesHandler) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.SalesService.Totals(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, totals)
}

func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, &models.ValidationError{
			Field: "from", Message: "from and to must be given together",
		}
	}
	from, err := time.ParseInLocation(timeutil.DateLayout, fromStr, timeutil.IST)
	if err != nil {
		return time.Time{}, time.Time{}, &models.ValidationError{
			Field: "from", Message: "must be a date in the form 2006-01-02",
		}
	}
	to, err := time.ParseInLocation(timeutil.DateLayout, toStr, timeutil.IST)
	if err != nil {
		return time.Time{}, time.Time{}, &models.ValidationError{
			Field: "to", Message: "must be a date in the form 2006-01-02",
		}
	}
	return timeutil.StartOfDay(from), timeutil.EndOfDay(to), nil
}
