package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"khata-backend/internal/models"
	"khata-backend/internal/services"
	"khata-backend/internal/timeutil"
	"khata-backend/pkg/utils"
)

type ReportHandler struct {
	ReportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{ReportService: reportService}
}

// Dashboard returns the top-level aggregates
// GET /api/reports/dashboard
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ReportService.DashboardSummary(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

// DailySummary returns one IST business day of sales, defaulting to
// today; ?format=pdf renders the printable sheet
// GET /api/reports/daily-summary?date=2025-07-10
func (h *ReportHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	day := timeutil.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation(timeutil.DateLayout, dateStr, timeutil.IST)
		if err != nil {
			utils.Error(w, &models.ValidationError{Field: "date", Message: "must be a date in the form 2006-01-02"})
			return
		}
		day = parsed
	}

	if r.URL.Query().Get("format") == "pdf" {
		pdf, err := h.ReportService.DailySummaryPDF(r.Context(), day)
		if err != nil {
			utils.Error(w, err)
			return
		}
		servePDF(w, fmt.Sprintf("daily-summary-%s.pdf", day.Format(timeutil.DateLayout)), pdf)
		return
	}

	summary, err := h.ReportService.DailySummary(r.Context(), day)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

// CreditStatement renders one customer's khata page as a PDF
// GET /api/reports/credit-statement/{customer}
func (h *ReportHandler) CreditStatement(w http.ResponseWriter, r *http.Request) {
	customer := mux.Vars(r)["customer"]

	pdf, err := h.ReportService.CreditStatementPDF(r.Context(), customer)
	if err != nil {
		utils.Error(w, err)
		return
	}
	servePDF(w, fmt.Sprintf("credit-statement-%s.pdf", customer), pdf)
}

// SalesCSV exports the full sales book
// GET /api/reports/sales.csv
func (h *ReportHandler) SalesCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.ReportService.SalesCSV(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sales.csv"`)
	w.Write(data)
}

func servePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}
