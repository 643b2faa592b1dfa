package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"khata-backend/internal/models"
	"khata-backend/internal/services"
	"khata-backend/pkg/utils"
)

type CreditHandler struct {
	CreditService *services.CreditService
}

func NewCreditHandler(creditService *services.CreditService) *CreditHandler {
	return &CreditHandler{CreditService: creditService}
}

// CreateEntry logs a credit directly in the khata book
// POST /api/credits
func (h *CreditHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	entry, err := h.CreditService.CreateEntry(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, entry)
}

// ListEntries returns the credit book; ?view=active keeps Pending and
// Overdue entries, ?view=settled keeps Paid ones
// GET /api/credits
func (h *CreditHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	var (
		entries []*models.CreditEntry
		err     error
	)

	switch r.URL.Query().Get("view") {
	case "active":
		entries, err = h.CreditService.ListActive(r.Context())
	case "settled":
		entries, err = h.CreditService.ListSettled(r.Context())
	case "":
		entries, err = h.CreditService.List(r.Context())
	default:
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "view must be active or settled"})
		return
	}
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, entries)
}

// GetEntry returns a single credit entry
// GET /api/credits/{id}
func (h *CreditHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid credit entry id"})
		return
	}

	entry, err := h.CreditService.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, entry)
}

// UpdateStatus moves an entry through the settlement state machine
// PUT /api/credits/{id}/status
func (h *CreditHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid credit entry id"})
		return
	}

	var req struct {
		Status models.CreditStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	entry, err := h.CreditService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, entry)
}

// Summary returns dashboard aggregates over the credit book
// GET /api/credits/summary
func (h *CreditHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.CreditService.Summary(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

// CustomerEntries returns one customer's entries plus their unsettled
// balance
// GET /api/credits/customer/{customer}
func (h *CreditHandler) CustomerEntries(w http.ResponseWriter, r *http.Request) {
	customer := mux.Vars(r)["customer"]

	entries, err := h.CreditService.ListByCustomer(r.Context(), customer)
	if err != nil {
		utils.Error(w, err)
		return
	}
	balance, err := h.CreditService.CustomerSubtotal(r.Context(), customer)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"customer": customer,
		"entries":  entries,
		"balance":  balance,
	})
}
