package handlers

import (
	"encoding/json"
	"net/http"

	"khata-backend/internal/models"
	"khata-backend/internal/services"
	"khata-backend/pkg/utils"
)

type InventoryHandler struct {
	InventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{InventoryService: inventoryService}
}

// CreateLot records a purchase batch
// POST /api/inventory
func (h *InventoryHandler) CreateLot(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInventoryLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	lot, err := h.InventoryService.CreateLot(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, lot)
}

// ListLots returns every purchase lot
// GET /api/inventory
func (h *InventoryHandler) ListLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.InventoryService.List(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, lots)
}

// StockStatus returns the reconciled stock position, for one item when
// ?item= is given, otherwise for every item seen in either table
// GET /api/inventory/status
func (h *InventoryHandler) StockStatus(w http.ResponseWriter, r *http.Request) {
	if item := r.URL.Query().Get("item"); item != "" {
		stock, err := h.InventoryService.Remaining(r.Context(), item)
		if err != nil {
			utils.Error(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, stock)
		return
	}

	stock, err := h.InventoryService.StockStatus(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, stock)
}

// Categories returns the distinct category names in use
// GET /api/inventory/categories
func (h *InventoryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.InventoryService.Categories(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, categories)
}

// Suppliers returns the distinct supplier names in use
// GET /api/inventory/suppliers
func (h *InventoryHandler) Suppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.InventoryService.Suppliers(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, suppliers)
}
