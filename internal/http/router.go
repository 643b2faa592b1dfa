package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"khata-backend/internal/events"
	"khata-backend/internal/handlers"
	"khata-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	inventoryHandler *handlers.InventoryHandler,
	salesHandler *handlers.SalesHandler,
	creditHandler *handlers.CreditHandler,
	documentHandler *handlers.DocumentHandler,
	reportHandler *handlers.ReportHandler,
	systemHandler *handlers.SystemHandler,
	healthHandler *handlers.HealthHandler,
	hub *events.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Inventory
	inventoryAPI := r.PathPrefix("/api/inventory").Subrouter()
	inventoryAPI.Use(authMiddleware.Authenticate)
	inventoryAPI.HandleFunc("", inventoryHandler.ListLots).Methods("GET")
	inventoryAPI.HandleFunc("", inventoryHandler.CreateLot).Methods("POST")
	inventoryAPI.HandleFunc("/status", inventoryHandler.StockStatus).Methods("GET")
	inventoryAPI.HandleFunc("/categories", inventoryHandler.Categories).Methods("GET")
	inventoryAPI.HandleFunc("/suppliers", inventoryHandler.Suppliers).Methods("GET")

	// Protected API routes - Sales
	salesAPI := r.PathPrefix("/api/sales").Subrouter()
	salesAPI.Use(authMiddleware.Authenticate)
	salesAPI.HandleFunc("", salesHandler.ListSales).Methods("GET")
	salesAPI.HandleFunc("", salesHandler.RecordSale).Methods("POST")
	salesAPI.HandleFunc("/totals", salesHandler.Totals).Methods("GET")

	// Protected API routes - Credit book
	creditsAPI := r.PathPrefix("/api/credits").Subrouter()
	creditsAPI.Use(authMiddleware.Authenticate)
	creditsAPI.HandleFunc("", creditHandler.ListEntries).Methods("GET")
	creditsAPI.HandleFunc("", creditHandler.CreateEntry).Methods("POST")
	creditsAPI.HandleFunc("/summary", creditHandler.Summary).Methods("GET")
	creditsAPI.HandleFunc("/customer/{customer}", creditHandler.CustomerEntries).Methods("GET")
	creditsAPI.HandleFunc("/{id}", creditHandler.GetEntry).Methods("GET")
	creditsAPI.HandleFunc("/{id}/status", creditHandler.UpdateStatus).Methods("PUT")

	// Protected API routes - Documents
	documentsAPI := r.PathPrefix("/api/documents").Subrouter()
	documentsAPI.Use(authMiddleware.Authenticate)
	documentsAPI.HandleFunc("", documentHandler.Attach).Methods("POST")
	documentsAPI.HandleFunc("/{refType}/{refID}", documentHandler.ListFor).Methods("GET")
	documentsAPI.HandleFunc("/{id}", documentHandler.Detach).Methods("DELETE")

	// Protected API routes - Reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/dashboard", reportHandler.Dashboard).Methods("GET")
	reportsAPI.HandleFunc("/daily-summary", reportHandler.DailySummary).Methods("GET")
	reportsAPI.HandleFunc("/credit-statement/{customer}", reportHandler.CreditStatement).Methods("GET")
	reportsAPI.HandleFunc("/sales.csv", reportHandler.SalesCSV).Methods("GET")

	// Protected API routes - System
	systemAPI := r.PathPrefix("/api/system").Subrouter()
	systemAPI.Use(authMiddleware.Authenticate)
	systemAPI.HandleFunc("/stats", systemHandler.Stats).Methods("GET")

	// Live dashboard updates. Events carry only entity names and ids,
	// so the socket stays outside the auth gate.
	r.HandleFunc("/api/events/ws", hub.HandleWebSocket).Methods("GET")

	// Health endpoint (no auth required - for probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
