package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"khata-backend/internal/config"
	"khata-backend/internal/models"
)

// JSON writes a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error maps the ledger's typed errors onto HTTP statuses. Unknown
// errors are logged and come back as an opaque 500.
func Error(w http.ResponseWriter, err error) {
	var (
		vErr     *models.ValidationError
		nfErr    *models.NotFoundError
		stockErr *models.InsufficientStockError
		upErr    *models.ExternalUploadError
	)

	switch {
	case errors.As(err, &vErr):
		JSON(w, http.StatusBadRequest, map[string]string{"error": vErr.Error()})
	case errors.As(err, &nfErr):
		JSON(w, http.StatusNotFound, map[string]string{"error": nfErr.Error()})
	case errors.As(err, &stockErr):
		JSON(w, http.StatusConflict, map[string]interface{}{
			"error":     stockErr.Error(),
			"item":      stockErr.Item,
			"requested": stockErr.Requested,
			"remaining": stockErr.Remaining,
		})
	case errors.As(err, &upErr):
		JSON(w, http.StatusBadGateway, map[string]string{"error": upErr.Error()})
	default:
		config.LogError(config.GetLogger(), "utils", "Error", "http response", err)
		JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
