package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"khata-backend/internal/models"
	"khata-backend/internal/services"
	"khata-backend/pkg/utils"
)

type AuthHandler struct {
	UserService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{UserService: userService}
}

// Login issues a token for valid credentials
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	resp, err := h.UserService.Login(r.Context(), &req)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			// Credential failures are 401, not 400
			utils.JSON(w, http.StatusUnauthorized, map[string]string{"error": vErr.Error()})
			return
		}
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}
