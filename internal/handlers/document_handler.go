package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"khata-backend/internal/models"
	"khata-backend/internal/services"
	"khata-backend/pkg/utils"
)

type DocumentHandler struct {
	DocumentService *services.DocumentService
}

func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{DocumentService: documentService}
}

// Attach uploads a file and links it to a ledger record. Multipart
// fields: reference_type, reference_id, file
// POST /api/documents
func (h *DocumentHandler) Attach(w http.ResponseWriter, r *http.Request) {
	// One extra MiB so an oversize file is rejected by the service with
	// a proper message instead of a parse failure
	if err := r.ParseMultipartForm(services.MaxUploadSize + 1<<20); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}

	refType := models.ReferenceType(r.FormValue("reference_type"))
	refID, err := strconv.Atoi(r.FormValue("reference_id"))
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid reference_id"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "file field is required"})
		return
	}
	defer file.Close()

	doc, err := h.DocumentService.Attach(r.Context(), &services.AttachDocumentRequest{
		ReferenceType: refType,
		ReferenceID:   refID,
		FileName:      header.Filename,
		ContentType:   header.Header.Get("Content-Type"),
		Size:          header.Size,
		Body:          file,
	})
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, doc)
}

// ListFor returns the documents attached to one ledger record
// GET /api/documents/{refType}/{refID}
func (h *DocumentHandler) ListFor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	refID, err := strconv.Atoi(vars["refID"])
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid reference id"})
		return
	}

	docs, err := h.DocumentService.ListFor(r.Context(), models.ReferenceType(vars["refType"]), refID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, docs)
}

// Detach removes the reference and deletes the hosted file. A failed
// file deletion still removes the reference and comes back as a warning
// DELETE /api/documents/{id}
func (h *DocumentHandler) Detach(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid document id"})
		return
	}

	warning, err := h.DocumentService.Detach(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	response := map[string]interface{}{"deleted": true}
	if warning != "" {
		response["warning"] = warning
	}
	utils.JSON(w, http.StatusOK, response)
}
