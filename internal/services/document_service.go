package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"khata-backend/internal/events"
	"khata-backend/internal/metrics"
	"khata-backend/internal/models"
	"khata-backend/internal/storage"
	"khata-backend/internal/timeutil"
)

// MaxUploadSize is the per-file upload limit (5 MiB).
const MaxUploadSize = 5 << 20

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".pdf":  true,
	".gif":  true,
}

// AttachDocumentRequest carries one file to attach to a ledger record.
// Size is the declared length in bytes; Body is read at most once.
type AttachDocumentRequest struct {
	ReferenceType models.ReferenceType
	ReferenceID   int
	FileName      string
	ContentType   string
	Size          int64
	Body          io.Reader
}

type DocumentService struct {
	docs  DocumentStore
	blobs storage.ObjectStore
	hub   *events.Hub
}

func NewDocumentService(docs DocumentStore, blobs storage.ObjectStore, hub *events.Hub) *DocumentService {
	return &DocumentService{docs: docs, blobs: blobs, hub: hub}
}

// Attach uploads the file to the blob host and records the returned
// locator against the referenced record. A failed upload raises
// ExternalUploadError and writes nothing; it never affects the record
// the file was meant for.
func (s *DocumentService) Attach(ctx context.Context, req *AttachDocumentRequest) (*models.DocumentRef, error) {
	if !req.ReferenceType.Valid() {
		return nil, &models.ValidationError{Field: "reference_type", Message: "must be one of inventory, sales, credit"}
	}
	if req.ReferenceID <= 0 {
		return nil, &models.ValidationError{Field: "reference_id", Message: "must be greater than 0"}
	}
	if req.FileName == "" {
		return nil, &models.ValidationError{Field: "file_name", Message: "is required"}
	}
	ext := strings.ToLower(filepath.Ext(req.FileName))
	if !allowedExtensions[ext] {
		return nil, &models.ValidationError{
			Field:   "file_name",
			Message: fmt.Sprintf("type %q not allowed, accepted: png, jpg, jpeg, pdf, gif", ext),
		}
	}
	if req.Size > MaxUploadSize {
		return nil, &models.ValidationError{
			Field:   "file_name",
			Message: fmt.Sprintf("%q exceeds the 5 MB size limit", req.FileName),
		}
	}

	key := fmt.Sprintf("%s/%d_%s", req.ReferenceType, req.ReferenceID, sanitizeFileName(req.FileName))
	locator, err := s.blobs.Upload(ctx, key, io.LimitReader(req.Body, MaxUploadSize), req.ContentType)
	if err != nil {
		metrics.UploadFailuresTotal.Inc()
		return nil, &models.ExternalUploadError{FileName: req.FileName, Err: err}
	}

	doc := &models.DocumentRef{
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		FilePath:      locator,
		FileName:      req.FileName,
		UploadDate:    timeutil.Now(),
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		// Orphan cleanup is best effort; the host tolerates strays.
		_ = s.blobs.Delete(ctx, key)
		return nil, &models.PersistenceError{Op: "create document reference", Err: err}
	}

	metrics.LedgerRecordsTotal.WithLabelValues("document").Inc()
	if s.hub != nil {
		s.hub.Publish("document", "created", doc.ID)
	}
	return doc, nil
}

func (s *DocumentService) ListFor(ctx context.Context, refType models.ReferenceType, refID int) ([]*models.DocumentRef, error) {
	if !refType.Valid() {
		return nil, &models.ValidationError{Field: "reference_type", Message: "must be one of inventory, sales, credit"}
	}
	return s.docs.ListFor(ctx, refType, refID)
}

// Detach removes the reference record and then deletes the hosted file.
// The record removal is authoritative: when the file deletion fails the
// reference is still gone and the failure comes back as a non-empty
// warning instead of an error.
func (s *DocumentService) Detach(ctx context.Context, id int) (warning string, err error) {
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return "", err
	}

	if err := s.docs.Delete(ctx, id); err != nil {
		return "", err
	}

	key := s.blobs.KeyFromLocator(doc.FilePath)
	if err := s.blobs.Delete(ctx, key); err != nil {
		warning = fmt.Sprintf("reference removed but hosted file %q could not be deleted: %v", doc.FileName, err)
	}

	if s.hub != nil {
		s.hub.Publish("document", "deleted", id)
	}
	return warning, nil
}

// sanitizeFileName keeps object keys flat and predictable: path
// separators and spaces never reach the blob host.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
