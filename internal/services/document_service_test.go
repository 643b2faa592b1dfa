package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"khata-backend/internal/models"
)

func attachReq(name string, size int64) *AttachDocumentRequest {
	return &AttachDocumentRequest{
		ReferenceType: models.ReferenceTypeSales,
		ReferenceID:   7,
		FileName:      name,
		ContentType:   "application/octet-stream",
		Size:          size,
		Body:          bytes.NewReader([]byte("payload")),
	}
}

func TestAttachStoresLocator(t *testing.T) {
	docs := &fakeDocs{}
	blobs := newFakeBlobs()
	svc := NewDocumentService(docs, blobs, nil)

	doc, err := svc.Attach(context.Background(), attachReq("bill.pdf", 7))
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if doc.ID == 0 {
		t.Error("document was not assigned an id")
	}
	if !strings.HasPrefix(doc.FilePath, fakeBlobBaseURL+"/sales/7_") {
		t.Errorf("locator = %q, want keyed under sales/7_", doc.FilePath)
	}
	if _, ok := blobs.objects[blobs.KeyFromLocator(doc.FilePath)]; !ok {
		t.Error("uploaded object missing from blob store")
	}

	listed, err := svc.ListFor(context.Background(), models.ReferenceTypeSales, 7)
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("documents listed = %d, want 1", len(listed))
	}
}

func TestAttachValidation(t *testing.T) {
	docs := &fakeDocs{}
	svc := NewDocumentService(docs, newFakeBlobs(), nil)

	tests := []struct {
		name string
		req  *AttachDocumentRequest
	}{
		{"disallowed extension", attachReq("malware.exe", 10)},
		{"no extension", attachReq("receipt", 10)},
		{"oversize", attachReq("huge.png", MaxUploadSize+1)},
		{"bad reference type", &AttachDocumentRequest{
			ReferenceType: "orders", ReferenceID: 1, FileName: "a.png",
			Body: bytes.NewReader(nil),
		}},
		{"zero reference id", &AttachDocumentRequest{
			ReferenceType: models.ReferenceTypeCredit, FileName: "a.png",
			Body: bytes.NewReader(nil),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Attach(context.Background(), tt.req)
			var vErr *models.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if len(docs.docs) != 0 {
				t.Errorf("rejected upload wrote %d references", len(docs.docs))
			}
		})
	}
}

// A failed upload surfaces per file and writes no reference. The
// ledger record the file was meant for is unaffected by design; only
// the document sidecar fails.
func TestAttachUploadFailureSurfaced(t *testing.T) {
	docs := &fakeDocs{}
	blobs := newFakeBlobs()
	blobs.uploadErr = errors.New("host unreachable")
	svc := NewDocumentService(docs, blobs, nil)

	_, err := svc.Attach(context.Background(), attachReq("bill.pdf", 7))

	var upErr *models.ExternalUploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("err = %v, want ExternalUploadError", err)
	}
	if upErr.FileName != "bill.pdf" {
		t.Errorf("error names %q, want the failing file", upErr.FileName)
	}
	if len(docs.docs) != 0 {
		t.Errorf("failed upload wrote %d references", len(docs.docs))
	}
}

func TestDetachRemovesRecordAndObject(t *testing.T) {
	docs := &fakeDocs{}
	blobs := newFakeBlobs()
	svc := NewDocumentService(docs, blobs, nil)

	doc, err := svc.Attach(context.Background(), attachReq("bill.pdf", 7))
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	warning, err := svc.Detach(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if warning != "" {
		t.Errorf("unexpected warning: %q", warning)
	}
	if len(docs.docs) != 0 {
		t.Error("reference record survived detach")
	}
	if len(blobs.objects) != 0 {
		t.Error("hosted object survived detach")
	}
}

// Record removal is authoritative: when the blob host refuses the
// delete, the reference is still gone and the failure comes back as a
// warning, not an error.
func TestDetachWarnsWhenBlobDeleteFails(t *testing.T) {
	docs := &fakeDocs{}
	blobs := newFakeBlobs()
	svc := NewDocumentService(docs, blobs, nil)

	doc, err := svc.Attach(context.Background(), attachReq("bill.pdf", 7))
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	blobs.deleteErr = errors.New("host unreachable")

	warning, err := svc.Detach(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if warning == "" {
		t.Fatal("blob delete failure produced no warning")
	}
	if len(docs.docs) != 0 {
		t.Error("reference record survived detach")
	}
}

func TestDetachUnknownID(t *testing.T) {
	svc := NewDocumentService(&fakeDocs{}, newFakeBlobs(), nil)

	_, err := svc.Detach(context.Background(), 42)
	var nfErr *models.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"bill 2025.pdf", "bill_2025.pdf"},
		{"../../etc/passwd.png", "passwd.png"},
		{"photo.jpeg", "photo.jpeg"},
	}
	for _, tt := range tests {
		if got := sanitizeFileName(tt.in); got != tt.want {
			t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
