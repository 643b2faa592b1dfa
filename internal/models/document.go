package models

import "time"

// ReferenceType names the ledger record class a document is attached to.
type ReferenceType string

const (
	ReferenceTypeInventory ReferenceType = "inventory"
	ReferenceTypeSales     ReferenceType = "sales"
	ReferenceTypeCredit    ReferenceType = "credit"
)

// Valid reports whether t is one of the accepted reference types.
func (t ReferenceType) Valid() bool {
	switch t {
	case ReferenceTypeInventory, ReferenceTypeSales, ReferenceTypeCredit:
		return true
	}
	return false
}

// DocumentRef attaches one uploaded file to exactly one ledger record.
// FilePath is an opaque locator (URL) returned by the blob host; the
// bytes themselves are never stored here. Deleting the owning record
// does not cascade to its documents.
type DocumentRef struct {
	ID            int           `json:"id"`
	ReferenceType ReferenceType `json:"reference_type"`
	ReferenceID   int           `json:"reference_id"`
	FilePath      string        `json:"file_path"`
	FileName      string        `json:"file_name"`
	UploadDate    time.Time     `json:"upload_date"`
}
