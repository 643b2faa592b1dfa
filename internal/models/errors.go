package models

import "fmt"

// ValidationError rejects bad input before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError is returned when an id does not exist in the store.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

// InsufficientStockError rejects a sale whose quantity exceeds the
// currently remaining stock for the item.
type InsufficientStockError struct {
	Item      string
	Requested int
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, remaining %d",
		e.Item, e.Requested, e.Remaining)
}

// PersistenceError wraps a failure of the underlying store. Callers must
// re-derive any aggregate from the store after seeing one; no in-memory
// mirror survives it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ExternalUploadError reports a failed call to the file hosting service.
// It is raised per file and never rolls back the record the file was
// meant to be attached to.
type ExternalUploadError struct {
	FileName string
	Err      error
}

func (e *ExternalUploadError) Error() string {
	return fmt.Sprintf("upload of %q failed: %v", e.FileName, e.Err)
}

func (e *ExternalUploadError) Unwrap() error { return e.Err }
