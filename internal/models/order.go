package models

import "time"

// Field limits enforced on submission. They must match the max= values in
// the Order validate tags.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 100
)

// Order represents a submitted order
type Order struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"notblank,max=100"`
	Description string    `json:"description" validate:"notblank,max=100"`
	EntryDate   time.Time `json:"entry_date"` // Set by the service, never by the client
	IsInvoiced  bool      `json:"is_invoiced"`
	IsDeleted   bool      `json:"is_deleted"` // Soft-delete marker, excluded from queries
}
