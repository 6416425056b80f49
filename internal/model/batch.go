package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchStatus is the upload system's processing state for a batch.
type BatchStatus string

const (
	// StatusProcessed marks a fully ingested batch.
	StatusProcessed BatchStatus = "PROCESSED"
	// StatusDontDelete marks a batch whose transactions were later split
	// across archival tables; for validation purposes it is equivalent to
	// PROCESSED.
	StatusDontDelete BatchStatus = "DONTDELETE"
	// StatusDeleted marks a batch withdrawn by the uploader.
	StatusDeleted BatchStatus = "DELETED"
	// StatusPending marks a batch still being ingested.
	StatusPending BatchStatus = "PENDING"
)

// Eligible reports whether a batch participates in validation.
func (s BatchStatus) Eligible() bool {
	return s == StatusProcessed || s == StatusDontDelete
}

// Batch is one uploaded submission of transactions. Read-only to the engine.
type Batch struct {
	ID          int64
	EntityID    int64
	Status      BatchStatus
	UploadedAt  time.Time
	UploadUser  string
	FileName    string
	RecordCount int
	TotalAmount decimal.Decimal // declared by the uploader, not recomputed
	BeginTxn    time.Time
	EndTxn      time.Time
}
