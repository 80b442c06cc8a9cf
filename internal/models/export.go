package models

import (
	"time"

	"github.com/google/uuid"
)

// Export archive job status.
const (
	ExportStatusPending   = "pending"
	ExportStatusCompleted = "completed"
	ExportStatusFailed    = "failed"
)

// ExportArchive is one archived CSV snapshot of the registration list.
type ExportArchive struct {
	ID          uuid.UUID  `json:"id"`
	Status      string     `json:"status"`
	ObjectKey   *string    `json:"object_key,omitempty"`
	ObjectURL   *string    `json:"object_url,omitempty"`
	RecordCount *int       `json:"record_count,omitempty"`
	RequestedBy *string    `json:"requested_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UploadedAt  *time.Time `json:"uploaded_at,omitempty"`
}
