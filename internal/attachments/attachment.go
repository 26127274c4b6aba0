// Package attachments implements file attachments for review records.
// Attachment bytes live in blob storage; rows carry metadata and the
// storage key. Review records reference attachments by key only and
// never open the bytes.
package attachments

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is a stored file linked to one review record.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	ReviewID    uuid.UUID `json:"review_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// CreateCommand carries the data needed to upload and register a new
// attachment. Data holds the raw file bytes. PageCount is extracted for
// PDF drawings and permits; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	ReviewID    uuid.UUID
	Filename    string
	ContentType string
	PageCount   *int
}
