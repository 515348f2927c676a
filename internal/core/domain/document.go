package domain

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// PDFContentType is the only content type accepted for upload.
const PDFContentType = "application/pdf"

// DocumentStatus tracks a document through the ingestion pipeline.
type DocumentStatus string

// Document statuses.
const (
	// StatusUploaded is set once the file is stored and the record inserted.
	StatusUploaded DocumentStatus = "uploaded"

	// StatusProcessing is set while text is loaded and embedded.
	StatusProcessing DocumentStatus = "processing"

	// StatusProcessed means every chunk of the document reached the index.
	StatusProcessed DocumentStatus = "processed"

	// StatusFailed means the record exists but its content is not retrievable.
	StatusFailed DocumentStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusUploaded, StatusProcessing, StatusProcessed, StatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return string(s)
}

// DocumentRecord is the durable record of an uploaded document.
// Records are keyed by organization and destroyed only by deletion.
type DocumentRecord struct {
	// ID is assigned by the document store on insert.
	ID string `json:"id"`

	// OrganizationID is the isolation boundary the document belongs to.
	OrganizationID string `json:"organization_id"`

	// DisplayName is the caller supplied label for the upload batch.
	DisplayName string `json:"display_name"`

	// OriginalFilename is the filename as uploaded.
	OriginalFilename string `json:"original_filename"`

	// UniqueStorageName is the collision-resistant name used in blob storage.
	UniqueStorageName string `json:"unique_storage_name"`

	// StoragePath is the blob storage path of the uploaded file.
	StoragePath string `json:"storage_path"`

	// FileSizeBytes is the size of the uploaded content.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// UploadedAt is when the file was persisted.
	UploadedAt time.Time `json:"uploaded_at"`

	// Status is the current ingestion status.
	Status DocumentStatus `json:"status"`
}

// DocumentFilter selects document records. Empty fields are ignored.
type DocumentFilter struct {
	// IDs restricts the match to these record IDs.
	IDs []string

	// OrganizationID restricts the match to one organization.
	OrganizationID string

	// StorageNames restricts the match to these unique storage names.
	StorageNames []string
}

// IsEmpty reports whether the filter would match every record.
func (f DocumentFilter) IsEmpty() bool {
	return len(f.IDs) == 0 && f.OrganizationID == "" && len(f.StorageNames) == 0
}

// Matches reports whether rec satisfies every set field of the filter.
func (f DocumentFilter) Matches(rec DocumentRecord) bool {
	if f.OrganizationID != "" && rec.OrganizationID != f.OrganizationID {
		return false
	}
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, rec.ID) {
		return false
	}
	if len(f.StorageNames) > 0 && !slices.Contains(f.StorageNames, rec.UniqueStorageName) {
		return false
	}
	return true
}

// UploadedFile is one file received for ingestion.
type UploadedFile struct {
	// Filename is the client supplied filename.
	Filename string

	// ContentType is the declared MIME type.
	ContentType string

	// Content is the raw file body.
	Content []byte
}

// UniqueStorageName derives the blob name for an upload. The same inputs
// always produce the same name; the timestamp keeps repeated uploads of one
// filename apart.
func UniqueStorageName(orgID string, at time.Time, filename string) string {
	stamp := strings.ReplaceAll(at.UTC().Format(time.RFC3339Nano), ":", "-")
	return fmt.Sprintf("%s_%s_%s", sanitiseName(orgID), stamp, sanitiseName(filepath.Base(filename)))
}

func sanitiseName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
