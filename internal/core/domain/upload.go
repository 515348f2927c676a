package domain

import "time"

// FileError is a per-file or per-stage ingestion error.
type FileError struct {
	// Filename is the uploaded filename, or empty for stage errors.
	Filename string `json:"filename,omitempty"`

	// Stage names the pipeline step that failed.
	Stage string `json:"stage"`

	// Message describes the failure.
	Message string `json:"message"`
}

func (e FileError) Error() string {
	if e.Filename == "" {
		return e.Stage + ": " + e.Message
	}
	return e.Stage + ": " + e.Filename + ": " + e.Message
}

// Ingestion stages reported in FileError.Stage.
const (
	StageValidate = "validate"
	StagePersist  = "persist"
	StageRecord   = "record"
	StageLoad     = "load"
	StageCleanup  = "cleanup"
	StageChunk    = "chunk"
	StageIndex    = "index"
	StageStatus   = "status"
)

// UploadResult summarises one ingestion call.
type UploadResult struct {
	// Success is true when at least one document reached the vector index.
	// Per-file rejections alone do not clear it.
	Success bool `json:"success"`

	// Message is a short human-readable summary.
	Message string `json:"message"`

	// FilesUploaded counts files persisted with a document record.
	FilesUploaded int `json:"files_uploaded"`

	// PagesProcessed counts pages loaded from the stored files.
	PagesProcessed int `json:"pages_processed"`

	// ChunksProcessed counts chunks sent to the vector index.
	ChunksProcessed int `json:"chunks_processed"`

	// DocumentIDs lists the assigned record IDs in upload order.
	DocumentIDs []string `json:"document_ids"`

	// Elapsed is the wall time of the call.
	Elapsed time.Duration `json:"elapsed"`

	// Errors lists every per-file and per-stage failure.
	Errors []FileError `json:"errors"`
}

// HasErrors reports whether any file or stage failed.
func (r *UploadResult) HasErrors() bool {
	return len(r.Errors) > 0
}
