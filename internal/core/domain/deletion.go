package domain

// DeletionOutcome classifies a deletion report.
type DeletionOutcome string

// Deletion outcomes.
const (
	DeletionSucceeded DeletionOutcome = "succeeded"
	DeletionPartial   DeletionOutcome = "partial"
	DeletionFailed    DeletionOutcome = "failed"
)

// ItemError is a failure tied to one document or file.
type ItemError struct {
	DocumentID string `json:"document_id,omitempty"`
	Path       string `json:"path,omitempty"`
	Message    string `json:"message"`
}

// DeletionErrors groups deletion failures by store.
type DeletionErrors struct {
	InvalidIDs                []string    `json:"invalid_ids"`
	FileDeletionErrors        []ItemError `json:"file_deletion_errors"`
	VectorStoreDeletionErrors []ItemError `json:"vectorstore_deletion_errors"`
}

// Count returns the total number of recorded errors.
func (e DeletionErrors) Count() int {
	return len(e.InvalidIDs) + len(e.FileDeletionErrors) + len(e.VectorStoreDeletionErrors)
}

// DeletionResult reports what happened in each store during deletion.
type DeletionResult struct {
	Success                   bool           `json:"success"`
	Message                   string         `json:"message"`
	DocumentsRequested        int            `json:"documents_requested"`
	DocumentsFound            int            `json:"documents_found"`
	DocumentsDeletedFromStore int            `json:"documents_deleted_from_store"`
	FilesDeleted              int            `json:"files_deleted"`
	EmbeddingsDeleted         int            `json:"embeddings_deleted"`
	DeletedIDs                []string       `json:"deleted_ids"`
	DeletedPaths              []string       `json:"deleted_paths"`
	Errors                    DeletionErrors `json:"errors"`
}

// Outcome tells a full success from a partial one and from a failure.
func (r *DeletionResult) Outcome() DeletionOutcome {
	switch {
	case !r.Success:
		return DeletionFailed
	case r.Errors.Count() > 0 || r.DocumentsDeletedFromStore < r.DocumentsRequested:
		return DeletionPartial
	default:
		return DeletionSucceeded
	}
}
