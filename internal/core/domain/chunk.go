package domain

// Metadata keys written to the vector index. Nothing else is stored there.
const (
	MetadataOrganizationID = "orgId"
	MetadataDocumentID     = "documentId"
)

// VectorMetadata tags one embedded chunk with its provenance.
// Fields are unexported so a value cannot change after NewVectorMetadata.
type VectorMetadata struct {
	organizationID string
	documentID     string
}

// NewVectorMetadata builds the tag for a chunk. documentID may be empty
// when the source file could not be mapped back to a record.
func NewVectorMetadata(organizationID, documentID string) VectorMetadata {
	return VectorMetadata{organizationID: organizationID, documentID: documentID}
}

// OrganizationID returns the organization tag.
func (m VectorMetadata) OrganizationID() string { return m.organizationID }

// DocumentID returns the document tag.
func (m VectorMetadata) DocumentID() string { return m.documentID }

// Map returns the payload stored alongside the embedding.
func (m VectorMetadata) Map() map[string]string {
	out := map[string]string{MetadataOrganizationID: m.organizationID}
	if m.documentID != "" {
		out[MetadataDocumentID] = m.documentID
	}
	return out
}

// VectorMetadataFromMap rebuilds a tag from a stored payload.
func VectorMetadataFromMap(m map[string]string) VectorMetadata {
	return NewVectorMetadata(m[MetadataOrganizationID], m[MetadataDocumentID])
}

// LoadedPage is one page of text extracted from a stored file.
type LoadedPage struct {
	// StorageName is the unique storage name of the source file.
	StorageName string

	// Number is the 1-based page number.
	Number int

	// Text is the extracted page text.
	Text string
}

// TaggedChunk is a chunk of text ready for embedding. It lives for one
// ingestion pass only.
type TaggedChunk struct {
	Text     string
	Metadata VectorMetadata
}

// VectorRecord is an embedded chunk as held by a vector store.
type VectorRecord struct {
	// ID is assigned by the index when the record is added.
	ID string

	// Embedding is the chunk vector.
	Embedding []float32

	// Text is the chunk content returned by similarity search.
	Text string

	// Metadata is the provenance tag.
	Metadata VectorMetadata
}

// VectorHit is one similarity search result.
type VectorHit struct {
	ID       string
	Text     string
	Metadata VectorMetadata

	// Score is the cosine similarity, higher is closer.
	Score float64
}

// MetadataFilter scopes similarity search and deletion. Empty fields are
// ignored; a filter with no fields set is rejected by every index.
type MetadataFilter struct {
	OrganizationID string
	DocumentID     string
}

// IsEmpty reports whether the filter carries no scope.
func (f MetadataFilter) IsEmpty() bool {
	return f.OrganizationID == "" && f.DocumentID == ""
}

// Matches reports whether a tag satisfies the filter.
func (f MetadataFilter) Matches(m VectorMetadata) bool {
	if f.OrganizationID != "" && f.OrganizationID != m.organizationID {
		return false
	}
	if f.DocumentID != "" && f.DocumentID != m.documentID {
		return false
	}
	return true
}
