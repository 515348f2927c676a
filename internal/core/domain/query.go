package domain

// NoRelevantInformationAnswer is returned when retrieval finds nothing.
const NoRelevantInformationAnswer = "I could not find any relevant information in your organization's documents to answer this question."

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// QueryOptions refine a question beyond organization scoping.
type QueryOptions struct {
	// DocumentID restricts retrieval to one document of the organization.
	DocumentID string

	// TopK overrides the number of chunks retrieved. Zero uses the default.
	TopK int
}

// QueryResult is the answer to one question.
type QueryResult struct {
	// Query is the question as asked.
	Query string `json:"query"`

	// Answer is the generated answer.
	Answer string `json:"answer"`

	// DocumentIDs lists the distinct source documents, most relevant first.
	DocumentIDs []string `json:"document_ids"`

	// Confidence grows with the number of retrieved chunks, capped at 1.
	Confidence float64 `json:"confidence"`

	// Context is the retrieved text handed to the model.
	Context string `json:"context,omitempty"`
}

// Confidence derives a score from the number of retrieved chunks.
func Confidence(hits, topK int) float64 {
	if hits <= 0 || topK <= 0 {
		return 0
	}
	if hits >= topK {
		return 1
	}
	return float64(hits) / float64(topK)
}
