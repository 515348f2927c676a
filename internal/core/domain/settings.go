package domain

// StorageBackend selects where document records live.
type StorageBackend string

const (
	StorageBackendSQLite StorageBackend = "sqlite"
	StorageBackendMemory StorageBackend = "memory"
	StorageBackendMongo  StorageBackend = "mongo"
)

// IsValid reports whether b names a supported document store.
func (b StorageBackend) IsValid() bool {
	return b == StorageBackendSQLite || b == StorageBackendMemory || b == StorageBackendMongo
}

func (b StorageBackend) String() string { return string(b) }

// VectorBackend selects where chunk embeddings live.
type VectorBackend string

const (
	VectorBackendSQLite   VectorBackend = "sqlite"
	VectorBackendMemory   VectorBackend = "memory"
	VectorBackendPgvector VectorBackend = "pgvector"
	VectorBackendQdrant   VectorBackend = "qdrant"
)

var vectorBackendNames = map[VectorBackend]string{
	VectorBackendSQLite:   "SQLite (embedded, brute-force cosine)",
	VectorBackendMemory:   "Memory (not persisted)",
	VectorBackendPgvector: "PostgreSQL + pgvector",
	VectorBackendQdrant:   "Qdrant",
}

// IsValid reports whether b names a supported vector store.
func (b VectorBackend) IsValid() bool {
	_, ok := vectorBackendNames[b]
	return ok
}

func (b VectorBackend) String() string { return string(b) }

// Description is the label used in logs and `config check`.
func (b VectorBackend) Description() string {
	if d, ok := vectorBackendNames[b]; ok {
		return d
	}
	return "Unknown (" + string(b) + ")"
}

// AIProvider identifies an embedding or LLM vendor.
type AIProvider string

const (
	AIProviderOllama    AIProvider = "ollama"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
)

// providerInfo is what ragdesk knows about each vendor. An empty
// embeddingModel means the vendor offers no embeddings.
type providerInfo struct {
	description    string
	needsKey       bool
	embeddingModel string
	llmModel       string
}

var providers = map[AIProvider]providerInfo{
	AIProviderOllama: {
		description:    "Ollama (local)",
		embeddingModel: "nomic-embed-text",
		llmModel:       "llama3.2",
	},
	AIProviderOpenAI: {
		description:    "OpenAI (cloud)",
		needsKey:       true,
		embeddingModel: "text-embedding-3-small",
		llmModel:       "gpt-4o-mini",
	},
	AIProviderAnthropic: {
		description: "Anthropic (cloud)",
		needsKey:    true,
		llmModel:    "claude-3-5-sonnet-latest",
	},
}

func (p AIProvider) IsValid() bool {
	_, ok := providers[p]
	return ok
}

func (p AIProvider) RequiresAPIKey() bool { return providers[p].needsKey }

// SupportsEmbeddings is false for Anthropic, which only offers chat.
func (p AIProvider) SupportsEmbeddings() bool { return providers[p].embeddingModel != "" }

// DefaultEmbeddingModel returns "" for providers without embeddings.
func (p AIProvider) DefaultEmbeddingModel() string { return providers[p].embeddingModel }

func (p AIProvider) DefaultLLMModel() string { return providers[p].llmModel }

func (p AIProvider) String() string { return string(p) }

func (p AIProvider) Description() string {
	if info, ok := providers[p]; ok {
		return info.description
	}
	return "Unknown (" + string(p) + ")"
}

// EmbeddingSettings selects and authenticates the embedding provider.
// Zero Dimensions means the model's native size.
type EmbeddingSettings struct {
	Provider   AIProvider
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
}

// IsConfigured reports whether the settings are complete enough to build
// a client. It does not contact the provider.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider.SupportsEmbeddings() && (!e.Provider.RequiresAPIKey() || e.APIKey != "")
}

// LLMSettings selects and authenticates the answering model.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && (!l.Provider.RequiresAPIKey() || l.APIKey != "")
}

// ChunkerSettings configures how page text is split.
type ChunkerSettings struct {
	// Size is the maximum chunk length in Length units.
	Size int

	// Overlap is the length carried from one chunk into the next.
	Overlap int

	// Length is "chars" or "tokens".
	Length string

	// Encoding is the tiktoken encoding used when Length is "tokens".
	Encoding string
}

// Map returns the settings as the generic config consumed by the
// post-processor registry.
func (c ChunkerSettings) Map() map[string]any {
	return map[string]any{
		"chunk_size": c.Size,
		"overlap":    c.Overlap,
		"length":     c.Length,
		"encoding":   c.Encoding,
	}
}

// DefaultChunkerSettings returns the chunking policy used out of the box.
func DefaultChunkerSettings() ChunkerSettings {
	return ChunkerSettings{
		Size:     1000,
		Overlap:  200,
		Length:   "chars",
		Encoding: "cl100k_base",
	}
}
