package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// Environment variables that override file values.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvMongoURI        = "RAGDESK_MONGO_URI"
	EnvPostgresDSN     = "RAGDESK_POSTGRES_DSN"
	EnvQdrantURL       = "RAGDESK_QDRANT_URL"
	EnvDataDir         = "RAGDESK_DATA_DIR"
)

// Config is the complete application configuration.
type Config struct {
	DataDir   string          `toml:"data_dir" yaml:"data_dir"`
	UploadDir string          `toml:"upload_dir" yaml:"upload_dir"`
	PromptDir string          `toml:"prompt_dir" yaml:"prompt_dir"`
	Storage   StorageConfig   `toml:"storage" yaml:"storage"`
	Vector    VectorConfig    `toml:"vector" yaml:"vector"`
	Embedding ProviderConfig  `toml:"embedding" yaml:"embedding"`
	LLM       ProviderConfig  `toml:"llm" yaml:"llm"`
	Chunker   ChunkerConfig   `toml:"chunker" yaml:"chunker"`
	Retrieval RetrievalConfig `toml:"retrieval" yaml:"retrieval"`
	Ingest    IngestConfig    `toml:"ingest" yaml:"ingest"`
}

// StorageConfig selects the document store.
type StorageConfig struct {
	Backend    string `toml:"backend" yaml:"backend"`
	MongoURI   string `toml:"mongo_uri" yaml:"mongo_uri"`
	Database   string `toml:"database" yaml:"database"`
	Collection string `toml:"collection" yaml:"collection"`
}

// VectorConfig selects the vector store.
type VectorConfig struct {
	Backend     string `toml:"backend" yaml:"backend"`
	PostgresDSN string `toml:"postgres_dsn" yaml:"postgres_dsn"`
	Table       string `toml:"table" yaml:"table"`
	QdrantURL   string `toml:"qdrant_url" yaml:"qdrant_url"`
	QdrantKey   string `toml:"qdrant_api_key" yaml:"qdrant_api_key"`
	Collection  string `toml:"collection" yaml:"collection"`
}

// ProviderConfig configures an embedding or LLM provider.
type ProviderConfig struct {
	Provider string `toml:"provider" yaml:"provider"`
	Model    string `toml:"model" yaml:"model"`
	BaseURL  string `toml:"base_url" yaml:"base_url"`
	APIKey   string `toml:"api_key" yaml:"api_key"`

	// Dimensions overrides the embedding size; ignored for [llm].
	Dimensions int `toml:"dimensions,omitempty" yaml:"dimensions,omitempty"`
}

// ChunkerConfig configures text splitting.
type ChunkerConfig struct {
	Size     int    `toml:"size" yaml:"size"`
	Overlap  int    `toml:"overlap" yaml:"overlap"`
	Length   string `toml:"length" yaml:"length"`
	Encoding string `toml:"encoding" yaml:"encoding"`
}

// RetrievalConfig configures question answering.
type RetrievalConfig struct {
	TopK int `toml:"top_k" yaml:"top_k"`
}

// IngestConfig configures the ingestion pipeline.
type IngestConfig struct {
	Workers        int     `toml:"workers" yaml:"workers"`
	EmbedBatchSize int     `toml:"embed_batch_size" yaml:"embed_batch_size"`
	// EmbedRPS caps embedding requests per second; 0 disables the limit.
	EmbedRPS float64 `toml:"embed_rps" yaml:"embed_rps"`
}

const defaultEmbedRPS = 5

// DefaultConfigDir returns ~/.ragdesk.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".ragdesk"), nil
}

// DefaultConfigPath returns ~/.ragdesk/config.toml.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration at path. A missing file is not an error;
// defaults and environment overrides still apply. A .env file in the
// working directory is loaded first without replacing variables that are
// already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := newConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, data, cfg); err != nil {
			return nil, err
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(cfg)
	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Edit applies fn to the configuration stored at path and writes it back.
// Unlike Load, environment overrides are not applied, so values taken from
// the environment are never persisted. A missing file starts empty.
func Edit(path string, fn func(*Config) error) error {
	cfg := newConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, data, cfg); err != nil {
			return err
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("read config: %w", err)
	}

	if err := fn(cfg); err != nil {
		return err
	}
	return Save(path, cfg)
}

// Save writes cfg to path in the format implied by its extension.
func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = toml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// newConfig presets the fields whose zero value is a valid setting, so only
// keys absent from the file take the default.
func newConfig() *Config {
	return &Config{
		Chunker: ChunkerConfig{Overlap: domain.DefaultChunkerSettings().Overlap},
		Ingest:  IngestConfig{EmbedRPS: defaultEmbedRPS},
	}
}

func decode(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse yaml config: %w", err)
		}
		return nil
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse toml config: %w", err)
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		cfg.Storage.MongoURI = v
	}
	if v := os.Getenv(EnvPostgresDSN); v != "" {
		cfg.Vector.PostgresDSN = v
	}
	if v := os.Getenv(EnvQdrantURL); v != "" {
		cfg.Vector.QdrantURL = v
	}
	if cfg.Embedding.APIKey == "" && domain.AIProvider(cfg.Embedding.Provider) == domain.AIProviderOpenAI {
		cfg.Embedding.APIKey = os.Getenv(EnvOpenAIAPIKey)
	}
	if cfg.LLM.APIKey == "" {
		switch domain.AIProvider(cfg.LLM.Provider) {
		case domain.AIProviderOpenAI:
			cfg.LLM.APIKey = os.Getenv(EnvOpenAIAPIKey)
		case domain.AIProviderAnthropic:
			cfg.LLM.APIKey = os.Getenv(EnvAnthropicAPIKey)
		}
	}
}

func applyDefaults(cfg *Config) error {
	if cfg.DataDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return err
		}
		cfg.DataDir = filepath.Join(dir, "data")
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join(cfg.DataDir, "uploaded_files")
	}
	if cfg.PromptDir == "" {
		cfg.PromptDir = filepath.Join(filepath.Dir(cfg.DataDir), "prompts")
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = string(domain.StorageBackendSQLite)
	}
	if cfg.Storage.Database == "" {
		cfg.Storage.Database = "ragdesk"
	}
	if cfg.Storage.Collection == "" {
		cfg.Storage.Collection = "documents"
	}

	if cfg.Vector.Backend == "" {
		cfg.Vector.Backend = string(domain.VectorBackendSQLite)
	}
	if cfg.Vector.Table == "" {
		cfg.Vector.Table = "chunk_vectors"
	}
	if cfg.Vector.Collection == "" {
		cfg.Vector.Collection = "ragdesk_chunks"
	}

	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = string(domain.AIProviderOllama)
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = domain.AIProvider(cfg.Embedding.Provider).DefaultEmbeddingModel()
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = string(domain.AIProviderOllama)
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = domain.AIProvider(cfg.LLM.Provider).DefaultLLMModel()
	}

	def := domain.DefaultChunkerSettings()
	if cfg.Chunker.Size <= 0 {
		cfg.Chunker.Size = def.Size
	}
	if cfg.Chunker.Length == "" {
		cfg.Chunker.Length = def.Length
	}
	if cfg.Chunker.Encoding == "" {
		cfg.Chunker.Encoding = def.Encoding
	}

	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = domain.DefaultTopK
	}
	if cfg.Ingest.Workers <= 0 {
		cfg.Ingest.Workers = 4
	}
	if cfg.Ingest.EmbedBatchSize <= 0 {
		cfg.Ingest.EmbedBatchSize = 64
	}
	return nil
}

// Validate checks that every selected backend and provider is usable.
func (c *Config) Validate() error {
	var errs []error

	switch domain.StorageBackend(c.Storage.Backend) {
	case domain.StorageBackendMongo:
		if c.Storage.MongoURI == "" {
			errs = append(errs, fmt.Errorf("storage: mongo backend requires mongo_uri or %s", EnvMongoURI))
		}
	case domain.StorageBackendSQLite, domain.StorageBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("storage: %w: backend %q", domain.ErrUnsupportedType, c.Storage.Backend))
	}

	switch domain.VectorBackend(c.Vector.Backend) {
	case domain.VectorBackendPgvector:
		if c.Vector.PostgresDSN == "" {
			errs = append(errs, fmt.Errorf("vector: pgvector backend requires postgres_dsn or %s", EnvPostgresDSN))
		}
	case domain.VectorBackendQdrant:
		if c.Vector.QdrantURL == "" {
			errs = append(errs, fmt.Errorf("vector: qdrant backend requires qdrant_url or %s", EnvQdrantURL))
		}
	case domain.VectorBackendSQLite, domain.VectorBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("vector: %w: backend %q", domain.ErrUnsupportedType, c.Vector.Backend))
	}

	if !c.EmbeddingSettings().IsConfigured() {
		errs = append(errs, fmt.Errorf("embedding: provider %q is not configured", c.Embedding.Provider))
	}
	if !c.LLMSettings().IsConfigured() {
		errs = append(errs, fmt.Errorf("llm: provider %q is not configured", c.LLM.Provider))
	}

	if c.Chunker.Overlap < 0 {
		errs = append(errs, fmt.Errorf("chunker: overlap %d must not be negative", c.Chunker.Overlap))
	}
	if c.Chunker.Overlap >= c.Chunker.Size {
		errs = append(errs, fmt.Errorf("chunker: overlap %d must be smaller than size %d", c.Chunker.Overlap, c.Chunker.Size))
	}
	if c.Chunker.Length != "chars" && c.Chunker.Length != "tokens" {
		errs = append(errs, fmt.Errorf("chunker: length must be chars or tokens, got %q", c.Chunker.Length))
	}

	return errors.Join(errs...)
}

// EmbeddingSettings converts the embedding section to domain settings.
func (c *Config) EmbeddingSettings() domain.EmbeddingSettings {
	return domain.EmbeddingSettings{
		Provider: domain.AIProvider(c.Embedding.Provider),
		Model:    c.Embedding.Model,
		BaseURL:  c.Embedding.BaseURL,
		APIKey:   c.Embedding.APIKey,

		Dimensions: c.Embedding.Dimensions,
	}
}

// LLMSettings converts the llm section to domain settings.
func (c *Config) LLMSettings() domain.LLMSettings {
	return domain.LLMSettings{
		Provider: domain.AIProvider(c.LLM.Provider),
		Model:    c.LLM.Model,
		BaseURL:  c.LLM.BaseURL,
		APIKey:   c.LLM.APIKey,
	}
}

// ChunkerSettings converts the chunker section to domain settings.
func (c *Config) ChunkerSettings() domain.ChunkerSettings {
	return domain.ChunkerSettings{
		Size:     c.Chunker.Size,
		Overlap:  c.Chunker.Overlap,
		Length:   c.Chunker.Length,
		Encoding: c.Chunker.Encoding,
	}
}
