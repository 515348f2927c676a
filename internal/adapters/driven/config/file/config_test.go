package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvOpenAIAPIKey, EnvAnthropicAPIKey, EnvMongoURI, EnvPostgresDSN, EnvQdrantURL, EnvDataDir} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvDataDir, filepath.Join(dir, "data"))

	cfg, err := Load(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "data", "uploaded_files"), cfg.UploadDir)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "sqlite", cfg.Vector.Backend)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.Equal(t, 1000, cfg.Chunker.Size)
	assert.Equal(t, 200, cfg.Chunker.Overlap)
	assert.Equal(t, domain.DefaultTopK, cfg.Retrieval.TopK)
	assert.Equal(t, 4, cfg.Ingest.Workers)
	assert.Equal(t, float64(defaultEmbedRPS), cfg.Ingest.EmbedRPS)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitZeroesKept(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)

	for name, content := range map[string]string{
		"config.toml": "[chunker]\noverlap = 0\n\n[ingest]\nembed_rps = 0.0\n",
		"config.yaml": "chunker:\n  overlap: 0\ningest:\n  embed_rps: 0\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0600))

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, 0, cfg.Chunker.Overlap)
			assert.Zero(t, cfg.Ingest.EmbedRPS)
			assert.Equal(t, 1000, cfg.Chunker.Size)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestLoad_TOML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
data_dir = "` + filepath.ToSlash(dir) + `"

[storage]
backend = "memory"

[vector]
backend = "qdrant"
qdrant_url = "http://localhost:6333"

[embedding]
provider = "openai"
api_key = "sk-test"

[llm]
provider = "anthropic"
model = "claude-test"

[chunker]
size = 500
overlap = 50
length = "tokens"

[retrieval]
top_k = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv(EnvAnthropicAPIKey, "ant-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "qdrant", cfg.Vector.Backend)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, "claude-test", cfg.LLM.Model)
	assert.Equal(t, "ant-key", cfg.LLM.APIKey)
	assert.Equal(t, 500, cfg.Chunker.Size)
	assert.Equal(t, "tokens", cfg.Chunker.Length)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
data_dir: ` + filepath.ToSlash(dir) + `
storage:
  backend: mongo
vector:
  backend: pgvector
llm:
  provider: openai
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv(EnvMongoURI, "mongodb://localhost:27017")
	t.Setenv(EnvPostgresDSN, "postgres://localhost/ragdesk")
	t.Setenv(EnvOpenAIAPIKey, "sk-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mongo", cfg.Storage.Backend)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Storage.MongoURI)
	assert.Equal(t, "postgres://localhost/ragdesk", cfg.Vector.PostgresDSN)
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage\nbackend="), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDataDir, t.TempDir())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown storage", func(c *Config) { c.Storage.Backend = "dynamo" }},
		{"mongo without uri", func(c *Config) { c.Storage.Backend = "mongo" }},
		{"unknown vector", func(c *Config) { c.Vector.Backend = "pinecone" }},
		{"pgvector without dsn", func(c *Config) { c.Vector.Backend = "pgvector" }},
		{"qdrant without url", func(c *Config) { c.Vector.Backend = "qdrant" }},
		{"openai embedding without key", func(c *Config) { c.Embedding.Provider = "openai" }},
		{"overlap not below size", func(c *Config) { c.Chunker.Overlap = c.Chunker.Size }},
		{"negative overlap", func(c *Config) { c.Chunker.Overlap = -1 }},
		{"bad length unit", func(c *Config) { c.Chunker.Length = "words" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)

	for _, name := range []string{"config.toml", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(dir, "none.toml"))
			require.NoError(t, err)
			cfg.Vector.Backend = "memory"
			cfg.Retrieval.TopK = 7

			path := filepath.Join(dir, "out", name)
			require.NoError(t, Save(path, cfg))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "memory", loaded.Vector.Backend)
			assert.Equal(t, 7, loaded.Retrieval.TopK)
		})
	}
}

func TestConfig_Settings(t *testing.T) {
	cfg := &Config{
		Embedding: ProviderConfig{Provider: "openai", Model: "m", APIKey: "k"},
		LLM:       ProviderConfig{Provider: "ollama", Model: "l", BaseURL: "http://x"},
		Chunker:   ChunkerConfig{Size: 10, Overlap: 2, Length: "chars"},
	}

	assert.Equal(t, domain.AIProviderOpenAI, cfg.EmbeddingSettings().Provider)
	assert.Equal(t, "http://x", cfg.LLMSettings().BaseURL)
	assert.Equal(t, 10, cfg.ChunkerSettings().Size)
}

func TestEdit_KeepsEnvironmentOut(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm]\nprovider = \"anthropic\"\n"), 0600))
	t.Setenv(EnvAnthropicAPIKey, "from-env")
	t.Setenv(EnvDataDir, dir)

	err := Edit(path, func(c *Config) error {
		c.Embedding.Provider = "openai"
		c.Embedding.APIKey = "sk-new"
		return nil
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sk-new")
	assert.NotContains(t, string(data), "from-env")
	assert.Contains(t, string(data), "anthropic")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-new", cfg.Embedding.APIKey)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
}

func TestEdit_MissingFileAndCallbackError(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	require.NoError(t, Edit(path, func(c *Config) error {
		c.Vector.QdrantKey = "qk"
		return nil
	}))
	assert.FileExists(t, path)

	err := Edit(path, func(*Config) error { return errors.New("nope") })
	assert.EqualError(t, err, "nope")
}
