package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/config/file"
)

func testConfig(t *testing.T) *file.Config {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(file.EnvDataDir, filepath.Join(dir, "data"))
	t.Setenv(file.EnvOpenAIAPIKey, "")
	t.Setenv(file.EnvAnthropicAPIKey, "")

	cfg, err := file.Load(filepath.Join(dir, "none.toml"))
	require.NoError(t, err)
	cfg.PromptDir = filepath.Join(dir, "prompts")
	return cfg
}

func TestBootstrap_MemoryBackends(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "memory"
	cfg.Vector.Backend = "memory"

	a, err := Bootstrap(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, a)

	assert.NotNil(t, a.Ingestion)
	assert.NotNil(t, a.Query)
	assert.NotNil(t, a.Deletion)
	assert.NotNil(t, a.Document)
	assert.FileExists(t, filepath.Join(cfg.PromptDir, "answer_system.txt"))
	assert.NoError(t, a.Close())
}

func TestBootstrap_FailureReturnsError(t *testing.T) {
	cfg := testConfig(t)

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))
	cfg.UploadDir = filepath.Join(blocker, "uploads")

	var (
		a   *App
		err error
	)
	require.NotPanics(t, func() {
		a, err = Bootstrap(context.Background(), cfg)
	})
	assert.ErrorContains(t, err, "create upload directory")
	assert.Nil(t, a)
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Vector.Backend = "pinecone"

	a, err := Bootstrap(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, a)
}
