package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir = \""+filepath.ToSlash(dir)+"\"\n"+content), 0600))
	return path
}

func withValidator(t *testing.T, v *mockAIValidator) {
	t.Helper()
	orig := aiValidator
	aiValidator = v
	t.Cleanup(func() { aiValidator = orig })
}

func TestConfigCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(configCmd.Commands()))
	for _, cmd := range configCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"show", "check", "set-key"}, names)
}

func TestConfigShowCmd_RedactsKeys(t *testing.T) {
	path := writeConfig(t, `
[llm]
provider = "anthropic"
api_key = "sk-secret"
`)

	out, err := executeCommand(t, "config", "show", "--config", path)

	require.NoError(t, err)
	assert.NotContains(t, out, "sk-secret")
	assert.Contains(t, out, redacted)
	assert.Contains(t, out, "anthropic")
}

func TestConfigShowCmd_InvalidFile(t *testing.T) {
	path := writeConfig(t, "[[[ not toml")

	_, err := executeCommand(t, "config", "show", "--config", path)

	assert.Error(t, err)
}

func TestConfigCheckCmd_AllPass(t *testing.T) {
	withValidator(t, &mockAIValidator{})
	path := writeConfig(t, "")

	out, err := executeCommand(t, "config", "check", "--config", path)

	require.NoError(t, err)
	assert.Contains(t, out, "✓ config")
	assert.Contains(t, out, "✓ embedding (ollama/")
	assert.Contains(t, out, "✓ llm (ollama/")
}

func TestConfigCheckCmd_ReportsFailures(t *testing.T) {
	withValidator(t, &mockAIValidator{llmErr: errTest})
	path := writeConfig(t, `
[storage]
backend = "cassandra"
`)

	out, err := executeCommand(t, "config", "check", "--config", path)

	require.Error(t, err)
	assert.ErrorIs(t, err, errTest)
	assert.Contains(t, out, "✗ config")
	assert.Contains(t, out, "✓ embedding")
	assert.Contains(t, out, "✗ llm")
}

func TestConfigSetKeyCmd_WritesKey(t *testing.T) {
	path := writeConfig(t, `
[llm]
provider = "openai"
`)

	out, err := executeCommandWithInput(t, "sk-abcdefghijkl\n", "config", "set-key", "llm", "--config", path)

	require.NoError(t, err)
	assert.Contains(t, out, "sk-a...ijkl")
	assert.NotContains(t, out, "sk-abcdefghijkl")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sk-abcdefghijkl")
	assert.Contains(t, string(data), "openai")
}

func TestConfigSetKeyCmd_Errors(t *testing.T) {
	path := writeConfig(t, "")

	tests := []struct {
		name  string
		input string
		args  []string
	}{
		{"unknown target", "k\n", []string{"config", "set-key", "vault", "--config", path}},
		{"empty key", "\n", []string{"config", "set-key", "embedding", "--config", path}},
		{"no target", "k\n", []string{"config", "set-key", "--config", path}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommandWithInput(t, tt.input, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "****", maskKey("short"))
	assert.Equal(t, "abcd...6789", maskKey("abcdef0123456789"))
}
