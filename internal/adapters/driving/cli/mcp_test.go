package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Registered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "mcp" {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestMCPServeCmd_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
	assert.Equal(t, "p", flag.Shorthand)
}

func TestMCPServeCmd_HelpListsTools(t *testing.T) {
	out, err := executeCommand(t, "mcp", "serve", "--help")

	require.NoError(t, err)
	for _, tool := range []string{"query_documents", "ingest_files", "list_documents", "delete_documents"} {
		assert.Contains(t, out, tool)
	}
}

func TestMCPServeCmd_RequiresQueryService(t *testing.T) {
	SetServices(Services{Document: &mockDocumentService{}})
	defer SetServices(Services{})

	err := runMCPServe(mcpServeCmd, nil)

	assert.Error(t, err)
}
