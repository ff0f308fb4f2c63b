package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServeCmd_Flags(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
	assert.Equal(t, "p", flag.Shorthand)
}

func TestMCPServe_RequiresExtractionService(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	extractionService = nil

	_, err := executeCommand("mcp", "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extraction service is required")
}
