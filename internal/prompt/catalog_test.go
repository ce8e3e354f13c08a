package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/multicodex/internal/prompt"
	"github.com/temirov/multicodex/internal/types"
)

func TestDefaultCatalogCoversEveryWorkflow(t *testing.T) {
	catalog, catalogError := prompt.DefaultCatalog()
	require.NoError(t, catalogError)
	for _, workflowKind := range types.WorkflowKinds {
		line := catalog.SystemPromptLine(workflowKind)
		require.NotEmpty(t, line, string(workflowKind))
		require.False(t, strings.Contains(line, "\n"), string(workflowKind))
	}
}

func TestLoadCatalogOverrides(t *testing.T) {
	catalog, catalogError := prompt.LoadCatalog(map[string]string{
		"architecture": "Describe\nthe design.",
		"compare":      "   ",
	})
	require.NoError(t, catalogError)
	require.Equal(t, "Describe the design.", catalog.SystemPromptLine(types.WorkflowArchitecture))

	defaults, _ := prompt.DefaultCatalog()
	require.Equal(t, defaults.SystemPromptLine(types.WorkflowCompare), catalog.SystemPromptLine(types.WorkflowCompare))
}

func TestLoadCatalogRejectsUnknownWorkflow(t *testing.T) {
	_, catalogError := prompt.LoadCatalog(map[string]string{"haiku": "Write a poem."})
	require.ErrorIs(t, catalogError, prompt.ErrUnknownWorkflow)
}
