package prompt_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/multicodex/internal/prompt"
)

func TestLoadSpecFile(t *testing.T) {
	specPath := filepath.Join(t.TempDir(), "spec.md")
	require.NoError(t, os.WriteFile(specPath, []byte("# Goal\r\nShip it.\r\n\r\n  \n"), 0o600))

	spec, loadError := prompt.LoadSpecFile(specPath)
	require.NoError(t, loadError)
	require.Equal(t, specPath, spec.SourcePath)
	require.Equal(t, "# Goal\nShip it.", spec.Text)
}

func TestLoadSpecFileLatin1(t *testing.T) {
	specPath := filepath.Join(t.TempDir(), "spec.txt")
	require.NoError(t, os.WriteFile(specPath, []byte("caf\xe9 r\xe9sum\xe9"), 0o600))

	spec, loadError := prompt.LoadSpecFile(specPath)
	require.NoError(t, loadError)
	require.Equal(t, "café résumé", spec.Text)
}

func TestLoadSpecFileMissing(t *testing.T) {
	temporaryDirectory := t.TempDir()
	_, missingError := prompt.LoadSpecFile(filepath.Join(temporaryDirectory, "absent.md"))
	require.ErrorIs(t, missingError, prompt.ErrSpecNotFound)

	_, directoryError := prompt.LoadSpecFile(temporaryDirectory)
	require.ErrorIs(t, directoryError, prompt.ErrSpecNotFound)
}

func TestLoadSpecFileEmpty(t *testing.T) {
	specPath := filepath.Join(t.TempDir(), "empty.md")
	require.NoError(t, os.WriteFile(specPath, []byte(" \n\t\n"), 0o600))
	_, loadError := prompt.LoadSpecFile(specPath)
	require.ErrorIs(t, loadError, prompt.ErrSpecEmpty)
}

func TestSpecFromText(t *testing.T) {
	require.Nil(t, prompt.SpecFromText(""))
	require.Nil(t, prompt.SpecFromText(" \r\n "))

	spec := prompt.SpecFromText("line one\rline two  \n")
	require.NotNil(t, spec)
	require.Empty(t, spec.SourcePath)
	require.Equal(t, "line one\nline two", spec.Text)
}
