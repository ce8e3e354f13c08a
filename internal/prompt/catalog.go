// Package prompt assembles combined prompt documents.
package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/multicodex/internal/types"
)

//go:embed prompts.yaml
var embeddedCatalog []byte

const (
	errorParseCatalogFormat   = "parsing prompt catalog: %w"
	errorUnknownWorkflowFmt   = "%w: %s"
	errorMissingSystemLineFmt = "prompt catalog has no line for %s"
)

// ErrUnknownWorkflow is returned when a prompt override names no known workflow.
var ErrUnknownWorkflow = errors.New("unknown workflow")

// Catalog maps each workflow to its system prompt line.
type Catalog struct {
	lines map[types.WorkflowKind]string
}

// DefaultCatalog parses the embedded prompt catalog.
func DefaultCatalog() (Catalog, error) {
	return LoadCatalog(nil)
}

// LoadCatalog parses the embedded catalog and applies overrides keyed by workflow name.
// Blank overrides are ignored.
func LoadCatalog(overrides map[string]string) (Catalog, error) {
	var rawLines map[string]string
	if unmarshalError := yaml.Unmarshal(embeddedCatalog, &rawLines); unmarshalError != nil {
		return Catalog{}, fmt.Errorf(errorParseCatalogFormat, unmarshalError)
	}
	lines := make(map[types.WorkflowKind]string, len(types.WorkflowKinds))
	for _, workflowKind := range types.WorkflowKinds {
		line := SingleLine(rawLines[string(workflowKind)])
		if line == "" {
			return Catalog{}, fmt.Errorf(errorMissingSystemLineFmt, workflowKind)
		}
		lines[workflowKind] = line
	}
	for workflowName, override := range overrides {
		workflowKind := types.WorkflowKind(strings.TrimSpace(workflowName))
		if _, known := lines[workflowKind]; !known {
			return Catalog{}, fmt.Errorf(errorUnknownWorkflowFmt, ErrUnknownWorkflow, workflowName)
		}
		if line := SingleLine(override); line != "" {
			lines[workflowKind] = line
		}
	}
	return Catalog{lines: lines}, nil
}

// SystemPromptLine returns the line for kind, or an empty string for an unknown kind.
func (catalog Catalog) SystemPromptLine(kind types.WorkflowKind) string {
	return catalog.lines[kind]
}

// SingleLine collapses all whitespace runs, including line breaks, into single spaces.
func SingleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
