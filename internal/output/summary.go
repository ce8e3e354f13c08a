package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/multicodex/internal/types"
	"github.com/temirov/multicodex/internal/utils"
)

const (
	reportTitleFormat      = "%s prompt written to %s"
	reportArtifactFormat   = "  %s %s"
	reportArtifactLabel    = "artifact"
	reportSizeFormat       = "%s %s, ~%d tokens (estimate)"
	reportSizeLabel        = "Size:"
	reportExactFormat      = "%s %d tokens (%s)"
	reportExactLabel       = "Counted:"
	reportThresholdWarning = "Warning: the prompt exceeds the typical 128k token context window"
	reportCopiedMessage    = "Copied prompt to clipboard"
)

// Styles holds lipgloss styles for terminal reports.
type Styles struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Key     lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when color is disabled.
func NewStyles(enableColor bool) Styles {
	if !enableColor {
		plainStyle := lipgloss.NewStyle()
		return Styles{Title: plainStyle, Success: plainStyle, Warning: plainStyle, Key: plainStyle, Muted: plainStyle}
	}
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Muted:   lipgloss.NewStyle().Faint(true),
	}
}

// PromptReport summarizes a finished workflow for the terminal.
type PromptReport struct {
	Prompt      types.CombinedPrompt
	Artifacts   []string
	ExactTokens int
	TokenModel  string
	Copied      bool
}

// WriteReport prints the report to writer.
func WriteReport(writer io.Writer, styles Styles, report PromptReport) error {
	lines := []string{
		styles.Title.Render(fmt.Sprintf(reportTitleFormat, report.Prompt.Kind, report.Prompt.OutputPath)),
	}
	for _, artifactPath := range report.Artifacts {
		if artifactPath == report.Prompt.OutputPath {
			continue
		}
		lines = append(lines, styles.Muted.Render(fmt.Sprintf(reportArtifactFormat, reportArtifactLabel, artifactPath)))
	}
	lines = append(lines, fmt.Sprintf(reportSizeFormat,
		styles.Key.Render(reportSizeLabel),
		utils.FormatFileSize(int64(len(report.Prompt.Text))),
		report.Prompt.EstimatedTokens,
	))
	if report.TokenModel != "" {
		lines = append(lines, fmt.Sprintf(reportExactFormat, styles.Key.Render(reportExactLabel), report.ExactTokens, report.TokenModel))
	}
	if report.Prompt.ExceedsThreshold {
		lines = append(lines, styles.Warning.Render(reportThresholdWarning))
	}
	if report.Copied {
		lines = append(lines, styles.Success.Render(reportCopiedMessage))
	}
	for _, line := range lines {
		if _, writeError := fmt.Fprintln(writer, line); writeError != nil {
			return writeError
		}
	}
	return nil
}

