package output

import (
	"fmt"
	"strings"

	"github.com/temirov/multicodex/internal/types"
	"github.com/temirov/multicodex/internal/utils"
)

const (
	backtick           = '`'
	minimumFenceLength = 3

	projectHeaderFormat   = "# Project: %s (Branch: %s)"
	createdLinePrefix     = "_Snapshot created: "
	emphasisSuffix        = "_"
	structureHeader       = "## Project Structure"
	sectionDivider        = "---"
	contentsHeader        = "## File Contents"
	fileHeaderPrefix      = "### FILE: "
	noMatchingFilesNotice = "_No matching files were found on this branch._"
)

// NoMatchingFilesNotice is written in place of file blocks when a snapshot has no files.
const NoMatchingFilesNotice = noMatchingFilesNotice

// CodeFence returns a backtick fence longer than the longest backtick run in content.
func CodeFence(content string) string {
	longestRun := 0
	currentRun := 0
	for index := 0; index < len(content); index++ {
		if content[index] == backtick {
			currentRun++
			if currentRun > longestRun {
				longestRun = currentRun
			}
			continue
		}
		currentRun = 0
	}
	fenceLength := minimumFenceLength
	if longestRun >= fenceLength {
		fenceLength = longestRun + 1
	}
	return strings.Repeat(string(backtick), fenceLength)
}

// WriteFencedBlock appends content wrapped in a fence tagged with language.
// The content is written verbatim; a line break is added before the closing fence only when missing.
func WriteFencedBlock(builder *strings.Builder, language string, content string) {
	fence := CodeFence(content)
	builder.WriteString(fence + language + lineBreak)
	builder.WriteString(content)
	if !strings.HasSuffix(content, lineBreak) {
		builder.WriteString(lineBreak)
	}
	builder.WriteString(fence + lineBreak)
}

// RenderSnapshotMarkdown renders the Markdown document of one branch snapshot.
// Files are written in the order they appear in snapshot.Files.
func RenderSnapshotMarkdown(snapshot types.BranchSnapshot) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, projectHeaderFormat, snapshot.RepositoryName, snapshot.BranchName)
	builder.WriteString(lineBreak + lineBreak)
	if createdAt := utils.FormatTimestamp(snapshot.CreatedAt); createdAt != "" {
		builder.WriteString(createdLinePrefix + createdAt + emphasisSuffix + lineBreak + lineBreak)
	}
	builder.WriteString(structureHeader + lineBreak + lineBreak)
	WriteFencedBlock(&builder, "", snapshot.Tree)
	builder.WriteString(lineBreak + sectionDivider + lineBreak + lineBreak)
	builder.WriteString(contentsHeader + lineBreak + lineBreak)
	if len(snapshot.Files) == 0 {
		builder.WriteString(noMatchingFilesNotice + lineBreak)
		return builder.String()
	}
	for index, file := range snapshot.Files {
		if index > 0 {
			builder.WriteString(lineBreak)
		}
		builder.WriteString(fileHeaderPrefix + file.Path + lineBreak + lineBreak)
		WriteFencedBlock(&builder, file.Language, file.Content)
	}
	return builder.String()
}
