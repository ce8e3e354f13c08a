package prompt

import (
	"fmt"
	"strings"

	"github.com/temirov/multicodex/internal/output"
	"github.com/temirov/multicodex/internal/tokenizer"
	"github.com/temirov/multicodex/internal/types"
)

const (
	// NoSpecificationNotice is emitted exactly once when no specification is supplied.
	NoSpecificationNotice = "_No specification was provided for this project._"

	specificationHeader = "# Specification"
	sourceLineFormat    = "_Source: `%s`_"
	branchHeaderFormat  = "# %s branch content"
	diffHeaderFormat    = "# Diff: %s vs %s"
	paragraphBreak      = "\n\n"
	lineBreak           = "\n"
)

// Request lists everything a combined prompt is assembled from. Nil Spec and Diff mean absent.
type Request struct {
	Kind             types.WorkflowKind
	SystemPromptLine string
	Spec             *types.SpecDocument
	Branches         []types.BranchSection
	Diff             *types.DiffResult
}

// Assemble composes the combined prompt. Sections appear in a fixed order: system prompt
// line, specification or its absence notice, branches in request order, then the diff.
// It never fails; every combination of absent sections yields a document.
func Assemble(request Request) types.CombinedPrompt {
	var builder strings.Builder
	builder.WriteString(SingleLine(request.SystemPromptLine) + paragraphBreak)
	writeSpecification(&builder, request.Spec)
	for _, section := range request.Branches {
		writeBranchSection(&builder, section)
	}
	if request.Diff != nil {
		builder.WriteString(lineBreak)
		fmt.Fprintf(&builder, diffHeaderFormat, request.Diff.Head, request.Diff.Base)
		builder.WriteString(paragraphBreak)
		builder.WriteString(output.RenderDiff(*request.Diff))
	}

	text := builder.String()
	estimate := tokenizer.EstimateText(text)
	return types.CombinedPrompt{
		Kind:             request.Kind,
		Text:             text,
		EstimatedTokens:  estimate.Tokens,
		ExceedsThreshold: estimate.ExceedsThreshold,
	}
}

func writeSpecification(builder *strings.Builder, spec *types.SpecDocument) {
	if spec == nil {
		builder.WriteString(NoSpecificationNotice + lineBreak)
		return
	}
	builder.WriteString(specificationHeader + paragraphBreak)
	if spec.SourcePath != "" {
		fmt.Fprintf(builder, sourceLineFormat, spec.SourcePath)
		builder.WriteString(paragraphBreak)
	}
	writeWithTrailingLineBreak(builder, spec.Text)
}

func writeBranchSection(builder *strings.Builder, section types.BranchSection) {
	builder.WriteString(lineBreak)
	fmt.Fprintf(builder, branchHeaderFormat, section.BranchName())
	builder.WriteString(paragraphBreak)
	switch {
	case section.Snapshot != nil:
		writeWithTrailingLineBreak(builder, section.Snapshot.Markdown)
	case section.Failure != nil:
		builder.WriteString(output.RenderSnapshotFailure(*section.Failure))
	}
}

func writeWithTrailingLineBreak(builder *strings.Builder, text string) {
	builder.WriteString(text)
	if !strings.HasSuffix(text, lineBreak) {
		builder.WriteString(lineBreak)
	}
}
