package prompt_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/temirov/multicodex/internal/output"
	"github.com/temirov/multicodex/internal/prompt"
	"github.com/temirov/multicodex/internal/tokenizer"
	"github.com/temirov/multicodex/internal/types"
)

const systemLine = "You are a reviewer."

func snapshotSection(branchName string, markdown string) types.BranchSection {
	return types.BranchSection{Snapshot: &types.BranchSnapshot{BranchName: branchName, Markdown: markdown}}
}

func TestAssembleEmptyRequest(t *testing.T) {
	combined := prompt.Assemble(prompt.Request{Kind: types.WorkflowArchitecture, SystemPromptLine: systemLine})
	expectedText := systemLine + "\n\n" + prompt.NoSpecificationNotice + "\n"
	require.Equal(t, expectedText, combined.Text)
	require.Equal(t, types.WorkflowArchitecture, combined.Kind)
	require.Equal(t, tokenizer.EstimateText(expectedText).Tokens, combined.EstimatedTokens)
	require.False(t, combined.ExceedsThreshold)
}

func TestAssembleCollapsesSystemLine(t *testing.T) {
	combined := prompt.Assemble(prompt.Request{SystemPromptLine: "  first\nsecond  "})
	require.True(t, strings.HasPrefix(combined.Text, "first second\n\n"))
}

func TestAssembleFullDocument(t *testing.T) {
	diffResult := types.NewDiffSuccess("origin/main", "origin/feature", "+x\n")
	combined := prompt.Assemble(prompt.Request{
		Kind:             types.WorkflowPullRequest,
		SystemPromptLine: systemLine,
		Spec:             &types.SpecDocument{SourcePath: "/tmp/spec.md", Text: "Build it."},
		Branches:         []types.BranchSection{snapshotSection("feature", "# Project: demo (Branch: feature)\n")},
		Diff:             &diffResult,
	})
	expected := systemLine + "\n\n" +
		"# Specification\n\n" +
		"_Source: `/tmp/spec.md`_\n\n" +
		"Build it.\n" +
		"\n# feature branch content\n\n" +
		"# Project: demo (Branch: feature)\n" +
		"\n# Diff: origin/feature vs origin/main\n\n" +
		"```diff\n+x\n```\n"
	if difference := cmp.Diff(expected, combined.Text); difference != "" {
		t.Fatalf("unexpected document (-want +got):\n%s", difference)
	}
}

func TestAssemblePreservesBranchOrder(t *testing.T) {
	combined := prompt.Assemble(prompt.Request{
		SystemPromptLine: systemLine,
		Spec:             prompt.SpecFromText("spec"),
		Branches: []types.BranchSection{
			snapshotSection("zeta", "zeta body\n"),
			snapshotSection("alpha", "alpha body\n"),
		},
	})
	zetaEnd := strings.Index(combined.Text, "zeta body\n") + len("zeta body\n")
	alphaStart := strings.Index(combined.Text, "# alpha branch content")
	require.Greater(t, alphaStart, zetaEnd)
	require.NotContains(t, combined.Text, prompt.NoSpecificationNotice)
}

func TestAssembleNoticeAppearsOnce(t *testing.T) {
	combined := prompt.Assemble(prompt.Request{
		SystemPromptLine: systemLine,
		Branches:         []types.BranchSection{snapshotSection("a", "a\n"), snapshotSection("b", "b\n")},
	})
	require.Equal(t, 1, strings.Count(combined.Text, prompt.NoSpecificationNotice))
}

func TestAssembleKeepsSnapshotWhenDiffFails(t *testing.T) {
	diffResult := types.NewDiffFailure("A", "zzz", "revision not found: zzz")
	combined := prompt.Assemble(prompt.Request{
		SystemPromptLine: systemLine,
		Branches:         []types.BranchSection{snapshotSection("A", "snapshot of A\n")},
		Diff:             &diffResult,
	})
	require.Contains(t, combined.Text, "# A branch content\n\nsnapshot of A\n")
	require.Contains(t, combined.Text, "Unable to compute diff between A and zzz: revision not found: zzz")
}

func TestAssembleRendersFailureNotes(t *testing.T) {
	failure := types.SnapshotFailure{BranchName: "ghost", Revision: "origin/ghost", Message: "invalid reference"}
	combined := prompt.Assemble(prompt.Request{
		SystemPromptLine: systemLine,
		Branches:         []types.BranchSection{{Failure: &failure}, snapshotSection("main", "main body\n")},
	})
	require.Contains(t, combined.Text, "# ghost branch content\n\n"+output.RenderSnapshotFailure(failure))
	require.Contains(t, combined.Text, "# main branch content\n\nmain body\n")
}

func TestAssembleFlagsLargePrompts(t *testing.T) {
	largeMarkdown := strings.Repeat("x", tokenizer.ContextWindowTokens*tokenizer.BytesPerToken)
	combined := prompt.Assemble(prompt.Request{
		SystemPromptLine: systemLine,
		Branches:         []types.BranchSection{snapshotSection("big", largeMarkdown)},
	})
	require.True(t, combined.ExceedsThreshold)
	require.Greater(t, combined.EstimatedTokens, tokenizer.ContextWindowTokens)
}
