package output

import (
	"fmt"
	"strings"

	"github.com/temirov/multicodex/internal/types"
)

const (
	diffFenceLanguage    = "diff"
	failureFenceLanguage = "text"
	noDifferencesFormat  = "No differences between %s and %s."
	diffFailureFormat    = "Unable to compute diff between %s and %s: %s"
)

// RenderDiff renders a diff result: a diff block, a no-changes note, or a failure block.
func RenderDiff(result types.DiffResult) string {
	var builder strings.Builder
	switch {
	case result.Failed():
		WriteFencedBlock(&builder, failureFenceLanguage, fmt.Sprintf(diffFailureFormat, result.Base, result.Head, result.Message))
	case result.HasChanges():
		WriteFencedBlock(&builder, diffFenceLanguage, result.Body)
	default:
		fmt.Fprintf(&builder, noDifferencesFormat+lineBreak, result.Head, result.Base)
	}
	return builder.String()
}

const snapshotFailureFormat = "Unable to resolve branch %s at %s: %s"

// RenderSnapshotFailure renders a branch that could not be resolved as a text block.
func RenderSnapshotFailure(failure types.SnapshotFailure) string {
	var builder strings.Builder
	WriteFencedBlock(&builder, failureFenceLanguage, fmt.Sprintf(snapshotFailureFormat, failure.BranchName, failure.Revision, failure.Message))
	return builder.String()
}
