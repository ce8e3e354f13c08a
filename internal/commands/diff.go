package commands

import (
	"context"
	"strings"

	"github.com/temirov/multicodex/internal/types"
)

// Differ produces the unified diff of head against base.
type Differ interface {
	Diff(ctx context.Context, base string, head string) (string, error)
}

// DiffFetcher turns collaborator diffs into tagged results.
type DiffFetcher struct {
	differ Differ
}

// NewDiffFetcher wraps differ.
func NewDiffFetcher(differ Differ) *DiffFetcher {
	return &DiffFetcher{differ: differ}
}

// Diff never fails: collaborator errors become the failure variant carrying the raw message.
func (fetcher *DiffFetcher) Diff(ctx context.Context, base string, head string) types.DiffResult {
	diffBody, diffError := fetcher.differ.Diff(ctx, base, head)
	if diffError != nil {
		return types.NewDiffFailure(base, head, diffError.Error())
	}
	if strings.TrimSpace(diffBody) == "" {
		return types.NewDiffSuccess(base, head, "")
	}
	return types.NewDiffSuccess(base, head, diffBody)
}
