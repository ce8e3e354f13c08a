// Package types defines every cross‑package data structure used by the multicodex CLI.
package types

import "time"

// EntryKind distinguishes files from directories in a working tree.
type EntryKind string

const (
	EntryKindFile      EntryKind = "file"
	EntryKindDirectory EntryKind = "directory"
)

// ContentEncoding classifies the sampled bytes of a file.
type ContentEncoding string

const (
	EncodingText       ContentEncoding = "text"
	EncodingBinary     ContentEncoding = "binary"
	EncodingUnreadable ContentEncoding = "unreadable"
)

// FilterReason explains why an entry was excluded from a snapshot.
type FilterReason string

const (
	ReasonNone              FilterReason = "none"
	ReasonExcludedDirectory FilterReason = "excluded-directory"
	ReasonOversized         FilterReason = "oversized"
	ReasonBinary            FilterReason = "binary"
	ReasonUnreadable        FilterReason = "unreadable"
)

// WorkflowKind names one of the prompt workflows.
type WorkflowKind string

const (
	WorkflowArchitecture    WorkflowKind = "architecture"
	WorkflowCompare         WorkflowKind = "compare"
	WorkflowPullRequest     WorkflowKind = "pr-review"
	WorkflowFeatureSecurity WorkflowKind = "feature-security"
)

// WorkflowKinds lists the supported workflows in presentation order.
var WorkflowKinds = []WorkflowKind{
	WorkflowArchitecture,
	WorkflowCompare,
	WorkflowPullRequest,
	WorkflowFeatureSecurity,
}

// WorkingTreeEntry is one path found while walking a checked-out revision.
// Path is relative to the working tree root and slash separated.
type WorkingTreeEntry struct {
	Path      string
	Kind      EntryKind
	SizeBytes int64
	Encoding  ContentEncoding
}

// IsDir reports whether the entry is a directory.
func (entry WorkingTreeEntry) IsDir() bool {
	return entry.Kind == EntryKindDirectory
}

// FilterDecision is the include/exclude verdict for a WorkingTreeEntry.
type FilterDecision struct {
	Include bool
	Reason  FilterReason
}

// SnapshotFile is a single included file rendered into a snapshot.
type SnapshotFile struct {
	Path     string
	Language string
	Content  string
}

// BranchSnapshot is the rendered Markdown view of one branch.
type BranchSnapshot struct {
	BranchName     string
	Slug           string
	Revision       string
	RepositoryName string
	Tree           string
	Files          []SnapshotFile
	CreatedAt      time.Time
	Markdown       string
}

// SnapshotFailure records a branch that could not be resolved.
type SnapshotFailure struct {
	BranchName string
	Revision   string
	Message    string
}

// BranchSection is either a snapshot or a failure, never both.
type BranchSection struct {
	Snapshot *BranchSnapshot
	Failure  *SnapshotFailure
}

// BranchName returns the branch the section describes.
func (section BranchSection) BranchName() string {
	if section.Snapshot != nil {
		return section.Snapshot.BranchName
	}
	if section.Failure != nil {
		return section.Failure.BranchName
	}
	return ""
}

// SpecDocument is a normalized specification. A nil *SpecDocument means no specification.
type SpecDocument struct {
	SourcePath string
	Text       string
}

// DiffResult is the outcome of diffing two revisions.
type DiffResult struct {
	Base    string
	Head    string
	Body    string
	Message string
	failed  bool
}

// NewDiffSuccess builds a successful diff result. An empty body means no changes.
func NewDiffSuccess(base, head, body string) DiffResult {
	return DiffResult{Base: base, Head: head, Body: body}
}

// NewDiffFailure builds a failed diff result carrying the underlying message.
func NewDiffFailure(base, head, message string) DiffResult {
	return DiffResult{Base: base, Head: head, Message: message, failed: true}
}

// Failed reports whether the diff could not be computed.
func (result DiffResult) Failed() bool {
	return result.failed
}

// HasChanges reports whether a successful diff contains any hunks.
func (result DiffResult) HasChanges() bool {
	return !result.failed && result.Body != ""
}

// CombinedPrompt is the final assembled document.
type CombinedPrompt struct {
	Kind             WorkflowKind
	Text             string
	EstimatedTokens  int
	ExceedsThreshold bool
	OutputPath       string
}
