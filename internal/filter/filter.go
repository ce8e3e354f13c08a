// Package filter decides which working-tree entries belong in a branch snapshot.
package filter

import (
	"path"
	"strings"

	"github.com/temirov/multicodex/internal/types"
	"github.com/temirov/multicodex/internal/utils"
)

// DefaultMaxFileSizeBytes is the largest file, in bytes, that is still included.
const DefaultMaxFileSizeBytes int64 = 200 * 1024

const pathSeparator = "/"

// DefaultExcludedDirectories lists directory names that are never descended.
var DefaultExcludedDirectories = []string{
	// version control
	utils.GitDirectoryName,
	".hg",
	".svn",
	// dependencies
	"node_modules",
	"vendor",
	".venv",
	"venv",
	"__pycache__",
	"bower_components",
	// build output
	"dist",
	"build",
	"target",
	"out",
	// editors
	".idea",
	".vscode",
	".vs",
	utils.ApplicationDirectoryName,
}

// Config customizes a Filter. Zero values fall back to the defaults.
type Config struct {
	MaxFileSizeBytes    int64
	ExcludedDirectories []string
}

// Filter applies the snapshot inclusion rules. It is safe for concurrent use.
type Filter struct {
	maxFileSizeBytes    int64
	excludedDirectories map[string]struct{}
}

// New builds a Filter from the provided configuration.
func New(config Config) *Filter {
	maxFileSizeBytes := config.MaxFileSizeBytes
	if maxFileSizeBytes <= 0 {
		maxFileSizeBytes = DefaultMaxFileSizeBytes
	}
	directoryNames := config.ExcludedDirectories
	if len(directoryNames) == 0 {
		directoryNames = DefaultExcludedDirectories
	}
	excludedDirectories := make(map[string]struct{}, len(directoryNames))
	for _, directoryName := range utils.DeduplicatePatterns(directoryNames) {
		excludedDirectories[strings.Trim(directoryName, pathSeparator)] = struct{}{}
	}
	return &Filter{
		maxFileSizeBytes:    maxFileSizeBytes,
		excludedDirectories: excludedDirectories,
	}
}

// Default returns a Filter using the built-in rules.
func Default() *Filter {
	return New(Config{})
}

// MaxFileSizeBytes reports the effective size limit.
func (filter *Filter) MaxFileSizeBytes() int64 {
	return filter.maxFileSizeBytes
}

// Decide returns the verdict for a single entry. Rules are checked in priority order:
// excluded directory segment, directory, size, encoding. Only directory segments count, so a
// file named like an excluded directory is still included.
func (filter *Filter) Decide(entry types.WorkingTreeEntry) types.FilterDecision {
	if entry.IsDir() {
		if filter.HasExcludedSegment(entry.Path) {
			return types.FilterDecision{Include: false, Reason: types.ReasonExcludedDirectory}
		}
		return types.FilterDecision{Include: true, Reason: types.ReasonNone}
	}
	if filter.HasExcludedSegment(path.Dir(entry.Path)) {
		return types.FilterDecision{Include: false, Reason: types.ReasonExcludedDirectory}
	}
	if entry.SizeBytes > filter.maxFileSizeBytes {
		return types.FilterDecision{Include: false, Reason: types.ReasonOversized}
	}
	switch entry.Encoding {
	case types.EncodingBinary:
		return types.FilterDecision{Include: false, Reason: types.ReasonBinary}
	case types.EncodingUnreadable:
		return types.FilterDecision{Include: false, Reason: types.ReasonUnreadable}
	}
	return types.FilterDecision{Include: true, Reason: types.ReasonNone}
}

// HasExcludedSegment reports whether any segment of the slash separated path is excluded.
func (filter *Filter) HasExcludedSegment(relativePath string) bool {
	for _, segment := range strings.Split(relativePath, pathSeparator) {
		if _, excluded := filter.excludedDirectories[segment]; excluded {
			return true
		}
	}
	return false
}

// Apply returns the entries that are included, preserving input order.
func (filter *Filter) Apply(entries []types.WorkingTreeEntry) []types.WorkingTreeEntry {
	included := make([]types.WorkingTreeEntry, 0, len(entries))
	for _, entry := range entries {
		if filter.Decide(entry).Include {
			included = append(included, entry)
		}
	}
	return included
}
