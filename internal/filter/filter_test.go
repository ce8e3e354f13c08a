package filter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/multicodex/internal/filter"
	"github.com/temirov/multicodex/internal/types"
)

func textFile(path string, size int64) types.WorkingTreeEntry {
	return types.WorkingTreeEntry{Path: path, Kind: types.EntryKindFile, SizeBytes: size, Encoding: types.EncodingText}
}

func TestDecide(t *testing.T) {
	defaultFilter := filter.Default()
	testCases := []struct {
		name     string
		entry    types.WorkingTreeEntry
		expected types.FilterDecision
	}{
		{
			name:     "plain text file",
			entry:    textFile("src/main.go", 120),
			expected: types.FilterDecision{Include: true, Reason: types.ReasonNone},
		},
		{
			name:     "directory",
			entry:    types.WorkingTreeEntry{Path: "src", Kind: types.EntryKindDirectory},
			expected: types.FilterDecision{Include: true, Reason: types.ReasonNone},
		},
		{
			name:     "excluded directory itself",
			entry:    types.WorkingTreeEntry{Path: "node_modules", Kind: types.EntryKindDirectory},
			expected: types.FilterDecision{Include: false, Reason: types.ReasonExcludedDirectory},
		},
		{
			name:     "file nested in excluded directory",
			entry:    textFile("web/node_modules/lib/index.js", 10),
			expected: types.FilterDecision{Include: false, Reason: types.ReasonExcludedDirectory},
		},
		{
			name:     "git metadata",
			entry:    textFile(".git/HEAD", 10),
			expected: types.FilterDecision{Include: false, Reason: types.ReasonExcludedDirectory},
		},
		{
			name:     "file named like excluded directory",
			entry:    textFile("scripts/build", 10),
			expected: types.FilterDecision{Include: true, Reason: types.ReasonNone},
		},
		{
			name:     "top level file named like excluded directory",
			entry:    textFile("out", 10),
			expected: types.FilterDecision{Include: true, Reason: types.ReasonNone},
		},
		{
			name:     "file inside top level excluded directory",
			entry:    textFile("build/x.go", 10),
			expected: types.FilterDecision{Include: false, Reason: types.ReasonExcludedDirectory},
		},
		{
			name:     "nested excluded directory itself",
			entry:    types.WorkingTreeEntry{Path: "cmd/target", Kind: types.EntryKindDirectory},
			expected: types.FilterDecision{Include: false, Reason: types.ReasonExcludedDirectory},
		},
		{
			name:     "segment match is case sensitive",
			entry:    textFile("Build/notes.txt", 10),
			expected: types.FilterDecision{Include: true, Reason: types.ReasonNone},
		},
		{
			name:     "segment match is exact",
			entry:    textFile("distribution/readme.md", 10),
			expected: types.FilterDecision{Include: true, Reason: types.ReasonNone},
		},
		{
			name:     "exactly at limit",
			entry:    textFile("big.txt", 204800),
			expected: types.FilterDecision{Include: true, Reason: types.ReasonNone},
		},
		{
			name:     "one byte over limit",
			entry:    textFile("big.txt", 204801),
			expected: types.FilterDecision{Include: false, Reason: types.ReasonOversized},
		},
		{
			name: "binary file",
			entry: types.WorkingTreeEntry{
				Path: "logo.png", Kind: types.EntryKindFile, SizeBytes: 10, Encoding: types.EncodingBinary,
			},
			expected: types.FilterDecision{Include: false, Reason: types.ReasonBinary},
		},
		{
			name: "oversized binary reports size first",
			entry: types.WorkingTreeEntry{
				Path: "video.mp4", Kind: types.EntryKindFile, SizeBytes: 1 << 30, Encoding: types.EncodingBinary,
			},
			expected: types.FilterDecision{Include: false, Reason: types.ReasonOversized},
		},
		{
			name: "unreadable file",
			entry: types.WorkingTreeEntry{
				Path: "secret.txt", Kind: types.EntryKindFile, SizeBytes: 10, Encoding: types.EncodingUnreadable,
			},
			expected: types.FilterDecision{Include: false, Reason: types.ReasonUnreadable},
		},
		{
			name: "binary inside excluded directory",
			entry: types.WorkingTreeEntry{
				Path: "node_modules/img.png", Kind: types.EntryKindFile, SizeBytes: 10, Encoding: types.EncodingBinary,
			},
			expected: types.FilterDecision{Include: false, Reason: types.ReasonExcludedDirectory},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, defaultFilter.Decide(testCase.entry))
		})
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	defaultFilter := filter.Default()
	entry := textFile("pkg/vendor/x.go", 42)
	first := defaultFilter.Decide(entry)
	for iteration := 0; iteration < 10; iteration++ {
		require.Equal(t, first, defaultFilter.Decide(entry))
	}
}

func TestNewWithOverrides(t *testing.T) {
	customFilter := filter.New(filter.Config{
		MaxFileSizeBytes:    10,
		ExcludedDirectories: []string{"generated/", " fixtures ", ""},
	})
	require.Equal(t, int64(10), customFilter.MaxFileSizeBytes())
	require.False(t, customFilter.Decide(textFile("generated/a.go", 1)).Include)
	require.False(t, customFilter.Decide(textFile("testdata/fixtures/a.json", 1)).Include)
	require.True(t, customFilter.Decide(textFile("node_modules/a.js", 1)).Include)
	require.Equal(t, types.ReasonOversized, customFilter.Decide(textFile("a.go", 11)).Reason)
}

func TestApplyKeepsOrder(t *testing.T) {
	entries := []types.WorkingTreeEntry{
		textFile("b.go", 1),
		{Path: "node_modules", Kind: types.EntryKindDirectory},
		{Path: "node_modules/img.png", Kind: types.EntryKindFile, SizeBytes: 5, Encoding: types.EncodingBinary},
		textFile("a.go", 1),
	}
	included := filter.Default().Apply(entries)
	require.Len(t, included, 2)
	require.Equal(t, "b.go", included[0].Path)
	require.Equal(t, "a.go", included[1].Path)
}
