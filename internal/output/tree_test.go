package output_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/temirov/multicodex/internal/output"
	"github.com/temirov/multicodex/internal/types"
)

func fileEntry(path string) types.WorkingTreeEntry {
	return types.WorkingTreeEntry{Path: path, Kind: types.EntryKindFile, Encoding: types.EncodingText}
}

func directoryEntry(path string) types.WorkingTreeEntry {
	return types.WorkingTreeEntry{Path: path, Kind: types.EntryKindDirectory}
}

func sampleEntries() []types.WorkingTreeEntry {
	return []types.WorkingTreeEntry{
		fileEntry("README.md"),
		directoryEntry("src"),
		fileEntry("src/main.go"),
		fileEntry("src/Alpha.go"),
		directoryEntry("src/internal"),
		fileEntry("src/internal/util.go"),
		fileEntry("go.mod"),
		directoryEntry("docs"),
		fileEntry("docs/guide.md"),
		fileEntry("alpha.txt"),
		fileEntry("Alpha.txt"),
	}
}

const sampleTree = "repo\n" +
	"├── docs/\n" +
	"│   └── guide.md\n" +
	"├── src/\n" +
	"│   ├── internal/\n" +
	"│   │   └── util.go\n" +
	"│   ├── Alpha.go\n" +
	"│   └── main.go\n" +
	"├── Alpha.txt\n" +
	"├── alpha.txt\n" +
	"├── go.mod\n" +
	"└── README.md\n"

func TestRenderTree(t *testing.T) {
	actual := output.RenderTree("repo", sampleEntries())
	if difference := cmp.Diff(sampleTree, actual); difference != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", difference)
	}
}

func TestRenderTreeIsOrderIndependent(t *testing.T) {
	entries := sampleEntries()
	randomSource := rand.New(rand.NewSource(7))
	for iteration := 0; iteration < 20; iteration++ {
		randomSource.Shuffle(len(entries), func(left, right int) {
			entries[left], entries[right] = entries[right], entries[left]
		})
		if difference := cmp.Diff(sampleTree, output.RenderTree("repo", entries)); difference != "" {
			t.Fatalf("permutation %d changed the tree (-want +got):\n%s", iteration, difference)
		}
	}
}

func TestRenderTreeImpliesDirectories(t *testing.T) {
	actual := output.RenderTree("repo", []types.WorkingTreeEntry{fileEntry("src/a.py")})
	require.Equal(t, "repo\n└── src/\n    └── a.py\n", actual)
}

func TestRenderTreeEmpty(t *testing.T) {
	require.Equal(t, "repo\n", output.RenderTree("repo", nil))
}

func TestOrderedFilesMatchesTree(t *testing.T) {
	expected := []string{
		"docs/guide.md",
		"src/internal/util.go",
		"src/Alpha.go",
		"src/main.go",
		"Alpha.txt",
		"alpha.txt",
		"go.mod",
		"README.md",
	}
	if difference := cmp.Diff(expected, output.OrderedFiles(sampleEntries())); difference != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", difference)
	}
}
