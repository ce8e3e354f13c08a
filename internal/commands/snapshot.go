package commands

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/multicodex/internal/filter"
	"github.com/temirov/multicodex/internal/output"
	"github.com/temirov/multicodex/internal/types"
	"github.com/temirov/multicodex/internal/utils"
)

const (
	defaultRemoteName = "origin"

	debugExcludedEntryMessage = "excluded entry"
	warningFileReadMessage    = "dropping unreadable file"
)

// Checkouter materializes a revision of a branch and returns its working tree root.
type Checkouter interface {
	Checkout(ctx context.Context, branchName string, revision string) (string, error)
}

// DefaultRevision returns the remote tracking revision used when none is given.
func DefaultRevision(branchName string) string {
	return defaultRemoteName + "/" + branchName
}

// SnapshotterConfig configures a Snapshotter.
type SnapshotterConfig struct {
	RepositoryName string
	Filter         *filter.Filter
	Languages      LanguageTable
	Now            func() time.Time
}

// Snapshotter renders branches into Markdown snapshots, one branch at a time.
type Snapshotter struct {
	checkouter     Checkouter
	repositoryName string
	treeFilter     *filter.Filter
	languages      LanguageTable
	now            func() time.Time
	readFile       func(string) ([]byte, error)
	logger         *zap.Logger
}

// NewSnapshotter builds a Snapshotter around the checkout collaborator.
func NewSnapshotter(checkouter Checkouter, config SnapshotterConfig, logger *zap.Logger) *Snapshotter {
	treeFilter := config.Filter
	if treeFilter == nil {
		treeFilter = filter.Default()
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Snapshotter{
		checkouter:     checkouter,
		repositoryName: config.RepositoryName,
		treeFilter:     treeFilter,
		languages:      config.Languages,
		now:            now,
		readFile:       os.ReadFile,
		logger:         logger,
	}
}

// Snapshot checks out revisionRef for branchName and renders it. An empty revisionRef
// resolves to the remote tracking branch. Checkout failures are returned as *ResolutionError.
func (snapshotter *Snapshotter) Snapshot(ctx context.Context, branchName string, revisionRef string) (types.BranchSnapshot, error) {
	if revisionRef == "" {
		revisionRef = DefaultRevision(branchName)
	}
	if contextError := ctx.Err(); contextError != nil {
		return types.BranchSnapshot{}, &ResolutionError{Branch: branchName, Revision: revisionRef, Err: contextError}
	}
	workingTreeRoot, checkoutError := snapshotter.checkouter.Checkout(ctx, branchName, revisionRef)
	if checkoutError != nil {
		return types.BranchSnapshot{}, &ResolutionError{Branch: branchName, Revision: revisionRef, Err: checkoutError}
	}
	return snapshotter.SnapshotDirectory(workingTreeRoot, branchName, revisionRef)
}

// SnapshotDirectory renders an already materialized working tree.
func (snapshotter *Snapshotter) SnapshotDirectory(workingTreeRoot string, branchName string, revision string) (types.BranchSnapshot, error) {
	entries, listError := ListEntries(workingTreeRoot, snapshotter.treeFilter.HasExcludedSegment, snapshotter.logger)
	if listError != nil {
		return types.BranchSnapshot{}, listError
	}

	repositoryName := snapshotter.repositoryName
	if repositoryName == "" {
		repositoryName = filepath.Base(filepath.Clean(workingTreeRoot))
	}

	includedEntries := make([]types.WorkingTreeEntry, 0, len(entries))
	for _, entry := range entries {
		decision := snapshotter.treeFilter.Decide(entry)
		if !decision.Include {
			snapshotter.logger.Debug(debugExcludedEntryMessage, zap.String("path", entry.Path), zap.String("reason", string(decision.Reason)))
			continue
		}
		includedEntries = append(includedEntries, entry)
	}

	snapshotFiles, renderedEntries := snapshotter.readFiles(workingTreeRoot, includedEntries)
	snapshot := types.BranchSnapshot{
		BranchName:     branchName,
		Slug:           utils.SlugifyBranchName(branchName),
		Revision:       revision,
		RepositoryName: repositoryName,
		Tree:           output.RenderTree(repositoryName, renderedEntries),
		Files:          snapshotFiles,
		CreatedAt:      snapshotter.now().UTC(),
	}
	snapshot.Markdown = output.RenderSnapshotMarkdown(snapshot)
	return snapshot, nil
}

// readFiles reads included files in tree order. Files that fail to read are dropped from
// both the file list and the rendered tree.
func (snapshotter *Snapshotter) readFiles(workingTreeRoot string, includedEntries []types.WorkingTreeEntry) ([]types.SnapshotFile, []types.WorkingTreeEntry) {
	droppedPaths := map[string]struct{}{}
	var snapshotFiles []types.SnapshotFile
	for _, relativePath := range output.OrderedFiles(includedEntries) {
		fileBytes, readError := snapshotter.readFile(filepath.Join(workingTreeRoot, filepath.FromSlash(relativePath)))
		if readError != nil {
			snapshotter.logger.Warn(warningFileReadMessage, zap.String("path", relativePath), zap.Error(readError))
			droppedPaths[relativePath] = struct{}{}
			continue
		}
		snapshotFiles = append(snapshotFiles, types.SnapshotFile{
			Path:     relativePath,
			Language: snapshotter.languages.Lookup(relativePath),
			Content:  string(fileBytes),
		})
	}
	if len(droppedPaths) == 0 {
		return snapshotFiles, includedEntries
	}
	renderedEntries := make([]types.WorkingTreeEntry, 0, len(includedEntries))
	for _, entry := range includedEntries {
		if _, dropped := droppedPaths[entry.Path]; dropped {
			continue
		}
		renderedEntries = append(renderedEntries, entry)
	}
	return snapshotFiles, renderedEntries
}
