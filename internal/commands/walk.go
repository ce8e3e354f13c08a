// Package commands builds branch snapshots and diffs from checked-out revisions.
package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/multicodex/internal/types"
	"github.com/temirov/multicodex/internal/utils"
)

const (
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	errorWalkFormat         = "walking %s: %w"

	warningAccessPathMessage = "unable to access path"
	warningSampleFileMessage = "unable to sample file"
	currentDirectoryPath     = "."
)

// DirectorySkipper reports whether a directory with the given relative path must not be descended.
type DirectorySkipper func(relativePath string) bool

// ListEntries walks rootDirectoryPath and returns one entry per file and directory below it.
// Paths are relative and slash separated. A skipped directory is listed but not descended.
// Files that cannot be inspected are classified as unreadable instead of failing the walk.
func ListEntries(rootDirectoryPath string, skipDirectory DirectorySkipper, logger *zap.Logger) ([]types.WorkingTreeEntry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}

	var entries []types.WorkingTreeEntry
	walkError := filepath.WalkDir(absoluteRootPath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		relativePath := utils.RelativePathOrSelf(walkedPath, absoluteRootPath)
		if accessError != nil {
			if relativePath == currentDirectoryPath {
				return accessError
			}
			logger.Warn(warningAccessPathMessage, zap.String("path", relativePath), zap.Error(accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				entries = append(entries, types.WorkingTreeEntry{Path: relativePath, Kind: types.EntryKindDirectory})
				return filepath.SkipDir
			}
			entries = append(entries, types.WorkingTreeEntry{Path: relativePath, Kind: types.EntryKindFile, Encoding: types.EncodingUnreadable})
			return nil
		}
		if relativePath == currentDirectoryPath {
			return nil
		}
		if directoryEntry.IsDir() {
			entries = append(entries, types.WorkingTreeEntry{Path: relativePath, Kind: types.EntryKindDirectory})
			if skipDirectory != nil && skipDirectory(relativePath) {
				return filepath.SkipDir
			}
			return nil
		}
		entries = append(entries, inspectFile(walkedPath, relativePath, logger))
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(errorWalkFormat, rootDirectoryPath, walkError)
	}
	return entries, nil
}

func inspectFile(absolutePath string, relativePath string, logger *zap.Logger) types.WorkingTreeEntry {
	entry := types.WorkingTreeEntry{Path: relativePath, Kind: types.EntryKindFile, Encoding: types.EncodingUnreadable}
	fileInfo, statError := os.Stat(absolutePath)
	if statError != nil {
		logger.Warn(warningAccessPathMessage, zap.String("path", relativePath), zap.Error(statError))
		return entry
	}
	entry.SizeBytes = fileInfo.Size()
	sample, sampleError := utils.ReadSample(absolutePath)
	if sampleError != nil {
		logger.Warn(warningSampleFileMessage, zap.String("path", relativePath), zap.Error(sampleError))
		return entry
	}
	if utils.IsBinary(sample) {
		entry.Encoding = types.EncodingBinary
	} else {
		entry.Encoding = types.EncodingText
	}
	return entry
}
