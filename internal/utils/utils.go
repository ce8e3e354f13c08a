// Package utils contains general helper functions used across the multicodex tool.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

const homeDirectoryPrefix = "~"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept. Blank patterns are dropped.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)

	if cleanPath == cleanRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// ExpandHomePath replaces a leading ~ with the current user's home directory.
func ExpandHomePath(path string) string {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath != homeDirectoryPrefix && !strings.HasPrefix(trimmedPath, homeDirectoryPrefix+string(filepath.Separator)) && !strings.HasPrefix(trimmedPath, homeDirectoryPrefix+"/") {
		return trimmedPath
	}
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil || homeDirectory == "" {
		return trimmedPath
	}
	return filepath.Join(homeDirectory, strings.TrimPrefix(trimmedPath, homeDirectoryPrefix))
}
