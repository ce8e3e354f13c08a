package utils

import (
	"net/url"
	"strings"
)

const (
	gitSuffix             = ".git"
	scpStylePrefix        = "git@"
	unknownRepositorySlug = "unknown_repo"
)

var branchSlugReplacer = strings.NewReplacer(
	"/", "_",
	" ", "_",
	"#", "_",
	"\\", "_",
	":", "_",
)

// SlugifyBranchName converts a branch name into a filesystem-friendly slug.
func SlugifyBranchName(branchName string) string {
	return branchSlugReplacer.Replace(branchName)
}

// SlugifyRepositoryURL converts a repository URL (HTTPS, SSH or scp-style) into a
// lower-case owner_repository slug.
func SlugifyRepositoryURL(repositoryURL string) string {
	trimmedURL := strings.TrimSuffix(strings.TrimSpace(repositoryURL), gitSuffix)

	var repositoryPath string
	if strings.HasPrefix(trimmedURL, scpStylePrefix) {
		if _, afterColon, found := strings.Cut(trimmedURL, ":"); found {
			repositoryPath = strings.Trim(afterColon, "/")
		}
	} else if parsedURL, parseError := url.Parse(trimmedURL); parseError == nil {
		repositoryPath = strings.TrimPrefix(parsedURL.Path, "/")
	}

	if repositoryPath == "" {
		return unknownRepositorySlug
	}
	slug := strings.NewReplacer("/", "_", ".", "_").Replace(repositoryPath)
	return strings.ToLower(slug)
}
