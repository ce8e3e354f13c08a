// Package gitaccess runs the git executable against a local clone of a remote repository.
package gitaccess

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/multicodex/internal/utils"
)

const (
	gitExecutable = "git"
	// DefaultRemote is the remote every revision is resolved against.
	DefaultRemote = "origin"

	remoteHeadName             = "HEAD"
	remoteRefPrefix            = "refs/remotes/"
	remoteBranchFormatArgument = "%(refname:short)"
	commitSuffix               = "^{commit}"
	symmetricDiffSeparator     = "..."
	revisionListSeparator      = ", "

	errorCreateParentFormat    = "creating clone parent %s: %w"
	errorMissingRevisionFormat = "%w: %s"
	commandErrorFormat         = "git %s: %s"
	gitNotFoundMessage         = "git not found: ensure git is installed and in PATH"
	revisionNotFoundMessage    = "revision not found"
)

// ErrGitNotFound is returned when the git executable is not available.
var ErrGitNotFound = errors.New(gitNotFoundMessage)

// ErrRevisionNotFound is returned by Diff when a revision does not resolve.
var ErrRevisionNotFound = errors.New(revisionNotFoundMessage)

// CommandError describes a failed git invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (commandError *CommandError) Error() string {
	message := commandError.Stderr
	if message == "" && commandError.Err != nil {
		message = commandError.Err.Error()
	}
	return fmt.Sprintf(commandErrorFormat, strings.Join(commandError.Args, " "), message)
}

func (commandError *CommandError) Unwrap() error {
	return commandError.Err
}

// Repository is a local clone of a remote repository.
type Repository struct {
	URL    string
	Path   string
	Remote string
}

// NewRepository describes the clone of url stored at path.
func NewRepository(url string, path string) *Repository {
	return &Repository{URL: url, Path: path, Remote: DefaultRemote}
}

func (repository *Repository) remote() string {
	if repository.Remote == "" {
		return DefaultRemote
	}
	return repository.Remote
}

// RemoteRevision returns the remote tracking revision of branchName, e.g. origin/main.
func (repository *Repository) RemoteRevision(branchName string) string {
	return repository.remote() + "/" + branchName
}

// EnsureClone clones the repository when Path holds no clone yet, and fetches otherwise.
func (repository *Repository) EnsureClone(ctx context.Context) error {
	if info, statError := os.Stat(filepath.Join(repository.Path, utils.GitDirectoryName)); statError == nil && info.IsDir() {
		return repository.Fetch(ctx)
	}
	parentDirectory := filepath.Dir(repository.Path)
	if mkdirError := os.MkdirAll(parentDirectory, 0o755); mkdirError != nil {
		return fmt.Errorf(errorCreateParentFormat, parentDirectory, mkdirError)
	}
	_, cloneError := runGit(ctx, "", "clone", "--quiet", repository.URL, repository.Path)
	return cloneError
}

// Fetch updates remote tracking branches and prunes deleted ones.
func (repository *Repository) Fetch(ctx context.Context) error {
	_, fetchError := repository.run(ctx, "fetch", "--quiet", repository.remote(), "--prune")
	return fetchError
}

// RemoteBranches lists branch names on the remote without the remote prefix, sorted.
func (repository *Repository) RemoteBranches(ctx context.Context) ([]string, error) {
	listing, listError := repository.run(ctx, "branch", "-r", "--format", remoteBranchFormatArgument)
	if listError != nil {
		return nil, listError
	}
	prefix := repository.remote() + "/"
	var branchNames []string
	for _, line := range strings.Split(listing, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmedLine, prefix) {
			continue
		}
		branchName := strings.TrimPrefix(trimmedLine, prefix)
		if branchName == "" || branchName == remoteHeadName {
			continue
		}
		branchNames = append(branchNames, branchName)
	}
	sort.Strings(branchNames)
	return branchNames, nil
}

// Checkout resets the local branchName to revision and returns the working tree root.
func (repository *Repository) Checkout(ctx context.Context, branchName string, revision string) (string, error) {
	if _, checkoutError := repository.run(ctx, "checkout", "--quiet", "--force", "-B", branchName, revision); checkoutError != nil {
		return "", checkoutError
	}
	return repository.Path, nil
}

// RevisionExists reports whether revision resolves to a commit.
func (repository *Repository) RevisionExists(ctx context.Context, revision string) bool {
	if strings.TrimSpace(revision) == "" {
		return false
	}
	_, verifyError := repository.run(ctx, "rev-parse", "--verify", "--quiet", revision+commitSuffix)
	return verifyError == nil
}

// RemoteBranchExists reports whether the remote tracking ref of branchName exists.
func (repository *Repository) RemoteBranchExists(ctx context.Context, branchName string) bool {
	_, verifyError := repository.run(ctx, "show-ref", "--verify", "--quiet", remoteRefPrefix+repository.RemoteRevision(branchName))
	return verifyError == nil
}

// Diff returns the unified diff of head against its merge base with base.
func (repository *Repository) Diff(ctx context.Context, base string, head string) (string, error) {
	var missingRevisions []string
	for _, revision := range []string{base, head} {
		if !repository.RevisionExists(ctx, revision) {
			missingRevisions = append(missingRevisions, revision)
		}
	}
	if len(missingRevisions) > 0 {
		return "", fmt.Errorf(errorMissingRevisionFormat, ErrRevisionNotFound, strings.Join(missingRevisions, revisionListSeparator))
	}
	return repository.run(ctx, "diff", base+symmetricDiffSeparator+head)
}

func (repository *Repository) run(ctx context.Context, args ...string) (string, error) {
	return runGit(ctx, repository.Path, args...)
}

// runGit executes git with args inside directory and returns stdout unmodified.
func runGit(ctx context.Context, directory string, args ...string) (string, error) {
	commandArguments := args
	if directory != "" {
		commandArguments = append([]string{"-C", directory}, args...)
	}
	command := exec.CommandContext(ctx, gitExecutable, commandArguments...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr
	if runError := command.Run(); runError != nil {
		var execError *exec.Error
		if errors.As(runError, &execError) {
			return "", ErrGitNotFound
		}
		return "", &CommandError{Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: runError}
	}
	return stdout.String(), nil
}
