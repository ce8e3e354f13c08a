// Package workflow implements the prompt workflows and writes their artifacts.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/multicodex/internal/commands"
	"github.com/temirov/multicodex/internal/filter"
	"github.com/temirov/multicodex/internal/prompt"
	"github.com/temirov/multicodex/internal/types"
	"github.com/temirov/multicodex/internal/utils"
)

// DefaultBaseBranch is the base of pull request reviews when none is configured.
const DefaultBaseBranch = "main"

const (
	branchArtifactFormat          = "branch_%s.md"
	architectureArtifactFormat    = "architecture_report_%s.md"
	featureSecurityArtifactFormat = "feature_security_report_%s.md"
	pullRequestArtifactFormat     = "pr_review_prompt_%s_vs_%s.md"
	comparisonArtifactName        = "combined_spec_and_branches.md"

	errorCreateReportDirectoryFormat = "creating report directory %s: %w"
	errorWriteArtifactFormat         = "writing artifact %s: %w"

	infoArtifactWrittenMessage = "wrote artifact"
	warningBranchFailedMessage = "branch could not be resolved"
	logFieldPath               = "path"
	logFieldBranch             = "branch"
	logFieldRepository         = "repository"

	reportDirectoryPermissions = 0o755
	artifactPermissions        = 0o644
)

// Git is the collaborator that checks out revisions and computes diffs.
type Git interface {
	commands.Checkouter
	commands.Differ
}

// Config carries the per-repository values every workflow needs.
type Config struct {
	RepositoryID    string
	RepositoryName  string
	ReportDirectory string
	BaseBranch      string
	Prompts         prompt.Catalog
	Filter          *filter.Filter
	Languages       commands.LanguageTable
	Now             func() time.Time
}

// Result is a finished workflow: the combined prompt and every artifact written for it.
type Result struct {
	Prompt    types.CombinedPrompt
	Artifacts []string
}

// Service runs workflows against one repository.
type Service struct {
	config      Config
	snapshotter *commands.Snapshotter
	diffFetcher *commands.DiffFetcher
	logger      *zap.Logger
}

// NewService builds a Service around git.
func NewService(config Config, git Git, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.BaseBranch == "" {
		config.BaseBranch = DefaultBaseBranch
	}
	snapshotter := commands.NewSnapshotter(git, commands.SnapshotterConfig{
		RepositoryName: config.RepositoryName,
		Filter:         config.Filter,
		Languages:      config.Languages,
		Now:            config.Now,
	}, logger)
	return &Service{
		config:      config,
		snapshotter: snapshotter,
		diffFetcher: commands.NewDiffFetcher(git),
		logger:      logger,
	}
}

// BaseBranch returns the configured base branch.
func (service *Service) BaseBranch() string {
	return service.config.BaseBranch
}

// BuildArchitectureReport snapshots branch and writes architecture_report_<slug>.md.
func (service *Service) BuildArchitectureReport(ctx context.Context, branchName string) (Result, error) {
	return service.buildSingleBranch(ctx, types.WorkflowArchitecture, branchName, architectureArtifactFormat)
}

// BuildFeatureSecurityReport snapshots branch and writes feature_security_report_<slug>.md.
func (service *Service) BuildFeatureSecurityReport(ctx context.Context, branchName string) (Result, error) {
	return service.buildSingleBranch(ctx, types.WorkflowFeatureSecurity, branchName, featureSecurityArtifactFormat)
}

// BuildPrMegaPrompt snapshots branch, diffs it against base and writes
// pr_review_prompt_<slug>_vs_<baseSlug>.md. An empty base uses the configured base branch.
// Diff failures are rendered into the prompt rather than returned.
func (service *Service) BuildPrMegaPrompt(ctx context.Context, branchName string, baseBranch string) (Result, error) {
	if baseBranch == "" {
		baseBranch = service.config.BaseBranch
	}
	var artifacts []string
	snapshot, snapshotError := service.snapshotBranch(ctx, branchName, &artifacts)
	if snapshotError != nil {
		return Result{Artifacts: artifacts}, snapshotError
	}
	diffResult := service.diffFetcher.Diff(ctx, commands.DefaultRevision(baseBranch), commands.DefaultRevision(branchName))
	combined := prompt.Assemble(prompt.Request{
		Kind:             types.WorkflowPullRequest,
		SystemPromptLine: service.config.Prompts.SystemPromptLine(types.WorkflowPullRequest),
		Branches:         []types.BranchSection{{Snapshot: &snapshot}},
		Diff:             &diffResult,
	})
	artifactName := fmt.Sprintf(pullRequestArtifactFormat, snapshot.Slug, utils.SlugifyBranchName(baseBranch))
	return service.finish(combined, artifactName, artifacts)
}

// BuildBranchComparisonPrompt snapshots branches in order and writes combined_spec_and_branches.md.
// Branches that cannot be resolved become failure notes and the remaining branches are still
// processed. A nil spec renders the no-specification notice.
func (service *Service) BuildBranchComparisonPrompt(ctx context.Context, spec *types.SpecDocument, branchNames []string) (Result, error) {
	var artifacts []string
	sections := make([]types.BranchSection, 0, len(branchNames))
	for _, branchName := range branchNames {
		if contextError := ctx.Err(); contextError != nil {
			return Result{Artifacts: artifacts}, contextError
		}
		snapshot, snapshotError := service.snapshotBranch(ctx, branchName, &artifacts)
		if snapshotError != nil {
			var resolutionError *commands.ResolutionError
			if !errors.As(snapshotError, &resolutionError) {
				return Result{Artifacts: artifacts}, snapshotError
			}
			service.logger.Warn(warningBranchFailedMessage, zap.String(logFieldBranch, branchName), zap.Error(snapshotError))
			sections = append(sections, types.BranchSection{Failure: &types.SnapshotFailure{
				BranchName: resolutionError.Branch,
				Revision:   resolutionError.Revision,
				Message:    resolutionError.Err.Error(),
			}})
			continue
		}
		sections = append(sections, types.BranchSection{Snapshot: &snapshot})
	}
	combined := prompt.Assemble(prompt.Request{
		Kind:             types.WorkflowCompare,
		SystemPromptLine: service.config.Prompts.SystemPromptLine(types.WorkflowCompare),
		Spec:             spec,
		Branches:         sections,
	})
	return service.finish(combined, comparisonArtifactName, artifacts)
}

func (service *Service) buildSingleBranch(ctx context.Context, kind types.WorkflowKind, branchName string, artifactFormat string) (Result, error) {
	var artifacts []string
	snapshot, snapshotError := service.snapshotBranch(ctx, branchName, &artifacts)
	if snapshotError != nil {
		return Result{Artifacts: artifacts}, snapshotError
	}
	combined := prompt.Assemble(prompt.Request{
		Kind:             kind,
		SystemPromptLine: service.config.Prompts.SystemPromptLine(kind),
		Branches:         []types.BranchSection{{Snapshot: &snapshot}},
	})
	return service.finish(combined, fmt.Sprintf(artifactFormat, snapshot.Slug), artifacts)
}

// snapshotBranch snapshots the remote tracking revision of branchName and writes its artifact.
func (service *Service) snapshotBranch(ctx context.Context, branchName string, artifacts *[]string) (types.BranchSnapshot, error) {
	snapshot, snapshotError := service.snapshotter.Snapshot(ctx, branchName, commands.DefaultRevision(branchName))
	if snapshotError != nil {
		return types.BranchSnapshot{}, snapshotError
	}
	artifactPath, writeError := service.writeArtifact(fmt.Sprintf(branchArtifactFormat, snapshot.Slug), snapshot.Markdown)
	if writeError != nil {
		return types.BranchSnapshot{}, writeError
	}
	*artifacts = append(*artifacts, artifactPath)
	return snapshot, nil
}

func (service *Service) finish(combined types.CombinedPrompt, artifactName string, artifacts []string) (Result, error) {
	artifactPath, writeError := service.writeArtifact(artifactName, combined.Text)
	if writeError != nil {
		return Result{Artifacts: artifacts}, writeError
	}
	combined.OutputPath = artifactPath
	return Result{Prompt: combined, Artifacts: append(artifacts, artifactPath)}, nil
}

// writeArtifact writes content into the report directory, replacing any previous file.
func (service *Service) writeArtifact(artifactName string, content string) (string, error) {
	if mkdirError := os.MkdirAll(service.config.ReportDirectory, reportDirectoryPermissions); mkdirError != nil {
		return "", fmt.Errorf(errorCreateReportDirectoryFormat, service.config.ReportDirectory, mkdirError)
	}
	artifactPath := filepath.Join(service.config.ReportDirectory, artifactName)
	if writeError := os.WriteFile(artifactPath, []byte(content), artifactPermissions); writeError != nil {
		return "", fmt.Errorf(errorWriteArtifactFormat, artifactPath, writeError)
	}
	service.logger.Info(infoArtifactWrittenMessage, zap.String(logFieldRepository, service.config.RepositoryID), zap.String(logFieldPath, artifactPath))
	return artifactPath, nil
}
