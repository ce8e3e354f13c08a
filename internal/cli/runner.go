package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/multicodex/internal/commands"
	"github.com/temirov/multicodex/internal/config"
	"github.com/temirov/multicodex/internal/filter"
	"github.com/temirov/multicodex/internal/gitaccess"
	"github.com/temirov/multicodex/internal/output"
	"github.com/temirov/multicodex/internal/prompt"
	"github.com/temirov/multicodex/internal/services/clipboard"
	"github.com/temirov/multicodex/internal/services/watch"
	"github.com/temirov/multicodex/internal/services/workflow"
	"github.com/temirov/multicodex/internal/tokenizer"
	"github.com/temirov/multicodex/internal/types"
	"github.com/temirov/multicodex/internal/utils"
)

// MinimumPollInterval is the shortest accepted --poll-interval.
const MinimumPollInterval = 5 * time.Second

const (
	syncSpinnerFormat          = "Synchronizing %s"
	syncSucceededMessage       = "Repository is up to date"
	syncFailedMessage          = "Repository synchronization failed"
	fetchSpinnerMessage        = "Refreshing branch list"
	fetchSucceededMessage      = "Branch list refreshed"
	fetchFailedMessage         = "Refreshing branch list failed"
	buildSpinnerFormat         = "Building %s prompt"
	buildSucceededMessage      = "Prompt ready"
	buildFailedMessage         = "Prompt could not be built"
	selectBranchFormat         = "Select the branch to %s"
	watchingNotice             = "Watching the remote for new branches. Press Ctrl+C to stop and build the prompt."
	queuedBranchesFormat       = "Queued branches: %s\n"
	specRetryNoticeFormat      = "%v. Try again.\n"
	initWrittenFormat          = "Configuration written to %s\n"
	clipboardWarning           = "copying prompt to clipboard failed"
	tokenCountWarning          = "counting prompt tokens failed"
	logFieldModel              = "model"
	branchListSeparator        = ", "
	errorPollIntervalFmt       = "--%s must be at least %s, got %s"
	errorConfigPollIntervalFmt = "poll_interval must be at least %s, got %s"
	errorSelectBranchFmt       = "selecting branch: %w"
	errorSpecificationFmt      = "reading specification: %w"
	errorWatchBranchesFmt      = "watching branches: %w"
	errorLoadPromptsFormat     = "loading prompt catalog: %w"
)

var (
	errNoRemoteBranches   = errors.New("no remote branches found")
	errNoBranchesSelected = errors.New("no branches were selected for comparison")
)

var branchActionLabels = map[types.WorkflowKind]string{
	types.WorkflowArchitecture:    "analyze for architecture",
	types.WorkflowPullRequest:     "review as a pull request",
	types.WorkflowFeatureSecurity: "analyze for features and security",
}

type application struct {
	logger            *zap.Logger
	interaction       Interaction
	clipboard         clipboard.Copier
	styles            output.Styles
	now               func() time.Time
	configurationPath string
}

func newApplication(dependencies Dependencies) *application {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interaction := dependencies.Interaction
	if interaction == nil {
		interaction = newPtermInteraction()
	}
	copier := dependencies.Clipboard
	if copier == nil {
		copier = clipboard.NewService()
	}
	now := dependencies.Now
	if now == nil {
		now = time.Now
	}
	return &application{
		logger:      logger,
		interaction: interaction,
		clipboard:   copier,
		styles:      output.NewStyles(!dependencies.PlainOutput),
		now:         now,
	}
}

// session is one repository opened in the workspace.
type session struct {
	configuration config.ApplicationConfiguration
	repository    *gitaccess.Repository
	service       *workflow.Service
}

func (application *application) loadConfiguration() (config.ApplicationConfiguration, error) {
	return config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: application.configurationPath})
}

// openSession clones or refreshes repositoryURL under the workspace and prepares the workflows.
func (application *application) openSession(ctx context.Context, repositoryURL string) (*session, error) {
	configuration, configurationError := application.loadConfiguration()
	if configurationError != nil {
		return nil, configurationError
	}
	workspaceDirectory, workspaceError := configuration.WorkspaceDirectory()
	if workspaceError != nil {
		return nil, workspaceError
	}
	repositoryID := utils.SlugifyRepositoryURL(repositoryURL)
	repository := gitaccess.NewRepository(repositoryURL, filepath.Join(workspaceDirectory, utils.RepositoriesDirectoryName, repositoryID))

	spinner := application.interaction.StartSpinner(fmt.Sprintf(syncSpinnerFormat, repositoryURL))
	if cloneError := repository.EnsureClone(ctx); cloneError != nil {
		spinner.Fail(syncFailedMessage)
		return nil, cloneError
	}
	spinner.Success(syncSucceededMessage)

	catalog, catalogError := prompt.LoadCatalog(configuration.Prompts)
	if catalogError != nil {
		return nil, fmt.Errorf(errorLoadPromptsFormat, catalogError)
	}
	filterConfig := filter.Config{ExcludedDirectories: configuration.Filter.ExcludedDirectories}
	if configuration.Filter.MaxFileSizeBytes != nil {
		filterConfig.MaxFileSizeBytes = *configuration.Filter.MaxFileSizeBytes
	}

	service := workflow.NewService(workflow.Config{
		RepositoryID:    repositoryID,
		RepositoryName:  repositoryID,
		ReportDirectory: filepath.Join(workspaceDirectory, utils.ReportsDirectoryName, repositoryID),
		BaseBranch:      configuration.BaseBranch,
		Prompts:         catalog,
		Filter:          filter.New(filterConfig),
		Languages:       commands.NewLanguageTable(configuration.Languages),
		Now:             application.now,
	}, repository, application.logger)

	return &session{configuration: configuration, repository: repository, service: service}, nil
}

func (application *application) runSingleBranch(command *cobra.Command, kind types.WorkflowKind, arguments []string, flags workflowFlags, baseBranch string) error {
	ctx := command.Context()
	openedSession, sessionError := application.openSession(ctx, arguments[0])
	if sessionError != nil {
		return sessionError
	}

	var branchName string
	if len(arguments) > 1 {
		branchName = arguments[1]
	} else {
		selectedBranch, selectError := application.chooseBranch(ctx, openedSession.repository, branchActionLabels[kind])
		if selectError != nil {
			return selectError
		}
		branchName = selectedBranch
	}

	spinner := application.interaction.StartSpinner(fmt.Sprintf(buildSpinnerFormat, kind))
	var result workflow.Result
	var buildError error
	switch kind {
	case types.WorkflowArchitecture:
		result, buildError = openedSession.service.BuildArchitectureReport(ctx, branchName)
	case types.WorkflowFeatureSecurity:
		result, buildError = openedSession.service.BuildFeatureSecurityReport(ctx, branchName)
	case types.WorkflowPullRequest:
		result, buildError = openedSession.service.BuildPrMegaPrompt(ctx, branchName, baseBranch)
	default:
		buildError = fmt.Errorf("%w: %s", prompt.ErrUnknownWorkflow, kind)
	}
	if buildError != nil {
		spinner.Fail(buildFailedMessage)
		return buildError
	}
	spinner.Success(buildSucceededMessage)
	return application.report(command, openedSession.configuration, flags, result)
}

func (application *application) runCompare(command *cobra.Command, arguments []string, flags workflowFlags, specificationPath string, pollInterval time.Duration) error {
	if command.Flags().Changed(pollIntervalFlagName) && pollInterval < MinimumPollInterval {
		return fmt.Errorf(errorPollIntervalFmt, pollIntervalFlagName, MinimumPollInterval, pollInterval)
	}
	ctx := command.Context()
	openedSession, sessionError := application.openSession(ctx, arguments[0])
	if sessionError != nil {
		return sessionError
	}

	specification, specificationError := application.resolveSpecification(ctx, command.OutOrStdout(), specificationPath)
	if specificationError != nil {
		return specificationError
	}

	branchNames := arguments[1:]
	if len(branchNames) == 0 {
		if pollInterval <= 0 {
			pollInterval = openedSession.configuration.PollInterval
			if pollInterval > 0 && pollInterval < MinimumPollInterval {
				return fmt.Errorf(errorConfigPollIntervalFmt, MinimumPollInterval, pollInterval)
			}
		}
		watchedBranches, watchError := application.watchBranches(ctx, command.OutOrStdout(), openedSession.repository, pollInterval, flags.assumeYes)
		if watchError != nil {
			return watchError
		}
		branchNames = watchedBranches
	}
	if len(branchNames) == 0 {
		return errNoBranchesSelected
	}

	spinner := application.interaction.StartSpinner(fmt.Sprintf(buildSpinnerFormat, types.WorkflowCompare))
	result, buildError := openedSession.service.BuildBranchComparisonPrompt(ctx, specification, branchNames)
	if buildError != nil {
		spinner.Fail(buildFailedMessage)
		return buildError
	}
	spinner.Success(buildSucceededMessage)
	return application.report(command, openedSession.configuration, flags, result)
}

func (application *application) runBranches(command *cobra.Command, repositoryURL string) error {
	ctx := command.Context()
	openedSession, sessionError := application.openSession(ctx, repositoryURL)
	if sessionError != nil {
		return sessionError
	}
	branchNames, listError := openedSession.repository.RemoteBranches(ctx)
	if listError != nil {
		return listError
	}
	writer := command.OutOrStdout()
	for _, branchName := range branchNames {
		fmt.Fprintln(writer, branchName)
	}
	return nil
}

func (application *application) runInit(command *cobra.Command, global bool, force bool) error {
	target := config.InitTargetLocal
	if global {
		target = config.InitTargetGlobal
	}
	writtenPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
	if initError != nil {
		return initError
	}
	fmt.Fprintf(command.OutOrStdout(), initWrittenFormat, writtenPath)
	return nil
}

// chooseBranch refreshes the remote and lets the user pick one of its branches.
func (application *application) chooseBranch(ctx context.Context, repository *gitaccess.Repository, actionLabel string) (string, error) {
	spinner := application.interaction.StartSpinner(fetchSpinnerMessage)
	if fetchError := repository.Fetch(ctx); fetchError != nil {
		spinner.Fail(fetchFailedMessage)
		return "", fetchError
	}
	branchNames, listError := repository.RemoteBranches(ctx)
	if listError != nil {
		spinner.Fail(fetchFailedMessage)
		return "", listError
	}
	spinner.Success(fetchSucceededMessage)
	if len(branchNames) == 0 {
		return "", errNoRemoteBranches
	}
	branchName, selectError := application.interaction.SelectBranch(ctx, fmt.Sprintf(selectBranchFormat, actionLabel), branchNames)
	if selectError != nil {
		return "", fmt.Errorf(errorSelectBranchFmt, selectError)
	}
	return branchName, nil
}

// resolveSpecification loads the --spec file or asks for a path or pasted text until a
// usable answer arrives. Empty pasted text means no specification.
func (application *application) resolveSpecification(ctx context.Context, writer io.Writer, specificationPath string) (*types.SpecDocument, error) {
	if specificationPath != "" {
		return prompt.LoadSpecFile(specificationPath)
	}
	for {
		input, inputError := application.interaction.RequestSpecification(ctx)
		if inputError != nil {
			return nil, fmt.Errorf(errorSpecificationFmt, inputError)
		}
		trimmedPath := strings.TrimSpace(input.Path)
		if trimmedPath == "" {
			return prompt.SpecFromText(input.Text), nil
		}
		specification, loadError := prompt.LoadSpecFile(trimmedPath)
		if loadError == nil {
			return specification, nil
		}
		if !errors.Is(loadError, prompt.ErrSpecNotFound) && !errors.Is(loadError, prompt.ErrSpecEmpty) {
			return nil, loadError
		}
		fmt.Fprintf(writer, specRetryNoticeFormat, application.styles.Warning.Render(loadError.Error()))
	}
}

// watchBranches runs the branch monitor until the user stops it or presses Ctrl+C.
func (application *application) watchBranches(ctx context.Context, writer io.Writer, repository *gitaccess.Repository, pollInterval time.Duration, assumeYes bool) ([]string, error) {
	watchCtx, stopSignals := signal.NotifyContext(ctx, os.Interrupt)
	defer stopSignals()

	fmt.Fprintln(writer, application.styles.Title.Render(watchingNotice))
	monitor := &watch.Monitor{
		Lister:   repository,
		Interval: pollInterval,
		Selector: branchSelector{
			interaction: application.interaction,
			writer:      writer,
			styles:      application.styles,
			assumeYes:   assumeYes,
		},
		Logger: application.logger,
	}
	queue, runError := monitor.Run(watchCtx)
	if runError != nil {
		return nil, fmt.Errorf(errorWatchBranchesFmt, runError)
	}
	if contextError := ctx.Err(); contextError != nil {
		return nil, contextError
	}
	branchNames := queue.Branches()
	if len(branchNames) > 0 {
		fmt.Fprintf(writer, queuedBranchesFormat, strings.Join(branchNames, branchListSeparator))
	}
	return branchNames, nil
}

// report counts tokens and copies the prompt when requested, then prints the summary.
func (application *application) report(command *cobra.Command, configuration config.ApplicationConfiguration, flags workflowFlags, result workflow.Result) error {
	resolvedFlags := flags.withConfiguration(command, configuration)
	promptReport := output.PromptReport{Prompt: result.Prompt, Artifacts: result.Artifacts}

	if resolvedFlags.countTokens {
		counter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: resolvedFlags.tokenModel})
		if counterError != nil {
			application.logger.Warn(tokenCountWarning, zap.String(logFieldModel, resolvedFlags.tokenModel), zap.Error(counterError))
		} else if countResult, countError := tokenizer.CountText(counter, result.Prompt.Text); countError != nil {
			application.logger.Warn(tokenCountWarning, zap.String(logFieldModel, resolvedModel), zap.Error(countError))
		} else if countResult.Counted {
			promptReport.ExactTokens = countResult.Tokens
			promptReport.TokenModel = resolvedModel
		}
	}

	if resolvedFlags.copyToClipboard {
		if copyError := application.clipboard.Copy(result.Prompt.Text); copyError != nil {
			application.logger.Warn(clipboardWarning, zap.Error(copyError))
		} else {
			promptReport.Copied = true
		}
	}

	return output.WriteReport(command.OutOrStdout(), application.styles, promptReport)
}

// withConfiguration fills every flag the user did not set from the configuration.
func (flags workflowFlags) withConfiguration(command *cobra.Command, configuration config.ApplicationConfiguration) workflowFlags {
	resolved := flags
	if !command.Flags().Changed(copyFlagName) {
		resolved.copyToClipboard = configuration.ClipboardEnabled()
	}
	if !command.Flags().Changed(tokensFlagName) {
		resolved.countTokens = configuration.TokensEnabled()
	}
	if !command.Flags().Changed(modelFlagName) && configuration.Tokens.Model != "" {
		resolved.tokenModel = configuration.Tokens.Model
	}
	return resolved
}
