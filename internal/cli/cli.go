// Package cli provides the command line interface.
package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/multicodex/internal/services/clipboard"
	"github.com/temirov/multicodex/internal/tokenizer"
	"github.com/temirov/multicodex/internal/types"
)

const (
	rootUse              = "multicodex"
	rootShortDescription = "multicodex builds review prompts from Git branches"
	rootLongDescription  = `multicodex clones a repository into its workspace, snapshots branches into Markdown
and assembles prompts for architecture reviews, branch comparisons, pull request reviews
and feature and security reviews. Every prompt is saved under the workspace reports
directory and can be copied to the clipboard with --copy.`

	architectureUse              = "architecture <repo-url> [branch]"
	architectureShortDescription = "build an architecture review prompt for one branch"
	architectureUsageExample     = `  # Pick the branch interactively
  multicodex architecture https://github.com/user/repo.git

  # Review a named branch and copy the prompt
  multicodex architecture git@github.com:user/repo.git feature/login --copy`

	featureSecurityUse              = "feature-security <repo-url> [branch]"
	featureSecurityShortDescription = "build a feature and security review prompt for one branch"
	featureSecurityUsageExample     = `  multicodex feature-security https://github.com/user/repo.git main --tokens`

	pullRequestUse              = "pr-review <repo-url> [branch]"
	pullRequestShortDescription = "build a pull request review prompt with a diff against the base branch"
	pullRequestUsageExample     = `  multicodex pr-review https://github.com/user/repo.git feature/login --base develop`

	compareUse              = "compare <repo-url> [branches...]"
	compareShortDescription = "compare branches against a specification"
	compareLongDescription  = `Compare several branches that implement the same specification.
Without branch arguments multicodex watches the remote for new branches and asks whether
to queue each one. Press Ctrl+C to stop watching and build the prompt from the queue.`
	compareUsageExample = `  # Watch for branches, checking every minute
  multicodex compare https://github.com/user/repo.git --spec ./SPEC.md --poll-interval 1m

  # Compare named branches without watching
  multicodex compare https://github.com/user/repo.git codex/a codex/b --spec ./SPEC.md`

	branchesUse              = "branches <repo-url>"
	branchesShortDescription = "list the remote branches of a repository"

	initUse              = "init"
	initShortDescription = "write a default configuration file"

	configFlagName              = "config"
	configFlagDescription       = "configuration file used instead of ./.multicodex.yaml"
	copyFlagName                = "copy"
	copyFlagDescription         = "copy the prompt to the clipboard"
	tokensFlagName              = "tokens"
	tokensFlagDescription       = "count prompt tokens with the tokenizer"
	modelFlagName               = "model"
	modelFlagDescription        = "tokenizer model used by --tokens"
	yesFlagName                 = "yes"
	yesFlagDescription          = "queue every detected branch without asking"
	baseFlagName                = "base"
	baseFlagDescription         = "base branch the pull request is diffed against"
	specFlagName                = "spec"
	specFlagDescription         = "path to the specification document"
	pollIntervalFlagName        = "poll-interval"
	pollIntervalFlagDescription = "time between remote branch checks while watching"
	globalFlagName              = "global"
	globalFlagDescription       = "write the configuration into the multicodex home directory"
	forceFlagName               = "force"
	forceFlagDescription        = "overwrite an existing configuration file"
)

// Dependencies are the collaborators shared by all commands. Zero values select the
// terminal implementations.
type Dependencies struct {
	Logger      *zap.Logger
	Interaction Interaction
	Clipboard   clipboard.Copier
	PlainOutput bool
	Now         func() time.Time
}

// NewRootCommand builds the multicodex command tree.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	application := newApplication(dependencies)

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	rootCommand.PersistentFlags().StringVar(&application.configurationPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		application.newSingleBranchCommand(types.WorkflowArchitecture, architectureUse, architectureShortDescription, architectureUsageExample),
		application.newCompareCommand(),
		application.newPullRequestCommand(),
		application.newSingleBranchCommand(types.WorkflowFeatureSecurity, featureSecurityUse, featureSecurityShortDescription, featureSecurityUsageExample),
		application.newBranchesCommand(),
		application.newInitCommand(),
	)
	return rootCommand
}

// workflowFlags are the flags every prompt workflow accepts.
type workflowFlags struct {
	copyToClipboard bool
	countTokens     bool
	tokenModel      string
	assumeYes       bool
}

func addWorkflowFlags(command *cobra.Command, flags *workflowFlags) {
	registerToggleFlag(command.Flags(), &flags.copyToClipboard, copyFlagName, false, copyFlagDescription)
	registerToggleFlag(command.Flags(), &flags.countTokens, tokensFlagName, false, tokensFlagDescription)
	command.Flags().StringVar(&flags.tokenModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
}

func (application *application) newSingleBranchCommand(kind types.WorkflowKind, use string, short string, example string) *cobra.Command {
	var flags workflowFlags
	command := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: example,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runSingleBranch(command, kind, arguments, flags, "")
		},
	}
	addWorkflowFlags(command, &flags)
	return command
}

func (application *application) newPullRequestCommand() *cobra.Command {
	var flags workflowFlags
	var baseBranch string
	command := &cobra.Command{
		Use:     pullRequestUse,
		Short:   pullRequestShortDescription,
		Example: pullRequestUsageExample,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runSingleBranch(command, types.WorkflowPullRequest, arguments, flags, baseBranch)
		},
	}
	addWorkflowFlags(command, &flags)
	command.Flags().StringVar(&baseBranch, baseFlagName, "", baseFlagDescription)
	return command
}

func (application *application) newCompareCommand() *cobra.Command {
	var flags workflowFlags
	var specificationPath string
	var pollInterval time.Duration
	command := &cobra.Command{
		Use:     compareUse,
		Short:   compareShortDescription,
		Long:    compareLongDescription,
		Example: compareUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runCompare(command, arguments, flags, specificationPath, pollInterval)
		},
	}
	addWorkflowFlags(command, &flags)
	registerToggleFlag(command.Flags(), &flags.assumeYes, yesFlagName, false, yesFlagDescription)
	command.Flags().StringVar(&specificationPath, specFlagName, "", specFlagDescription)
	command.Flags().DurationVar(&pollInterval, pollIntervalFlagName, 0, pollIntervalFlagDescription)
	return command
}

func (application *application) newBranchesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   branchesUse,
		Short: branchesShortDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runBranches(command, arguments[0])
		},
	}
}

func (application *application) newInitCommand() *cobra.Command {
	var global bool
	var force bool
	command := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runInit(command, global, force)
		},
	}
	registerToggleFlag(command.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerToggleFlag(command.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return command
}
