package utils

const (
	// ApplicationDirectoryName is the workspace directory created under the home directory.
	ApplicationDirectoryName = ".multicodex"
	// ConfigFileName is the name of the global configuration file inside ApplicationDirectoryName.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the name of the per-project configuration file.
	LocalConfigFileName = ".multicodex.yaml"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// RepositoriesDirectoryName holds local clones inside the workspace.
	RepositoriesDirectoryName = "repos"
	// ReportsDirectoryName holds generated artifacts inside the workspace.
	ReportsDirectoryName = "reports"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
)
