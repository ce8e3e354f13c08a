// Package config loads multicodex configuration and writes default configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/temirov/multicodex/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds every configurable multicodex default. Unset values are
// zero or nil so that a later source only overrides what it sets.
type ApplicationConfiguration struct {
	Workspace    string              `mapstructure:"workspace"`
	BaseBranch   string              `mapstructure:"base_branch"`
	PollInterval time.Duration       `mapstructure:"poll_interval"`
	Clipboard    *bool               `mapstructure:"clipboard"`
	Tokens       TokenConfiguration  `mapstructure:"tokens"`
	Filter       FilterConfiguration `mapstructure:"filter"`
	Languages    map[string]string   `mapstructure:"languages"`
	Prompts      map[string]string   `mapstructure:"prompts"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// FilterConfiguration overrides the snapshot filter rules.
type FilterConfiguration struct {
	MaxFileSizeBytes    *int64   `mapstructure:"max_file_size_bytes"`
	ExcludedDirectories []string `mapstructure:"excluded_directories"`
}

// LoadApplicationConfiguration loads the global configuration and overlays the local or
// explicitly requested one.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.ApplicationDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)
	merged.Filter.ExcludedDirectories = utils.DeduplicatePatterns(merged.Filter.ExcludedDirectories)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		expandedPath := utils.ExpandHomePath(explicitPath)
		if filepath.IsAbs(expandedPath) {
			return expandedPath
		}
		return filepath.Join(workingDirectory, expandedPath)
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Workspace != "" {
		result.Workspace = override.Workspace
	}
	if override.BaseBranch != "" {
		result.BaseBranch = override.BaseBranch
	}
	if override.PollInterval > 0 {
		result.PollInterval = override.PollInterval
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Filter = result.Filter.merge(override.Filter)
	result.Languages = mergeStringMaps(result.Languages, override.Languages)
	result.Prompts = mergeStringMaps(result.Prompts, override.Prompts)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (config FilterConfiguration) merge(override FilterConfiguration) FilterConfiguration {
	result := config
	if override.MaxFileSizeBytes != nil {
		result.MaxFileSizeBytes = cloneInt64(override.MaxFileSizeBytes)
	}
	if len(override.ExcludedDirectories) > 0 {
		result.ExcludedDirectories = append([]string{}, utils.DeduplicatePatterns(override.ExcludedDirectories)...)
	}
	return result
}

// WorkspaceDirectory returns the expanded workspace, defaulting to ~/.multicodex.
func (config ApplicationConfiguration) WorkspaceDirectory() (string, error) {
	if config.Workspace != "" {
		return utils.ExpandHomePath(config.Workspace), nil
	}
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory for workspace: %w", err)
	}
	return filepath.Join(homeDirectory, utils.ApplicationDirectoryName), nil
}

// ClipboardEnabled reports whether prompts are copied by default.
func (config ApplicationConfiguration) ClipboardEnabled() bool {
	return config.Clipboard != nil && *config.Clipboard
}

// TokensEnabled reports whether exact token counting is on by default.
func (config ApplicationConfiguration) TokensEnabled() bool {
	return config.Tokens.Enabled != nil && *config.Tokens.Enabled
}

func mergeStringMaps(base map[string]string, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return base
	}
	result := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range override {
		result[key] = value
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
