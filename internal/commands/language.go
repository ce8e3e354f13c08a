package commands

import (
	"path"
	"strings"
)

var defaultLanguageHints = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "tsx",
	".jsx":   "jsx",
	".rs":    "rust",
	".go":    "go",
	".java":  "java",
	".kt":    "kotlin",
	".swift": "swift",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".rb":    "ruby",
	".php":   "php",
	".html":  "html",
	".css":   "css",
	".scss":  "scss",
	".md":    "markdown",
	".txt":   "text",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".ini":   "ini",
	".cfg":   "ini",
	".sh":    "bash",
	".bash":  "bash",
	".sql":   "sql",
	".proto": "protobuf",
	".xml":   "xml",
}

var defaultFileNameHints = map[string]string{
	"dockerfile": "dockerfile",
	"makefile":   "makefile",
}

// LanguageTable maps file extensions to Markdown fence language hints.
type LanguageTable struct {
	extensions map[string]string
}

// NewLanguageTable returns the built-in table with overrides applied. Override keys may
// omit the leading dot; an empty value removes the hint for that extension.
func NewLanguageTable(overrides map[string]string) LanguageTable {
	extensions := make(map[string]string, len(defaultLanguageHints)+len(overrides))
	for extension, hint := range defaultLanguageHints {
		extensions[extension] = hint
	}
	for extension, hint := range overrides {
		normalizedExtension := strings.ToLower(strings.TrimSpace(extension))
		if normalizedExtension == "" {
			continue
		}
		if !strings.HasPrefix(normalizedExtension, ".") {
			normalizedExtension = "." + normalizedExtension
		}
		extensions[normalizedExtension] = strings.TrimSpace(hint)
	}
	return LanguageTable{extensions: extensions}
}

// Lookup returns the hint for a slash separated path, or an empty string when unknown.
func (table LanguageTable) Lookup(filePath string) string {
	extensions := table.extensions
	if extensions == nil {
		extensions = defaultLanguageHints
	}
	baseName := strings.ToLower(path.Base(filePath))
	if hint, found := extensions[path.Ext(baseName)]; found {
		return hint
	}
	return defaultFileNameHints[baseName]
}
