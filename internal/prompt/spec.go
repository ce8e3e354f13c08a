package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/temirov/multicodex/internal/types"
	"github.com/temirov/multicodex/internal/utils"
)

const (
	errorSpecPathFormat   = "%w: %s"
	errorReadSpecFormat   = "reading specification %s: %w"
	errorDecodeSpecFormat = "decoding specification %s: %w"
)

// ErrSpecNotFound is returned when a specification path does not name a regular file.
var ErrSpecNotFound = errors.New("specification not found")

// ErrSpecEmpty is returned when a specification file holds only whitespace.
var ErrSpecEmpty = errors.New("specification is empty")

var lineEndingReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// LoadSpecFile reads a specification from disk. A leading ~ is expanded. Text that is not
// valid UTF-8 is decoded as Latin-1.
//
// #nosec G304
func LoadSpecFile(specPath string) (*types.SpecDocument, error) {
	expandedPath := utils.ExpandHomePath(specPath)
	fileInfo, statError := os.Stat(expandedPath)
	if statError != nil || fileInfo.IsDir() {
		return nil, fmt.Errorf(errorSpecPathFormat, ErrSpecNotFound, expandedPath)
	}
	fileBytes, readError := os.ReadFile(expandedPath)
	if readError != nil {
		return nil, fmt.Errorf(errorReadSpecFormat, expandedPath, readError)
	}
	if !utf8.Valid(fileBytes) {
		decodedBytes, decodeError := charmap.ISO8859_1.NewDecoder().Bytes(fileBytes)
		if decodeError != nil {
			return nil, fmt.Errorf(errorDecodeSpecFormat, expandedPath, decodeError)
		}
		fileBytes = decodedBytes
	}
	normalizedText := NormalizeSpecText(string(fileBytes))
	if normalizedText == "" {
		return nil, fmt.Errorf(errorSpecPathFormat, ErrSpecEmpty, expandedPath)
	}
	return &types.SpecDocument{SourcePath: expandedPath, Text: normalizedText}, nil
}

// SpecFromText wraps pasted text. Text that is empty after normalization means no specification.
func SpecFromText(text string) *types.SpecDocument {
	normalizedText := NormalizeSpecText(text)
	if normalizedText == "" {
		return nil
	}
	return &types.SpecDocument{Text: normalizedText}
}

// NormalizeSpecText converts line endings to \n and trims trailing whitespace.
func NormalizeSpecText(text string) string {
	return strings.TrimRightFunc(lineEndingReplacer.Replace(text), unicode.IsSpace)
}
