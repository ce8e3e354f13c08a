package utils_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/multicodex/internal/utils"
)

// textFileName defines the name of the text file used in tests.
const textFileName = "sample.txt"

// binaryFileName defines the name of the binary file used in tests.
const binaryFileName = "sample.bin"

// TestDeduplicatePatterns verifies that duplicates and blanks are removed in order.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			patterns: []string{"a", "b", "a"},
			expected: []string{"a", "b"},
		},
		{
			testName: "keeps unique",
			patterns: []string{"a", "b"},
			expected: []string{"a", "b"},
		},
		{
			testName: "drops blanks and trims",
			patterns: []string{" dist ", "", "dist"},
			expected: []string{"dist"},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if len(actual) != len(testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected length %d, got %d", index, testCase.testName, len(testCase.expected), len(actual))
			continue
		}
		for position, value := range actual {
			if value != testCase.expected[position] {
				testingInstance.Errorf("case %d (%s): expected %s at position %d, got %s", index, testCase.testName, testCase.expected[position], position, value)
			}
		}
	}
}

// TestRelativePathOrSelf verifies relative path calculations.
func TestRelativePathOrSelf(testingInstance *testing.T) {
	temporaryRoot := testingInstance.TempDir()
	nestedPath := filepath.Join(temporaryRoot, "src", textFileName)
	testCases := []struct {
		testName string
		fullPath string
		root     string
		expected string
	}{
		{
			testName: "root path returns dot",
			fullPath: temporaryRoot,
			root:     temporaryRoot,
			expected: ".",
		},
		{
			testName: "nested path uses forward slashes",
			fullPath: nestedPath,
			root:     temporaryRoot,
			expected: "src/" + textFileName,
		},
	}
	for index, testCase := range testCases {
		actual := utils.RelativePathOrSelf(testCase.fullPath, testCase.root)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %s, got %s", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestIsBinary verifies the sampled-byte heuristic.
func TestIsBinary(testingInstance *testing.T) {
	mostlyControl := append(bytes.Repeat([]byte{0x01, 0x02, 0x03}, 10), []byte("abc")...)
	truncatedRune := append(bytes.Repeat([]byte("a"), 10), 0xe2, 0x82)
	testCases := []struct {
		testName string
		data     []byte
		expected bool
	}{
		{
			testName: "utf8 text",
			data:     []byte("hello"),
			expected: false,
		},
		{
			testName: "multi-byte text",
			data:     []byte("héllo wörld €"),
			expected: false,
		},
		{
			testName: "null byte",
			data:     []byte("text\x00more text"),
			expected: true,
		},
		{
			testName: "single invalid byte",
			data:     []byte{0xff},
			expected: true,
		},
		{
			testName: "mostly control bytes",
			data:     mostlyControl,
			expected: true,
		},
		{
			testName: "truncated rune at sample end",
			data:     truncatedRune,
			expected: false,
		},
		{
			testName: "empty slice",
			data:     []byte{},
			expected: false,
		},
	}
	for index, testCase := range testCases {
		actual := utils.IsBinary(testCase.data)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %t, got %t", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestReadSample verifies that at most SniffLength bytes are read.
func TestReadSample(testingInstance *testing.T) {
	temporaryRoot := testingInstance.TempDir()
	largePath := filepath.Join(temporaryRoot, textFileName)
	smallPath := filepath.Join(temporaryRoot, binaryFileName)
	if writeError := os.WriteFile(largePath, bytes.Repeat([]byte("x"), utils.SniffLength*2), 0o600); writeError != nil {
		testingInstance.Fatalf("writing large file: %v", writeError)
	}
	if writeError := os.WriteFile(smallPath, []byte{0x00, 0x01}, 0o600); writeError != nil {
		testingInstance.Fatalf("writing small file: %v", writeError)
	}

	largeSample, largeError := utils.ReadSample(largePath)
	if largeError != nil {
		testingInstance.Fatalf("reading large sample: %v", largeError)
	}
	if len(largeSample) != utils.SniffLength {
		testingInstance.Fatalf("expected %d sampled bytes, got %d", utils.SniffLength, len(largeSample))
	}

	smallSample, smallError := utils.ReadSample(smallPath)
	if smallError != nil {
		testingInstance.Fatalf("reading small sample: %v", smallError)
	}
	if !utils.IsBinary(smallSample) {
		testingInstance.Fatalf("expected small sample to be binary")
	}

	if _, missingError := utils.ReadSample(filepath.Join(temporaryRoot, "missing")); missingError == nil {
		testingInstance.Fatalf("expected error for missing file")
	}
}

// TestSlugifyBranchName verifies that path-hostile characters are replaced.
func TestSlugifyBranchName(testingInstance *testing.T) {
	actual := utils.SlugifyBranchName("feature/add stuff#1")
	if actual != "feature_add_stuff_1" {
		testingInstance.Fatalf("unexpected slug %q", actual)
	}
}

// TestSlugifyRepositoryURL verifies the supported URL shapes.
func TestSlugifyRepositoryURL(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		input    string
		expected string
	}{
		{testName: "https with suffix", input: "https://github.com/User/Repo.git", expected: "user_repo"},
		{testName: "scp style", input: "git@github.com:user/repo.git", expected: "user_repo"},
		{testName: "ssh scheme", input: "ssh://git@github.com/user/repo", expected: "user_repo"},
		{testName: "dotted name", input: "https://github.com/user/my.repo", expected: "user_my_repo"},
		{testName: "bare word", input: "invalid", expected: "invalid"},
		{testName: "host only", input: "https://github.com", expected: "unknown_repo"},
	}
	for index, testCase := range testCases {
		actual := utils.SlugifyRepositoryURL(testCase.input)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %s, got %s", index, testCase.testName, testCase.expected, actual)
		}
	}
}
