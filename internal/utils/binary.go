package utils

import (
	"errors"
	"io"
	"os"
	"unicode/utf8"
)

// SniffLength defines the maximum number of bytes read when detecting binary content.
const SniffLength = 8000

// binaryRatioThreshold is the share of non-text bytes above which a sample is binary.
const binaryRatioThreshold = 0.30

// IsBinary reports whether the provided byte sample appears to contain binary data.
// A NUL byte is decisive. Otherwise control bytes that do not occur in text and bytes
// belonging to invalid UTF-8 sequences are counted, and the sample is binary when they
// exceed binaryRatioThreshold of its length. A multi-byte sequence cut off by the end of
// the sample is not counted.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
	}

	sample := trimIncompleteRune(data)
	if len(sample) == 0 {
		return false
	}
	var nonTextBytes int
	for index := 0; index < len(sample); {
		runeValue, runeWidth := utf8.DecodeRune(sample[index:])
		if runeValue == utf8.RuneError && runeWidth == 1 {
			nonTextBytes++
		} else if runeWidth == 1 && isControlByte(sample[index]) {
			nonTextBytes++
		}
		index += runeWidth
	}
	return float64(nonTextBytes)/float64(len(sample)) > binaryRatioThreshold
}

// ReadSample reads up to SniffLength bytes from the start of the file at path.
func ReadSample(path string) ([]byte, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return nil, openError
	}
	defer fileHandle.Close()

	buffer := make([]byte, SniffLength)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && !errors.Is(readError, io.EOF) && !errors.Is(readError, io.ErrUnexpectedEOF) {
		return nil, readError
	}
	return buffer[:bytesRead], nil
}

func isControlByte(value byte) bool {
	switch value {
	case '\t', '\n', '\r', '\f', '\b', '\v', 0x1b:
		return false
	}
	return value < 0x20 || value == 0x7f
}

// trimIncompleteRune drops a trailing UTF-8 sequence that was cut short by the sample boundary.
func trimIncompleteRune(data []byte) []byte {
	for back := 1; back <= utf8.UTFMax-1 && back <= len(data); back++ {
		start := len(data) - back
		if !utf8.RuneStart(data[start]) {
			continue
		}
		if !utf8.FullRune(data[start:]) {
			return data[:start]
		}
		return data
	}
	return data
}
