package utils

import (
	"time"
)

const timestampLayout = "2006-01-02 15:04 UTC"

// FormatTimestamp returns the provided time in UTC with minute precision so that
// artifacts written on different machines stay comparable.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(timestampLayout)
}
