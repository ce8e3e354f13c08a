package commands

import "fmt"

const resolutionErrorFormat = "resolving branch %s at %s: %v"

// ResolutionError reports a branch whose revision could not be checked out.
type ResolutionError struct {
	Branch   string
	Revision string
	Err      error
}

func (resolutionError *ResolutionError) Error() string {
	return fmt.Sprintf(resolutionErrorFormat, resolutionError.Branch, resolutionError.Revision, resolutionError.Err)
}

func (resolutionError *ResolutionError) Unwrap() error {
	return resolutionError.Err
}
