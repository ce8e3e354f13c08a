package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/temirov/multicodex/internal/output"
	"github.com/temirov/multicodex/internal/services/watch"
)

const (
	newBranchNoticeFormat       = "New branch detected: %s\n"
	branchAddedNoticeFormat     = "Branch %s added to the evaluation set\n"
	branchSkippedNoticeFormat   = "Skipping branch %s\n"
	addBranchQuestionFormat     = "Add %q to the evaluation lineup?"
	startAfterAddQuestion       = "Start analysis now? (otherwise monitoring continues)"
	startWithQueuedQuestion     = "Start analysis now with the branches already queued?"
	startWithEmptyQueueQuestion = "Start analysis now even though no branches are queued yet?"
)

// branchSelector asks the user about every branch the monitor detects. With assumeYes it
// queues every branch and leaves stopping to an interrupt. Ctrl+C inside a prompt stops
// watching and keeps the queue.
type branchSelector struct {
	interaction Interaction
	writer      io.Writer
	styles      output.Styles
	assumeYes   bool
}

func (selector branchSelector) Select(ctx context.Context, branchName string, queued []string) (watch.Decision, error) {
	fmt.Fprintf(selector.writer, newBranchNoticeFormat, selector.styles.Key.Render(branchName))
	if selector.assumeYes {
		fmt.Fprintf(selector.writer, branchAddedNoticeFormat, branchName)
		return watch.DecisionAdd, nil
	}

	addBranch, addError := selector.interaction.Confirm(ctx, fmt.Sprintf(addBranchQuestionFormat, branchName), true)
	if errors.Is(addError, ErrPromptInterrupted) {
		return watch.DecisionStop, nil
	}
	if addError != nil {
		return watch.DecisionSkip, addError
	}
	if addBranch {
		fmt.Fprintf(selector.writer, branchAddedNoticeFormat, branchName)
		startNow, startError := selector.interaction.Confirm(ctx, startAfterAddQuestion, false)
		if errors.Is(startError, ErrPromptInterrupted) {
			return watch.DecisionAddAndStop, nil
		}
		if startError != nil {
			return watch.DecisionAdd, startError
		}
		if startNow {
			return watch.DecisionAddAndStop, nil
		}
		return watch.DecisionAdd, nil
	}

	fmt.Fprintf(selector.writer, branchSkippedNoticeFormat, branchName)
	question := startWithQueuedQuestion
	if len(queued) == 0 {
		question = startWithEmptyQueueQuestion
	}
	startNow, startError := selector.interaction.Confirm(ctx, question, false)
	if errors.Is(startError, ErrPromptInterrupted) {
		return watch.DecisionStop, nil
	}
	if startError != nil {
		return watch.DecisionSkip, startError
	}
	if startNow {
		return watch.DecisionStop, nil
	}
	return watch.DecisionSkip, nil
}
