package cli

import (
	"context"
	"errors"

	"github.com/pterm/pterm"
)

const (
	specificationPathQuestion  = "Path to the specification document (leave empty to paste it instead)"
	specificationPasteQuestion = "Paste the specification (press Tab to finish, leave empty to skip)"
)

// ErrPromptInterrupted is returned when the user presses Ctrl+C inside an interactive prompt.
var ErrPromptInterrupted = errors.New("prompt interrupted")

// SpecificationInput is what the user supplied for the specification: a path, pasted text,
// or neither.
type SpecificationInput struct {
	Path string
	Text string
}

// Spinner reports progress of one long running step.
type Spinner interface {
	Success(message string)
	Fail(message string)
}

// Interaction is the terminal conversation the workflows need.
type Interaction interface {
	SelectBranch(ctx context.Context, question string, branchNames []string) (string, error)
	Confirm(ctx context.Context, question string, defaultValue bool) (bool, error)
	RequestSpecification(ctx context.Context) (SpecificationInput, error)
	StartSpinner(text string) Spinner
}

type ptermInteraction struct{}

func newPtermInteraction() Interaction {
	return ptermInteraction{}
}

type promptAnswer[T any] struct {
	value T
	err   error
}

// awaitPrompt runs a blocking terminal prompt and gives up when ctx ends. The prompt keeps
// reading the keyboard until its next key press.
func awaitPrompt[T any](ctx context.Context, show func() (T, error)) (T, error) {
	answers := make(chan promptAnswer[T], 1)
	go func() {
		value, err := show()
		answers <- promptAnswer[T]{value: value, err: err}
	}()
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case answer := <-answers:
		return answer.value, answer.err
	}
}

// interruptible runs a pterm prompt with an interrupt hook. pterm reads Ctrl+C itself while
// the terminal is in raw mode and exits the process unless a hook is installed.
func interruptible[T any](show func(onInterrupt func()) (T, error)) (T, error) {
	interrupted := false
	value, showError := show(func() { interrupted = true })
	if interrupted {
		var zero T
		return zero, ErrPromptInterrupted
	}
	return value, showError
}

func (ptermInteraction) SelectBranch(ctx context.Context, question string, branchNames []string) (string, error) {
	return awaitPrompt(ctx, func() (string, error) {
		return interruptible(func(onInterrupt func()) (string, error) {
			return pterm.DefaultInteractiveSelect.
				WithOptions(branchNames).
				WithDefaultText(question).
				WithOnInterruptFunc(onInterrupt).
				Show()
		})
	})
}

func (ptermInteraction) Confirm(ctx context.Context, question string, defaultValue bool) (bool, error) {
	return awaitPrompt(ctx, func() (bool, error) {
		return interruptible(func(onInterrupt func()) (bool, error) {
			return pterm.DefaultInteractiveConfirm.
				WithDefaultValue(defaultValue).
				WithOnInterruptFunc(onInterrupt).
				Show(question)
		})
	})
}

func (ptermInteraction) RequestSpecification(ctx context.Context) (SpecificationInput, error) {
	path, pathError := awaitPrompt(ctx, func() (string, error) {
		return interruptible(func(onInterrupt func()) (string, error) {
			return pterm.DefaultInteractiveTextInput.WithOnInterruptFunc(onInterrupt).Show(specificationPathQuestion)
		})
	})
	if pathError != nil {
		return SpecificationInput{}, pathError
	}
	if path != "" {
		return SpecificationInput{Path: path}, nil
	}
	text, textError := awaitPrompt(ctx, func() (string, error) {
		return interruptible(func(onInterrupt func()) (string, error) {
			return pterm.DefaultInteractiveTextInput.WithMultiLine().WithOnInterruptFunc(onInterrupt).Show(specificationPasteQuestion)
		})
	})
	if textError != nil {
		return SpecificationInput{}, textError
	}
	return SpecificationInput{Text: text}, nil
}

type ptermSpinner struct {
	printer *pterm.SpinnerPrinter
}

func (ptermInteraction) StartSpinner(text string) Spinner {
	printer, startError := pterm.DefaultSpinner.WithRemoveWhenDone(false).Start(text)
	if startError != nil {
		return ptermSpinner{}
	}
	return ptermSpinner{printer: printer}
}

func (spinner ptermSpinner) Success(message string) {
	if spinner.printer != nil {
		spinner.printer.Success(message)
	}
}

func (spinner ptermSpinner) Fail(message string) {
	if spinner.printer != nil {
		spinner.printer.Fail(message)
	}
}
