// Package watch polls a remote for new branches and lets a selector queue them.
package watch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultInterval is the polling interval used when Monitor.Interval is zero.
const DefaultInterval = 30 * time.Second

const (
	errorSelectFormat = "selecting branch %s: %w"

	warningFetchMessage    = "fetching remote failed; retrying next poll"
	warningListMessage     = "listing remote branches failed; retrying next poll"
	infoNewBranchMessage   = "new remote branch"
	infoWatchingMessage    = "watching remote branches"
	infoStoppedMessage     = "stopped watching"
	logFieldBranch         = "branch"
	logFieldInterval       = "interval"
	logFieldQueuedBranches = "queued"
)

// ErrMonitorStopped is returned by Run on a monitor that already stopped.
var ErrMonitorStopped = errors.New("monitor stopped")

// ErrMonitorRunning is returned by Run while the monitor is watching.
var ErrMonitorRunning = errors.New("monitor already watching")

var (
	errMissingLister   = errors.New("monitor has no branch lister")
	errMissingSelector = errors.New("monitor has no selector")
)

// BranchLister refreshes and lists remote branches.
type BranchLister interface {
	Fetch(ctx context.Context) error
	RemoteBranches(ctx context.Context) ([]string, error)
}

// Decision is the selector's answer for one new branch.
type Decision int

const (
	// DecisionSkip ignores the branch and keeps watching.
	DecisionSkip Decision = iota
	// DecisionAdd queues the branch and keeps watching.
	DecisionAdd
	// DecisionAddAndStop queues the branch and stops watching.
	DecisionAddAndStop
	// DecisionStop stops watching without queueing the branch.
	DecisionStop
)

// Selector decides what to do with a newly detected branch. A decision returned together
// with an error is still applied.
type Selector interface {
	Select(ctx context.Context, branchName string, queued []string) (Decision, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(ctx context.Context, branchName string, queued []string) (Decision, error)

// Select calls selectorFunc.
func (selectorFunc SelectorFunc) Select(ctx context.Context, branchName string, queued []string) (Decision, error) {
	return selectorFunc(ctx, branchName, queued)
}

// State is the lifecycle state of a Monitor.
type State int

const (
	StateNotWatching State = iota
	StateWatching
	StateStopped
)

func (state State) String() string {
	switch state {
	case StateWatching:
		return "watching"
	case StateStopped:
		return "stopped"
	default:
		return "not-watching"
	}
}

// Monitor polls Lister every Interval. Every branch not seen before, including those present
// on the first poll, is offered to Selector. A Monitor runs once.
type Monitor struct {
	Lister   BranchLister
	Interval time.Duration
	Selector Selector
	Logger   *zap.Logger

	mutex sync.Mutex
	state State
}

// State reports the current lifecycle state.
func (monitor *Monitor) State() State {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	return monitor.state
}

func (monitor *Monitor) begin() error {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	switch monitor.state {
	case StateStopped:
		return ErrMonitorStopped
	case StateWatching:
		return ErrMonitorRunning
	}
	if monitor.Lister == nil {
		return errMissingLister
	}
	if monitor.Selector == nil {
		return errMissingSelector
	}
	monitor.state = StateWatching
	return nil
}

func (monitor *Monitor) finish() {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	monitor.state = StateStopped
}

// Run watches until ctx is cancelled or the selector stops it, then returns the queue.
// Cancellation is a normal stop and returns a nil error.
func (monitor *Monitor) Run(ctx context.Context) (*Queue, error) {
	if beginError := monitor.begin(); beginError != nil {
		return nil, beginError
	}
	defer monitor.finish()

	logger := monitor.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := monitor.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger.Info(infoWatchingMessage, zap.Duration(logFieldInterval, interval))

	queue := NewQueue()
	watchCtx, stopWatching := context.WithCancel(ctx)
	defer stopWatching()

	group, groupCtx := errgroup.WithContext(watchCtx)
	detected := make(chan string)

	group.Go(func() error {
		defer close(detected)
		return monitor.produce(groupCtx, interval, logger, detected)
	})

	group.Go(func() error {
		for branchName := range detected {
			if groupCtx.Err() != nil {
				return nil
			}
			decision, selectError := monitor.Selector.Select(groupCtx, branchName, queue.Branches())
			switch decision {
			case DecisionAdd:
				queue.Add(branchName)
			case DecisionAddAndStop:
				queue.Add(branchName)
				stopWatching()
			case DecisionStop:
				stopWatching()
			}
			if selectError != nil {
				if groupCtx.Err() != nil {
					return nil
				}
				return fmt.Errorf(errorSelectFormat, branchName, selectError)
			}
		}
		return nil
	})

	waitError := group.Wait()
	logger.Info(infoStoppedMessage, zap.Strings(logFieldQueuedBranches, queue.Branches()))
	if waitError != nil && !errors.Is(waitError, context.Canceled) {
		return queue, waitError
	}
	return queue, nil
}

func (monitor *Monitor) produce(ctx context.Context, interval time.Duration, logger *zap.Logger, detected chan<- string) error {
	seen := map[string]struct{}{}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		for _, branchName := range monitor.poll(ctx, logger) {
			if _, known := seen[branchName]; known {
				continue
			}
			seen[branchName] = struct{}{}
			logger.Info(infoNewBranchMessage, zap.String(logFieldBranch, branchName))
			select {
			case <-ctx.Done():
				return nil
			case detected <- branchName:
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (monitor *Monitor) poll(ctx context.Context, logger *zap.Logger) []string {
	if fetchError := monitor.Lister.Fetch(ctx); fetchError != nil {
		if ctx.Err() == nil {
			logger.Warn(warningFetchMessage, zap.Error(fetchError))
		}
		return nil
	}
	branchNames, listError := monitor.Lister.RemoteBranches(ctx)
	if listError != nil {
		if ctx.Err() == nil {
			logger.Warn(warningListMessage, zap.Error(listError))
		}
		return nil
	}
	return branchNames
}
