package shell

import (
	"fmt"
	"sync"
)

const (
	logMsgTaskFailed   = "best-effort task failed"
	logMsgTaskPanicked = "best-effort task panicked"
	logAttrTask        = "task"
	logAttrError       = "error"
)

// Logger interface for reporting failed best-effort tasks.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// TaskRunner runs a named side effect whose outcome the caller never waits
// for. Implementations must not propagate errors or panics to the caller.
type TaskRunner interface {
	Run(name string, fn func() error)
}

// BestEffortRunner runs each task on a detached goroutine.
// Errors and panics are logged with the task name and swallowed.
type BestEffortRunner struct {
	logger Logger
	wg     sync.WaitGroup
}

// NewBestEffortRunner creates a BestEffortRunner. A nil logger silences
// failure reporting.
func NewBestEffortRunner(logger Logger) *BestEffortRunner {
	return &BestEffortRunner{logger: logger}
}

// Run spawns fn and returns immediately.
func (r *BestEffortRunner) Run(name string, fn func() error) {
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		runSwallowed(r.logger, name, fn)
	}()
}

// Wait blocks until all spawned tasks finished. Intended for graceful
// shutdown; regular callers never wait on best-effort work.
func (r *BestEffortRunner) Wait() {
	r.wg.Wait()
}

// SynchronousRunner runs tasks inline with the same swallow-and-log
// behavior. It makes best-effort side effects deterministic under test.
type SynchronousRunner struct {
	logger Logger
}

// NewSynchronousRunner creates a SynchronousRunner.
func NewSynchronousRunner(logger Logger) *SynchronousRunner {
	return &SynchronousRunner{logger: logger}
}

// Run executes fn before returning.
func (r *SynchronousRunner) Run(name string, fn func() error) {
	runSwallowed(r.logger, name, fn)
}

func runSwallowed(logger Logger, name string, fn func() error) {
	defer func() {
		if recovered := recover(); recovered != nil && logger != nil {
			logger.Error(logMsgTaskPanicked, logAttrTask, name, logAttrError, fmt.Sprintf("%v", recovered))
		}
	}()

	if err := fn(); err != nil && logger != nil {
		logger.Warn(logMsgTaskFailed, logAttrTask, name, logAttrError, err)
	}
}
