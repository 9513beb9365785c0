package shell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shelfshare/shelfshare-go/shell"
	"github.com/shelfshare/shelfshare-go/testutil/helper"
)

func Test_BestEffortRunner_RunsTaskToCompletion(t *testing.T) {
	runner := shell.NewBestEffortRunner(nil)

	ran := make(chan struct{})
	runner.Run("test-task", func() error {
		close(ran)
		return nil
	})

	runner.Wait()
	<-ran
}

func Test_BestEffortRunner_SwallowsAndLogsFailure(t *testing.T) {
	logger := helper.NewLoggerSpy()
	runner := shell.NewBestEffortRunner(logger)

	runner.Run("failing-task", func() error {
		return errors.New("scheduling failed")
	})

	runner.Wait()

	assert.True(t, logger.HasEntryContaining(helper.LogLevelWarn, "failed"))
}

func Test_BestEffortRunner_SwallowsAndLogsPanic(t *testing.T) {
	logger := helper.NewLoggerSpy()
	runner := shell.NewBestEffortRunner(logger)

	runner.Run("panicking-task", func() error {
		panic("boom")
	})

	runner.Wait()

	assert.True(t, logger.HasEntryContaining(helper.LogLevelError, "panicked"))
}

func Test_SynchronousRunner_RunsInline(t *testing.T) {
	runner := shell.NewSynchronousRunner(nil)

	ran := false
	runner.Run("test-task", func() error {
		ran = true
		return nil
	})

	assert.True(t, ran, "the synchronous runner must complete the task before returning")
}

func Test_SynchronousRunner_NeverPropagatesFailure(t *testing.T) {
	logger := helper.NewLoggerSpy()
	runner := shell.NewSynchronousRunner(logger)

	assert.NotPanics(t, func() {
		runner.Run("failing-task", func() error { return errors.New("nope") })
		runner.Run("panicking-task", func() error { panic("boom") })
	})

	assert.True(t, logger.HasEntryContaining(helper.LogLevelWarn, "failed"))
	assert.True(t, logger.HasEntryContaining(helper.LogLevelError, "panicked"))
}
