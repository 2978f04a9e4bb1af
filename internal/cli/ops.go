package cli

import (
	"context"

	"github.com/richinsley/namedsem"
	"github.com/richinsley/namedsem/internal/logger"
	"go.uber.org/zap"
)

// Handle is the part of *namedsem.Semaphore the commands drive.
type Handle interface {
	Post() error
	Wait() error
}

// Post posts n times, stopping at the first failure.
func Post(ctx context.Context, h Handle, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.Post(); err != nil {
			return err
		}
	}
	return nil
}

// Wait waits n times. An interrupted wait is retried only when
// retryInterrupted is set; the library itself never retries.
func Wait(ctx context.Context, h Handle, n int, retryInterrupted bool) error {
	for i := 0; i < n; {
		err := waitOnce(ctx, h)
		if err == nil {
			i++
			continue
		}
		if retryInterrupted && namedsem.IsInterrupted(err) {
			logger.Debug("wait interrupted, retrying", zap.Int("done", i), zap.Int("count", n))
			continue
		}
		return err
	}
	return nil
}

// waitOnce returns when Wait does or when ctx is done. In the second case
// the Wait is abandoned and stays blocked in the kernel until the process
// exits or a post arrives.
func waitOnce(ctx context.Context, h Handle) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- h.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
