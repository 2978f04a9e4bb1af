package cli_test

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/richinsley/namedsem"
	"github.com/richinsley/namedsem/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHandle counts calls and returns queued wait errors before succeeding.
type fakeHandle struct {
	mu       sync.Mutex
	posts    int
	waits    int
	postErr  error
	waitErrs []error
	block    chan struct{}
}

func (f *fakeHandle) Post() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return f.postErr
	}
	f.posts++
	return nil
}

func (f *fakeHandle) Wait() error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.waitErrs) > 0 {
		err := f.waitErrs[0]
		f.waitErrs = f.waitErrs[1:]
		return err
	}
	f.waits++
	return nil
}

var errInterrupted = &namedsem.OSError{Op: "wait", Name: "/jobs", Err: syscall.EINTR}

func TestPost(t *testing.T) {
	t.Parallel()

	h := &fakeHandle{}
	require.NoError(t, cli.Post(context.Background(), h, 3))
	assert.Equal(t, 3, h.posts)

	h = &fakeHandle{postErr: errors.New("overflow")}
	assert.EqualError(t, cli.Post(context.Background(), h, 3), "overflow")
}

func TestPostCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := &fakeHandle{}
	assert.ErrorIs(t, cli.Post(ctx, h, 3), context.Canceled)
	assert.Zero(t, h.posts)
}

func TestWait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		waitErrs  []error
		retry     bool
		wantErr   error
		wantWaits int
	}{
		{
			name:      "all succeed",
			wantWaits: 2,
		},
		{
			name:      "interrupted without retry",
			waitErrs:  []error{errInterrupted},
			wantErr:   syscall.EINTR,
			wantWaits: 0,
		},
		{
			name:      "interrupted with retry",
			waitErrs:  []error{errInterrupted, errInterrupted},
			retry:     true,
			wantWaits: 2,
		},
		{
			name:      "other errors are not retried",
			waitErrs:  []error{&namedsem.OSError{Op: "wait", Name: "/jobs", Err: syscall.EINVAL}},
			retry:     true,
			wantErr:   syscall.EINVAL,
			wantWaits: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := &fakeHandle{waitErrs: tt.waitErrs}
			err := cli.Wait(context.Background(), h, 2, tt.retry)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantWaits, h.waits)
		})
	}
}

func TestWaitAbandonedOnCancel(t *testing.T) {
	t.Parallel()

	h := &fakeHandle{block: make(chan struct{})}
	defer close(h.block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := cli.Wait(ctx, h, 1, true)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
