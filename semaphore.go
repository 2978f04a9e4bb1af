package namedsem

import (
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"go.uber.org/zap"
)

// semOps is the OS boundary. Errors are syscall.Errno values, except for
// ErrNotAvailable from builds without a native implementation.
type semOps interface {
	open(name string, options OpenOptions, mode AccessMode, initial uint32) (unsafe.Pointer, error)
	post(ref unsafe.Pointer) error
	wait(ref unsafe.Pointer) error
	close(ref unsafe.Pointer) error
}

// sys is replaced in tests.
var sys semOps = nativeOps{}

// Semaphore is a process-local handle to a named kernel semaphore.
// Processes that open the same name share one counter; each Open yields an
// independent handle, even within one process.
//
// A Semaphore is safe for concurrent use by multiple goroutines. That is a
// property of the kernel object, which serializes access to its counter;
// the handle adds no locking around Post or Wait.
//
// Example:
//
//	sem, err := namedsem.Open("/my_sem", namedsem.OpenCreate|namedsem.OpenRead|namedsem.OpenWrite,
//		namedsem.OwnerRead|namedsem.OwnerWrite, 1)
//	if err != nil {
//		return err
//	}
//	defer sem.Close()
//
//	if err := sem.Wait(); err != nil {
//		return err
//	}
//	// critical section shared with other processes
//	sem.Post()
type Semaphore struct {
	name string
	ops  semOps

	mu       sync.Mutex
	ref      unsafe.Pointer // nil once released
	inflight int
	closed   bool

	cleanup runtime.Cleanup
}

// Open binds to the semaphore called name, creating it when options
// include OpenCreate and it does not exist yet.
//
// The name is passed to the OS unchanged; POSIX expects a leading "/" and
// no further slashes. mode and initial take effect only when the call
// creates the semaphore; for an existing one the OS ignores both.
// initial must not exceed the host's SEM_VALUE_MAX.
//
// A name containing a NUL byte fails with *NameEncodingError before any
// OS call. OS failures are returned as *OSError. Nothing is retried.
func Open(name string, options OpenOptions, mode AccessMode, initial uint32) (*Semaphore, error) {
	if i := strings.IndexByte(name, 0); i >= 0 {
		return nil, &NameEncodingError{Name: name, Offset: i}
	}

	ops := sys
	ref, err := ops.open(name, options, mode, initial)
	if err != nil {
		return nil, wrapErr("open", name, err)
	}

	s := &Semaphore{name: name, ops: ops, ref: ref}
	s.cleanup = runtime.AddCleanup(s, func(ref unsafe.Pointer) {
		release(ops, name, ref)
	}, ref)
	return s, nil
}

// Name returns the name the semaphore was opened with.
func (s *Semaphore) Name() string {
	return s.name
}

// Post increments the counter, waking one blocked waiter if there is one.
// It never blocks.
func (s *Semaphore) Post() error {
	ref, ok := s.begin()
	if !ok {
		return ErrClosed
	}
	defer s.end()

	if err := s.ops.post(ref); err != nil {
		return wrapErr("post", s.name, err)
	}
	return nil
}

// Wait decrements the counter, blocking while it is zero. There is no
// timeout and no cancellation. A signal delivered to the blocked thread
// ends the wait with an error for which IsInterrupted reports true.
func (s *Semaphore) Wait() error {
	ref, ok := s.begin()
	if !ok {
		return ErrClosed
	}
	defer s.end()

	if err := s.ops.wait(ref); err != nil {
		return wrapErr("wait", s.name, err)
	}
	return nil
}

// Close releases this handle's binding to the semaphore. The named object
// itself stays in the system namespace, along with other handles to it.
//
// Close does not block. If Post or Wait calls are still running, the
// release happens when the last of them returns. Close may be called more
// than once and always returns nil: a failing release is reported only to
// the logger installed with SetLogger.
func (s *Semaphore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cleanup.Stop()
	ref := s.ref
	idle := s.inflight == 0
	if idle {
		s.ref = nil
	}
	s.mu.Unlock()

	if idle {
		release(s.ops, s.name, ref)
	}
	return nil
}

func (s *Semaphore) begin() (unsafe.Pointer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false
	}
	s.inflight++
	return s.ref, true
}

func (s *Semaphore) end() {
	s.mu.Lock()
	s.inflight--
	ref := s.ref
	last := s.closed && s.inflight == 0
	if last {
		s.ref = nil
	}
	s.mu.Unlock()

	if last {
		release(s.ops, s.name, ref)
	}
}

func release(ops semOps, name string, ref unsafe.Pointer) {
	if err := ops.close(ref); err != nil {
		logger().Warn("failed to release semaphore",
			zap.String("name", name), zap.Error(err))
	}
}
