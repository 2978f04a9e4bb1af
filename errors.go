package namedsem

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// ErrClosed is returned by Post and Wait once Close has been called.
	ErrClosed = errors.New("namedsem: semaphore is closed")

	// ErrNotAvailable is returned by Open when the package was built without
	// CGO or for a platform without POSIX named semaphores.
	ErrNotAvailable = errors.New("namedsem: named semaphores require CGO on linux or darwin; rebuild with CGO_ENABLED=1")
)

// NameEncodingError reports a semaphore name that cannot be passed to the
// OS as a NUL-terminated string. It is returned before any OS call is made.
type NameEncodingError struct {
	// Name is the rejected name.
	Name string

	// Offset is the byte offset of the first NUL in Name.
	Offset int
}

func (e *NameEncodingError) Error() string {
	return fmt.Sprintf("namedsem: name %q contains a NUL byte at offset %d", e.Name, e.Offset)
}

// OSError is a failure reported by sem_open, sem_post or sem_wait.
// Err holds the errno verbatim, so errors.Is works against both the errno
// constants and the io/fs sentinels:
//
//	_, err := namedsem.Open("/jobs", namedsem.OpenRead, 0, 0)
//	if errors.Is(err, fs.ErrNotExist) {
//		// nobody created "/jobs" yet
//	}
type OSError struct {
	// Op is the failed operation: "open", "post" or "wait".
	Op string

	// Name is the semaphore name the operation was applied to.
	Name string

	// Err is the errno reported by the OS.
	Err syscall.Errno
}

func (e *OSError) Error() string {
	return "namedsem: " + e.Op + " " + e.Name + ": " + e.Err.Error()
}

func (e *OSError) Unwrap() error {
	return e.Err
}

// IsInterrupted reports whether err is an EINTR failure. Wait returns such
// an error when a signal arrives while it is blocked; nothing in this
// package retries it.
func IsInterrupted(err error) bool {
	return errors.Is(err, syscall.EINTR)
}

// wrapErr converts an errno from the OS layer into an *OSError.
// Other errors, such as ErrNotAvailable, pass through unchanged.
func wrapErr(op, name string, err error) error {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return &OSError{Op: op, Name: name, Err: errno}
	}
	return err
}
