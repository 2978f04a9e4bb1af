// Package namedsem wraps POSIX named semaphores: counting semaphores that
// live in the kernel under a textual name, so that unrelated processes can
// synchronize by agreeing on that name.
//
// # Opening
//
// A caller combines OpenOptions and AccessMode values and calls Open with a
// name and an initial count:
//
//	sem, err := namedsem.Open("/jobs",
//		namedsem.OpenCreate|namedsem.OpenRead|namedsem.OpenWrite,
//		namedsem.OwnerRead|namedsem.OwnerWrite|namedsem.GroupRead,
//		0)
//	if err != nil {
//		return err
//	}
//	defer sem.Close()
//
// The access mode and initial count apply only when Open creates the
// semaphore. Opening an existing name binds to its current counter.
//
// # Posting and Waiting
//
// Post increments the counter and never blocks. Wait decrements it, blocking
// while it is zero, with no timeout:
//
//	// producer process
//	sem.Post()
//
//	// consumer process
//	for {
//		err := sem.Wait()
//		if namedsem.IsInterrupted(err) {
//			continue
//		}
//		if err != nil {
//			return err
//		}
//		// handle one job
//	}
//
// The only way out of a blocked Wait is a Post from somewhere or a signal,
// which is reported as EINTR and left to the caller to retry.
//
// # Closing
//
// Close releases the process-local binding. It does not remove the name;
// other processes keep their handles and the counter persists. A handle
// that becomes unreachable without Close is released by the garbage
// collector. Failures of the release call are never returned and are only
// visible through SetLogger.
//
// # Errors
//
// Open fails with *NameEncodingError when the name contains a NUL byte, and
// every OS failure is an *OSError carrying the errno:
//
//	var oserr *namedsem.OSError
//	if errors.As(err, &oserr) && oserr.Err == unix.EEXIST {
//		// ...
//	}
//
// # Platform Support
//
// Named semaphores require CGO and use sem_open on Linux and macOS. Other
// builds compile, but Open returns ErrNotAvailable.
package namedsem
