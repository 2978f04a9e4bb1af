//go:build (darwin || linux) && cgo

package namedsem

/*
#cgo linux LDFLAGS: -pthread
#include <fcntl.h>
#include <sys/stat.h>
#include <semaphore.h>
#include <stdlib.h>

// sem_open is variadic and cannot be called from Go directly.
static sem_t *namedsem_open(const char *name, int oflag, mode_t mode, unsigned int value) {
	return sem_open(name, oflag, mode, value);
}

static int namedsem_failed(sem_t *s) {
	return s == SEM_FAILED;
}
*/
import "C"

import (
	"errors"
	"syscall"
	"unsafe"
)

// nativeOps calls the POSIX named semaphore API.
type nativeOps struct{}

func (nativeOps) open(name string, options OpenOptions, mode AccessMode, initial uint32) (unsafe.Pointer, error) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	s, err := C.namedsem_open(cName, C.int(options.oflag()), C.mode_t(mode.perm()), C.uint(initial))
	if C.namedsem_failed(s) != 0 {
		return nil, errnoOf(err)
	}
	return unsafe.Pointer(s), nil
}

func (nativeOps) post(ref unsafe.Pointer) error {
	if r, err := C.sem_post((*C.sem_t)(ref)); r != 0 {
		return errnoOf(err)
	}
	return nil
}

func (nativeOps) wait(ref unsafe.Pointer) error {
	if r, err := C.sem_wait((*C.sem_t)(ref)); r != 0 {
		return errnoOf(err)
	}
	return nil
}

func (nativeOps) close(ref unsafe.Pointer) error {
	if r, err := C.sem_close((*C.sem_t)(ref)); r != 0 {
		return errnoOf(err)
	}
	return nil
}

// removeName unlinks name from the system namespace. It is not part of the
// public API; tests use it to clean up the names they create.
func removeName(name string) error {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	if r, err := C.sem_unlink(cName); r != 0 {
		return errnoOf(err)
	}
	return nil
}

// errnoOf extracts the errno cgo captured alongside a failed call.
func errnoOf(err error) error {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	// the call failed without setting errno
	return syscall.EIO
}
