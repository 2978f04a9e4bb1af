//go:build !cgo || !(darwin || linux)

package namedsem

import "unsafe"

// nativeOps is a stub for builds without CGO or without POSIX named
// semaphores. Open fails with ErrNotAvailable, so no handle ever reaches
// the other operations.
type nativeOps struct{}

func (nativeOps) open(name string, options OpenOptions, mode AccessMode, initial uint32) (unsafe.Pointer, error) {
	return nil, ErrNotAvailable
}

func (nativeOps) post(ref unsafe.Pointer) error {
	return ErrNotAvailable
}

func (nativeOps) wait(ref unsafe.Pointer) error {
	return ErrNotAvailable
}

func (nativeOps) close(ref unsafe.Pointer) error {
	return ErrNotAvailable
}

func removeName(name string) error {
	return ErrNotAvailable
}
