//go:build darwin || linux

package namedsem

import "golang.org/x/sys/unix"

// oflag translates o to the open flags expected by sem_open.
// O_RDONLY is zero, so OpenRead alone contributes no bit; OpenRead together
// with OpenWrite selects O_RDWR.
func (o OpenOptions) oflag() int {
	var flag int
	switch {
	case o.Has(OpenRead | OpenWrite):
		flag = unix.O_RDWR
	case o.Has(OpenWrite):
		flag = unix.O_WRONLY
	default:
		flag = unix.O_RDONLY
	}
	if o.Has(OpenCreate) {
		flag |= unix.O_CREAT
	}
	return flag
}

var permBits = []struct {
	mode AccessMode
	bit  uint32
}{
	{OwnerRead, unix.S_IRUSR},
	{OwnerWrite, unix.S_IWUSR},
	{GroupRead, unix.S_IRGRP},
	{GroupWrite, unix.S_IWGRP},
	{OtherRead, unix.S_IROTH},
	{OtherWrite, unix.S_IWOTH},
}

// perm translates m to the mode_t bits expected by sem_open.
func (m AccessMode) perm() uint32 {
	var perm uint32
	for _, b := range permBits {
		if m.Has(b.mode) {
			perm |= b.bit
		}
	}
	return perm
}
