package namedsem

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OpenOptions selects how Open binds to a named semaphore.
// Options combine with bitwise OR and are plain integers, so they can be
// compared, ordered, and used as map keys.
//
// The bit values are private to this package. They are translated to the
// host's open flags only at the OS boundary, and no combination is rejected
// here: the OS decides what a combination means.
type OpenOptions uint8

const (
	// OpenCreate creates the semaphore if it does not exist (O_CREAT).
	OpenCreate OpenOptions = 1 << iota

	// OpenRead opens the semaphore for reading (O_RDONLY).
	OpenRead

	// OpenWrite opens the semaphore for writing (O_WRONLY).
	// Combined with OpenRead it becomes O_RDWR.
	OpenWrite
)

var openOptionNames = []struct {
	opt  OpenOptions
	name string
}{
	{OpenCreate, "create"},
	{OpenRead, "read"},
	{OpenWrite, "write"},
}

// Has reports whether every bit in opt is set in o.
func (o OpenOptions) Has(opt OpenOptions) bool {
	return o&opt == opt
}

// String returns the option names joined by "|", e.g. "create|read|write".
// The zero value prints as "none".
func (o OpenOptions) String() string {
	if o == 0 {
		return "none"
	}
	var parts []string
	rest := o
	for _, n := range openOptionNames {
		if o.Has(n.opt) {
			parts = append(parts, n.name)
			rest &^= n.opt
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%02x", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseOpenOptions parses a list of option names separated by "|" or ",".
// Names are case-insensitive. An empty string or "none" yields zero.
func ParseOpenOptions(s string) (OpenOptions, error) {
	var opts OpenOptions
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' })
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || f == "none" {
			continue
		}
		found := false
		for _, n := range openOptionNames {
			if f == n.name {
				opts |= n.opt
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown open option %q", f)
		}
	}
	return opts, nil
}

// AccessMode holds the permission bits applied when Open creates a new
// semaphore. Only read and write bits exist; execute has no meaning for a
// semaphore. Like OpenOptions the encoding is private and any combination
// is passed through to the OS.
type AccessMode uint8

const (
	// OwnerRead is S_IRUSR.
	OwnerRead AccessMode = 1 << iota
	// OwnerWrite is S_IWUSR.
	OwnerWrite
	// GroupRead is S_IRGRP.
	GroupRead
	// GroupWrite is S_IWGRP.
	GroupWrite
	// OtherRead is S_IROTH.
	OtherRead
	// OtherWrite is S_IWOTH.
	OtherWrite
)

// accessBits pairs each mode bit with its file permission bit, in ls -l order.
var accessBits = []struct {
	mode AccessMode
	perm os.FileMode
	char byte
}{
	{OwnerRead, 0o400, 'r'},
	{OwnerWrite, 0o200, 'w'},
	{GroupRead, 0o040, 'r'},
	{GroupWrite, 0o020, 'w'},
	{OtherRead, 0o004, 'r'},
	{OtherWrite, 0o002, 'w'},
}

// Has reports whether every bit in mode is set in m.
func (m AccessMode) Has(mode AccessMode) bool {
	return m&mode == mode
}

// Perm returns the mode as file permission bits, e.g. 0o640.
func (m AccessMode) Perm() os.FileMode {
	var perm os.FileMode
	for _, b := range accessBits {
		if m.Has(b.mode) {
			perm |= b.perm
		}
	}
	return perm
}

// String returns the mode in ls -l form, e.g. "rw-r-----".
func (m AccessMode) String() string {
	buf := []byte("---------")
	for i, b := range accessBits {
		if m.Has(b.mode) {
			// two mode bits per class, execute slot skipped
			buf[i+i/2] = b.char
		}
	}
	return string(buf)
}

// AccessModeFromPerm converts file permission bits to an AccessMode.
// Execute and special bits are dropped.
func AccessModeFromPerm(perm os.FileMode) AccessMode {
	var m AccessMode
	for _, b := range accessBits {
		if perm&b.perm != 0 {
			m |= b.mode
		}
	}
	return m
}

// ParseAccessMode accepts an octal mode ("0640", "600") or the nine
// character symbolic form ("rw-r-----"). Execute bits are rejected.
func ParseAccessMode(s string) (AccessMode, error) {
	s = strings.TrimSpace(s)
	if len(s) == 9 && strings.Trim(s, "rw-") == "" {
		var m AccessMode
		for i, b := range accessBits {
			c := s[i+i/2]
			switch c {
			case b.char:
				m |= b.mode
			case '-':
			default:
				return 0, fmt.Errorf("invalid access mode %q: unexpected %q at %d", s, c, i+i/2)
			}
		}
		// execute slots
		for _, i := range []int{2, 5, 8} {
			if s[i] != '-' {
				return 0, fmt.Errorf("invalid access mode %q: execute bits are not supported", s)
			}
		}
		return m, nil
	}

	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0o"), 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid access mode %q: %w", s, err)
	}
	perm := os.FileMode(v)
	if perm&^0o666 != 0 {
		return 0, fmt.Errorf("invalid access mode %q: only read and write bits are supported", s)
	}
	return AccessModeFromPerm(perm), nil
}
