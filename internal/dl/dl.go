// SPDX-License-Identifier: Unlicense OR MIT

// Package dl loads shared libraries and binds their symbols to Go
// function variables at run time, without cgo.
package dl

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrNotFound is returned when none of the candidate library names
// could be loaded.
var ErrNotFound = errors.New("dl: library not found")

// Library is a loaded shared library.
type Library struct {
	name   string
	handle uintptr
}

// Func describes a symbol to bind. Ptr must point to a Go function
// variable whose signature matches the C function.
type Func struct {
	Ptr      any
	Name     string
	Optional bool
}

// Open loads the first library in names that can be loaded.
func Open(names ...string) (*Library, error) {
	if len(names) == 0 {
		return nil, ErrNotFound
	}
	var errs []error
	for _, n := range names {
		h, err := open(n)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return &Library{name: n, handle: h}, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrNotFound, errors.Join(errs...))
}

// Name returns the name the library was loaded under.
func (l *Library) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// Sym returns the address of the symbol, or 0 if it is missing.
func (l *Library) Sym(name string) uintptr {
	if l == nil || l.handle == 0 {
		return 0
	}
	return sym(l.handle, name)
}

// Close unloads the library. Closing a nil or closed library is a no-op.
func (l *Library) Close() error {
	if l == nil || l.handle == 0 {
		return nil
	}
	h := l.handle
	l.handle = 0
	return closeLib(h)
}

// Bind resolves every function in funcs, trying each resolver in order,
// and registers the result. A required symbol that no resolver knows
// fails the whole bind.
func Bind(funcs []Func, resolvers ...func(name string) uintptr) error {
	for _, f := range funcs {
		var addr uintptr
		for _, r := range resolvers {
			if r == nil {
				continue
			}
			if addr = r(f.Name); addr != 0 {
				break
			}
		}
		if addr == 0 {
			if f.Optional {
				continue
			}
			return fmt.Errorf("dl: missing symbol %s", f.Name)
		}
		register(f.Ptr, addr)
	}
	return nil
}

// CString returns a NUL-terminated copy of s.
func CString(s string) *byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &b[0]
}

// GoString converts a NUL-terminated C string to a Go string.
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
