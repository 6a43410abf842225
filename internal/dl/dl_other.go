// SPDX-License-Identifier: Unlicense OR MIT

//go:build !linux && !freebsd && !darwin && !windows

package dl

import (
	"errors"
	"runtime"
)

var errUnsupported = errors.New("dl: dynamic loading not supported on " + runtime.GOOS)

func open(name string) (uintptr, error) {
	return 0, errUnsupported
}

func sym(h uintptr, name string) uintptr {
	return 0
}

func closeLib(h uintptr) error {
	return nil
}

func register(fptr any, addr uintptr) {
	panic(errUnsupported)
}
