// SPDX-License-Identifier: Unlicense OR MIT

package dl

import (
	"fmt"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"
)

func open(name string) (uintptr, error) {
	h, err := windows.LoadLibraryEx(name, 0, windows.LOAD_LIBRARY_SEARCH_DEFAULT_DIRS)
	if err != nil {
		return 0, fmt.Errorf("dl: failed to load %s: %w", name, err)
	}
	return uintptr(h), nil
}

func sym(h uintptr, name string) uintptr {
	addr, err := windows.GetProcAddress(windows.Handle(h), name)
	if err != nil {
		return 0
	}
	return addr
}

func closeLib(h uintptr) error {
	return windows.FreeLibrary(windows.Handle(h))
}

func register(fptr any, addr uintptr) {
	purego.RegisterFunc(fptr, addr)
}
