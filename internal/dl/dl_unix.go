// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd || darwin

package dl

import (
	"fmt"

	"github.com/ebitengine/purego"
)

func open(name string) (uintptr, error) {
	h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, fmt.Errorf("dl: %s: %w", name, err)
	}
	return h, nil
}

func sym(h uintptr, name string) uintptr {
	addr, err := purego.Dlsym(h, name)
	if err != nil {
		return 0
	}
	return addr
}

func closeLib(h uintptr) error {
	return purego.Dlclose(h)
}

func register(fptr any, addr uintptr) {
	purego.RegisterFunc(fptr, addr)
}
