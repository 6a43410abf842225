// SPDX-License-Identifier: Unlicense OR MIT

package driver

import (
	"fmt"
	"strings"
	"sync"
)

// Backend identifies a native graphics API.
type Backend uint8

const (
	None Backend = iota
	Vulkan
	OpenGL
	OpenGLES
)

func (b Backend) String() string {
	switch b {
	case None:
		return "none"
	case Vulkan:
		return "vulkan"
	case OpenGL:
		return "opengl"
	case OpenGLES:
		return "opengles"
	default:
		return fmt.Sprintf("Backend(%d)", uint8(b))
	}
}

// ParseBackend parses the name of a backend as returned by String.
// Matching ignores case, and "gl", "gles" and "vk" are accepted as
// short forms.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "vulkan", "vk":
		return Vulkan, nil
	case "opengl", "gl":
		return OpenGL, nil
	case "opengles", "gles":
		return OpenGLES, nil
	}
	return None, fmt.Errorf("driver: unknown backend %q", name)
}

// ProbeConfig is passed to a Prober.
type ProbeConfig struct {
	Width, Height int
	VSync         bool
}

// A Prober initializes a backend. A failing Prober must leave nothing
// allocated.
type Prober func(cfg ProbeConfig) (Device, error)

var (
	registryMu sync.RWMutex
	probers    = make(map[Backend]Prober)
)

// Register sets the Prober for a backend and returns the previous one.
// Backend packages call Register from init; tests use the result to
// restore the original.
func Register(b Backend, p Prober) Prober {
	registryMu.Lock()
	defer registryMu.Unlock()
	prev := probers[b]
	if p == nil {
		delete(probers, b)
	} else {
		probers[b] = p
	}
	return prev
}

// Lookup returns the Prober registered for b, or nil.
func Lookup(b Backend) Prober {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return probers[b]
}
