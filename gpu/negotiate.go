// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"errors"
	"fmt"

	"mochi.dev/gpu/internal/driver"
	_ "mochi.dev/gpu/internal/opengl"
	_ "mochi.dev/gpu/internal/vulkan"
)

// NewContext negotiates a backend in the fixed order Vulkan, OpenGL,
// OpenGL ES and returns a Context with a width×height surface. The
// EnvBackends variable is not consulted; use LoadConfig or
// Config.WithEnv with NewContextWithConfig for that.
func NewContext(width, height int) (*Context, error) {
	return NewContextWithConfig(DefaultConfig(), width, height)
}

// NewContextWithConfig tries the backends of cfg in order and returns
// a Context for the first that initializes and supports cfg.Require.
// A backend that fails leaves nothing allocated. Repeated backends are
// probed once.
func NewContextWithConfig(cfg Config, width, height int) (*Context, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	log := Logger()
	var errs []error
	tried := make(map[Backend]bool)
	for _, b := range cfg.Backends {
		if tried[b] {
			continue
		}
		tried[b] = true
		dev, err := probe(b, cfg, width, height)
		if err != nil {
			log.Warn("gpu: backend unavailable", "backend", b, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", b, err))
			continue
		}
		c := newContext(b, dev, width, height)
		log.Info("gpu: selected backend",
			"backend", b,
			"device", c.desc.Device,
			"vendor", c.desc.Vendor,
			"driver", c.desc.Driver,
		)
		return c, nil
	}
	if len(errs) == 0 {
		return nil, ErrNoBackend
	}
	return nil, fmt.Errorf("%w: %w", ErrNoBackend, errors.Join(errs...))
}

func probe(b Backend, cfg Config, width, height int) (driver.Device, error) {
	p := driver.Lookup(b)
	if p == nil {
		return nil, errors.New("backend not available in this build")
	}
	dev, err := p(driver.ProbeConfig{Width: width, Height: height, VSync: cfg.VSync})
	if err != nil {
		if dev != nil {
			dev.Release()
		}
		return nil, err
	}
	if dev == nil {
		return nil, errors.New("backend returned no device")
	}
	if missing := cfg.Require &^ dev.Caps().Features; missing != 0 {
		dev.Release()
		return nil, fmt.Errorf("missing required features: %s", missing)
	}
	return dev, nil
}
