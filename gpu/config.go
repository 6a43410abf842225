// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"mochi.dev/gpu/internal/driver"
)

// Backend identifies a native graphics API.
type Backend = driver.Backend

const (
	None     = driver.None
	Vulkan   = driver.Vulkan
	OpenGL   = driver.OpenGL
	OpenGLES = driver.OpenGLES
)

// Features is a set of backend capabilities.
type Features = driver.Features

const (
	// FeatureRender is set by backends that implement drawing.
	FeatureRender = driver.FeatureRender
	// FeatureCompute is set by backends with compute shader support.
	FeatureCompute = driver.FeatureCompute
)

// EnvBackends names the environment variable overriding the backend
// order, as a comma separated list such as "opengles,opengl".
const EnvBackends = "MOCHI_GPU_BACKENDS"

// ErrDuplicateBackend is returned when a backend order names the same
// backend more than once.
var ErrDuplicateBackend = errors.New("gpu: duplicate backend")

// Config controls backend negotiation.
type Config struct {
	// Backends lists the backends to try, in order.
	Backends []Backend
	// Require lists the features a backend must support to be
	// selected. A backend missing any of them counts as failed.
	Require Features
	// VSync synchronizes Present with the display refresh.
	VSync bool
}

// DefaultConfig returns the configuration used by NewContext: Vulkan,
// then OpenGL, then OpenGL ES, requiring rendering support.
func DefaultConfig() Config {
	return Config{
		Backends: []Backend{Vulkan, OpenGL, OpenGLES},
		Require:  FeatureRender,
	}
}

type fileConfig struct {
	Backends []string `toml:"backends"`
	Require  []string `toml:"require"`
	VSync    bool     `toml:"vsync"`
}

// LoadConfig reads a TOML configuration file such as
//
//	backends = ["opengles", "opengl"]
//	require = ["render"]
//	vsync = true
//
// Keys missing from the file keep their DefaultConfig values. The
// EnvBackends variable takes precedence over the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return cfg, fmt.Errorf("gpu: config %s: %w", path, err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		return cfg, fmt.Errorf("gpu: config %s: unknown keys %v", path, und)
	}
	if md.IsDefined("backends") {
		if cfg.Backends, err = ParseBackends(fc.Backends); err != nil {
			return cfg, fmt.Errorf("gpu: config %s: %w", path, err)
		}
	}
	if md.IsDefined("require") {
		if cfg.Require, err = ParseFeatures(fc.Require); err != nil {
			return cfg, fmt.Errorf("gpu: config %s: %w", path, err)
		}
	}
	if md.IsDefined("vsync") {
		cfg.VSync = fc.VSync
	}
	return cfg.WithEnv()
}

// WithEnv returns c with the backend order replaced by EnvBackends,
// if set.
func (c Config) WithEnv() (Config, error) {
	v := strings.TrimSpace(os.Getenv(EnvBackends))
	if v == "" {
		return c, nil
	}
	bs, err := ParseBackends(strings.Split(v, ","))
	if err != nil {
		return c, fmt.Errorf("gpu: %s: %w", EnvBackends, err)
	}
	c.Backends = bs
	return c, nil
}

// Encode writes c in the format read by LoadConfig.
func (c Config) Encode(w io.Writer) error {
	fc := fileConfig{
		Backends: []string{},
		Require:  []string{},
		VSync:    c.VSync,
	}
	for _, b := range c.Backends {
		fc.Backends = append(fc.Backends, b.String())
	}
	if c.Require.Has(FeatureRender) {
		fc.Require = append(fc.Require, "render")
	}
	if c.Require.Has(FeatureCompute) {
		fc.Require = append(fc.Require, "compute")
	}
	return toml.NewEncoder(w).Encode(fc)
}

// ParseBackends parses backend names. Naming a backend twice, under
// any of its aliases, is an error.
func ParseBackends(names []string) ([]Backend, error) {
	bs := make([]Backend, 0, len(names))
	for _, n := range names {
		b, err := driver.ParseBackend(n)
		if err != nil {
			return nil, err
		}
		if slices.Contains(bs, b) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateBackend, n)
		}
		bs = append(bs, b)
	}
	return bs, nil
}

// ParseFeatures parses feature names, "render" and "compute".
func ParseFeatures(names []string) (Features, error) {
	var f Features
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "render":
			f |= FeatureRender
		case "compute":
			f |= FeatureCompute
		default:
			return 0, fmt.Errorf("unknown feature %q", n)
		}
	}
	return f, nil
}
