// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"mochi.dev/gpu/internal/driver"
)

var (
	// ErrNoBackend is returned by NewContext when no backend could be
	// initialized. The error wraps every probe failure.
	ErrNoBackend = errors.New("gpu: no backend available")
	// ErrInvalidSize is returned for non-positive surface sizes.
	ErrInvalidSize = errors.New("gpu: invalid surface size")
	// ErrInvalidContext is returned by operations on a nil or released
	// Context that report errors.
	ErrInvalidContext = errors.New("gpu: invalid context")
)

// Context is a rendering context bound to one backend. The zero value
// and nil are invalid contexts on which every operation does nothing.
type Context struct {
	dev      driver.Device
	backend  Backend
	desc     driver.Description
	width    int
	height   int
	viewport image.Rectangle

	handles  uint32
	shaders  map[Shader]*program
	buffers  map[Buffer]driver.Buffer
	textures map[Texture]driver.Texture

	current Shader
	vertex  Buffer
	attribs map[int]vertexAttrib
	units   [maxTextureUnits]Texture

	blend BlendState
	fx    *effects
}

// DeviceInfo describes the device behind a Context.
type DeviceInfo struct {
	Backend        Backend
	Device         string
	Vendor         string
	Driver         string
	Platform       string
	MaxTextureSize int
	Compute        bool
}

func newContext(b Backend, dev driver.Device, width, height int) *Context {
	c := &Context{
		dev:      dev,
		backend:  b,
		desc:     dev.Describe(),
		width:    width,
		height:   height,
		viewport: image.Rect(0, 0, width, height),
		shaders:  make(map[Shader]*program),
		buffers:  make(map[Buffer]driver.Buffer),
		textures: make(map[Texture]driver.Texture),
		attribs:  make(map[int]vertexAttrib),
		blend:    BlendState{Src: BlendOne, Dst: BlendZero},
	}
	c.check("Viewport", dev.Viewport(0, 0, width, height))
	c.applyBlend()
	return c
}

// Valid reports whether c is bound to a backend.
func (c *Context) Valid() bool {
	return c != nil && c.backend != None
}

// Backend returns the backend of c, or None.
func (c *Context) Backend() Backend {
	if c == nil {
		return None
	}
	return c.backend
}

// Size returns the surface size as last set by NewContext or
// Viewport.
func (c *Context) Size() image.Point {
	if !c.Valid() {
		return image.Point{}
	}
	return image.Pt(c.width, c.height)
}

// DeviceInfo returns the identity strings cached at creation together
// with the current capabilities of the backend.
func (c *Context) DeviceInfo() DeviceInfo {
	if !c.Valid() {
		return DeviceInfo{}
	}
	caps := c.dev.Caps()
	return DeviceInfo{
		Backend:        c.backend,
		Device:         c.desc.Device,
		Vendor:         c.desc.Vendor,
		Driver:         c.desc.Driver,
		Platform:       c.desc.Platform,
		MaxTextureSize: caps.MaxTextureSize,
		Compute:        caps.Features.Has(FeatureCompute),
	}
}

// Clear fills the surface with a color.
func (c *Context) Clear(r, g, b, a float32) {
	if !c.Valid() {
		return
	}
	c.check("Clear", c.dev.Clear(r, g, b, a))
}

// Viewport sets the drawing area and records width×height as the new
// surface size. Non-positive sizes are ignored.
func (c *Context) Viewport(x, y, width, height int) {
	if !c.Valid() || width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	c.viewport = image.Rect(x, y, x+width, y+height)
	c.check("Viewport", c.dev.Viewport(x, y, width, height))
}

// Present blocks until the frame is finished and swapped. Effect
// targets unused since the previous Present are released.
func (c *Context) Present() error {
	if !c.Valid() {
		return nil
	}
	err := c.dev.Present()
	if c.fx != nil {
		c.fx.frame()
	}
	if errors.Is(err, driver.ErrUnsupported) {
		c.check("Present", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("gpu: present: %w", err)
	}
	return nil
}

// Screenshot reads back the part of the surface covered by
// img.Bounds(), with the origin in the upper left corner.
func (c *Context) Screenshot(img *image.RGBA) error {
	if !c.Valid() {
		return ErrInvalidContext
	}
	r := img.Bounds().Intersect(image.Rect(0, 0, c.width, c.height))
	if r.Empty() {
		return nil
	}
	if err := c.dev.BindFramebuffer(nil); err != nil {
		return fmt.Errorf("gpu: screenshot: %w", err)
	}
	src, err := driver.DownloadImage(c.dev, c.toDevice(r))
	if err != nil {
		return fmt.Errorf("gpu: screenshot: %w", err)
	}
	draw.Draw(img, r, src, image.Point{}, draw.Src)
	return nil
}

// Release frees every resource still owned by c, then the backend
// connection. It is safe to call more than once.
func (c *Context) Release() {
	if c == nil || c.dev == nil {
		return
	}
	for h, p := range c.shaders {
		p.prog.Release()
		delete(c.shaders, h)
	}
	for h, b := range c.buffers {
		b.Release()
		delete(c.buffers, h)
	}
	for h, t := range c.textures {
		t.Release()
		delete(c.textures, h)
	}
	if c.fx != nil {
		c.fx.release()
	}
	c.dev.Release()
	Logger().Debug("gpu: context released", "backend", c.backend)
	*c = Context{}
}

// toDevice converts r from surface coordinates with the origin in the
// upper left corner to device coordinates.
func (c *Context) toDevice(r image.Rectangle) image.Rectangle {
	if !c.dev.Caps().BottomLeftOrigin {
		return r
	}
	return image.Rect(r.Min.X, c.height-r.Max.Y, r.Max.X, c.height-r.Min.Y)
}

// check logs a failed backend operation and reports whether it
// succeeded.
func (c *Context) check(op string, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, driver.ErrUnsupported) {
		Logger().Debug("gpu: unsupported operation", "op", op, "backend", c.backend)
	} else {
		Logger().Warn("gpu: operation failed", "op", op, "backend", c.backend, "err", err)
	}
	return false
}
