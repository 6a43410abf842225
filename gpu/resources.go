// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"fmt"
	"strings"
	"unsafe"

	"mochi.dev/gpu/internal/driver"
)

// Shader is a handle to a linked program. The zero value is never
// returned by a successful creation.
type Shader uint32

// Buffer is a handle to a vertex buffer.
type Buffer uint32

// Texture is a handle to an RGBA8 texture.
type Texture uint32

// ResourceCounts lists the live resources of a Context.
type ResourceCounts struct {
	Shaders  int
	Buffers  int
	Textures int
}

const maxTextureUnits = 8

// ShaderError reports a shader that failed to build.
type ShaderError struct {
	// Stage is "vertex", "fragment" or "link".
	Stage string
	// Log is the diagnostic log of the backend.
	Log string
	Err error
}

type program struct {
	prog driver.Program
	locs map[string]int
}

type vertexAttrib struct {
	buf                  Buffer
	size, stride, offset int
}

func (e *ShaderError) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("gpu: %s shader: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("gpu: %s shader: %s", e.Stage, strings.TrimSpace(e.Log))
}

func (e *ShaderError) Unwrap() error {
	return e.Err
}

func newShaderError(stage string, err error) *ShaderError {
	e := &ShaderError{Stage: stage, Err: err}
	switch err := err.(type) {
	case *driver.CompileError:
		e.Log = err.Log
	case *driver.LinkError:
		e.Log = err.Log
	}
	return e
}

// newHandle issues the next handle. Handles of every kind share one
// counter so that a handle is never reused within a Context.
func (c *Context) newHandle() uint32 {
	c.handles++
	return c.handles
}

// CreateShader compiles and links a program from complete GLSL
// sources. Attributes named in attribs are bound to consecutive
// locations starting at 0.
func (c *Context) CreateShader(vertexSrc, fragmentSrc string, attribs ...string) (Shader, error) {
	if !c.Valid() {
		return 0, ErrInvalidContext
	}
	p, err := c.buildProgram(vertexSrc, fragmentSrc, attribs)
	if err != nil {
		Logger().Debug("gpu: shader build failed", "err", err)
		return 0, err
	}
	h := Shader(c.newHandle())
	c.shaders[h] = &program{prog: p, locs: make(map[string]int)}
	return h, nil
}

func (c *Context) buildProgram(vertexSrc, fragmentSrc string, attribs []string) (driver.Program, error) {
	vs, err := c.dev.NewShader(driver.StageVertex, vertexSrc)
	if err != nil {
		return nil, newShaderError("vertex", err)
	}
	defer vs.Release()
	fs, err := c.dev.NewShader(driver.StageFragment, fragmentSrc)
	if err != nil {
		return nil, newShaderError("fragment", err)
	}
	defer fs.Release()
	p, err := c.dev.NewProgram(vs, fs, attribs)
	if err != nil {
		return nil, newShaderError("link", err)
	}
	return p, nil
}

// UseShader binds s for subsequent draws. Unknown handles are ignored.
func (c *Context) UseShader(s Shader) {
	if !c.Valid() {
		return
	}
	p, ok := c.shaders[s]
	if !ok {
		return
	}
	if c.check("UseShader", c.dev.BindProgram(p.prog)) {
		c.current = s
	}
}

// CurrentShader returns the bound program, or 0.
func (c *Context) CurrentShader() Shader {
	if !c.Valid() {
		return 0
	}
	return c.current
}

// DeleteShader releases s. Unknown handles are ignored.
func (c *Context) DeleteShader(s Shader) {
	if !c.Valid() {
		return
	}
	p, ok := c.shaders[s]
	if !ok {
		return
	}
	if c.current == s {
		c.check("UseShader", c.dev.BindProgram(nil))
		c.current = 0
	}
	p.prog.Release()
	delete(c.shaders, s)
}

// CreateBuffer uploads data to a new vertex buffer.
func (c *Context) CreateBuffer(data []byte) (Buffer, error) {
	if !c.Valid() {
		return 0, ErrInvalidContext
	}
	b, err := c.dev.NewBuffer(data)
	if err != nil {
		return 0, fmt.Errorf("gpu: create buffer: %w", err)
	}
	h := Buffer(c.newHandle())
	c.buffers[h] = b
	return h, nil
}

// CreateBufferFloat32 is like CreateBuffer for float32 vertex data.
func (c *Context) CreateBufferFloat32(data []float32) (Buffer, error) {
	return c.CreateBuffer(float32Bytes(data))
}

func float32Bytes(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

// BindBuffer makes b the source of VertexAttrib. Unknown handles are
// ignored.
func (c *Context) BindBuffer(b Buffer) {
	if !c.Valid() {
		return
	}
	buf, ok := c.buffers[b]
	if !ok {
		return
	}
	if c.check("BindBuffer", c.dev.BindVertexBuffer(buf)) {
		c.vertex = b
	}
}

// DeleteBuffer releases b. Unknown handles are ignored.
func (c *Context) DeleteBuffer(b Buffer) {
	if !c.Valid() {
		return
	}
	buf, ok := c.buffers[b]
	if !ok {
		return
	}
	if c.vertex == b {
		c.check("BindBuffer", c.dev.BindVertexBuffer(nil))
		c.vertex = 0
	}
	for i, a := range c.attribs {
		if a.buf == b {
			delete(c.attribs, i)
		}
	}
	buf.Release()
	delete(c.buffers, b)
}

// VertexAttrib sources float32 attribute index from the bound buffer,
// size components per vertex. stride and offset are in bytes.
func (c *Context) VertexAttrib(index, size, stride, offset int) {
	if !c.Valid() || c.vertex == 0 {
		return
	}
	if c.check("VertexAttrib", c.dev.VertexAttrib(index, size, stride, offset)) {
		c.attribs[index] = vertexAttrib{buf: c.vertex, size: size, stride: stride, offset: offset}
	}
}

// CreateTexture creates a linearly filtered RGBA8 texture. pixels may
// be nil, leaving the contents undefined.
func (c *Context) CreateTexture(width, height int, pixels []byte) (Texture, error) {
	if !c.Valid() {
		return 0, ErrInvalidContext
	}
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%w: texture %dx%d", ErrInvalidSize, width, height)
	}
	if pixels != nil && len(pixels) < width*height*4 {
		return 0, fmt.Errorf("gpu: texture data too short: %d bytes for %dx%d", len(pixels), width, height)
	}
	t, err := c.dev.NewTexture(driver.TextureFormatRGBA8, width, height, pixels)
	if err != nil {
		return 0, fmt.Errorf("gpu: create texture: %w", err)
	}
	h := Texture(c.newHandle())
	c.textures[h] = t
	return h, nil
}

// BindTexture binds t to a texture unit. Unknown handles and units
// out of range are ignored.
func (c *Context) BindTexture(t Texture, slot int) {
	if !c.Valid() || slot < 0 || slot >= maxTextureUnits {
		return
	}
	tex, ok := c.textures[t]
	if !ok {
		return
	}
	if c.check("BindTexture", c.dev.BindTexture(slot, tex)) {
		c.units[slot] = t
	}
}

// DeleteTexture releases t. Unknown handles are ignored.
func (c *Context) DeleteTexture(t Texture) {
	if !c.Valid() {
		return
	}
	tex, ok := c.textures[t]
	if !ok {
		return
	}
	for i, u := range c.units {
		if u == t {
			c.check("BindTexture", c.dev.BindTexture(i, nil))
			c.units[i] = 0
		}
	}
	tex.Release()
	delete(c.textures, t)
}

// ResourceCounts returns the number of live resources created through
// c.
func (c *Context) ResourceCounts() ResourceCounts {
	if !c.Valid() {
		return ResourceCounts{}
	}
	return ResourceCounts{
		Shaders:  len(c.shaders),
		Buffers:  len(c.buffers),
		Textures: len(c.textures),
	}
}
