// SPDX-License-Identifier: Unlicense OR MIT

package driver

import (
	"errors"
	"fmt"
	"image"
)

// Device represents the abstraction of underlying GPU
// APIs such as Vulkan and OpenGL. Every rendering operation
// reports ErrUnsupported when the backend cannot perform it.
type Device interface {
	Caps() Caps
	Describe() Description

	Clear(r, g, b, a float32) error
	Viewport(x, y, width, height int) error
	// Present blocks until the backend has finished the swap.
	Present() error

	// NewShader compiles a single stage. Compile failures are
	// reported as *CompileError.
	NewShader(stage ShaderStage, src string) (Shader, error)
	// NewProgram links vs and fs, binding attribs to consecutive
	// attribute locations. The stages remain owned by the caller.
	NewProgram(vs, fs Shader, attribs []string) (Program, error)
	// BindProgram makes p current. A nil p unbinds.
	BindProgram(p Program) error
	// UniformLocation returns the location of name in p, or -1.
	UniformLocation(p Program, name string) (int, error)
	// SetUniform uploads v to loc in the bound program.
	SetUniform(loc int, kind UniformKind, v []float32) error

	NewBuffer(data []byte) (Buffer, error)
	// BindVertexBuffer binds b as the vertex attribute source. A nil b
	// unbinds.
	BindVertexBuffer(b Buffer) error
	// VertexAttrib sources float32 attribute index from the bound vertex
	// buffer.
	VertexAttrib(index, size, stride, offset int) error

	// NewTexture creates a linearly filtered, edge clamped texture.
	// pixels may be nil.
	NewTexture(format TextureFormat, width, height int, pixels []byte) (Texture, error)
	BindTexture(unit int, t Texture) error
	NewFramebuffer(t Texture) (Framebuffer, error)
	// BindFramebuffer directs rendering to fb. A nil fb selects the
	// surface.
	BindFramebuffer(fb Framebuffer) error
	// CopyTexture copies srcRect of the bound framebuffer to dst at
	// dstOrigin. Coordinates are in the device's origin convention.
	CopyTexture(dst Texture, dstOrigin image.Point, srcRect image.Rectangle) error

	SetBlend(enable bool) error
	BlendFunc(sfactor, dfactor BlendFactor) error

	DrawArrays(mode DrawMode, first, count int) error
	DrawElements(mode DrawMode, indices []uint32) error

	// ReadPixels reads src of the bound framebuffer as RGBA8.
	ReadPixels(src image.Rectangle, pixels []byte) error

	Release()
}

type Shader interface {
	Release()
}

type Program interface {
	Release()
}

type Buffer interface {
	Release()
}

type Texture interface {
	Release()
}

type Framebuffer interface {
	Release()
}

// Caps describes what a Device can do.
type Caps struct {
	// BottomLeftOrigin is true if the driver has the origin in the lower left
	// corner. The OpenGL driver returns true.
	BottomLeftOrigin bool
	Features         Features
	MaxTextureSize   int
}

// Description holds the identity strings of a Device.
type Description struct {
	Device string
	Vendor string
	Driver string
	// Platform names the window system or loader layer the device
	// was created through.
	Platform string
}

type Features uint

const (
	// FeatureRender is set by devices that implement the rendering
	// operations.
	FeatureRender Features = 1 << iota
	FeatureCompute
)

func (f Features) Has(feats Features) bool {
	return f&feats == feats
}

func (f Features) String() string {
	var s string
	if f.Has(FeatureRender) {
		s += "render,"
	}
	if f.Has(FeatureCompute) {
		s += "compute,"
	}
	if s == "" {
		return "none"
	}
	return s[:len(s)-1]
}

type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderStage(%d)", uint8(s))
	}
}

type DrawMode uint8

const (
	DrawModeTriangles DrawMode = iota
	DrawModeTriangleStrip
	DrawModeTriangleFan
	DrawModeLines
	DrawModeLineStrip
	DrawModePoints
)

type BlendFactor uint8

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstColor
	BlendFactorOneMinusSrcColor
	BlendFactorOneMinusDstAlpha
)

type TextureFormat uint8

const (
	TextureFormatRGBA8 TextureFormat = iota
	// TextureFormatR8 is a single channel format for masks.
	TextureFormatR8
)

type UniformKind uint8

const (
	UniformFloat UniformKind = iota
	UniformVec2
	UniformVec3
	UniformVec4
	UniformMat4
	UniformInt
	UniformFloatArray
)

// Components returns the number of float32 values of a single value
// of kind, or 0 for arrays.
func (k UniformKind) Components() int {
	switch k {
	case UniformFloat, UniformInt:
		return 1
	case UniformVec2:
		return 2
	case UniformVec3:
		return 3
	case UniformVec4:
		return 4
	case UniformMat4:
		return 16
	default:
		return 0
	}
}

var ErrUnsupported = errors.New("driver: operation not supported")

// CompileError reports a shader stage that failed to compile.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, e.Log)
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "program link failed: " + e.Log
}

// DownloadImage reads r of the bound framebuffer into an image with
// the origin in the upper left corner.
func DownloadImage(d Device, r image.Rectangle) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rectangle{Max: r.Size()})
	if err := d.ReadPixels(r, img.Pix); err != nil {
		return nil, err
	}
	if d.Caps().BottomLeftOrigin {
		// OpenGL origin is in the lower-left corner. Flip the image to
		// match.
		flipImageY(r.Dx()*4, r.Dy(), img.Pix)
	}
	return img, nil
}

func flipImageY(stride, height int, pixels []byte) {
	row := make([]uint8, stride)
	for y := 0; y < height/2; y++ {
		y1 := height - y - 1
		dest := y1 * stride
		src := y * stride
		copy(row, pixels[dest:])
		copy(pixels[dest:], pixels[src:src+len(row)])
		copy(pixels[src:], row)
	}
}
