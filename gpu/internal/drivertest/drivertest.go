// SPDX-License-Identifier: Unlicense OR MIT

// Package drivertest provides an in-memory driver.Device that records
// every call and counts live objects, for testing code above the
// driver layer without a GPU.
package drivertest

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"

	"mochi.dev/gpu/internal/driver"
)

// Device is a fake driver.Device. The exported configuration fields
// may be set before the device is handed out.
type Device struct {
	CapsValue   driver.Caps
	Description driver.Description
	// Unsupported makes every rendering operation fail with
	// driver.ErrUnsupported.
	Unsupported bool
	// FailCompile holds the info log of stages that fail to compile.
	FailCompile map[driver.ShaderStage]string
	// FailLink, if set, is the info log of every failing link.
	FailLink string

	// Calls logs every operation in order.
	Calls []string

	Released bool
	Blend    bool
	Src, Dst driver.BlendFactor
	View     image.Rectangle
	Program  *Program
	Vertex   *Buffer
	Target   *Framebuffer
	Textures [8]*Texture
	Attribs  map[int][3]int
	Draws    []Draw

	clearColor [4]float32
	surface    [4]float32
	live       map[string]int
}

// Draw records a draw call.
type Draw struct {
	Mode    driver.DrawMode
	First   int
	Count   int
	Indices []uint32
	Program *Program
	Target  *Framebuffer
	Blend   bool
	Src     driver.BlendFactor
	Dst     driver.BlendFactor
}

type object struct {
	dev      *Device
	kind     string
	released bool
}

type Shader struct {
	object
	Stage driver.ShaderStage
	Src   string
}

type Program struct {
	object
	Attribs  []string
	src      string
	locs     map[string]int
	Uniforms map[string][]float32
}

type Buffer struct {
	object
	Data []byte
}

type Texture struct {
	object
	Format        driver.TextureFormat
	Width, Height int
	Pixels        []byte
}

type Framebuffer struct {
	object
	Texture *Texture
	color   [4]float32
}

// New returns a rendering capable device.
func New() *Device {
	return &Device{
		CapsValue: driver.Caps{
			BottomLeftOrigin: true,
			Features:         driver.FeatureRender,
			MaxTextureSize:   4096,
		},
		Description: driver.Description{Device: "fake", Vendor: "mochi", Driver: "test 1.0", Platform: "memory"},
		FailCompile: make(map[driver.ShaderStage]string),
		Attribs:     make(map[int][3]int),
		live:        make(map[string]int),
	}
}

// Prober returns a prober handing out d, or failing with err if d is
// nil.
func Prober(d *Device, err error) driver.Prober {
	return func(driver.ProbeConfig) (driver.Device, error) {
		if d == nil {
			return nil, err
		}
		return d, err
	}
}

// Install registers p for b for the duration of the test.
func Install(t testing.TB, b driver.Backend, p driver.Prober) {
	t.Helper()
	prev := driver.Register(b, p)
	t.Cleanup(func() { driver.Register(b, prev) })
}

// Live returns the number of live objects of a kind: "shader",
// "program", "buffer", "texture" or "framebuffer".
func (d *Device) Live(kind string) int {
	return d.live[kind]
}

// LiveTotal returns the number of live objects of every kind.
func (d *Device) LiveTotal() int {
	n := 0
	for _, c := range d.live {
		n += c
	}
	return n
}

// CallCount returns the number of logged calls starting with prefix.
func (d *Device) CallCount(prefix string) int {
	n := 0
	for _, c := range d.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (d *Device) log(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) newObject(kind string) object {
	d.live[kind]++
	return object{dev: d, kind: kind}
}

func (o *object) Release() {
	if o.released {
		return
	}
	o.released = true
	o.dev.live[o.kind]--
	o.dev.log("Release %s", o.kind)
}

func (p *Program) Release() {
	if p.dev.Program == p {
		p.dev.Program = nil
	}
	p.object.Release()
}

func (d *Device) unsupported(op string) error {
	d.log("%s", op)
	if d.Unsupported {
		return driver.ErrUnsupported
	}
	return nil
}

func (d *Device) Caps() driver.Caps {
	return d.CapsValue
}

func (d *Device) Describe() driver.Description {
	return d.Description
}

func (d *Device) Clear(r, g, b, a float32) error {
	if err := d.unsupported("Clear"); err != nil {
		return err
	}
	d.clearColor = [4]float32{r, g, b, a}
	if d.Target != nil {
		d.Target.color = d.clearColor
	} else {
		d.surface = d.clearColor
	}
	return nil
}

func (d *Device) Viewport(x, y, width, height int) error {
	if err := d.unsupported("Viewport"); err != nil {
		return err
	}
	d.View = image.Rect(x, y, x+width, y+height)
	return nil
}

func (d *Device) Present() error {
	return d.unsupported("Present")
}

func (d *Device) NewShader(stage driver.ShaderStage, src string) (driver.Shader, error) {
	if err := d.unsupported("NewShader " + stage.String()); err != nil {
		return nil, err
	}
	if log, ok := d.FailCompile[stage]; ok {
		return nil, &driver.CompileError{Stage: stage, Log: log}
	}
	return &Shader{object: d.newObject("shader"), Stage: stage, Src: src}, nil
}

func (d *Device) NewProgram(vs, fs driver.Shader, attribs []string) (driver.Program, error) {
	if err := d.unsupported("NewProgram"); err != nil {
		return nil, err
	}
	v, f := vs.(*Shader), fs.(*Shader)
	if v.released || f.released {
		return nil, errors.New("drivertest: link of released shader")
	}
	if d.FailLink != "" {
		return nil, &driver.LinkError{Log: d.FailLink}
	}
	return &Program{
		object:   d.newObject("program"),
		Attribs:  attribs,
		src:      v.Src + "\n" + f.Src,
		locs:     make(map[string]int),
		Uniforms: make(map[string][]float32),
	}, nil
}

func (d *Device) BindProgram(p driver.Program) error {
	if err := d.unsupported("BindProgram"); err != nil {
		return err
	}
	d.Program = nil
	if p != nil {
		d.Program = p.(*Program)
	}
	return nil
}

// UniformLocation resolves names that occur in the program's sources.
func (d *Device) UniformLocation(p driver.Program, name string) (int, error) {
	if err := d.unsupported("UniformLocation " + name); err != nil {
		return -1, err
	}
	prog := p.(*Program)
	if !strings.Contains(prog.src, name) {
		return -1, nil
	}
	loc, ok := prog.locs[name]
	if !ok {
		loc = len(prog.locs)
		prog.locs[name] = loc
	}
	return loc, nil
}

func (d *Device) SetUniform(loc int, kind driver.UniformKind, v []float32) error {
	if err := d.unsupported(fmt.Sprintf("SetUniform %d", loc)); err != nil {
		return err
	}
	if d.Program == nil {
		return errors.New("drivertest: no program bound")
	}
	for name, l := range d.Program.locs {
		if l == loc {
			d.Program.Uniforms[name] = append([]float32(nil), v...)
		}
	}
	return nil
}

// Uniform returns the latest value uploaded to name of the bound
// program.
func (d *Device) Uniform(name string) []float32 {
	if d.Program == nil {
		return nil
	}
	return d.Program.Uniforms[name]
}

func (d *Device) NewBuffer(data []byte) (driver.Buffer, error) {
	if err := d.unsupported("NewBuffer"); err != nil {
		return nil, err
	}
	return &Buffer{object: d.newObject("buffer"), Data: append([]byte(nil), data...)}, nil
}

func (d *Device) BindVertexBuffer(b driver.Buffer) error {
	if err := d.unsupported("BindVertexBuffer"); err != nil {
		return err
	}
	d.Vertex = nil
	if b != nil {
		d.Vertex = b.(*Buffer)
	}
	return nil
}

func (d *Device) VertexAttrib(index, size, stride, offset int) error {
	if err := d.unsupported("VertexAttrib"); err != nil {
		return err
	}
	if d.Vertex == nil {
		return errors.New("drivertest: no vertex buffer bound")
	}
	d.Attribs[index] = [3]int{size, stride, offset}
	return nil
}

func (d *Device) NewTexture(format driver.TextureFormat, width, height int, pixels []byte) (driver.Texture, error) {
	if err := d.unsupported(fmt.Sprintf("NewTexture %dx%d", width, height)); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("drivertest: invalid texture size %dx%d", width, height)
	}
	bpp := 4
	if format == driver.TextureFormatR8 {
		bpp = 1
	}
	if pixels != nil && len(pixels) < width*height*bpp {
		return nil, errors.New("drivertest: texture data too short")
	}
	return &Texture{object: d.newObject("texture"), Format: format, Width: width, Height: height, Pixels: pixels}, nil
}

func (d *Device) BindTexture(unit int, t driver.Texture) error {
	if err := d.unsupported(fmt.Sprintf("BindTexture %d", unit)); err != nil {
		return err
	}
	if unit < 0 || unit >= len(d.Textures) {
		return fmt.Errorf("drivertest: texture unit %d out of range", unit)
	}
	d.Textures[unit] = nil
	if t != nil {
		d.Textures[unit] = t.(*Texture)
	}
	return nil
}

func (d *Device) NewFramebuffer(t driver.Texture) (driver.Framebuffer, error) {
	if err := d.unsupported("NewFramebuffer"); err != nil {
		return nil, err
	}
	return &Framebuffer{object: d.newObject("framebuffer"), Texture: t.(*Texture)}, nil
}

func (d *Device) BindFramebuffer(fb driver.Framebuffer) error {
	if err := d.unsupported("BindFramebuffer"); err != nil {
		return err
	}
	d.Target = nil
	if fb != nil {
		d.Target = fb.(*Framebuffer)
	}
	return nil
}

func (d *Device) CopyTexture(dst driver.Texture, dstOrigin image.Point, srcRect image.Rectangle) error {
	return d.unsupported(fmt.Sprintf("CopyTexture %v %v", dstOrigin, srcRect))
}

func (d *Device) SetBlend(enable bool) error {
	if err := d.unsupported(fmt.Sprintf("SetBlend %v", enable)); err != nil {
		return err
	}
	d.Blend = enable
	return nil
}

func (d *Device) BlendFunc(sfactor, dfactor driver.BlendFactor) error {
	if err := d.unsupported(fmt.Sprintf("BlendFunc %d %d", sfactor, dfactor)); err != nil {
		return err
	}
	d.Src, d.Dst = sfactor, dfactor
	return nil
}

func (d *Device) draw(dr Draw) {
	dr.Program = d.Program
	dr.Target = d.Target
	dr.Blend, dr.Src, dr.Dst = d.Blend, d.Src, d.Dst
	d.Draws = append(d.Draws, dr)
}

func (d *Device) DrawArrays(mode driver.DrawMode, first, count int) error {
	if err := d.unsupported(fmt.Sprintf("DrawArrays %d %d %d", mode, first, count)); err != nil {
		return err
	}
	d.draw(Draw{Mode: mode, First: first, Count: count})
	return nil
}

func (d *Device) DrawElements(mode driver.DrawMode, indices []uint32) error {
	if err := d.unsupported(fmt.Sprintf("DrawElements %d %d", mode, len(indices))); err != nil {
		return err
	}
	d.draw(Draw{Mode: mode, Count: len(indices), Indices: append([]uint32(nil), indices...)})
	return nil
}

// ReadPixels fills pixels with the latest clear color of the bound
// framebuffer.
func (d *Device) ReadPixels(src image.Rectangle, pixels []byte) error {
	if err := d.unsupported("ReadPixels"); err != nil {
		return err
	}
	n := src.Dx() * src.Dy() * 4
	if len(pixels) < n {
		return errors.New("unexpected RGBA size")
	}
	c := d.surface
	if d.Target != nil {
		c = d.Target.color
	}
	var px [4]byte
	for i, v := range c {
		px[i] = byte(v*255 + .5)
	}
	for i := 0; i < n; i += 4 {
		copy(pixels[i:], px[:])
	}
	return nil
}

func (d *Device) Release() {
	d.log("Release device")
	d.Released = true
}
