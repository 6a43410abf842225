// SPDX-License-Identifier: Unlicense OR MIT

package opengl

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"mochi.dev/gpu/internal/driver"
	"mochi.dev/internal/dl"
	"mochi.dev/internal/egl"
	"mochi.dev/internal/gl"
)

// Backend implements driver.Device.
type Backend struct {
	funcs *gl.Functions
	ctx   *egl.Context
	lib   *dl.Library

	glstate glState

	glver [2]int
	gles  bool
	feats driver.Caps
	desc  driver.Description

	// vertArray is bound for the lifetime of the device. We don't need
	// it, but core desktop OpenGL requires some array bound.
	vertArray gl.VertexArray
	// elemBuf holds the indices of the latest DrawElements call.
	elemBuf gl.Buffer
}

// State tracking.
type glState struct {
	prog     gl.Program
	arrayBuf gl.Buffer
	elemBuf  gl.Buffer
	drawFBO  gl.Framebuffer
	texUnits struct {
		active gl.Enum
		binds  [maxTextureUnits]gl.Texture
	}
	blend struct {
		enable   bool
		src, dst gl.Enum
	}
	clearColor [4]float32
	viewport   [4]int
}

type gpuShader struct {
	backend *Backend
	obj     gl.Shader
}

type gpuProgram struct {
	backend *Backend
	obj     gl.Program
}

type gpuBuffer struct {
	backend *Backend
	obj     gl.Buffer
}

type gpuTexture struct {
	backend *Backend
	obj     gl.Texture
	triple  textureTriple
	width   int
	height  int
}

type gpuFramebuffer struct {
	backend *Backend
	obj     gl.Framebuffer
}

type textureTriple struct {
	internalFormat gl.Enum
	format         gl.Enum
	typ            gl.Enum
	bpp            int
}

const maxTextureUnits = 8

func init() {
	driver.Register(driver.OpenGL, func(cfg driver.ProbeConfig) (driver.Device, error) {
		return newOpenGLDevice(egl.OpenGL, cfg)
	})
	driver.Register(driver.OpenGLES, func(cfg driver.ProbeConfig) (driver.Device, error) {
		return newOpenGLDevice(egl.OpenGLES, cfg)
	})
}

func newOpenGLDevice(api egl.API, cfg driver.ProbeConfig) (driver.Device, error) {
	ctx, err := egl.NewContext(api, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	b := &Backend{ctx: ctx}
	if err := b.init(cfg); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func (b *Backend) init(cfg driver.ProbeConfig) error {
	api := b.ctx.API()
	libs := glLibNames
	if api == egl.OpenGLES {
		libs = glesLibNames
	}
	lib, err := dl.Open(libs...)
	if err != nil {
		return err
	}
	b.lib = lib
	f, err := gl.NewFunctions(lib, b.ctx.GetProcAddress)
	if err != nil {
		return err
	}
	b.funcs = f
	glVer := f.GetString(gl.VERSION)
	ver, gles, err := gl.ParseGLVersion(glVer)
	if err != nil {
		return err
	}
	if gles != (api == egl.OpenGLES) {
		return fmt.Errorf("opengl: %s context reports version %q", api, glVer)
	}
	min := [2]int{3, 2}
	if gles {
		min = [2]int{3, 0}
	}
	if ver[0] < min[0] || ver[0] == min[0] && ver[1] < min[1] {
		return fmt.Errorf("opengl: %s %d.%d or newer required, got %q", api, min[0], min[1], glVer)
	}
	b.glver = ver
	b.gles = gles
	b.feats.BottomLeftOrigin = true
	b.feats.Features = driver.FeatureRender
	if gl.SupportsCompute(ver, gles) {
		b.feats.Features |= driver.FeatureCompute
	}
	b.feats.MaxTextureSize = f.GetInteger(gl.MAX_TEXTURE_SIZE)
	b.desc = driver.Description{
		Device:   f.GetString(gl.RENDERER),
		Vendor:   f.GetString(gl.VENDOR),
		Driver:   glVer,
		Platform: fmt.Sprintf("EGL %s %s (%s)", b.ctx.Version(), b.ctx.Vendor(), lib.Name()),
	}
	if f.HasVertexArrays() {
		b.vertArray = f.CreateVertexArray()
		f.BindVertexArray(b.vertArray)
	} else if !gles {
		return errors.New("opengl: vertex array objects not supported")
	}
	f.PixelStorei(gl.PACK_ALIGNMENT, 1)
	f.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	b.glstate.texUnits.active = gl.TEXTURE0
	b.glstate.blend.src = gl.ONE
	b.glstate.blend.dst = gl.ZERO
	b.glstate.setViewport(f, 0, 0, cfg.Width, cfg.Height)
	interval := 0
	if cfg.VSync {
		interval = 1
	}
	b.ctx.SetSwapInterval(interval)
	return glErr(f)
}

func (s *glState) activeTexture(f *gl.Functions, unit gl.Enum) {
	if unit != s.texUnits.active {
		f.ActiveTexture(unit)
		s.texUnits.active = unit
	}
}

func (s *glState) bindTexture(f *gl.Functions, unit int, t gl.Texture) {
	s.activeTexture(f, gl.TEXTURE0+gl.Enum(unit))
	if t != s.texUnits.binds[unit] {
		f.BindTexture(gl.TEXTURE_2D, t)
		s.texUnits.binds[unit] = t
	}
}

func (s *glState) deleteTexture(f *gl.Functions, t gl.Texture) {
	for unit, curT := range s.texUnits.binds {
		if curT == t {
			s.bindTexture(f, unit, gl.Texture{})
		}
	}
	f.DeleteTexture(t)
}

func (s *glState) deleteFramebuffer(f *gl.Functions, fbo gl.Framebuffer) {
	if fbo == s.drawFBO {
		s.bindFramebuffer(f, gl.Framebuffer{})
	}
	f.DeleteFramebuffer(fbo)
}

func (s *glState) deleteBuffer(f *gl.Functions, b gl.Buffer) {
	if b == s.arrayBuf {
		s.arrayBuf = gl.Buffer{}
	}
	if b == s.elemBuf {
		s.elemBuf = gl.Buffer{}
	}
	f.DeleteBuffer(b)
}

func (s *glState) deleteProgram(f *gl.Functions, p gl.Program) {
	if p == s.prog {
		s.useProgram(f, gl.Program{})
	}
	f.DeleteProgram(p)
}

func (s *glState) useProgram(f *gl.Functions, p gl.Program) {
	if p != s.prog {
		f.UseProgram(p)
		s.prog = p
	}
}

func (s *glState) bindFramebuffer(f *gl.Functions, fbo gl.Framebuffer) {
	if fbo != s.drawFBO {
		f.BindFramebuffer(gl.FRAMEBUFFER, fbo)
		s.drawFBO = fbo
	}
}

func (s *glState) bindBuffer(f *gl.Functions, target gl.Enum, buf gl.Buffer) {
	switch target {
	case gl.ARRAY_BUFFER:
		if buf == s.arrayBuf {
			return
		}
		s.arrayBuf = buf
	case gl.ELEMENT_ARRAY_BUFFER:
		if buf == s.elemBuf {
			return
		}
		s.elemBuf = buf
	default:
		panic("unknown buffer target")
	}
	f.BindBuffer(target, buf)
}

func (s *glState) setClearColor(f *gl.Functions, r, g, b, a float32) {
	col := [4]float32{r, g, b, a}
	if col != s.clearColor {
		f.ClearColor(r, g, b, a)
		s.clearColor = col
	}
}

func (s *glState) setViewport(f *gl.Functions, x, y, width, height int) {
	view := [4]int{x, y, width, height}
	if view != s.viewport {
		f.Viewport(x, y, width, height)
		s.viewport = view
	}
}

func (s *glState) setBlendFunc(f *gl.Functions, src, dst gl.Enum) {
	if src != s.blend.src || dst != s.blend.dst {
		s.blend.src = src
		s.blend.dst = dst
		f.BlendFunc(src, dst)
	}
}

func (s *glState) setBlend(f *gl.Functions, enable bool) {
	if enable == s.blend.enable {
		return
	}
	s.blend.enable = enable
	if enable {
		f.Enable(gl.BLEND)
	} else {
		f.Disable(gl.BLEND)
	}
}

func (b *Backend) Caps() driver.Caps {
	return b.feats
}

func (b *Backend) Describe() driver.Description {
	return b.desc
}

func (b *Backend) Clear(colR, colG, colB, colA float32) error {
	b.glstate.setClearColor(b.funcs, colR, colG, colB, colA)
	b.funcs.Clear(gl.COLOR_BUFFER_BIT)
	return nil
}

func (b *Backend) Viewport(x, y, width, height int) error {
	b.glstate.setViewport(b.funcs, x, y, width, height)
	return nil
}

func (b *Backend) Present() error {
	if err := b.ctx.Present(); err != nil {
		return err
	}
	b.funcs.Finish()
	return glErr(b.funcs)
}

func (b *Backend) NewShader(stage driver.ShaderStage, src string) (driver.Shader, error) {
	typ := gl.Enum(gl.VERTEX_SHADER)
	if stage == driver.StageFragment {
		typ = gl.FRAGMENT_SHADER
	}
	sh, err := gl.CompileShader(b.funcs, typ, src)
	if err != nil {
		var lerr *gl.InfoLogError
		if errors.As(err, &lerr) {
			return nil, &driver.CompileError{Stage: stage, Log: lerr.Log}
		}
		return nil, err
	}
	return &gpuShader{backend: b, obj: sh}, nil
}

func (b *Backend) NewProgram(vs, fs driver.Shader, attribs []string) (driver.Program, error) {
	p, err := gl.LinkProgram(b.funcs, vs.(*gpuShader).obj, fs.(*gpuShader).obj, attribs)
	if err != nil {
		var lerr *gl.InfoLogError
		if errors.As(err, &lerr) {
			return nil, &driver.LinkError{Log: lerr.Log}
		}
		return nil, err
	}
	return &gpuProgram{backend: b, obj: p}, nil
}

func (b *Backend) BindProgram(p driver.Program) error {
	var obj gl.Program
	if p != nil {
		obj = p.(*gpuProgram).obj
	}
	b.glstate.useProgram(b.funcs, obj)
	return nil
}

func (b *Backend) UniformLocation(p driver.Program, name string) (int, error) {
	return b.funcs.GetUniformLocation(p.(*gpuProgram).obj, name).V, nil
}

func (b *Backend) SetUniform(loc int, kind driver.UniformKind, v []float32) error {
	if loc < 0 {
		return nil
	}
	if n := kind.Components(); len(v) < n || len(v) == 0 {
		return fmt.Errorf("opengl: uniform needs %d values, got %d", n, len(v))
	}
	u := gl.Uniform{V: loc}
	f := b.funcs
	switch kind {
	case driver.UniformFloat:
		f.Uniform1f(u, v[0])
	case driver.UniformVec2:
		f.Uniform2f(u, v[0], v[1])
	case driver.UniformVec3:
		f.Uniform3f(u, v[0], v[1], v[2])
	case driver.UniformVec4:
		f.Uniform4f(u, v[0], v[1], v[2], v[3])
	case driver.UniformMat4:
		f.UniformMatrix4fv(u, (*[16]float32)(v))
	case driver.UniformInt:
		f.Uniform1i(u, int(v[0]))
	case driver.UniformFloatArray:
		f.Uniform1fv(u, v)
	default:
		return fmt.Errorf("opengl: unknown uniform kind %d", kind)
	}
	return nil
}

func (b *Backend) NewBuffer(data []byte) (driver.Buffer, error) {
	glErr(b.funcs)
	prev := b.glstate.arrayBuf
	buf := &gpuBuffer{backend: b, obj: b.funcs.CreateBuffer()}
	b.glstate.bindBuffer(b.funcs, gl.ARRAY_BUFFER, buf.obj)
	b.funcs.BufferData(gl.ARRAY_BUFFER, len(data), gl.STATIC_DRAW, data)
	b.glstate.bindBuffer(b.funcs, gl.ARRAY_BUFFER, prev)
	if err := glErr(b.funcs); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

func (b *Backend) BindVertexBuffer(buf driver.Buffer) error {
	var obj gl.Buffer
	if buf != nil {
		obj = buf.(*gpuBuffer).obj
	}
	b.glstate.bindBuffer(b.funcs, gl.ARRAY_BUFFER, obj)
	return nil
}

func (b *Backend) VertexAttrib(index, size, stride, offset int) error {
	if !b.glstate.arrayBuf.Valid() {
		return errors.New("opengl: no vertex buffer bound")
	}
	b.funcs.EnableVertexAttribArray(gl.Attrib(index))
	b.funcs.VertexAttribPointer(gl.Attrib(index), size, gl.FLOAT, false, stride, offset)
	return nil
}

func (b *Backend) NewTexture(format driver.TextureFormat, width, height int, pixels []byte) (driver.Texture, error) {
	var triple textureTriple
	switch format {
	case driver.TextureFormatRGBA8:
		triple = textureTriple{gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, 4}
	case driver.TextureFormatR8:
		triple = textureTriple{gl.R8, gl.RED, gl.UNSIGNED_BYTE, 1}
	default:
		return nil, errors.New("unsupported texture format")
	}
	if width <= 0 || height <= 0 || width > b.feats.MaxTextureSize || height > b.feats.MaxTextureSize {
		return nil, fmt.Errorf("opengl: invalid texture size %dx%d", width, height)
	}
	if pixels != nil && len(pixels) < width*height*triple.bpp {
		return nil, fmt.Errorf("opengl: texture data too short: %d < %d", len(pixels), width*height*triple.bpp)
	}
	glErr(b.funcs)
	tex := &gpuTexture{backend: b, obj: b.funcs.CreateTexture(), triple: triple, width: width, height: height}
	b.glstate.bindTexture(b.funcs, 0, tex.obj)
	b.funcs.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	b.funcs.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	b.funcs.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	b.funcs.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	b.funcs.TexImage2D(gl.TEXTURE_2D, 0, triple.internalFormat, width, height, triple.format, triple.typ, pixels)
	if err := glErr(b.funcs); err != nil {
		tex.Release()
		return nil, err
	}
	return tex, nil
}

func (b *Backend) BindTexture(unit int, t driver.Texture) error {
	if unit < 0 || unit >= maxTextureUnits {
		return fmt.Errorf("opengl: texture unit %d out of range", unit)
	}
	var obj gl.Texture
	if t != nil {
		obj = t.(*gpuTexture).obj
	}
	b.glstate.bindTexture(b.funcs, unit, obj)
	return nil
}

func (b *Backend) NewFramebuffer(tex driver.Texture) (driver.Framebuffer, error) {
	glErr(b.funcs)
	gltex := tex.(*gpuTexture)
	prev := b.glstate.drawFBO
	fbo := &gpuFramebuffer{backend: b, obj: b.funcs.CreateFramebuffer()}
	b.glstate.bindFramebuffer(b.funcs, fbo.obj)
	b.funcs.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, gltex.obj, 0)
	st := b.funcs.CheckFramebufferStatus(gl.FRAMEBUFFER)
	b.glstate.bindFramebuffer(b.funcs, prev)
	if st != gl.FRAMEBUFFER_COMPLETE {
		fbo.Release()
		return nil, fmt.Errorf("incomplete framebuffer, status = 0x%x, err = %d", st, b.funcs.GetError())
	}
	return fbo, nil
}

func (b *Backend) BindFramebuffer(fbo driver.Framebuffer) error {
	var obj gl.Framebuffer
	if fbo != nil {
		obj = fbo.(*gpuFramebuffer).obj
	}
	b.glstate.bindFramebuffer(b.funcs, obj)
	return nil
}

func (b *Backend) CopyTexture(dst driver.Texture, dstOrigin image.Point, srcRect image.Rectangle) error {
	t := dst.(*gpuTexture)
	if srcRect.Empty() {
		return nil
	}
	b.glstate.bindTexture(b.funcs, 0, t.obj)
	b.funcs.CopyTexSubImage2D(gl.TEXTURE_2D, 0, dstOrigin.X, dstOrigin.Y, srcRect.Min.X, srcRect.Min.Y, srcRect.Dx(), srcRect.Dy())
	return nil
}

func (b *Backend) SetBlend(enable bool) error {
	b.glstate.setBlend(b.funcs, enable)
	return nil
}

func (b *Backend) BlendFunc(sfactor, dfactor driver.BlendFactor) error {
	b.glstate.setBlendFunc(b.funcs, toGLBlendFactor(sfactor), toGLBlendFactor(dfactor))
	return nil
}

func toGLBlendFactor(f driver.BlendFactor) gl.Enum {
	switch f {
	case driver.BlendFactorZero:
		return gl.ZERO
	case driver.BlendFactorOne:
		return gl.ONE
	case driver.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA
	case driver.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case driver.BlendFactorDstColor:
		return gl.DST_COLOR
	case driver.BlendFactorOneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case driver.BlendFactorOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	default:
		panic("unsupported blend factor")
	}
}

func (b *Backend) DrawArrays(mode driver.DrawMode, first, count int) error {
	b.funcs.DrawArrays(toGLDrawMode(mode), first, count)
	return nil
}

// DrawElements uploads indices to a transient element buffer; core
// profiles do not accept client side index arrays.
func (b *Backend) DrawElements(mode driver.DrawMode, indices []uint32) error {
	if len(indices) == 0 {
		return nil
	}
	if !b.elemBuf.Valid() {
		b.elemBuf = b.funcs.CreateBuffer()
	}
	b.glstate.bindBuffer(b.funcs, gl.ELEMENT_ARRAY_BUFFER, b.elemBuf)
	data := unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*4)
	b.funcs.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data), gl.DYNAMIC_DRAW, data)
	b.funcs.DrawElements(toGLDrawMode(mode), len(indices), gl.UNSIGNED_INT, 0)
	return nil
}

func toGLDrawMode(mode driver.DrawMode) gl.Enum {
	switch mode {
	case driver.DrawModeTriangles:
		return gl.TRIANGLES
	case driver.DrawModeTriangleStrip:
		return gl.TRIANGLE_STRIP
	case driver.DrawModeTriangleFan:
		return gl.TRIANGLE_FAN
	case driver.DrawModeLines:
		return gl.LINES
	case driver.DrawModeLineStrip:
		return gl.LINE_STRIP
	case driver.DrawModePoints:
		return gl.POINTS
	default:
		panic("unsupported draw mode")
	}
}

func (b *Backend) ReadPixels(src image.Rectangle, pixels []byte) error {
	glErr(b.funcs)
	if len(pixels) < src.Dx()*src.Dy()*4 {
		return errors.New("unexpected RGBA size")
	}
	b.funcs.ReadPixels(src.Min.X, src.Min.Y, src.Dx(), src.Dy(), gl.RGBA, gl.UNSIGNED_BYTE, pixels)
	return glErr(b.funcs)
}

func glErr(f *gl.Functions) error {
	if st := f.GetError(); st != gl.NO_ERROR {
		return fmt.Errorf("glGetError: %#x", st)
	}
	return nil
}

// Release deletes the device's own objects and destroys the context.
// Objects created by the device must be released first.
func (b *Backend) Release() {
	if b.funcs != nil {
		if b.elemBuf.Valid() {
			b.glstate.deleteBuffer(b.funcs, b.elemBuf)
		}
		if b.vertArray.Valid() {
			b.funcs.DeleteVertexArray(b.vertArray)
		}
		b.funcs.Finish()
	}
	b.ctx.Release()
	b.lib.Close()
	*b = Backend{}
}

func (s *gpuShader) Release() {
	if s.backend.funcs == nil || !s.obj.Valid() {
		return
	}
	s.backend.funcs.DeleteShader(s.obj)
	s.obj = gl.Shader{}
}

func (p *gpuProgram) Release() {
	if p.backend.funcs == nil || !p.obj.Valid() {
		return
	}
	p.backend.glstate.deleteProgram(p.backend.funcs, p.obj)
	p.obj = gl.Program{}
}

func (b *gpuBuffer) Release() {
	if b.backend.funcs == nil || !b.obj.Valid() {
		return
	}
	b.backend.glstate.deleteBuffer(b.backend.funcs, b.obj)
	b.obj = gl.Buffer{}
}

func (t *gpuTexture) Release() {
	if t.backend.funcs == nil || !t.obj.Valid() {
		return
	}
	t.backend.glstate.deleteTexture(t.backend.funcs, t.obj)
	t.obj = gl.Texture{}
}

func (f *gpuFramebuffer) Release() {
	if f.backend.funcs == nil || !f.obj.Valid() {
		return
	}
	f.backend.glstate.deleteFramebuffer(f.backend.funcs, f.obj)
	f.obj = gl.Framebuffer{}
}
