// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"image"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"

	"mochi.dev/gpu/internal/driver"
	"mochi.dev/graph"
	"mochi.dev/internal/f32color"
)

// BlendMode selects the blend function set by CompositePass.
type BlendMode = graph.BlendMode

const (
	BlendNormal   = graph.BlendNormal
	BlendMultiply = graph.BlendMultiply
	BlendScreen   = graph.BlendScreen
	BlendOverlay  = graph.BlendOverlay
)

// BlendFactor is a factor of the blend equation.
type BlendFactor = driver.BlendFactor

const (
	BlendZero             = driver.BlendFactorZero
	BlendOne              = driver.BlendFactorOne
	BlendSrcAlpha         = driver.BlendFactorSrcAlpha
	BlendOneMinusSrcAlpha = driver.BlendFactorOneMinusSrcAlpha
	BlendDstColor         = driver.BlendFactorDstColor
	BlendOneMinusSrcColor = driver.BlendFactorOneMinusSrcColor
	BlendOneMinusDstAlpha = driver.BlendFactorOneMinusDstAlpha
)

// BlendState is the blend configuration of subsequent draws.
type BlendState struct {
	Enabled bool
	Src     BlendFactor
	Dst     BlendFactor
}

// effects holds the resources of the effect passes.
type effects struct {
	quad     driver.Buffer
	programs [numPrograms]*builtin
	targets  *resourceCache[targetKey]
}

type builtin struct {
	prog driver.Program
	locs map[string]int
}

type targetKey struct {
	format driver.TextureFormat
	size   image.Point
	index  int
}

// renderTarget is a scratch texture with a framebuffer, the size of
// the surface.
type renderTarget struct {
	tex driver.Texture
	fbo driver.Framebuffer
}

func (t *renderTarget) release() {
	t.fbo.Release()
	t.tex.Release()
}

func (e *effects) frame() {
	e.targets.frame()
}

func (e *effects) release() {
	e.targets.release()
	for i, p := range e.programs {
		if p != nil {
			p.prog.Release()
			e.programs[i] = nil
		}
	}
	if e.quad != nil {
		e.quad.Release()
		e.quad = nil
	}
}

func blendFactors(m BlendMode) (src, dst BlendFactor, ok bool) {
	switch m {
	case BlendNormal:
		return BlendSrcAlpha, BlendOneMinusSrcAlpha, true
	case BlendMultiply:
		return BlendDstColor, BlendZero, true
	case BlendScreen:
		return BlendOne, BlendOneMinusSrcColor, true
	case BlendOverlay:
		return BlendSrcAlpha, BlendOne, true
	default:
		return 0, 0, false
	}
}

// CompositePass enables blending with the function of mode for
// subsequent draws. Unknown modes change nothing.
func (c *Context) CompositePass(mode BlendMode) {
	if !c.Valid() {
		return
	}
	src, dst, ok := blendFactors(mode)
	if !ok {
		Logger().Debug("gpu: unknown blend mode", "mode", mode)
		return
	}
	c.blend = BlendState{Enabled: true, Src: src, Dst: dst}
	c.applyBlend()
}

// BlendState returns the blend configuration.
func (c *Context) BlendState() BlendState {
	if !c.Valid() {
		return BlendState{}
	}
	return c.blend
}

func (c *Context) applyBlend() {
	c.check("SetBlend", c.dev.SetBlend(c.blend.Enabled))
	c.check("BlendFunc", c.dev.BlendFunc(c.blend.Src, c.blend.Dst))
}

// BlurPass blurs region of the surface with a Gaussian kernel of the
// given radius, using samples taps on each side of a pixel. An empty
// region selects the whole surface.
func (c *Context) BlurPass(region image.Rectangle, radius float32, samples int) {
	if !c.Valid() || samples < 1 || !(radius > 0) {
		return
	}
	r := c.region(region)
	if r.Empty() {
		return
	}
	c.runPass("BlurPass", func() error {
		dr := c.toDevice(r)
		src, err := c.target(driver.TextureFormatRGBA8, 0)
		if err != nil {
			return err
		}
		tmp, err := c.target(driver.TextureFormatRGBA8, 1)
		if err != nil {
			return err
		}
		if err := c.copySurface(src, dr); err != nil {
			return err
		}
		return c.blur(src, tmp, nil, dr, radius, samples)
	})
}

// ShadowPass draws a shadow of the content in region beneath it,
// displaced by offset. The shadow is the alpha of the content, blurred
// by blur pixels and tinted by color with its alpha scaled by opacity.
func (c *Context) ShadowPass(region image.Rectangle, offset f32.Vec2, color f32.Vec4, blur, opacity float32) {
	if !c.Valid() {
		return
	}
	tint := f32color.FromVec4(color).MulAlpha(opacity).Clamp().Premultiply()
	if !(tint.A > 0) {
		return
	}
	r := c.region(region)
	if r.Empty() {
		return
	}
	margin := 0
	if blur > 0 {
		margin = int(math32.Ceil(blur))
	}
	src := r.Inset(-margin).Intersect(c.surface())
	off := image.Pt(int(math32.Round(offset[0])), int(math32.Round(offset[1])))
	c.runPass("ShadowPass", func() error {
		return c.shadow(src, off, tint.Vec4(), blur)
	})
}

func (c *Context) shadow(src image.Rectangle, off image.Point, tint f32.Vec4, blur float32) error {
	dr := c.toDevice(src)
	scratch, err := c.target(driver.TextureFormatRGBA8, 0)
	if err != nil {
		return err
	}
	mask, err := c.target(driver.TextureFormatR8, 0)
	if err != nil {
		return err
	}
	if err := c.copySurface(scratch, dr); err != nil {
		return err
	}

	// Extract the alpha channel.
	b, err := c.useBuiltin(progMask)
	if err != nil {
		return err
	}
	if err := c.dev.BindFramebuffer(mask.fbo); err != nil {
		return err
	}
	if err := c.dev.Clear(0, 0, 0, 0); err != nil {
		return err
	}
	if err := c.bindSource(b, scratch); err != nil {
		return err
	}
	if err := c.drawQuad(b, c.rectNDC(dr), c.rectUV(dr)); err != nil {
		return err
	}

	if blur > 0 {
		tmp, err := c.target(driver.TextureFormatR8, 1)
		if err != nil {
			return err
		}
		samples := min(max(int(blur), 1), maxBlurTaps)
		if err := c.blur(mask, tmp, mask.fbo, dr, blur, samples); err != nil {
			return err
		}
	}

	// Composite the tinted mask beneath the surface content.
	b, err = c.useBuiltin(progTint)
	if err != nil {
		return err
	}
	if err := c.dev.BindFramebuffer(nil); err != nil {
		return err
	}
	if err := c.dev.SetBlend(true); err != nil {
		return err
	}
	if err := c.dev.BlendFunc(BlendOneMinusDstAlpha, BlendOne); err != nil {
		return err
	}
	if err := c.bindSource(b, mask); err != nil {
		return err
	}
	if err := c.uniform(b, "u_color", UniformVec4, tint[:]...); err != nil {
		return err
	}
	dst := c.toDevice(src.Add(off))
	return c.drawQuad(b, c.rectNDC(dst), c.rectUV(dr))
}

// ColorAdjustPass scales the brightness, contrast and saturation of
// region. A factor of 1 leaves the corresponding property unchanged.
func (c *Context) ColorAdjustPass(region image.Rectangle, brightness, contrast, saturation float32) {
	if !c.Valid() || brightness == 1 && contrast == 1 && saturation == 1 {
		return
	}
	r := c.region(region)
	if r.Empty() {
		return
	}
	c.runPass("ColorAdjustPass", func() error {
		dr := c.toDevice(r)
		scratch, err := c.target(driver.TextureFormatRGBA8, 0)
		if err != nil {
			return err
		}
		if err := c.copySurface(scratch, dr); err != nil {
			return err
		}
		b, err := c.useBuiltin(progAdjust)
		if err != nil {
			return err
		}
		if err := c.bindSource(b, scratch); err != nil {
			return err
		}
		if err := c.uniform(b, "u_adjust", UniformVec3, brightness, contrast, saturation); err != nil {
			return err
		}
		if err := c.uniform(b, "u_luma", UniformVec3, f32color.LumaR, f32color.LumaG, f32color.LumaB); err != nil {
			return err
		}
		return c.drawQuad(b, c.rectNDC(dr), c.rectUV(dr))
	})
}

// DrawRect fills a rectangle in surface pixels with color, using the
// current blend configuration.
func (c *Context) DrawRect(x, y, width, height float32, color f32.Vec4) {
	if !c.Valid() || !(width > 0) || !(height > 0) {
		return
	}
	c.runPass("DrawRect", func() error {
		b, err := c.useBuiltin(progSolid)
		if err != nil {
			return err
		}
		if err := c.uniform(b, "u_color", UniformVec4, color[:]...); err != nil {
			return err
		}
		y0, y1 := y, y+height
		if c.dev.Caps().BottomLeftOrigin {
			h := float32(c.height)
			y0, y1 = h-y1, h-y0
		}
		return c.drawQuad(b, c.toNDC(x, y0, x+width, y1), []float32{0, 0, 1, 1})
	})
}

// blur runs a separable Gaussian blur of dr from src into dst, through
// tmp. A nil dst is the surface.
func (c *Context) blur(src, tmp *renderTarget, dst driver.Framebuffer, dr image.Rectangle, radius float32, samples int) error {
	b, err := c.useBuiltin(progBlur)
	if err != nil {
		return err
	}
	weights, step := gaussianKernel(radius, samples)
	w, h := float32(c.width), float32(c.height)
	clampRect := []float32{
		(float32(dr.Min.X) + .5) / w, (float32(dr.Min.Y) + .5) / h,
		(float32(dr.Max.X) - .5) / w, (float32(dr.Max.Y) - .5) / h,
	}
	if err := c.uniform(b, "u_weights", UniformFloatArray, weights...); err != nil {
		return err
	}
	if err := c.uniform(b, "u_taps", UniformInt, float32(len(weights)-1)); err != nil {
		return err
	}
	if err := c.uniform(b, "u_clamp", UniformVec4, clampRect...); err != nil {
		return err
	}
	if err := c.dev.SetBlend(false); err != nil {
		return err
	}
	ndc, uv := c.rectNDC(dr), c.rectUV(dr)

	// Horizontal pass.
	if err := c.dev.BindFramebuffer(tmp.fbo); err != nil {
		return err
	}
	if err := c.bindSource(b, src); err != nil {
		return err
	}
	if err := c.uniform(b, "u_dir", UniformVec2, step/w, 0); err != nil {
		return err
	}
	if err := c.drawQuad(b, ndc, uv); err != nil {
		return err
	}

	// Vertical pass.
	if err := c.dev.BindFramebuffer(dst); err != nil {
		return err
	}
	if err := c.bindSource(b, tmp); err != nil {
		return err
	}
	if err := c.uniform(b, "u_dir", UniformVec2, 0, step/h); err != nil {
		return err
	}
	return c.drawQuad(b, ndc, uv)
}

// gaussianKernel returns the normalized weights of the center tap and
// the samples taps on one side, and the distance in pixels between
// taps.
func gaussianKernel(radius float32, samples int) (weights []float32, step float32) {
	n := min(samples, maxBlurTaps)
	step = radius / float32(n)
	sigma := radius / 2
	weights = make([]float32, n+1)
	var sum float32
	for i := range weights {
		x := float32(i) * step
		w := math32.Exp(-x * x / (2 * sigma * sigma))
		weights[i] = w
		if i == 0 {
			sum += w
		} else {
			sum += 2 * w
		}
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights, step
}

// runPass runs an effect pass and restores the state it changes.
func (c *Context) runPass(name string, pass func() error) {
	if !c.dev.Caps().Features.Has(FeatureRender) {
		Logger().Debug("gpu: pass skipped", "pass", name, "backend", c.backend)
		return
	}
	err := pass()
	c.restore()
	c.check(name, err)
}

// restore re-establishes the state visible to users after a pass.
func (c *Context) restore() {
	d := c.dev
	c.check("restore", d.BindFramebuffer(nil))
	v := c.viewport
	c.check("restore", d.Viewport(v.Min.X, v.Min.Y, v.Dx(), v.Dy()))
	c.applyBlend()
	c.bindCurrent()
	if a, ok := c.attribs[0]; ok {
		if b, ok := c.buffers[a.buf]; ok {
			c.check("restore", d.BindVertexBuffer(b))
			c.check("restore", d.VertexAttrib(0, a.size, a.stride, a.offset))
		}
	}
	var vb driver.Buffer
	if b, ok := c.buffers[c.vertex]; ok {
		vb = b
	}
	c.check("restore", d.BindVertexBuffer(vb))
	var t driver.Texture
	if tex, ok := c.textures[c.units[0]]; ok {
		t = tex
	}
	c.check("restore", d.BindTexture(0, t))
}

func (c *Context) fxState() *effects {
	if c.fx == nil {
		c.fx = &effects{targets: newResourceCache[targetKey]()}
	}
	return c.fx
}

// useBuiltin binds a built-in program, building it on first use.
func (c *Context) useBuiltin(id programID) (*builtin, error) {
	fx := c.fxState()
	b := fx.programs[id]
	if b == nil {
		h := c.header()
		p, err := c.buildProgram(h+quadVertex, h+fragmentSources[id], []string{"pos"})
		if err != nil {
			return nil, err
		}
		b = &builtin{prog: p, locs: make(map[string]int)}
		fx.programs[id] = b
	}
	return b, c.dev.BindProgram(b.prog)
}

// uniform sets a uniform of the bound built-in program b.
func (c *Context) uniform(b *builtin, name string, kind UniformKind, v ...float32) error {
	loc, ok := b.locs[name]
	if !ok {
		var err error
		loc, err = c.dev.UniformLocation(b.prog, name)
		if err != nil {
			return err
		}
		b.locs[name] = loc
	}
	if loc < 0 {
		return nil
	}
	return c.dev.SetUniform(loc, kind, v)
}

// target returns a scratch target, creating it if needed.
func (c *Context) target(format driver.TextureFormat, index int) (*renderTarget, error) {
	fx := c.fxState()
	k := targetKey{format: format, size: image.Pt(c.width, c.height), index: index}
	if r, ok := fx.targets.get(k); ok {
		return r.(*renderTarget), nil
	}
	tex, err := c.dev.NewTexture(format, k.size.X, k.size.Y, nil)
	if err != nil {
		return nil, err
	}
	fbo, err := c.dev.NewFramebuffer(tex)
	if err != nil {
		tex.Release()
		return nil, err
	}
	t := &renderTarget{tex: tex, fbo: fbo}
	fx.targets.put(k, t)
	return t, nil
}

func (c *Context) quad() (driver.Buffer, error) {
	fx := c.fxState()
	if fx.quad == nil {
		b, err := c.dev.NewBuffer(float32Bytes([]float32{0, 0, 1, 0, 0, 1, 1, 1}))
		if err != nil {
			return nil, err
		}
		fx.quad = b
	}
	return fx.quad, nil
}

// copySurface copies dr of the surface into the same place of t, and
// prepares rendering in surface sized targets.
func (c *Context) copySurface(t *renderTarget, dr image.Rectangle) error {
	if err := c.dev.Viewport(0, 0, c.width, c.height); err != nil {
		return err
	}
	if err := c.dev.SetBlend(false); err != nil {
		return err
	}
	if err := c.dev.BindFramebuffer(nil); err != nil {
		return err
	}
	return c.dev.CopyTexture(t.tex, dr.Min, dr)
}

// bindSource binds the texture of t as the u_tex sampler of b.
func (c *Context) bindSource(b *builtin, t *renderTarget) error {
	if err := c.dev.BindTexture(0, t.tex); err != nil {
		return err
	}
	return c.uniform(b, "u_tex", UniformInt, 0)
}

// drawQuad draws the unit quad with the bound program b, covering ndc
// and sampling uv.
func (c *Context) drawQuad(b *builtin, ndc, uv []float32) error {
	q, err := c.quad()
	if err != nil {
		return err
	}
	if err := c.dev.BindVertexBuffer(q); err != nil {
		return err
	}
	if err := c.dev.VertexAttrib(0, 2, 8, 0); err != nil {
		return err
	}
	if err := c.uniform(b, "u_rect", UniformVec4, ndc...); err != nil {
		return err
	}
	if err := c.uniform(b, "u_uvRect", UniformVec4, uv...); err != nil {
		return err
	}
	return c.dev.DrawArrays(driver.DrawModeTriangleStrip, 0, 4)
}

func (c *Context) surface() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// region clips r to the surface. The empty rectangle selects the
// whole surface.
func (c *Context) region(r image.Rectangle) image.Rectangle {
	if r.Empty() {
		return c.surface()
	}
	return r.Intersect(c.surface())
}

func (c *Context) toNDC(x0, y0, x1, y1 float32) []float32 {
	w, h := float32(c.width), float32(c.height)
	return []float32{x0/w*2 - 1, y0/h*2 - 1, x1/w*2 - 1, y1/h*2 - 1}
}

func (c *Context) rectNDC(r image.Rectangle) []float32 {
	return c.toNDC(float32(r.Min.X), float32(r.Min.Y), float32(r.Max.X), float32(r.Max.Y))
}

func (c *Context) rectUV(r image.Rectangle) []float32 {
	w, h := float32(c.width), float32(c.height)
	return []float32{float32(r.Min.X) / w, float32(r.Min.Y) / h, float32(r.Max.X) / w, float32(r.Max.Y) / h}
}
