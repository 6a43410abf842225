// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"golang.org/x/image/math/f32"

	"mochi.dev/gpu/internal/driver"
)

// UniformKind is the type of a uniform value.
type UniformKind = driver.UniformKind

const (
	UniformFloat      = driver.UniformFloat
	UniformVec2       = driver.UniformVec2
	UniformVec3       = driver.UniformVec3
	UniformVec4       = driver.UniformVec4
	UniformMat4       = driver.UniformMat4
	UniformInt        = driver.UniformInt
	UniformFloatArray = driver.UniformFloatArray
)

// Uniform is a typed uniform value. Matrices are stored in column
// major order.
type Uniform struct {
	Kind   UniformKind
	Values []float32
}

func Float(v float32) Uniform {
	return Uniform{Kind: UniformFloat, Values: []float32{v}}
}

func Vec2(v f32.Vec2) Uniform {
	return Uniform{Kind: UniformVec2, Values: v[:]}
}

func Vec3(v [3]float32) Uniform {
	return Uniform{Kind: UniformVec3, Values: v[:]}
}

func Vec4(v f32.Vec4) Uniform {
	return Uniform{Kind: UniformVec4, Values: v[:]}
}

// Mat4 converts the row major m to a uniform.
func Mat4(m f32.Mat4) Uniform {
	v := make([]float32, 16)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			v[c*4+r] = m[r*4+c]
		}
	}
	return Uniform{Kind: UniformMat4, Values: v}
}

// Int is an integer uniform, such as a sampler unit.
func Int(v int) Uniform {
	return Uniform{Kind: UniformInt, Values: []float32{float32(v)}}
}

// Floats is a float array uniform.
func Floats(v []float32) Uniform {
	return Uniform{Kind: UniformFloatArray, Values: v}
}

func (u Uniform) valid() bool {
	if n := u.Kind.Components(); n > 0 {
		return len(u.Values) >= n
	}
	return u.Kind == UniformFloatArray && len(u.Values) > 0
}

// SetUniform uploads u to the uniform name of p. p is bound for the
// upload if it is not current. Names that p does not use are ignored.
func (c *Context) SetUniform(p Shader, name string, u Uniform) {
	if !c.Valid() {
		return
	}
	prog, ok := c.shaders[p]
	if !ok {
		return
	}
	if !u.valid() {
		Logger().Warn("gpu: malformed uniform", "name", name, "kind", u.Kind, "values", len(u.Values))
		return
	}
	loc, ok := prog.locs[name]
	if !ok {
		var err error
		loc, err = c.dev.UniformLocation(prog.prog, name)
		if !c.check("UniformLocation", err) {
			return
		}
		prog.locs[name] = loc
	}
	if loc < 0 {
		return
	}
	if p != c.current {
		if !c.check("UseShader", c.dev.BindProgram(prog.prog)) {
			return
		}
		defer c.bindCurrent()
	}
	c.check("SetUniform", c.dev.SetUniform(loc, u.Kind, u.Values))
}

func (c *Context) SetUniformFloat(name string, v float32) {
	c.SetUniform(c.current, name, Float(v))
}

func (c *Context) SetUniformVec2(name string, v f32.Vec2) {
	c.SetUniform(c.current, name, Vec2(v))
}

func (c *Context) SetUniformVec3(name string, v [3]float32) {
	c.SetUniform(c.current, name, Vec3(v))
}

func (c *Context) SetUniformVec4(name string, v f32.Vec4) {
	c.SetUniform(c.current, name, Vec4(v))
}

func (c *Context) SetUniformMat4(name string, m f32.Mat4) {
	c.SetUniform(c.current, name, Mat4(m))
}

func (c *Context) SetUniformInt(name string, v int) {
	c.SetUniform(c.current, name, Int(v))
}

// UploadUniform uploads values of the given kind to the current
// program.
func (c *Context) UploadUniform(name string, kind UniformKind, values []float32) {
	c.SetUniform(c.current, name, Uniform{Kind: kind, Values: values})
}

// bindCurrent rebinds the program recorded as current.
func (c *Context) bindCurrent() {
	var p driver.Program
	if cur, ok := c.shaders[c.current]; ok {
		p = cur.prog
	}
	c.check("UseShader", c.dev.BindProgram(p))
}
