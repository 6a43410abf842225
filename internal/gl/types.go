// SPDX-License-Identifier: Unlicense OR MIT

package gl

// Object names. The zero value names no object.
type (
	Buffer      struct{ V uint32 }
	Framebuffer struct{ V uint32 }
	Program     struct{ V uint32 }
	Shader      struct{ V uint32 }
	Texture     struct{ V uint32 }
	VertexArray struct{ V uint32 }
)

// Uniform is a uniform location. Unused uniforms have location -1.
type Uniform struct{ V int }

func (b Buffer) Valid() bool      { return b.V != 0 }
func (f Framebuffer) Valid() bool { return f.V != 0 }
func (p Program) Valid() bool     { return p.V != 0 }
func (s Shader) Valid() bool      { return s.V != 0 }
func (t Texture) Valid() bool     { return t.V != 0 }
func (a VertexArray) Valid() bool { return a.V != 0 }
func (u Uniform) Valid() bool     { return u.V >= 0 }
