// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"runtime"
	"strings"
	"unsafe"

	"mochi.dev/internal/dl"
)

// Functions is the table of OpenGL (ES) entry points. The table is
// bound once per context; calls must be made on the thread the context
// is current on.
type Functions struct {
	glActiveTexture           func(texture uint32)
	glAttachShader            func(p, s uint32)
	glBindAttribLocation      func(p, a uint32, name *byte)
	glBindBuffer              func(target, b uint32)
	glBindFramebuffer         func(target, fb uint32)
	glBindTexture             func(target, t uint32)
	glBindVertexArray         func(a uint32)
	glBlendFunc               func(sfactor, dfactor uint32)
	glBufferData              func(target uint32, size int, data unsafe.Pointer, usage uint32)
	glCheckFramebufferStatus  func(target uint32) uint32
	glClear                   func(mask uint32)
	glClearColor              func(r, g, b, a float32)
	glCompileShader           func(s uint32)
	glCopyTexSubImage2D       func(target uint32, level, xoffset, yoffset, x, y, width, height int32)
	glCreateProgram           func() uint32
	glCreateShader            func(ty uint32) uint32
	glDeleteBuffers           func(n int32, bufs *uint32)
	glDeleteFramebuffers      func(n int32, fbs *uint32)
	glDeleteProgram           func(p uint32)
	glDeleteShader            func(s uint32)
	glDeleteTextures          func(n int32, texs *uint32)
	glDeleteVertexArrays      func(n int32, arrays *uint32)
	glDisable                 func(cap uint32)
	glDrawArrays              func(mode uint32, first, count int32)
	glDrawElements            func(mode uint32, count int32, ty uint32, offset uintptr)
	glEnable                  func(cap uint32)
	glEnableVertexAttribArray func(a uint32)
	glFinish                  func()
	glFramebufferTexture2D    func(target, attachment, texTarget, t uint32, level int32)
	glGenBuffers              func(n int32, bufs *uint32)
	glGenFramebuffers         func(n int32, fbs *uint32)
	glGenTextures             func(n int32, texs *uint32)
	glGenVertexArrays         func(n int32, arrays *uint32)
	glGetError                func() uint32
	glGetIntegerv             func(pname uint32, data *int32)
	glGetProgramInfoLog       func(p uint32, bufSize int32, length *int32, log *byte)
	glGetProgramiv            func(p, pname uint32, params *int32)
	glGetShaderInfoLog        func(s uint32, bufSize int32, length *int32, log *byte)
	glGetShaderiv             func(s, pname uint32, params *int32)
	glGetString               func(name uint32) *byte
	glGetUniformLocation      func(p uint32, name *byte) int32
	glLinkProgram             func(p uint32)
	glPixelStorei             func(pname uint32, param int32)
	glReadPixels              func(x, y, width, height int32, format, ty uint32, data unsafe.Pointer)
	glShaderSource            func(s uint32, count int32, src **byte, length *int32)
	glTexImage2D              func(target uint32, level, internalFormat, width, height, border int32, format, ty uint32, data unsafe.Pointer)
	glTexParameteri           func(target, pname uint32, param int32)
	glUniform1f               func(loc int32, v0 float32)
	glUniform1fv              func(loc, count int32, v *float32)
	glUniform1i               func(loc, v0 int32)
	glUniform2f               func(loc int32, v0, v1 float32)
	glUniform3f               func(loc int32, v0, v1, v2 float32)
	glUniform4f               func(loc int32, v0, v1, v2, v3 float32)
	glUniformMatrix4fv        func(loc, count int32, transpose bool, v *float32)
	glUseProgram              func(p uint32)
	glVertexAttribPointer     func(index uint32, size int32, ty uint32, normalized bool, stride int32, offset uintptr)
	glViewport                func(x, y, width, height int32)
}

// NewFunctions binds the GL entry points from lib, falling back to
// getProcAddress for symbols the library does not export.
func NewFunctions(lib *dl.Library, getProcAddress func(name string) uintptr) (*Functions, error) {
	f := new(Functions)
	funcs := []dl.Func{
		{Ptr: &f.glActiveTexture, Name: "glActiveTexture"},
		{Ptr: &f.glAttachShader, Name: "glAttachShader"},
		{Ptr: &f.glBindAttribLocation, Name: "glBindAttribLocation"},
		{Ptr: &f.glBindBuffer, Name: "glBindBuffer"},
		{Ptr: &f.glBindFramebuffer, Name: "glBindFramebuffer"},
		{Ptr: &f.glBindTexture, Name: "glBindTexture"},
		{Ptr: &f.glBindVertexArray, Name: "glBindVertexArray", Optional: true},
		{Ptr: &f.glBlendFunc, Name: "glBlendFunc"},
		{Ptr: &f.glBufferData, Name: "glBufferData"},
		{Ptr: &f.glCheckFramebufferStatus, Name: "glCheckFramebufferStatus"},
		{Ptr: &f.glClear, Name: "glClear"},
		{Ptr: &f.glClearColor, Name: "glClearColor"},
		{Ptr: &f.glCompileShader, Name: "glCompileShader"},
		{Ptr: &f.glCopyTexSubImage2D, Name: "glCopyTexSubImage2D"},
		{Ptr: &f.glCreateProgram, Name: "glCreateProgram"},
		{Ptr: &f.glCreateShader, Name: "glCreateShader"},
		{Ptr: &f.glDeleteBuffers, Name: "glDeleteBuffers"},
		{Ptr: &f.glDeleteFramebuffers, Name: "glDeleteFramebuffers"},
		{Ptr: &f.glDeleteProgram, Name: "glDeleteProgram"},
		{Ptr: &f.glDeleteShader, Name: "glDeleteShader"},
		{Ptr: &f.glDeleteTextures, Name: "glDeleteTextures"},
		{Ptr: &f.glDeleteVertexArrays, Name: "glDeleteVertexArrays", Optional: true},
		{Ptr: &f.glDisable, Name: "glDisable"},
		{Ptr: &f.glDrawArrays, Name: "glDrawArrays"},
		{Ptr: &f.glDrawElements, Name: "glDrawElements"},
		{Ptr: &f.glEnable, Name: "glEnable"},
		{Ptr: &f.glEnableVertexAttribArray, Name: "glEnableVertexAttribArray"},
		{Ptr: &f.glFinish, Name: "glFinish"},
		{Ptr: &f.glFramebufferTexture2D, Name: "glFramebufferTexture2D"},
		{Ptr: &f.glGenBuffers, Name: "glGenBuffers"},
		{Ptr: &f.glGenFramebuffers, Name: "glGenFramebuffers"},
		{Ptr: &f.glGenTextures, Name: "glGenTextures"},
		{Ptr: &f.glGenVertexArrays, Name: "glGenVertexArrays", Optional: true},
		{Ptr: &f.glGetError, Name: "glGetError"},
		{Ptr: &f.glGetIntegerv, Name: "glGetIntegerv"},
		{Ptr: &f.glGetProgramInfoLog, Name: "glGetProgramInfoLog"},
		{Ptr: &f.glGetProgramiv, Name: "glGetProgramiv"},
		{Ptr: &f.glGetShaderInfoLog, Name: "glGetShaderInfoLog"},
		{Ptr: &f.glGetShaderiv, Name: "glGetShaderiv"},
		{Ptr: &f.glGetString, Name: "glGetString"},
		{Ptr: &f.glGetUniformLocation, Name: "glGetUniformLocation"},
		{Ptr: &f.glLinkProgram, Name: "glLinkProgram"},
		{Ptr: &f.glPixelStorei, Name: "glPixelStorei"},
		{Ptr: &f.glReadPixels, Name: "glReadPixels"},
		{Ptr: &f.glShaderSource, Name: "glShaderSource"},
		{Ptr: &f.glTexImage2D, Name: "glTexImage2D"},
		{Ptr: &f.glTexParameteri, Name: "glTexParameteri"},
		{Ptr: &f.glUniform1f, Name: "glUniform1f"},
		{Ptr: &f.glUniform1fv, Name: "glUniform1fv"},
		{Ptr: &f.glUniform1i, Name: "glUniform1i"},
		{Ptr: &f.glUniform2f, Name: "glUniform2f"},
		{Ptr: &f.glUniform3f, Name: "glUniform3f"},
		{Ptr: &f.glUniform4f, Name: "glUniform4f"},
		{Ptr: &f.glUniformMatrix4fv, Name: "glUniformMatrix4fv"},
		{Ptr: &f.glUseProgram, Name: "glUseProgram"},
		{Ptr: &f.glVertexAttribPointer, Name: "glVertexAttribPointer"},
		{Ptr: &f.glViewport, Name: "glViewport"},
	}
	if err := dl.Bind(funcs, lib.Sym, getProcAddress); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Functions) ActiveTexture(texture Enum) {
	f.glActiveTexture(uint32(texture))
}

func (f *Functions) AttachShader(p Program, s Shader) {
	f.glAttachShader(p.V, s.V)
}

func (f *Functions) BindAttribLocation(p Program, a Attrib, name string) {
	cname := dl.CString(name)
	f.glBindAttribLocation(p.V, uint32(a), cname)
	runtime.KeepAlive(cname)
}

func (f *Functions) BindBuffer(target Enum, b Buffer) {
	f.glBindBuffer(uint32(target), b.V)
}

func (f *Functions) BindFramebuffer(target Enum, fb Framebuffer) {
	f.glBindFramebuffer(uint32(target), fb.V)
}

func (f *Functions) BindTexture(target Enum, t Texture) {
	f.glBindTexture(uint32(target), t.V)
}

// HasVertexArrays reports whether vertex array objects are available.
func (f *Functions) HasVertexArrays() bool {
	return f.glBindVertexArray != nil && f.glGenVertexArrays != nil && f.glDeleteVertexArrays != nil
}

func (f *Functions) BindVertexArray(a VertexArray) {
	f.glBindVertexArray(a.V)
}

func (f *Functions) BlendFunc(sfactor, dfactor Enum) {
	f.glBlendFunc(uint32(sfactor), uint32(dfactor))
}

func (f *Functions) BufferData(target Enum, size int, usage Enum, data []byte) {
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}
	f.glBufferData(uint32(target), size, p, uint32(usage))
	runtime.KeepAlive(data)
}

func (f *Functions) CheckFramebufferStatus(target Enum) Enum {
	return Enum(f.glCheckFramebufferStatus(uint32(target)))
}

func (f *Functions) Clear(mask Enum) {
	f.glClear(uint32(mask))
}

func (f *Functions) ClearColor(red, green, blue, alpha float32) {
	f.glClearColor(red, green, blue, alpha)
}

func (f *Functions) CompileShader(s Shader) {
	f.glCompileShader(s.V)
}

func (f *Functions) CopyTexSubImage2D(target Enum, level, xoffset, yoffset, x, y, width, height int) {
	f.glCopyTexSubImage2D(uint32(target), int32(level), int32(xoffset), int32(yoffset), int32(x), int32(y), int32(width), int32(height))
}

func (f *Functions) CreateBuffer() Buffer {
	var b uint32
	f.glGenBuffers(1, &b)
	return Buffer{b}
}

func (f *Functions) CreateFramebuffer() Framebuffer {
	var fb uint32
	f.glGenFramebuffers(1, &fb)
	return Framebuffer{fb}
}

func (f *Functions) CreateProgram() Program {
	return Program{f.glCreateProgram()}
}

func (f *Functions) CreateShader(ty Enum) Shader {
	return Shader{f.glCreateShader(uint32(ty))}
}

func (f *Functions) CreateTexture() Texture {
	var t uint32
	f.glGenTextures(1, &t)
	return Texture{t}
}

func (f *Functions) CreateVertexArray() VertexArray {
	var a uint32
	f.glGenVertexArrays(1, &a)
	return VertexArray{a}
}

func (f *Functions) DeleteBuffer(v Buffer) {
	b := v.V
	f.glDeleteBuffers(1, &b)
}

func (f *Functions) DeleteFramebuffer(v Framebuffer) {
	fb := v.V
	f.glDeleteFramebuffers(1, &fb)
}

func (f *Functions) DeleteProgram(p Program) {
	f.glDeleteProgram(p.V)
}

func (f *Functions) DeleteShader(s Shader) {
	f.glDeleteShader(s.V)
}

func (f *Functions) DeleteTexture(v Texture) {
	t := v.V
	f.glDeleteTextures(1, &t)
}

func (f *Functions) DeleteVertexArray(v VertexArray) {
	a := v.V
	f.glDeleteVertexArrays(1, &a)
}

func (f *Functions) Disable(cap Enum) {
	f.glDisable(uint32(cap))
}

func (f *Functions) DrawArrays(mode Enum, first, count int) {
	f.glDrawArrays(uint32(mode), int32(first), int32(count))
}

// DrawElements draws from the bound element array buffer, starting at
// byte offset off.
func (f *Functions) DrawElements(mode Enum, count int, ty Enum, off int) {
	f.glDrawElements(uint32(mode), int32(count), uint32(ty), uintptr(off))
}

func (f *Functions) Enable(cap Enum) {
	f.glEnable(uint32(cap))
}

func (f *Functions) EnableVertexAttribArray(a Attrib) {
	f.glEnableVertexAttribArray(uint32(a))
}

func (f *Functions) Finish() {
	f.glFinish()
}

func (f *Functions) FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int) {
	f.glFramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), t.V, int32(level))
}

func (f *Functions) GetError() Enum {
	return Enum(f.glGetError())
}

func (f *Functions) GetInteger(pname Enum) int {
	var v int32
	f.glGetIntegerv(uint32(pname), &v)
	return int(v)
}

func (f *Functions) GetProgrami(p Program, pname Enum) int {
	var v int32
	f.glGetProgramiv(p.V, uint32(pname), &v)
	return int(v)
}

func (f *Functions) GetProgramInfoLog(p Program) string {
	n := f.GetProgrami(p, INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	f.glGetProgramInfoLog(p.V, int32(n), nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (f *Functions) GetShaderi(s Shader, pname Enum) int {
	var v int32
	f.glGetShaderiv(s.V, uint32(pname), &v)
	return int(v)
}

func (f *Functions) GetShaderInfoLog(s Shader) string {
	n := f.GetShaderi(s, INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	f.glGetShaderInfoLog(s.V, int32(n), nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (f *Functions) GetString(pname Enum) string {
	return dl.GoString(f.glGetString(uint32(pname)))
}

func (f *Functions) GetUniformLocation(p Program, name string) Uniform {
	cname := dl.CString(name)
	loc := f.glGetUniformLocation(p.V, cname)
	runtime.KeepAlive(cname)
	return Uniform{int(loc)}
}

func (f *Functions) LinkProgram(p Program) {
	f.glLinkProgram(p.V)
}

func (f *Functions) PixelStorei(pname Enum, param int) {
	f.glPixelStorei(uint32(pname), int32(param))
}

func (f *Functions) ReadPixels(x, y, width, height int, format, ty Enum, data []byte) {
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}
	f.glReadPixels(int32(x), int32(y), int32(width), int32(height), uint32(format), uint32(ty), p)
	runtime.KeepAlive(data)
}

func (f *Functions) ShaderSource(s Shader, src string) {
	csrc := dl.CString(src)
	f.glShaderSource(s.V, 1, &csrc, nil)
	runtime.KeepAlive(csrc)
}

func (f *Functions) TexImage2D(target Enum, level int, internalFormat Enum, width, height int, format, ty Enum, data []byte) {
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}
	f.glTexImage2D(uint32(target), int32(level), int32(internalFormat), int32(width), int32(height), 0, uint32(format), uint32(ty), p)
	runtime.KeepAlive(data)
}

func (f *Functions) TexParameteri(target, pname Enum, param int) {
	f.glTexParameteri(uint32(target), uint32(pname), int32(param))
}

func (f *Functions) Uniform1f(dst Uniform, v float32) {
	f.glUniform1f(int32(dst.V), v)
}

func (f *Functions) Uniform1fv(dst Uniform, v []float32) {
	if len(v) == 0 {
		return
	}
	f.glUniform1fv(int32(dst.V), int32(len(v)), &v[0])
	runtime.KeepAlive(v)
}

func (f *Functions) Uniform1i(dst Uniform, v int) {
	f.glUniform1i(int32(dst.V), int32(v))
}

func (f *Functions) Uniform2f(dst Uniform, v0, v1 float32) {
	f.glUniform2f(int32(dst.V), v0, v1)
}

func (f *Functions) Uniform3f(dst Uniform, v0, v1, v2 float32) {
	f.glUniform3f(int32(dst.V), v0, v1, v2)
}

func (f *Functions) Uniform4f(dst Uniform, v0, v1, v2, v3 float32) {
	f.glUniform4f(int32(dst.V), v0, v1, v2, v3)
}

// UniformMatrix4fv uploads a single column-major 4x4 matrix.
func (f *Functions) UniformMatrix4fv(dst Uniform, m *[16]float32) {
	f.glUniformMatrix4fv(int32(dst.V), 1, false, &m[0])
}

func (f *Functions) UseProgram(p Program) {
	f.glUseProgram(p.V)
}

func (f *Functions) VertexAttribPointer(dst Attrib, size int, ty Enum, normalized bool, stride, offset int) {
	f.glVertexAttribPointer(uint32(dst), int32(size), uint32(ty), normalized, int32(stride), uintptr(offset))
}

func (f *Functions) Viewport(x, y, width, height int) {
	f.glViewport(int32(x), int32(y), int32(width), int32(height))
}
