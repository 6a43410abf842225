// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"errors"
	"fmt"
	"strings"
)

// InfoLogError is returned when a shader fails to compile or a program
// fails to link. Log holds the driver's info log.
type InfoLogError struct {
	Op  string
	Log string
}

func (e *InfoLogError) Error() string {
	if e.Log == "" {
		return e.Op + " failed"
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Log)
}

// CompileShader compiles src as a shader of type typ. A shader that
// fails to compile is deleted before returning.
func CompileShader(ctx *Functions, typ Enum, src string) (Shader, error) {
	sh := ctx.CreateShader(typ)
	if !sh.Valid() {
		return Shader{}, errors.New("glCreateShader failed")
	}
	ctx.ShaderSource(sh, src)
	ctx.CompileShader(sh)
	if ctx.GetShaderi(sh, COMPILE_STATUS) == 0 {
		log := ctx.GetShaderInfoLog(sh)
		ctx.DeleteShader(sh)
		return Shader{}, &InfoLogError{Op: "shader compilation", Log: strings.TrimSpace(log)}
	}
	return sh, nil
}

// LinkProgram links vs and fs into a new program, binding attribs to
// consecutive attribute locations. The stages are detached from the
// caller's ownership only on success; a program that fails to link is
// deleted.
func LinkProgram(ctx *Functions, vs, fs Shader, attribs []string) (Program, error) {
	prog := ctx.CreateProgram()
	if !prog.Valid() {
		return Program{}, errors.New("glCreateProgram failed")
	}
	ctx.AttachShader(prog, vs)
	ctx.AttachShader(prog, fs)
	for i, a := range attribs {
		ctx.BindAttribLocation(prog, Attrib(i), a)
	}
	ctx.LinkProgram(prog)
	if ctx.GetProgrami(prog, LINK_STATUS) == 0 {
		log := ctx.GetProgramInfoLog(prog)
		ctx.DeleteProgram(prog)
		return Program{}, &InfoLogError{Op: "program link", Log: strings.TrimSpace(log)}
	}
	return prog, nil
}

// ParseGLVersion extracts the major and minor version from a
// GL_VERSION string. OpenGL ES strings are prefixed with "OpenGL ES".
func ParseGLVersion(glVer string) (ver [2]int, es bool, err error) {
	if _, err := fmt.Sscanf(glVer, "OpenGL ES %d.%d", &ver[0], &ver[1]); err == nil {
		return ver, true, nil
	} else if _, err := fmt.Sscanf(glVer, "%d.%d", &ver[0], &ver[1]); err == nil {
		return ver, false, nil
	}
	return ver, false, fmt.Errorf("failed to parse OpenGL version (%s)", glVer)
}

// SupportsCompute reports whether a context of the given version
// exposes compute shaders: OpenGL ES 3.1 or desktop OpenGL 4.3.
func SupportsCompute(ver [2]int, es bool) bool {
	min := [2]int{4, 3}
	if es {
		min = [2]int{3, 1}
	}
	return ver[0] > min[0] || ver[0] == min[0] && ver[1] >= min[1]
}
