// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd

package opengl

var (
	glLibNames   = []string{"libOpenGL.so.0", "libGL.so.1"}
	glesLibNames = []string{"libGLESv2.so.2", "libGLESv2.so"}
)
