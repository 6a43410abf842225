// SPDX-License-Identifier: Unlicense OR MIT

package opengl

// Only ANGLE's OpenGL ES is reachable through EGL on macOS.
var (
	glLibNames   []string
	glesLibNames = []string{"libGLESv2.dylib", "@executable_path/libGLESv2.dylib"}
)
