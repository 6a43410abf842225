// SPDX-License-Identifier: Unlicense OR MIT

package egl

// ANGLE provides EGL on macOS.
var libNames = []string{"libEGL.dylib", "@executable_path/libEGL.dylib"}
