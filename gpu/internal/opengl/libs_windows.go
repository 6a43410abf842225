// SPDX-License-Identifier: Unlicense OR MIT

package opengl

var (
	glLibNames   = []string{"opengl32.dll"}
	glesLibNames = []string{"libGLESv2.dll"}
)
