// SPDX-License-Identifier: Unlicense OR MIT

package egl

var libNames = []string{"libEGL.dll"}
