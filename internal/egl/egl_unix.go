// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd

package egl

var libNames = []string{"libEGL.so.1", "libEGL.so"}
