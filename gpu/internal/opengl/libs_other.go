// SPDX-License-Identifier: Unlicense OR MIT

//go:build !linux && !freebsd && !darwin && !windows

package opengl

var glLibNames, glesLibNames []string
