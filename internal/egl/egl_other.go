// SPDX-License-Identifier: Unlicense OR MIT

//go:build !linux && !freebsd && !darwin && !windows

package egl

var libNames []string
