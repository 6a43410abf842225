// SPDX-License-Identifier: Unlicense OR MIT

//go:build !linux && !freebsd && !darwin && !windows

package vk

var libNames []string
