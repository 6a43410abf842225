// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd

package vk

var libNames = []string{"libvulkan.so.1", "libvulkan.so"}
