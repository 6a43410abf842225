// SPDX-License-Identifier: Unlicense OR MIT

package vk

var libNames = []string{"libvulkan.1.dylib", "libMoltenVK.dylib"}
