// SPDX-License-Identifier: Unlicense OR MIT

package vk

var libNames = []string{"vulkan-1.dll"}
