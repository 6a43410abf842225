// SPDX-License-Identifier: Unlicense OR MIT

package main

const mainUsage = `The gpuinfo command reports the graphics device selected by the
mochi.dev/gpu backend negotiation.

Usage:

	gpuinfo [flags]

Backends are tried in order, Vulkan, OpenGL and then OpenGL ES, unless
overridden by the -config file, the MOCHI_GPU_BACKENDS environment variable
or the -backend flag, in increasing order of precedence. The -printconfig
flag prints the resulting configuration in the format of -config files.

The -graph flag executes a render graph on a surface of -size pixels. Graph
files ending in .yaml or .yml are read as YAML, others in the binary format.
With -convert, the graph is written in the format given by the extension of
the -convert file and nothing is rendered.

The -o flag writes the surface to a PNG file, scaled by -scale.

The -v flag logs debug messages to standard error.
`
