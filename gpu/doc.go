// SPDX-License-Identifier: Unlicense OR MIT

/*
Package gpu implements a backend agnostic rendering context.

A Context is created by negotiating among the native graphics
backends in preference order, Vulkan, then desktop OpenGL, then
OpenGL ES, and owns every shader, buffer and texture handle it
issues. Handles are plain integers; 0 is never a valid handle and
operations on unknown handles do nothing.

On top of the immediate draw interface the package offers a small
library of effect passes (blur, drop shadow, blend mode selection,
color adjustment and filled rectangles) and an interpreter for render
graphs from package mochi.dev/graph.

A Context is not safe for concurrent use. All calls must be made from
the goroutine that created it, with its OS thread locked:

	runtime.LockOSThread()
	ctx, err := gpu.NewContext(800, 600)
	if err != nil {
		return err
	}
	defer ctx.Release()
	ctx.Clear(0, 0, 0, 1)
*/
package gpu
