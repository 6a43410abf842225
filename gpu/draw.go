// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"mochi.dev/gpu/internal/driver"
)

// DrawMode is the primitive type of a draw call.
type DrawMode = driver.DrawMode

const (
	Triangles     = driver.DrawModeTriangles
	TriangleStrip = driver.DrawModeTriangleStrip
	TriangleFan   = driver.DrawModeTriangleFan
	Lines         = driver.DrawModeLines
	LineStrip     = driver.DrawModeLineStrip
	Points        = driver.DrawModePoints
)

// DrawArrays draws count vertices starting at first with the current
// program and vertex attributes.
func (c *Context) DrawArrays(mode DrawMode, first, count int) {
	if !c.Valid() || first < 0 || count <= 0 {
		return
	}
	c.check("DrawArrays", c.dev.DrawArrays(mode, first, count))
}

// DrawElements draws the vertices listed in indices.
func (c *Context) DrawElements(mode DrawMode, indices []uint32) {
	if !c.Valid() || len(indices) == 0 {
		return
	}
	c.check("DrawElements", c.dev.DrawElements(mode, indices))
}
