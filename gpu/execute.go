// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"fmt"
	"image"

	"mochi.dev/graph"
)

// Execute runs the nodes of g in order. Effect nodes apply to the
// whole surface.
func (c *Context) Execute(g *graph.Graph) error {
	if !c.Valid() {
		return ErrInvalidContext
	}
	if g == nil {
		return nil
	}
	var full image.Rectangle
	for _, n := range g.Nodes() {
		Logger().Debug("gpu: execute", "node", n.Type())
		switch n := n.(type) {
		case graph.Clear:
			c.Clear(n.Color[0], n.Color[1], n.Color[2], n.Color[3])
		case graph.DrawRect:
			c.DrawRect(n.X, n.Y, n.W, n.H, n.Color)
		case graph.BlurPass:
			c.BlurPass(full, n.Radius, n.Samples)
		case graph.ShadowPass:
			c.ShadowPass(full, n.Offset, n.Color, n.Blur, n.Opacity)
		case graph.CompositePass:
			c.CompositePass(n.Mode)
		case graph.ColorAdjust:
			c.ColorAdjustPass(full, n.Brightness, n.Contrast, n.Saturation)
		default:
			return fmt.Errorf("%w: %v", graph.ErrUnknownNode, n.Type())
		}
	}
	return nil
}

// ExecuteEncoded decodes and runs a render graph given as node types
// and parameter tape. A malformed graph is rejected before anything
// is executed.
func (c *Context) ExecuteEncoded(types []int32, params []float32) error {
	g, err := graph.Decode(types, params)
	if err != nil {
		return err
	}
	return c.Execute(g)
}
