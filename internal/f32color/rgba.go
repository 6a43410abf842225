// SPDX-License-Identifier: Unlicense OR MIT

// Package f32color holds float32 colors in straight (non-premultiplied)
// alpha, as they appear in render graphs and shader uniforms.
package f32color

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// RGBA is a straight alpha color with components in [0, 1].
type RGBA struct {
	R, G, B, A float32
}

// Luma weights of the ITU-R BT.601 luminance.
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// Vec4 returns the color as a shader vector.
func (col RGBA) Vec4() f32.Vec4 {
	return f32.Vec4{col.R, col.G, col.B, col.A}
}

// Premultiply returns the color with its color components scaled by
// alpha.
func (col RGBA) Premultiply() RGBA {
	return RGBA{R: col.R * col.A, G: col.G * col.A, B: col.B * col.A, A: col.A}
}

// MulAlpha scales the alpha component by s.
func (col RGBA) MulAlpha(s float32) RGBA {
	col.A *= s
	return col
}

// Clamp clamps every component into [0, 1].
func (col RGBA) Clamp() RGBA {
	return RGBA{R: clamp1(col.R), G: clamp1(col.G), B: clamp1(col.B), A: clamp1(col.A)}
}

// Luminance returns the BT.601 luma of the color components.
func (col RGBA) Luminance() float32 {
	return LumaR*col.R + LumaG*col.G + LumaB*col.B
}

// Adjust applies brightness, contrast and saturation in that order.
// The result is what the color adjust shader computes for a single
// pixel; 1 is the identity for every factor.
func (col RGBA) Adjust(brightness, contrast, saturation float32) RGBA {
	c := [3]float32{col.R, col.G, col.B}
	for i := range c {
		c[i] *= brightness
		c[i] = (c[i]-.5)*contrast + .5
	}
	l := RGBA{R: c[0], G: c[1], B: c[2]}.Luminance()
	for i := range c {
		c[i] = l + (c[i]-l)*saturation
	}
	return RGBA{R: c[0], G: c[1], B: c[2], A: col.A}.Clamp()
}

// FromVec4 converts a shader vector.
func FromVec4(v f32.Vec4) RGBA {
	return RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}
}

func clamp1(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
