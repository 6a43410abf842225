// SPDX-License-Identifier: Unlicense OR MIT

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/math/f32"
)

func TestFromEffectStack(t *testing.T) {
	var s EffectStack
	s.Push(Shadow(f32.Vec2{0, 2}, f32.Vec4{0, 0, 0, 1}, 4))
	s.Push(Gradient(f32.Vec4{1, 1, 1, 1}, f32.Vec4{0, 0, 0, 1}, 90))
	s.Push(Glow(1.2))
	s.Push(Blur(3))
	s.Push(Contrast(1.4))

	rect := DrawRect{X: 10, Y: 10, W: 100, H: 40, Color: f32.Vec4{1, 1, 1, 1}}
	g := FromEffectStack(&s, rect)
	want := []Node{
		rect,
		ShadowPass{Offset: f32.Vec2{0, 2}, Color: f32.Vec4{0, 0, 0, 1}, Blur: 4, Opacity: .5},
		BlurPass{Radius: 8, Samples: 8},
		CompositePass{Mode: BlendScreen},
		BlurPass{Radius: 3, Samples: 8},
		ColorAdjust{Brightness: 1, Contrast: 1.4, Saturation: 1},
	}
	assert.Equal(t, want, g.Nodes())
	assert.Equal(t, 5, s.Len())
}

func TestFromEmptyEffectStack(t *testing.T) {
	rect := DrawRect{W: 1, H: 1}
	g := FromEffectStack(new(EffectStack), rect)
	assert.Equal(t, []Node{rect}, g.Nodes())
}
