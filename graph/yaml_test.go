// SPDX-License-Identifier: Unlicense OR MIT

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"
	"gopkg.in/yaml.v3"
)

func TestYAMLDecode(t *testing.T) {
	const doc = `
- op: clear
  color: [0, 0, 0, 1]
- op: draw_rect
  rect: [10, 10, 100, 50]
  color: [1, 0, 0, 1]
- op: blur
  radius: 4
- op: shadow
  offset: [2, 2]
- op: composite
  mode: screen
- op: color_adjust
  saturation: 0.5
`
	var g Graph
	require.NoError(t, yaml.Unmarshal([]byte(doc), &g))
	want := []Node{
		Clear{Color: f32.Vec4{0, 0, 0, 1}},
		DrawRect{X: 10, Y: 10, W: 100, H: 50, Color: f32.Vec4{1, 0, 0, 1}},
		BlurPass{Radius: 4, Samples: 8},
		ShadowPass{Offset: f32.Vec2{2, 2}, Color: f32.Vec4{0, 0, 0, .5}, Blur: 8, Opacity: .5},
		CompositePass{Mode: BlendScreen},
		ColorAdjust{Brightness: 1, Contrast: 1, Saturation: .5},
	}
	assert.Equal(t, want, g.Nodes())
}

func TestYAMLRoundTrip(t *testing.T) {
	var g Graph
	Clear{Color: f32.Vec4{.5, .5, .5, 1}}.Add(&g)
	ShadowPass{Offset: f32.Vec2{0, 4}, Color: f32.Vec4{0, 0, 0, 1}, Blur: 3, Opacity: .25}.Add(&g)
	CompositePass{Mode: BlendMode(9)}.Add(&g)
	ColorAdjust{Brightness: 1.5, Contrast: .5, Saturation: 0}.Add(&g)

	data, err := yaml.Marshal(&g)
	require.NoError(t, err)
	var dec Graph
	require.NoError(t, yaml.Unmarshal(data, &dec))
	assert.Equal(t, g.Nodes(), dec.Nodes())
}

func TestYAMLErrors(t *testing.T) {
	tests := []string{
		"- op: gradient",
		"- op: draw_rect\n  color: [1, 1, 1, 1]",
		"- op: clear\n  color: [1, 1]",
		"- op: shadow\n  offset: [1]",
		"- op: composite\n  mode: dodge",
		"op: clear",
	}
	for _, doc := range tests {
		var g Graph
		assert.Error(t, yaml.Unmarshal([]byte(doc), &g), doc)
		assert.Equal(t, 0, g.Len())
	}
}
