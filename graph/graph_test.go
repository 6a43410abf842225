// SPDX-License-Identifier: Unlicense OR MIT

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"
)

func TestArity(t *testing.T) {
	want := map[NodeType]int{
		TypeClear:         4,
		TypeDrawRect:      8,
		TypeBlurPass:      2,
		TypeShadowPass:    8,
		TypeCompositePass: 1,
		TypeColorAdjust:   3,
	}
	for typ, n := range want {
		assert.Equal(t, n, typ.Arity(), typ.String())
	}
	assert.Equal(t, -1, NodeType(6).Arity())
	assert.Equal(t, -1, NodeType(-1).Arity())
	assert.Equal(t, "NodeType(42)", NodeType(42).String())
}

func TestParseNodeType(t *testing.T) {
	for typ := TypeClear; typ <= TypeColorAdjust; typ++ {
		got, err := ParseNodeType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
	_, err := ParseNodeType("gradient")
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestBlendMode(t *testing.T) {
	assert.True(t, BlendOverlay.Valid())
	assert.False(t, BlendMode(4).Valid())
	assert.Equal(t, "screen", BlendScreen.String())
	assert.Equal(t, "7", BlendMode(7).String())

	m, err := ParseBlendMode("multiply")
	require.NoError(t, err)
	assert.Equal(t, BlendMultiply, m)
	m, err = ParseBlendMode("7")
	require.NoError(t, err)
	assert.Equal(t, BlendMode(7), m)
	_, err = ParseBlendMode("dodge")
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	var g Graph
	Clear{Color: f32.Vec4{1, 1, 1, 1}}.Add(&g)
	CompositePass{Mode: BlendNormal}.Add(&g)
	types, params := g.Encode()
	assert.Equal(t, []int32{0, 4}, types)
	assert.Equal(t, []float32{1, 1, 1, 1, 0}, params)
}

func TestDecode(t *testing.T) {
	g, err := Decode([]int32{int32(TypeClear)}, []float32{0, 0, 0, 1})
	require.NoError(t, err)
	require.Equal(t, 1, g.Len())
	assert.Equal(t, Clear{Color: f32.Vec4{0, 0, 0, 1}}, g.Nodes()[0])

	g, err = Decode([]int32{int32(TypeBlurPass)}, []float32{4, 8})
	require.NoError(t, err)
	assert.Equal(t, []Node{BlurPass{Radius: 4, Samples: 8}}, g.Nodes())
}

func TestDecodeAll(t *testing.T) {
	var g Graph
	DrawRect{X: 1, Y: 2, W: 3, H: 4, Color: f32.Vec4{.1, .2, .3, .4}}.Add(&g)
	ShadowPass{Offset: f32.Vec2{0, 4}, Color: f32.Vec4{0, 0, 0, .5}, Blur: 8, Opacity: .5}.Add(&g)
	ColorAdjust{Brightness: 1.2, Contrast: 1, Saturation: .5}.Add(&g)
	BlurPass{Radius: 2, Samples: 3}.Add(&g)
	CompositePass{Mode: BlendOverlay}.Add(&g)

	types, params := g.Encode()
	assert.Len(t, params, 8+8+3+2+1)
	dec, err := Decode(types, params)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), dec.Nodes())
}

func TestDecodeTruncates(t *testing.T) {
	g, err := Decode([]int32{int32(TypeBlurPass), int32(TypeCompositePass)}, []float32{3, 7.9, 2.6})
	require.NoError(t, err)
	assert.Equal(t, BlurPass{Radius: 3, Samples: 7}, g.Nodes()[0])
	assert.Equal(t, CompositePass{Mode: BlendScreen}, g.Nodes()[1])
}

func TestDecodeArity(t *testing.T) {
	types := []int32{int32(TypeClear), int32(TypeCompositePass)}
	for _, n := range []int{4, 6, 0} {
		_, err := Decode(types, make([]float32, n))
		assert.ErrorIs(t, err, ErrArity, "%d params", n)
	}
	_, err := Decode(nil, []float32{1})
	assert.ErrorIs(t, err, ErrArity)

	g, err := Decode(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
}

func TestDecodeUnknownNode(t *testing.T) {
	_, err := Decode([]int32{int32(TypeClear), 9}, []float32{0, 0, 0, 1})
	assert.ErrorIs(t, err, ErrUnknownNode)
	_, err = Decode([]int32{-1}, nil)
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestReset(t *testing.T) {
	var g Graph
	Clear{}.Add(&g)
	g.Reset()
	assert.Equal(t, 0, g.Len())
	BlurPass{Radius: 1, Samples: 1}.Add(&g)
	assert.Equal(t, 1, g.Len())
}
