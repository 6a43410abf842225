// SPDX-License-Identifier: Unlicense OR MIT

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"
)

func TestBinaryLayout(t *testing.T) {
	var g Graph
	CompositePass{Mode: BlendScreen}.Add(&g)
	data, err := g.MarshalBinary()
	require.NoError(t, err)
	want := []byte{
		'M', 'R', 'G', 1,
		1, 0, 0, 0, // nodes
		1, 0, 0, 0, // params
		4, 0, 0, 0, // TypeCompositePass
		0, 0, 0x00, 0x40, // 2.0
	}
	assert.Equal(t, want, data)
}

func TestBinaryRoundTrip(t *testing.T) {
	var g Graph
	Clear{Color: f32.Vec4{0, 0, 0, 1}}.Add(&g)
	DrawRect{X: 10, Y: 20, W: 30, H: 40, Color: f32.Vec4{1, 0, 0, 1}}.Add(&g)
	BlurPass{Radius: 4, Samples: 8}.Add(&g)
	data, err := g.MarshalBinary()
	require.NoError(t, err)

	var dec Graph
	require.NoError(t, dec.UnmarshalBinary(data))
	assert.Equal(t, g.Nodes(), dec.Nodes())
}

func TestBinaryErrors(t *testing.T) {
	var g Graph
	Clear{}.Add(&g)
	data, err := g.MarshalBinary()
	require.NoError(t, err)

	var dec Graph
	assert.ErrorIs(t, dec.UnmarshalBinary(nil), ErrFormat)
	assert.ErrorIs(t, dec.UnmarshalBinary([]byte("PNG\x01\x00\x00\x00\x00\x00\x00\x00\x00")), ErrFormat)
	assert.ErrorIs(t, dec.UnmarshalBinary(data[:len(data)-1]), ErrFormat)

	v2 := append([]byte(nil), data...)
	v2[3] = 2
	assert.ErrorIs(t, dec.UnmarshalBinary(v2), ErrVersion)

	// One parameter short of a Clear.
	short := append([]byte(nil), data[:len(data)-4]...)
	short[8] = 3
	assert.ErrorIs(t, dec.UnmarshalBinary(short), ErrArity)

	unknown := append([]byte(nil), data...)
	unknown[12] = 99
	assert.ErrorIs(t, dec.UnmarshalBinary(unknown), ErrUnknownNode)
	assert.Equal(t, 0, dec.Len())
}
