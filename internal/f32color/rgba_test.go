// SPDX-License-Identifier: Unlicense OR MIT

package f32color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/math/f32"
)

func TestAdjustIdentity(t *testing.T) {
	c := RGBA{R: .2, G: .4, B: .6, A: .8}
	got := c.Adjust(1, 1, 1)
	assert.InDelta(t, c.R, got.R, 1e-6)
	assert.InDelta(t, c.G, got.G, 1e-6)
	assert.InDelta(t, c.B, got.B, 1e-6)
	assert.Equal(t, c.A, got.A)
}

func TestAdjust(t *testing.T) {
	c := RGBA{R: .5, G: .25, B: 1, A: 1}
	gray := c.Adjust(1, 1, 0)
	assert.InDelta(t, gray.R, gray.G, 1e-6)
	assert.InDelta(t, gray.G, gray.B, 1e-6)
	assert.InDelta(t, c.Luminance(), gray.R, 1e-6)

	dark := c.Adjust(0, 1, 1)
	assert.Equal(t, RGBA{A: 1}, dark)

	flat := c.Adjust(1, 0, 1)
	assert.InDelta(t, .5, flat.R, 1e-6)
	assert.InDelta(t, .5, flat.B, 1e-6)
}

func TestPremultiply(t *testing.T) {
	c := RGBA{R: 1, G: .5, B: 0, A: .5}.Premultiply()
	assert.Equal(t, RGBA{R: .5, G: .25, B: 0, A: .5}, c)
	assert.Equal(t, float32(.25), RGBA{A: .5}.MulAlpha(.5).A)
}

func TestVec4(t *testing.T) {
	v := f32.Vec4{.1, .2, .3, .4}
	assert.Equal(t, v, FromVec4(v).Vec4())
}

var sink RGBA

func BenchmarkAdjust(b *testing.B) {
	for i := 0; i < b.N; i++ {
		sink = RGBA{R: float32(i&0xff) / 255, G: .5, B: .25, A: 1}.Adjust(1.2, .8, .5)
	}
}
