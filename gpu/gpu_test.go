// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"image"
	"image/color"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"

	"mochi.dev/internal/f32color"
)

// newTestContext returns a Context on a real OpenGL or OpenGL ES
// device, or skips the test.
func newTestContext(t *testing.T, width, height int) *Context {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
	c, err := NewContextWithConfig(Config{
		Backends: []Backend{OpenGLES, OpenGL},
		Require:  FeatureRender,
	}, width, height)
	if err != nil {
		t.Skipf("no rendering backend available: %v", err)
	}
	t.Cleanup(c.Release)
	return c
}

func TestRenderClear(t *testing.T) {
	c := newTestContext(t, 16, 16)
	c.Clear(0, 0, 1, 1)
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	require.NoError(t, c.Screenshot(img))
	assert.Equal(t, color.RGBA{B: 0xff, A: 0xff}, img.RGBAAt(8, 8))
	require.NoError(t, c.Present())
}

func TestRenderRect(t *testing.T) {
	c := newTestContext(t, 16, 16)
	c.Clear(0, 0, 0, 1)
	c.DrawRect(0, 0, 8, 8, f32.Vec4{1, 0, 0, 1})
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	require.NoError(t, c.Screenshot(img))
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.RGBAAt(2, 2), "upper left")
	assert.Equal(t, color.RGBA{A: 0xff}, img.RGBAAt(12, 12), "lower right")
}

func TestRenderBlur(t *testing.T) {
	c := newTestContext(t, 32, 32)
	c.Clear(0, 0, 0, 1)
	c.DrawRect(0, 0, 16, 32, f32.Vec4{1, 1, 1, 1})
	c.BlurPass(image.Rectangle{}, 4, 8)
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	require.NoError(t, c.Screenshot(img))
	edge := img.RGBAAt(16, 16).R
	assert.Greater(t, edge, uint8(0x10))
	assert.Less(t, edge, uint8(0xf0))
	assert.Equal(t, uint8(0xff), img.RGBAAt(2, 16).R)
	assert.Equal(t, uint8(0), img.RGBAAt(30, 16).R)
}

func TestRenderColorAdjust(t *testing.T) {
	tests := []struct {
		name                           string
		col                            color.RGBA
		brightness, contrast, saturate float32
	}{
		{"brightness", color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}, 2, 1, 1},
		{"contrast", color.RGBA{R: 0x99, G: 0x4d, B: 0x33, A: 0xff}, 1, .6, 1},
		{"saturation", color.RGBA{R: 0x99, G: 0x4d, B: 0x33, A: 0xff}, 1, 1, .25},
		{"combined", color.RGBA{R: 0x99, G: 0x4d, B: 0x33, A: 0xff}, 1.2, .8, .5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestContext(t, 8, 8)
			in := f32color.RGBA{R: float32(tc.col.R) / 255, G: float32(tc.col.G) / 255, B: float32(tc.col.B) / 255, A: 1}
			c.Clear(in.R, in.G, in.B, in.A)
			c.ColorAdjustPass(image.Rectangle{}, tc.brightness, tc.contrast, tc.saturate)
			img := image.NewRGBA(image.Rect(0, 0, 8, 8))
			require.NoError(t, c.Screenshot(img))

			want := in.Adjust(tc.brightness, tc.contrast, tc.saturate)
			got := img.RGBAAt(4, 4)
			assert.InDelta(t, want.R*255, float32(got.R), 2, "red")
			assert.InDelta(t, want.G*255, float32(got.G), 2, "green")
			assert.InDelta(t, want.B*255, float32(got.B), 2, "blue")
			assert.Equal(t, uint8(0xff), got.A)
		})
	}
}
