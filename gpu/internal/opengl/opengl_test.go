// SPDX-License-Identifier: Unlicense OR MIT

package opengl

import (
	"errors"
	"image"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mochi.dev/gpu/internal/driver"
	"mochi.dev/internal/egl"
)

func newTestDevice(t *testing.T, api egl.API) driver.Device {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
	d, err := newOpenGLDevice(api, driver.ProbeConfig{Width: 8, Height: 8})
	if err != nil {
		t.Skipf("no %s device available: %v", api, err)
	}
	t.Cleanup(d.Release)
	return d
}

func TestRegistered(t *testing.T) {
	assert.NotNil(t, driver.Lookup(driver.OpenGL))
	assert.NotNil(t, driver.Lookup(driver.OpenGLES))
}

func TestClearReadPixels(t *testing.T) {
	for _, api := range []egl.API{egl.OpenGLES, egl.OpenGL} {
		t.Run(api.String(), func(t *testing.T) {
			d := newTestDevice(t, api)
			caps := d.Caps()
			assert.True(t, caps.BottomLeftOrigin)
			assert.True(t, caps.Features.Has(driver.FeatureRender))
			assert.Greater(t, caps.MaxTextureSize, 0)
			assert.NotEmpty(t, d.Describe().Driver)
			assert.Contains(t, d.Describe().Platform, "EGL ")

			require.NoError(t, d.Clear(1, 0, 0, 1))
			img, err := driver.DownloadImage(d, image.Rect(0, 0, 8, 8))
			require.NoError(t, err)
			assert.Equal(t, []byte{0xff, 0, 0, 0xff}, img.Pix[:4])
			require.NoError(t, d.Present())
		})
	}
}

func TestShaderErrors(t *testing.T) {
	d := newTestDevice(t, egl.OpenGLES)
	_, err := d.NewShader(driver.StageFragment, "#version 300 es\nthis is not glsl")
	var cerr *driver.CompileError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, driver.StageFragment, cerr.Stage)
}

func TestNewTextureValidation(t *testing.T) {
	d := newTestDevice(t, egl.OpenGLES)
	_, err := d.NewTexture(driver.TextureFormatRGBA8, 4, 4, make([]byte, 3))
	assert.Error(t, err)
	_, err = d.NewTexture(driver.TextureFormatRGBA8, 0, 4, nil)
	assert.Error(t, err)
	tex, err := d.NewTexture(driver.TextureFormatR8, 4, 4, make([]byte, 16))
	require.NoError(t, err)
	fbo, err := d.NewFramebuffer(tex)
	if err == nil {
		fbo.Release()
	}
	tex.Release()
}
