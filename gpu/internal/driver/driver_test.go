// SPDX-License-Identifier: Unlicense OR MIT

package driver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlipImageY(t *testing.T) {
	pix := []byte{
		1, 1, 1, 1,
		2, 2, 2, 2,
		3, 3, 3, 3,
	}
	flipImageY(4, 3, pix)
	assert.Equal(t, []byte{
		3, 3, 3, 3,
		2, 2, 2, 2,
		1, 1, 1, 1,
	}, pix)
}

func TestParseBackend(t *testing.T) {
	for _, b := range []Backend{Vulkan, OpenGL, OpenGLES} {
		got, err := ParseBackend(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
	got, err := ParseBackend(" GLES ")
	require.NoError(t, err)
	assert.Equal(t, OpenGLES, got)
	_, err = ParseBackend("metal")
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	const b = Backend(200)
	errProbe := errors.New("probe")
	p := func(ProbeConfig) (Device, error) { return nil, errProbe }
	assert.Nil(t, Register(b, p))
	t.Cleanup(func() { Register(b, nil) })
	got := Lookup(b)
	require.NotNil(t, got)
	_, err := got(ProbeConfig{})
	assert.ErrorIs(t, err, errProbe)
	prev := Register(b, nil)
	assert.NotNil(t, prev)
	assert.Nil(t, Lookup(b))
}

func TestFeatures(t *testing.T) {
	f := FeatureRender | FeatureCompute
	assert.True(t, f.Has(FeatureRender))
	assert.True(t, f.Has(FeatureRender|FeatureCompute))
	assert.False(t, FeatureCompute.Has(FeatureRender))
	assert.Equal(t, "render,compute", f.String())
	assert.Equal(t, "none", Features(0).String())
}

func TestUniformKindComponents(t *testing.T) {
	assert.Equal(t, 1, UniformFloat.Components())
	assert.Equal(t, 4, UniformVec4.Components())
	assert.Equal(t, 16, UniformMat4.Components())
	assert.Equal(t, 0, UniformFloatArray.Components())
}

func TestErrors(t *testing.T) {
	err := error(&CompileError{Stage: StageFragment, Log: "0:3: undeclared"})
	assert.EqualError(t, err, "fragment shader compilation failed: 0:3: undeclared")
	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, StageFragment, ce.Stage)
	assert.EqualError(t, &LinkError{Log: "x"}, "program link failed: x")
}
