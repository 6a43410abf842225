// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGLVersion(t *testing.T) {
	tests := []struct {
		in  string
		ver [2]int
		es  bool
	}{
		{"OpenGL ES 3.2 Mesa 23.1.4", [2]int{3, 2}, true},
		{"OpenGL ES 3.0 (ANGLE 2.1.0)", [2]int{3, 0}, true},
		{"4.6 (Core Profile) Mesa 23.1.4", [2]int{4, 6}, false},
		{"3.2.0 NVIDIA 535.104.05", [2]int{3, 2}, false},
	}
	for _, tt := range tests {
		ver, es, err := ParseGLVersion(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.ver, ver, tt.in)
		assert.Equal(t, tt.es, es, tt.in)
	}
	_, _, err := ParseGLVersion("garbage")
	assert.Error(t, err)
}

func TestSupportsCompute(t *testing.T) {
	assert.True(t, SupportsCompute([2]int{3, 1}, true))
	assert.True(t, SupportsCompute([2]int{3, 2}, true))
	assert.False(t, SupportsCompute([2]int{3, 0}, true))
	assert.True(t, SupportsCompute([2]int{4, 3}, false))
	assert.True(t, SupportsCompute([2]int{4, 6}, false))
	assert.False(t, SupportsCompute([2]int{4, 1}, false))
	assert.False(t, SupportsCompute([2]int{3, 3}, false))
}

func TestInfoLogError(t *testing.T) {
	err := &InfoLogError{Op: "shader compilation", Log: "0:1: syntax error"}
	assert.Equal(t, "shader compilation failed: 0:1: syntax error", err.Error())
	assert.Equal(t, "program link failed", (&InfoLogError{Op: "program link"}).Error())
}
