// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"

	"mochi.dev/gpu/internal/driver"
	"mochi.dev/gpu/internal/drivertest"
)

const (
	testVertex = `in vec2 pos;
void main() { gl_Position = vec4(pos, 0.0, 1.0); }
`
	testFragment = `uniform vec4 u_color;
out vec4 fragColor;
void main() { fragColor = u_color; }
`
)

func TestCreateShader(t *testing.T) {
	c, d := newFakeContext(t)
	s, err := c.CreateShader(testVertex, testFragment, "pos")
	require.NoError(t, err)
	assert.NotZero(t, s)
	// Stages are released once linked.
	assert.Zero(t, d.Live("shader"))
	assert.Equal(t, 1, d.Live("program"))
	assert.Equal(t, ResourceCounts{Shaders: 1}, c.ResourceCounts())
	p := c.shaders[s].prog.(*drivertest.Program)
	assert.Equal(t, []string{"pos"}, p.Attribs)
}

func TestCreateShaderCompileError(t *testing.T) {
	c, d := newFakeContext(t)
	d.FailCompile[driver.StageFragment] = "0:1: syntax error"
	s, err := c.CreateShader(testVertex, "not glsl")
	assert.Zero(t, s)
	var serr *ShaderError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "fragment", serr.Stage)
	assert.Equal(t, "0:1: syntax error", serr.Log)
	var cerr *driver.CompileError
	assert.ErrorAs(t, err, &cerr)
	// The vertex stage must not leak.
	assert.Zero(t, d.LiveTotal())
	assert.Equal(t, ResourceCounts{}, c.ResourceCounts())

	delete(d.FailCompile, driver.StageFragment)
	d.FailCompile[driver.StageVertex] = "bad vertex"
	_, err = c.CreateShader("not glsl", testFragment)
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "vertex", serr.Stage)
	assert.Zero(t, d.LiveTotal())
}

func TestCreateShaderLinkError(t *testing.T) {
	c, d := newFakeContext(t)
	d.FailLink = "missing main"
	s, err := c.CreateShader(testVertex, testFragment)
	assert.Zero(t, s)
	var serr *ShaderError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "link", serr.Stage)
	assert.Contains(t, serr.Error(), "missing main")
	assert.Zero(t, d.LiveTotal())
}

func TestHandlesNeverReused(t *testing.T) {
	c, _ := newFakeContext(t)
	seen := make(map[uint32]bool)
	for i := 0; i < 4; i++ {
		s, err := c.CreateShader(testVertex, testFragment)
		require.NoError(t, err)
		b, err := c.CreateBuffer([]byte{0, 0, 0, 0})
		require.NoError(t, err)
		tex, err := c.CreateTexture(2, 2, nil)
		require.NoError(t, err)
		for _, h := range []uint32{uint32(s), uint32(b), uint32(tex)} {
			assert.NotZero(t, h)
			assert.False(t, seen[h], "handle %d reused", h)
			seen[h] = true
		}
		c.DeleteShader(s)
		c.DeleteBuffer(b)
		c.DeleteTexture(tex)
	}
	assert.Equal(t, ResourceCounts{}, c.ResourceCounts())
}

func TestZeroHandles(t *testing.T) {
	c, d := newFakeContext(t)
	calls := len(d.Calls)
	c.UseShader(0)
	c.DeleteShader(0)
	c.BindBuffer(0)
	c.DeleteBuffer(0)
	c.BindTexture(0, 0)
	c.DeleteTexture(0)
	c.SetUniform(0, "u_color", Vec4(f32.Vec4{1, 1, 1, 1}))
	c.UseShader(42)
	c.DeleteShader(42)
	assert.Equal(t, calls, len(d.Calls))
	assert.Zero(t, c.CurrentShader())
}

func TestDeleteCurrentShader(t *testing.T) {
	c, d := newFakeContext(t)
	s, err := c.CreateShader(testVertex, testFragment)
	require.NoError(t, err)
	c.UseShader(s)
	assert.Equal(t, s, c.CurrentShader())
	assert.NotNil(t, d.Program)

	c.DeleteShader(s)
	assert.Zero(t, c.CurrentShader())
	assert.Nil(t, d.Program)
	// Deleting twice is harmless.
	c.DeleteShader(s)
	c.UseShader(s)
	assert.Zero(t, c.CurrentShader())
}

func TestBuffers(t *testing.T) {
	c, d := newFakeContext(t)
	b, err := c.CreateBufferFloat32([]float32{0, 0, 1, 0, 0, 1})
	require.NoError(t, err)
	buf := c.buffers[b].(*drivertest.Buffer)
	assert.Len(t, buf.Data, 24)

	// Attributes need a bound buffer.
	c.VertexAttrib(0, 2, 8, 0)
	assert.Empty(t, d.Attribs)

	c.BindBuffer(b)
	c.VertexAttrib(0, 2, 8, 0)
	assert.Equal(t, [3]int{2, 8, 0}, d.Attribs[0])
	assert.Equal(t, buf, d.Vertex)

	c.DeleteBuffer(b)
	assert.Nil(t, d.Vertex)
	assert.Empty(t, c.attribs)
	assert.Zero(t, d.Live("buffer"))
}

func TestTextures(t *testing.T) {
	c, d := newFakeContext(t)
	_, err := c.CreateTexture(0, 4, nil)
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = c.CreateTexture(2, 2, make([]byte, 15))
	assert.Error(t, err)

	tex, err := c.CreateTexture(2, 2, make([]byte, 16))
	require.NoError(t, err)
	c.BindTexture(tex, 3)
	assert.NotNil(t, d.Textures[3])
	c.BindTexture(tex, maxTextureUnits)

	c.DeleteTexture(tex)
	assert.Nil(t, d.Textures[3])
	assert.Zero(t, d.Live("texture"))
}

func TestSetUniform(t *testing.T) {
	c, d := newFakeContext(t)
	a, err := c.CreateShader(testVertex, testFragment)
	require.NoError(t, err)
	b, err := c.CreateShader(testVertex, testFragment)
	require.NoError(t, err)
	c.UseShader(a)

	c.SetUniform(b, "u_color", Vec4(f32.Vec4{1, 0, 0, 1}))
	pb := c.shaders[b].prog.(*drivertest.Program)
	assert.Equal(t, []float32{1, 0, 0, 1}, pb.Uniforms["u_color"])
	// The current program is bound again.
	assert.Equal(t, c.shaders[a].prog, driver.Program(d.Program))

	c.SetUniformVec4("u_color", f32.Vec4{0, 1, 0, 1})
	assert.Equal(t, []float32{0, 1, 0, 1}, d.Uniform("u_color"))

	calls := d.CallCount("SetUniform")
	c.SetUniformFloat("u_missing", 1)
	c.SetUniform(a, "u_color", Uniform{Kind: UniformVec4, Values: []float32{1}})
	assert.Equal(t, calls, d.CallCount("SetUniform"))

	c.UploadUniform("u_color", UniformVec4, []float32{0, 0, 1, 1})
	assert.Equal(t, []float32{0, 0, 1, 1}, d.Uniform("u_color"))
}

func TestMat4(t *testing.T) {
	m := f32.Mat4{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	u := Mat4(m)
	assert.Equal(t, UniformMat4, u.Kind)
	assert.Equal(t, []float32{
		1, 5, 9, 13,
		2, 6, 10, 14,
		3, 7, 11, 15,
		4, 8, 12, 16,
	}, u.Values)
	assert.Equal(t, []float32{3}, Int(3).Values)
	assert.True(t, Floats([]float32{1, 2}).valid())
	assert.False(t, Floats(nil).valid())
}

func TestDraw(t *testing.T) {
	c, d := newFakeContext(t)
	c.DrawArrays(Triangles, 0, 0)
	c.DrawElements(Triangles, nil)
	assert.Empty(t, d.Draws)

	c.DrawArrays(TriangleStrip, 0, 4)
	c.DrawElements(Lines, []uint32{0, 1})
	require.Len(t, d.Draws, 2)
	assert.Equal(t, TriangleStrip, d.Draws[0].Mode)
	assert.Equal(t, []uint32{0, 1}, d.Draws[1].Indices)
}
