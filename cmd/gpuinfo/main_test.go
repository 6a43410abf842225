// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"

	"mochi.dev/gpu"
	"mochi.dev/graph"
)

func TestParseSize(t *testing.T) {
	p, err := parseSize("800x600")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(800, 600), p)
	for _, s := range []string{"", "800", "0x10", "x10", "-1x-1", "axb"} {
		_, err := parseSize(s)
		assert.Error(t, err, s)
	}
}

func TestConvertGraph(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.yaml")
	require.NoError(t, os.WriteFile(src, []byte(`
- op: clear
  color: [0, 0, 0, 1]
- op: blur
  radius: 4
  samples: 8
`), 0o644))
	g, err := loadGraph(src)
	require.NoError(t, err)

	bin := filepath.Join(dir, "out.mrg")
	require.NoError(t, saveGraph(bin, g))
	dec, err := loadGraph(bin)
	require.NoError(t, err)
	assert.Equal(t, []graph.Node{
		graph.Clear{Color: f32.Vec4{0, 0, 0, 1}},
		graph.BlurPass{Radius: 4, Samples: 8},
	}, dec.Nodes())

	yml := filepath.Join(dir, "out.yml")
	require.NoError(t, saveGraph(yml, dec))
	dec, err = loadGraph(yml)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), dec.Nodes())

	require.NoError(t, os.WriteFile(bin, []byte("garbage"), 0o644))
	_, err = loadGraph(bin)
	assert.ErrorIs(t, err, graph.ErrFormat)
}

func TestPrintInfo(t *testing.T) {
	var buf bytes.Buffer
	printInfo(&buf, gpu.DeviceInfo{Backend: gpu.OpenGLES, Device: "ANGLE", Platform: "EGL 1.5 Mesa Project (libGLESv2.so.2)", MaxTextureSize: 8192})
	assert.Contains(t, buf.String(), "backend:          opengles\n")
	assert.Contains(t, buf.String(), "platform:         EGL 1.5 Mesa Project (libGLESv2.so.2)\n")
	assert.Contains(t, buf.String(), "max texture size: 8192\n")
}

func TestScaleImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(1, 1, color.RGBA{R: 0xff, A: 0xff})
	assert.Same(t, img, scaleImage(img, 1))
	s := scaleImage(img, 3).(*image.RGBA)
	assert.Equal(t, image.Rect(0, 0, 6, 6), s.Bounds())
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, s.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{}, s.RGBAAt(2, 2))
}
