// SPDX-License-Identifier: Unlicense OR MIT

package vulkan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mochi.dev/gpu/internal/driver"
	"mochi.dev/internal/vk"
)

func TestChoosePhysicalDevice(t *testing.T) {
	gfx := []vk.QueueFamily{{Flags: vk.QUEUE_TRANSFER_BIT, Count: 1}, {Flags: vk.QUEUE_GRAPHICS_BIT | vk.QUEUE_COMPUTE_BIT, Count: 4}}
	cands := []candidate{
		{props: vk.Properties{Name: "llvmpipe", Type: vk.PHYSICAL_DEVICE_TYPE_CPU}, families: gfx},
		{props: vk.Properties{Name: "compute only", Type: vk.PHYSICAL_DEVICE_TYPE_DISCRETE_GPU}, families: []vk.QueueFamily{{Flags: vk.QUEUE_COMPUTE_BIT, Count: 1}}},
		{props: vk.Properties{Name: "iGPU", Type: vk.PHYSICAL_DEVICE_TYPE_INTEGRATED_GPU}, families: gfx},
	}
	idx, family := choosePhysicalDevice(cands)
	assert.Equal(t, 2, idx)
	assert.Equal(t, 1, family)

	idx, _ = choosePhysicalDevice(cands[1:2])
	assert.Equal(t, -1, idx)
	idx, _ = choosePhysicalDevice(nil)
	assert.Equal(t, -1, idx)
}

func TestCapsFor(t *testing.T) {
	c := candidate{
		props:    vk.Properties{MaxImageDimension2D: 8192},
		families: []vk.QueueFamily{{Flags: vk.QUEUE_GRAPHICS_BIT | vk.QUEUE_COMPUTE_BIT, Count: 1}},
	}
	caps := capsFor(c)
	assert.Equal(t, 8192, caps.MaxTextureSize)
	assert.True(t, caps.Features.Has(driver.FeatureCompute))
	assert.False(t, caps.Features.Has(driver.FeatureRender))
}

func TestRenderingUnsupported(t *testing.T) {
	b := new(Backend)
	assert.ErrorIs(t, b.Clear(0, 0, 0, 1), driver.ErrUnsupported)
	_, err := b.NewShader(driver.StageVertex, "")
	assert.ErrorIs(t, err, driver.ErrUnsupported)
	assert.ErrorIs(t, b.DrawElements(driver.DrawModeTriangles, []uint32{0, 1, 2}), driver.ErrUnsupported)
	assert.ErrorIs(t, b.Present(), driver.ErrUnsupported)
	b.Release()
}

func TestProbe(t *testing.T) {
	d, err := newVulkanDevice(driver.ProbeConfig{Width: 4, Height: 4})
	if err != nil {
		t.Skipf("no Vulkan device: %v", err)
	}
	defer d.Release()
	require.NotEmpty(t, d.Describe().Device)
	assert.NoError(t, d.Present())
}
