// SPDX-License-Identifier: Unlicense OR MIT

// Package vulkan probes Vulkan devices. It opens an instance and a
// logical device and reports their properties; rendering is not
// implemented and every rendering operation returns
// driver.ErrUnsupported.
package vulkan

import (
	"errors"
	"image"

	"mochi.dev/gpu/internal/driver"
	"mochi.dev/internal/vk"
)

// Backend implements driver.Device.
type Backend struct {
	inst  vk.Instance
	pdev  vk.PhysicalDevice
	dev   vk.Device
	props vk.Properties
	caps  driver.Caps
}

type candidate struct {
	props    vk.Properties
	families []vk.QueueFamily
}

func init() {
	driver.Register(driver.Vulkan, newVulkanDevice)
}

func newVulkanDevice(cfg driver.ProbeConfig) (driver.Device, error) {
	if err := vk.Load(); err != nil {
		return nil, err
	}
	inst, err := vk.CreateInstance("mochi")
	if err != nil {
		return nil, err
	}
	b := &Backend{inst: inst}
	if err := b.init(); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func (b *Backend) init() error {
	devs, err := vk.EnumeratePhysicalDevices(b.inst)
	if err != nil {
		return err
	}
	cands := make([]candidate, len(devs))
	for i, pd := range devs {
		cands[i] = candidate{
			props:    vk.GetPhysicalDeviceProperties(pd),
			families: vk.GetPhysicalDeviceQueueFamilyProperties(pd),
		}
	}
	idx, family := choosePhysicalDevice(cands)
	if idx < 0 {
		return errors.New("vulkan: no device with a graphics queue")
	}
	dev, err := vk.CreateDevice(devs[idx], family)
	if err != nil {
		return err
	}
	b.pdev = devs[idx]
	b.dev = dev
	b.props = cands[idx].props
	b.caps = capsFor(cands[idx])
	return nil
}

// choosePhysicalDevice returns the index of the preferred device and
// its graphics queue family, or -1 if no device can render.
func choosePhysicalDevice(cands []candidate) (int, int) {
	best, bestFamily, bestRank := -1, -1, -1
	for i, c := range cands {
		family := -1
		for j, f := range c.families {
			if f.Count > 0 && f.Flags&vk.QUEUE_GRAPHICS_BIT != 0 {
				family = j
				break
			}
		}
		if family < 0 {
			continue
		}
		if r := typeRank(c.props.Type); r > bestRank {
			best, bestFamily, bestRank = i, family, r
		}
	}
	return best, bestFamily
}

func typeRank(t vk.PhysicalDeviceType) int {
	switch t {
	case vk.PHYSICAL_DEVICE_TYPE_DISCRETE_GPU:
		return 4
	case vk.PHYSICAL_DEVICE_TYPE_INTEGRATED_GPU:
		return 3
	case vk.PHYSICAL_DEVICE_TYPE_VIRTUAL_GPU:
		return 2
	case vk.PHYSICAL_DEVICE_TYPE_CPU:
		return 1
	default:
		return 0
	}
}

func capsFor(c candidate) driver.Caps {
	caps := driver.Caps{MaxTextureSize: int(c.props.MaxImageDimension2D)}
	for _, f := range c.families {
		if f.Flags&vk.QUEUE_COMPUTE_BIT != 0 {
			caps.Features |= driver.FeatureCompute
		}
	}
	return caps
}

func (b *Backend) Caps() driver.Caps {
	return b.caps
}

func (b *Backend) Describe() driver.Description {
	return driver.Description{
		Device:   b.props.Name,
		Vendor:   vk.VendorName(b.props.VendorID),
		Driver:   "Vulkan " + vk.VersionString(b.props.APIVersion) + " driver " + vk.DriverVersionString(b.props.VendorID, b.props.DriverVersion),
		Platform: vk.Loader(),
	}
}

func (b *Backend) Clear(r, g, bl, a float32) error              { return driver.ErrUnsupported }
func (b *Backend) Viewport(x, y, width, height int) error       { return driver.ErrUnsupported }
func (b *Backend) BindProgram(p driver.Program) error           { return driver.ErrUnsupported }
func (b *Backend) BindVertexBuffer(buf driver.Buffer) error     { return driver.ErrUnsupported }
func (b *Backend) BindTexture(unit int, t driver.Texture) error { return driver.ErrUnsupported }
func (b *Backend) BindFramebuffer(fb driver.Framebuffer) error  { return driver.ErrUnsupported }
func (b *Backend) SetBlend(enable bool) error                   { return driver.ErrUnsupported }

func (b *Backend) Present() error {
	if b.dev == 0 {
		return driver.ErrUnsupported
	}
	return vk.DeviceWaitIdle(b.dev)
}

func (b *Backend) NewShader(stage driver.ShaderStage, src string) (driver.Shader, error) {
	return nil, driver.ErrUnsupported
}

func (b *Backend) NewProgram(vs, fs driver.Shader, attribs []string) (driver.Program, error) {
	return nil, driver.ErrUnsupported
}

func (b *Backend) UniformLocation(p driver.Program, name string) (int, error) {
	return -1, driver.ErrUnsupported
}

func (b *Backend) SetUniform(loc int, kind driver.UniformKind, v []float32) error {
	return driver.ErrUnsupported
}

func (b *Backend) NewBuffer(data []byte) (driver.Buffer, error) {
	return nil, driver.ErrUnsupported
}

func (b *Backend) VertexAttrib(index, size, stride, offset int) error {
	return driver.ErrUnsupported
}

func (b *Backend) NewTexture(format driver.TextureFormat, width, height int, pixels []byte) (driver.Texture, error) {
	return nil, driver.ErrUnsupported
}

func (b *Backend) NewFramebuffer(t driver.Texture) (driver.Framebuffer, error) {
	return nil, driver.ErrUnsupported
}

func (b *Backend) CopyTexture(dst driver.Texture, dstOrigin image.Point, srcRect image.Rectangle) error {
	return driver.ErrUnsupported
}

func (b *Backend) BlendFunc(sfactor, dfactor driver.BlendFactor) error {
	return driver.ErrUnsupported
}

func (b *Backend) DrawArrays(mode driver.DrawMode, first, count int) error {
	return driver.ErrUnsupported
}

func (b *Backend) DrawElements(mode driver.DrawMode, indices []uint32) error {
	return driver.ErrUnsupported
}

func (b *Backend) ReadPixels(src image.Rectangle, pixels []byte) error {
	return driver.ErrUnsupported
}

func (b *Backend) Release() {
	if b.dev != 0 {
		vk.DeviceWaitIdle(b.dev)
		vk.DestroyDevice(b.dev)
	}
	if b.inst != 0 {
		vk.DestroyInstance(b.inst)
	}
	*b = Backend{}
}
