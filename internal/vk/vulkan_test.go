// SPDX-License-Identifier: Unlicense OR MIT

package vk

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestStructLayout(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("layouts are checked on 64-bit platforms")
	}
	var p physicalDeviceProperties
	assert.EqualValues(t, physicalDevicePropertiesSize, unsafe.Sizeof(p))
	assert.EqualValues(t, 20, unsafe.Offsetof(p.deviceName))
	assert.EqualValues(t, 296, unsafe.Offsetof(p.maxImageDimension1D))
	assert.EqualValues(t, 300, unsafe.Offsetof(p.maxImageDimension2D))
	assert.EqualValues(t, 24, unsafe.Sizeof(queueFamilyProperties{}))

	var q deviceQueueCreateInfo
	assert.EqualValues(t, 16, unsafe.Offsetof(q.flags))
	assert.EqualValues(t, 20, unsafe.Offsetof(q.queueFamilyIndex))
	assert.EqualValues(t, 24, unsafe.Offsetof(q.queueCount))
	assert.EqualValues(t, 32, unsafe.Offsetof(q.pQueuePriorities))

	var i instanceCreateInfo
	assert.EqualValues(t, 24, unsafe.Offsetof(i.pApplicationInfo))
	assert.EqualValues(t, 56, unsafe.Offsetof(i.ppEnabledExtensionNames))
	assert.EqualValues(t, 64, unsafe.Sizeof(i))

	var a applicationInfo
	assert.EqualValues(t, 44, unsafe.Offsetof(a.apiVersion))
}

func TestDecodeProperties(t *testing.T) {
	var p physicalDeviceProperties
	p.vendorID = VendorAMD
	p.deviceType = uint32(PHYSICAL_DEVICE_TYPE_DISCRETE_GPU)
	p.maxImageDimension2D = 16384
	copy(p.deviceName[:], "Radeon RX 7900")
	props := p.decode()
	assert.Equal(t, "Radeon RX 7900", props.Name)
	assert.Equal(t, PHYSICAL_DEVICE_TYPE_DISCRETE_GPU, props.Type)
	assert.EqualValues(t, 16384, props.MaxImageDimension2D)
	assert.Equal(t, "discrete", props.Type.String())
}

func TestVersionStrings(t *testing.T) {
	assert.Equal(t, "1.3.250", VersionString(1<<22|3<<12|250))
	assert.Equal(t, "1.0.0", VersionString(API_VERSION_1_0))
	nv := uint32(535)<<22 | 104<<14 | 5<<6
	assert.Equal(t, "535.104.5.0", DriverVersionString(VendorNVIDIA, nv))
	assert.Equal(t, "23.1.4", DriverVersionString(VendorMesa, 23<<22|1<<12|4))
}

func TestVendorName(t *testing.T) {
	assert.Equal(t, "NVIDIA", VendorName(VendorNVIDIA))
	assert.Equal(t, "Intel", VendorName(VendorIntel))
	assert.Equal(t, "0x1234", VendorName(0x1234))
}

func TestResultError(t *testing.T) {
	assert.NoError(t, SUCCESS.err())
	assert.EqualError(t, ERROR_INCOMPATIBLE_DRIVER.err(), "vulkan: incompatible driver")
	assert.EqualError(t, Result(-1000001004), "vulkan: error -1000001004")
}

func TestLoader(t *testing.T) {
	if err := Load(); err != nil {
		t.Skipf("no Vulkan loader: %v", err)
	}
	assert.Contains(t, libNames, Loader())
}
