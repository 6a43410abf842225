// SPDX-License-Identifier: Unlicense OR MIT

// Package vk is a minimal binding to the Vulkan 1.0 loader, enough to
// create an instance, inspect physical devices and open a logical
// device.
package vk

import (
	"fmt"
	"runtime"
	"sync"

	"mochi.dev/internal/dl"
)

type (
	Instance       uintptr
	PhysicalDevice uintptr
	Device         uintptr
)

type Result int32

const (
	SUCCESS                     Result = 0
	ERROR_OUT_OF_HOST_MEMORY    Result = -1
	ERROR_OUT_OF_DEVICE_MEMORY  Result = -2
	ERROR_INITIALIZATION_FAILED Result = -3
	ERROR_DEVICE_LOST           Result = -4
	ERROR_LAYER_NOT_PRESENT     Result = -6
	ERROR_EXTENSION_NOT_PRESENT Result = -7
	ERROR_FEATURE_NOT_PRESENT   Result = -8
	ERROR_INCOMPATIBLE_DRIVER   Result = -9
	ERROR_TOO_MANY_OBJECTS      Result = -10
	ERROR_MEMORY_MAP_FAILED     Result = -5
	ERROR_FORMAT_NOT_SUPPORTED  Result = -11
	ERROR_FRAGMENTED_POOL       Result = -12
	ERROR_UNKNOWN               Result = -13
)

func (r Result) Error() string {
	switch r {
	case ERROR_OUT_OF_HOST_MEMORY:
		return "vulkan: out of host memory"
	case ERROR_OUT_OF_DEVICE_MEMORY:
		return "vulkan: out of device memory"
	case ERROR_INITIALIZATION_FAILED:
		return "vulkan: initialization failed"
	case ERROR_DEVICE_LOST:
		return "vulkan: device lost"
	case ERROR_LAYER_NOT_PRESENT:
		return "vulkan: layer not present"
	case ERROR_EXTENSION_NOT_PRESENT:
		return "vulkan: extension not present"
	case ERROR_FEATURE_NOT_PRESENT:
		return "vulkan: feature not present"
	case ERROR_INCOMPATIBLE_DRIVER:
		return "vulkan: incompatible driver"
	default:
		return fmt.Sprintf("vulkan: error %d", int32(r))
	}
}

func (r Result) err() error {
	if r == SUCCESS {
		return nil
	}
	return r
}

type QueueFlags uint32

const (
	QUEUE_GRAPHICS_BIT QueueFlags = 1 << iota
	QUEUE_COMPUTE_BIT
	QUEUE_TRANSFER_BIT
)

type PhysicalDeviceType uint32

const (
	PHYSICAL_DEVICE_TYPE_OTHER PhysicalDeviceType = iota
	PHYSICAL_DEVICE_TYPE_INTEGRATED_GPU
	PHYSICAL_DEVICE_TYPE_DISCRETE_GPU
	PHYSICAL_DEVICE_TYPE_VIRTUAL_GPU
	PHYSICAL_DEVICE_TYPE_CPU
)

func (t PhysicalDeviceType) String() string {
	switch t {
	case PHYSICAL_DEVICE_TYPE_INTEGRATED_GPU:
		return "integrated"
	case PHYSICAL_DEVICE_TYPE_DISCRETE_GPU:
		return "discrete"
	case PHYSICAL_DEVICE_TYPE_VIRTUAL_GPU:
		return "virtual"
	case PHYSICAL_DEVICE_TYPE_CPU:
		return "cpu"
	default:
		return "other"
	}
}

const (
	structureTypeApplicationInfo       = 0
	structureTypeInstanceCreateInfo    = 1
	structureTypeDeviceQueueCreateInfo = 2
	structureTypeDeviceCreateInfo      = 3
)

// API_VERSION_1_0 is VK_MAKE_VERSION(1, 0, 0).
const API_VERSION_1_0 = 1 << 22

type applicationInfo struct {
	sType              uint32
	pNext              uintptr
	pApplicationName   *byte
	applicationVersion uint32
	pEngineName        *byte
	engineVersion      uint32
	apiVersion         uint32
}

type instanceCreateInfo struct {
	sType                   uint32
	pNext                   uintptr
	flags                   uint32
	pApplicationInfo        *applicationInfo
	enabledLayerCount       uint32
	ppEnabledLayerNames     **byte
	enabledExtensionCount   uint32
	ppEnabledExtensionNames **byte
}

// physicalDeviceProperties mirrors VkPhysicalDeviceProperties. Only the
// leading limits are named; the rest of the structure is padding.
type physicalDeviceProperties struct {
	apiVersion          uint32
	driverVersion       uint32
	vendorID            uint32
	deviceID            uint32
	deviceType          uint32
	deviceName          [256]byte
	pipelineCacheUUID   [16]byte
	_                   [4]byte
	maxImageDimension1D uint32
	maxImageDimension2D uint32
	_                   [physicalDevicePropertiesSize - 304]byte
}

const physicalDevicePropertiesSize = 824

type queueFamilyProperties struct {
	queueFlags                  uint32
	queueCount                  uint32
	timestampValidBits          uint32
	minImageTransferGranularity [3]uint32
}

type deviceQueueCreateInfo struct {
	sType            uint32
	pNext            uintptr
	flags            uint32
	queueFamilyIndex uint32
	queueCount       uint32
	pQueuePriorities *float32
}

type deviceCreateInfo struct {
	sType                   uint32
	pNext                   uintptr
	flags                   uint32
	queueCreateInfoCount    uint32
	pQueueCreateInfos       *deviceQueueCreateInfo
	enabledLayerCount       uint32
	ppEnabledLayerNames     **byte
	enabledExtensionCount   uint32
	ppEnabledExtensionNames **byte
	pEnabledFeatures        uintptr
}

var (
	vkCreateInstance                         func(info *instanceCreateInfo, alloc uintptr, inst *Instance) Result
	vkDestroyInstance                        func(inst Instance, alloc uintptr)
	vkEnumeratePhysicalDevices               func(inst Instance, count *uint32, devs *PhysicalDevice) Result
	vkGetPhysicalDeviceProperties            func(pd PhysicalDevice, props *physicalDeviceProperties)
	vkGetPhysicalDeviceQueueFamilyProperties func(pd PhysicalDevice, count *uint32, props *queueFamilyProperties)
	vkCreateDevice                           func(pd PhysicalDevice, info *deviceCreateInfo, alloc uintptr, dev *Device) Result
	vkDestroyDevice                          func(dev Device, alloc uintptr)
	vkDeviceWaitIdle                         func(dev Device) Result
)

var (
	loadOnce  sync.Once
	libVulkan *dl.Library
	loadErr   error
)

// Load opens the Vulkan loader library. It is safe to call more than
// once; subsequent calls return the first result.
func Load() error {
	loadOnce.Do(func() {
		libVulkan, loadErr = dl.Open(libNames...)
		if loadErr != nil {
			return
		}
		loadErr = dl.Bind([]dl.Func{
			{Ptr: &vkCreateInstance, Name: "vkCreateInstance"},
			{Ptr: &vkDestroyInstance, Name: "vkDestroyInstance"},
			{Ptr: &vkEnumeratePhysicalDevices, Name: "vkEnumeratePhysicalDevices"},
			{Ptr: &vkGetPhysicalDeviceProperties, Name: "vkGetPhysicalDeviceProperties"},
			{Ptr: &vkGetPhysicalDeviceQueueFamilyProperties, Name: "vkGetPhysicalDeviceQueueFamilyProperties"},
			{Ptr: &vkCreateDevice, Name: "vkCreateDevice"},
			{Ptr: &vkDestroyDevice, Name: "vkDestroyDevice"},
			{Ptr: &vkDeviceWaitIdle, Name: "vkDeviceWaitIdle"},
		}, libVulkan.Sym)
	})
	return loadErr
}

// Loader returns the name of the loaded Vulkan loader library.
func Loader() string {
	return libVulkan.Name()
}

func CreateInstance(appName string) (Instance, error) {
	name := dl.CString(appName)
	engine := dl.CString("mochi")
	app := &applicationInfo{
		sType:            structureTypeApplicationInfo,
		pApplicationName: name,
		pEngineName:      engine,
		apiVersion:       API_VERSION_1_0,
	}
	info := &instanceCreateInfo{
		sType:            structureTypeInstanceCreateInfo,
		pApplicationInfo: app,
	}
	var inst Instance
	err := vkCreateInstance(info, 0, &inst).err()
	runtime.KeepAlive(info)
	runtime.KeepAlive(app)
	if err != nil {
		return 0, fmt.Errorf("vkCreateInstance: %w", err)
	}
	return inst, nil
}

func DestroyInstance(inst Instance) {
	vkDestroyInstance(inst, 0)
}

func EnumeratePhysicalDevices(inst Instance) ([]PhysicalDevice, error) {
	var n uint32
	if err := vkEnumeratePhysicalDevices(inst, &n, nil).err(); err != nil {
		return nil, fmt.Errorf("vkEnumeratePhysicalDevices: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	devs := make([]PhysicalDevice, n)
	if err := vkEnumeratePhysicalDevices(inst, &n, &devs[0]).err(); err != nil {
		return nil, fmt.Errorf("vkEnumeratePhysicalDevices: %w", err)
	}
	return devs[:n], nil
}

// Properties is the subset of VkPhysicalDeviceProperties the renderer
// reports.
type Properties struct {
	APIVersion          uint32
	DriverVersion       uint32
	VendorID            uint32
	DeviceID            uint32
	Type                PhysicalDeviceType
	Name                string
	MaxImageDimension2D uint32
}

func GetPhysicalDeviceProperties(pd PhysicalDevice) Properties {
	var p physicalDeviceProperties
	vkGetPhysicalDeviceProperties(pd, &p)
	return p.decode()
}

func (p *physicalDeviceProperties) decode() Properties {
	name := p.deviceName[:]
	for i, b := range name {
		if b == 0 {
			name = name[:i]
			break
		}
	}
	return Properties{
		APIVersion:          p.apiVersion,
		DriverVersion:       p.driverVersion,
		VendorID:            p.vendorID,
		DeviceID:            p.deviceID,
		Type:                PhysicalDeviceType(p.deviceType),
		Name:                string(name),
		MaxImageDimension2D: p.maxImageDimension2D,
	}
}

type QueueFamily struct {
	Flags QueueFlags
	Count uint32
}

func GetPhysicalDeviceQueueFamilyProperties(pd PhysicalDevice) []QueueFamily {
	var n uint32
	vkGetPhysicalDeviceQueueFamilyProperties(pd, &n, nil)
	if n == 0 {
		return nil
	}
	props := make([]queueFamilyProperties, n)
	vkGetPhysicalDeviceQueueFamilyProperties(pd, &n, &props[0])
	fams := make([]QueueFamily, n)
	for i, p := range props[:n] {
		fams[i] = QueueFamily{Flags: QueueFlags(p.queueFlags), Count: p.queueCount}
	}
	return fams
}

// CreateDevice opens a logical device with a single queue from the
// given family.
func CreateDevice(pd PhysicalDevice, queueFamily int) (Device, error) {
	prio := float32(1)
	qinfo := &deviceQueueCreateInfo{
		sType:            structureTypeDeviceQueueCreateInfo,
		queueFamilyIndex: uint32(queueFamily),
		queueCount:       1,
		pQueuePriorities: &prio,
	}
	info := &deviceCreateInfo{
		sType:                structureTypeDeviceCreateInfo,
		queueCreateInfoCount: 1,
		pQueueCreateInfos:    qinfo,
	}
	var dev Device
	err := vkCreateDevice(pd, info, 0, &dev).err()
	runtime.KeepAlive(info)
	runtime.KeepAlive(qinfo)
	if err != nil {
		return 0, fmt.Errorf("vkCreateDevice: %w", err)
	}
	return dev, nil
}

func DeviceWaitIdle(dev Device) error {
	return vkDeviceWaitIdle(dev).err()
}

func DestroyDevice(dev Device) {
	vkDestroyDevice(dev, 0)
}

// VersionString formats a VK_MAKE_VERSION encoded version.
func VersionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>22, v>>12&0x3ff, v&0xfff)
}

const (
	VendorAMD      = 0x1002
	VendorImgTec   = 0x1010
	VendorNVIDIA   = 0x10DE
	VendorARM      = 0x13B5
	VendorQualcomm = 0x5143
	VendorIntel    = 0x8086
	VendorMesa     = 0x10005
)

func VendorName(id uint32) string {
	switch id {
	case VendorAMD:
		return "AMD"
	case VendorImgTec:
		return "Imagination Technologies"
	case VendorNVIDIA:
		return "NVIDIA"
	case VendorARM:
		return "ARM"
	case VendorQualcomm:
		return "Qualcomm"
	case VendorIntel:
		return "Intel"
	case VendorMesa:
		return "Mesa"
	default:
		return fmt.Sprintf("0x%04x", id)
	}
}

// DriverVersionString formats a driver version using the vendor's
// encoding. NVIDIA packs 10.8.8.6 bits; everyone else follows
// VK_MAKE_VERSION.
func DriverVersionString(vendor, v uint32) string {
	if vendor == VendorNVIDIA {
		return fmt.Sprintf("%d.%d.%d.%d", v>>22, v>>14&0xff, v>>6&0xff, v&0x3f)
	}
	return VersionString(v)
}
