package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

// PCI vendor IDs of GPU vendors that ship tile-based parts. Used to
// refine the coarse device-type classification.
const (
	vendorIDQualcomm    uint32 = 0x5143
	vendorIDARM         uint32 = 0x13B5
	vendorIDImagination uint32 = 0x1010
	vendorIDBroadcom    uint32 = 0x14E4
)

/**
 * @brief A representation of both the physical and logical device,
 * as well as queue and swapchain support information.
 */
type VulkanDevice struct {
	/** @brief The supported device-level api major version. */
	ApiMajor uint32
	/** @brief The supported device-level api minor version. */
	ApiMinor uint32
	/** @brief The supported device-level api patch version. */
	ApiPatch uint32

	/** @brief The physical device. This is a representation of the GPU itself. */
	PhysicalDevice vk.PhysicalDevice
	/** @brief The logical device. This is the application's view of the device. */
	LogicalDevice vk.Device

	/** @brief The swapchain support info. */
	SwapchainSupport *VulkanSwapchainSupportInfo

	/** @brief The index of the graphics queue family. */
	GraphicsQueueIndex uint32
	/** @brief The index of the present queue family. */
	PresentQueueIndex uint32
	/** @brief The index of the transfer queue family. */
	TransferQueueIndex uint32

	/** @brief A handle to a graphics queue. */
	GraphicsQueue vk.Queue
	/** @brief A handle to a present queue. */
	PresentQueue vk.Queue
	/** @brief A handle to a transfer queue. */
	TransferQueue vk.Queue

	/** @brief The physical device properties. */
	Properties vk.PhysicalDeviceProperties
	/** @brief The physical device features. */
	Features vk.PhysicalDeviceFeatures
	/** @brief The physical device memory properties. */
	Memory vk.PhysicalDeviceMemoryProperties

	/** @brief The coarse classification resolved from the selected device. */
	Class metadata.GPUClass
}

/**
 * @brief Swapchain support information gathered at physical device
 * selection and again on swapchain recreation.
 */
type VulkanSwapchainSupportInfo struct {
	/** @brief The surface capabilities. */
	Capabilities vk.SurfaceCapabilities
	/** @brief An array of available surface formats. */
	Formats []vk.SurfaceFormat
	/** @brief An array of available presentation modes. */
	PresentModes []vk.PresentMode
}

type vulkanPhysicalDeviceRequirements struct {
	Graphics             bool
	Present              bool
	Transfer             bool
	SamplerAnisotropy    bool
	DeviceExtensionNames []string
}

type vulkanPhysicalDeviceQueueFamilyInfo struct {
	GraphicsFamilyIndex uint32
	PresentFamilyIndex  uint32
	TransferFamilyIndex uint32
}

func DeviceCreate(context *VulkanContext) error {
	if err := selectPhysicalDevice(context); err != nil {
		return err
	}
	device := context.Device

	core.LogInfo("Creating logical device...")
	// Do not create additional queues for shared indices.
	presentSharesGraphicsQueue := device.GraphicsQueueIndex == device.PresentQueueIndex
	transferSharesGraphicsQueue := device.GraphicsQueueIndex == device.TransferQueueIndex

	indices := []uint32{device.GraphicsQueueIndex}
	if !presentSharesGraphicsQueue {
		indices = append(indices, device.PresentQueueIndex)
	}
	if !transferSharesGraphicsQueue {
		indices = append(indices, device.TransferQueueIndex)
	}

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(indices))
	for i, index := range indices {
		queueCreateInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: index,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
		queueCreateInfos[i].Deref()
		lockPool.SetQueueFamily(index)
	}

	deviceFeatures := vk.PhysicalDeviceFeatures{
		SamplerAnisotropy: vk.True,
	}
	deviceFeatures.Deref()

	extensionNames := []string{vk.KhrSwapchainExtensionName}
	if supportsDeviceExtension(device.PhysicalDevice, "VK_KHR_portability_subset") {
		core.LogInfo("Adding required extension 'VK_KHR_portability_subset'.")
		extensionNames = append(extensionNames, "VK_KHR_portability_subset")
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{deviceFeatures},
		EnabledExtensionCount:   uint32(len(extensionNames)),
		PpEnabledExtensionNames: VulkanSafeStrings(extensionNames),
	}
	deviceCreateInfo.Deref()

	var logicalDevice vk.Device
	if err := lockPool.SafeCall(DeviceManagement, func() error {
		if res := vk.CreateDevice(device.PhysicalDevice, &deviceCreateInfo, context.Allocator, &logicalDevice); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("failed to create logical device with error %s", VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		return err
	}
	device.LogicalDevice = logicalDevice
	core.LogInfo("Logical device created.")

	var graphicsQueue vk.Queue
	vk.GetDeviceQueue(device.LogicalDevice, device.GraphicsQueueIndex, 0, &graphicsQueue)
	device.GraphicsQueue = graphicsQueue

	var presentQueue vk.Queue
	vk.GetDeviceQueue(device.LogicalDevice, device.PresentQueueIndex, 0, &presentQueue)
	device.PresentQueue = presentQueue

	var transferQueue vk.Queue
	vk.GetDeviceQueue(device.LogicalDevice, device.TransferQueueIndex, 0, &transferQueue)
	device.TransferQueue = transferQueue

	core.LogInfo("Queues obtained.")
	return nil
}

func DeviceDestroy(context *VulkanContext) error {
	device := context.Device

	device.GraphicsQueue = nil
	device.PresentQueue = nil
	device.TransferQueue = nil

	if device.LogicalDevice != nil {
		core.LogInfo("Destroying logical device...")
		if err := lockPool.SafeCall(DeviceManagement, func() error {
			vk.DestroyDevice(device.LogicalDevice, context.Allocator)
			device.LogicalDevice = nil
			return nil
		}); err != nil {
			return err
		}
	}

	device.PhysicalDevice = nil
	device.SwapchainSupport = nil
	device.GraphicsQueueIndex = metadata.InvalidIDUint32
	device.PresentQueueIndex = metadata.InvalidIDUint32
	device.TransferQueueIndex = metadata.InvalidIDUint32

	return nil
}

/**
 * @brief Queries for swapchain support data for the given physical
 * device and surface.
 */
func DeviceQuerySwapchainSupport(physicalDevice vk.PhysicalDevice, surface vk.Surface, supportInfo *VulkanSwapchainSupportInfo) error {
	var capabilities vk.SurfaceCapabilities
	if res := vk.GetPhysicalDeviceSurfaceCapabilities(physicalDevice, surface, &capabilities); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("failed to get physical device surface capabilities with error %s", VulkanResultString(res, true))
	}
	capabilities.Deref()
	supportInfo.Capabilities = capabilities

	var formatCount uint32
	if res := vk.GetPhysicalDeviceSurfaceFormats(physicalDevice, surface, &formatCount, nil); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("failed to get physical device surface formats with error %s", VulkanResultString(res, true))
	}
	if formatCount != 0 {
		supportInfo.Formats = make([]vk.SurfaceFormat, formatCount)
		if res := vk.GetPhysicalDeviceSurfaceFormats(physicalDevice, surface, &formatCount, supportInfo.Formats); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("failed to get physical device surface formats with error %s", VulkanResultString(res, true))
		}
		for i := range supportInfo.Formats {
			supportInfo.Formats[i].Deref()
		}
	}

	var presentModeCount uint32
	if res := vk.GetPhysicalDeviceSurfacePresentModes(physicalDevice, surface, &presentModeCount, nil); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("failed to get physical device surface present modes with error %s", VulkanResultString(res, true))
	}
	if presentModeCount != 0 {
		supportInfo.PresentModes = make([]vk.PresentMode, presentModeCount)
		if res := vk.GetPhysicalDeviceSurfacePresentModes(physicalDevice, surface, &presentModeCount, supportInfo.PresentModes); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("failed to get physical device surface present modes with error %s", VulkanResultString(res, true))
		}
	}

	return nil
}

func selectPhysicalDevice(context *VulkanContext) error {
	var physicalDeviceCount uint32
	if res := vk.EnumeratePhysicalDevices(context.Instance, &physicalDeviceCount, nil); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("failed to enumerate physical devices with error %s", VulkanResultString(res, true))
	}
	if physicalDeviceCount == 0 {
		return fmt.Errorf("no devices which support Vulkan were found")
	}

	physicalDevices := make([]vk.PhysicalDevice, physicalDeviceCount)
	if res := vk.EnumeratePhysicalDevices(context.Instance, &physicalDeviceCount, physicalDevices); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("failed to enumerate physical devices with error %s", VulkanResultString(res, true))
	}

	requirements := &vulkanPhysicalDeviceRequirements{
		Graphics:             true,
		Present:              true,
		Transfer:             true,
		SamplerAnisotropy:    true,
		DeviceExtensionNames: []string{vk.KhrSwapchainExtensionName},
	}

	for _, pd := range physicalDevices {
		var properties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(pd, &properties)
		properties.Deref()
		properties.Limits.Deref()

		var features vk.PhysicalDeviceFeatures
		vk.GetPhysicalDeviceFeatures(pd, &features)
		features.Deref()

		var memory vk.PhysicalDeviceMemoryProperties
		vk.GetPhysicalDeviceMemoryProperties(pd, &memory)
		memory.Deref()

		queueInfo, supportInfo, meets := physicalDeviceMeetsRequirements(pd, context.Surface, &properties, &features, requirements)
		if !meets {
			continue
		}

		name := vk.ToString(properties.DeviceName[:])
		core.LogInfo("Selected device: '%s'.", name)
		switch properties.DeviceType {
		case vk.PhysicalDeviceTypeIntegratedGpu:
			core.LogInfo("GPU type is Integrated.")
		case vk.PhysicalDeviceTypeDiscreteGpu:
			core.LogInfo("GPU type is Discrete.")
		case vk.PhysicalDeviceTypeVirtualGpu:
			core.LogInfo("GPU type is Virtual.")
		case vk.PhysicalDeviceTypeCpu:
			core.LogInfo("GPU type is CPU.")
		default:
			core.LogInfo("GPU type is Unknown.")
		}

		device := &VulkanDevice{
			PhysicalDevice:     pd,
			GraphicsQueueIndex: queueInfo.GraphicsFamilyIndex,
			PresentQueueIndex:  queueInfo.PresentFamilyIndex,
			TransferQueueIndex: queueInfo.TransferFamilyIndex,
			Properties:         properties,
			Features:           features,
			Memory:             memory,
			SwapchainSupport:   supportInfo,
			ApiMajor:           (properties.ApiVersion >> 22) & 0x7F,
			ApiMinor:           (properties.ApiVersion >> 12) & 0x3FF,
			ApiPatch:           properties.ApiVersion & 0xFFF,
			Class:              resolveGPUClass(&properties),
		}
		core.LogInfo(
			"GPU Driver version: %d.%d.%d. Vulkan API version: %d.%d.%d. Class: %d.",
			(properties.DriverVersion>>22)&0x7F, (properties.DriverVersion>>12)&0x3FF, properties.DriverVersion&0xFFF,
			device.ApiMajor, device.ApiMinor, device.ApiPatch, device.Class,
		)

		context.Device = device
		return nil
	}

	return fmt.Errorf("no physical devices were found which meet the requirements")
}

/**
 * @brief Resolves the coarse GPU classification from the driver-reported
 * device type and vendor. Integrated parts from mobile vendors are
 * tile-based renderers; the presentation fast path uses this to decide
 * whether an explicit clear is cheaper than a tile load.
 */
func resolveGPUClass(properties *vk.PhysicalDeviceProperties) metadata.GPUClass {
	switch properties.VendorID {
	case vendorIDQualcomm, vendorIDARM, vendorIDImagination, vendorIDBroadcom:
		return metadata.GPU_CLASS_TILE_BASED
	}
	switch properties.DeviceType {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return metadata.GPU_CLASS_DISCRETE
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return metadata.GPU_CLASS_INTEGRATED
	}
	return metadata.GPU_CLASS_UNKNOWN
}

func physicalDeviceMeetsRequirements(
	device vk.PhysicalDevice,
	surface vk.Surface,
	properties *vk.PhysicalDeviceProperties,
	features *vk.PhysicalDeviceFeatures,
	requirements *vulkanPhysicalDeviceRequirements,
) (*vulkanPhysicalDeviceQueueFamilyInfo, *VulkanSwapchainSupportInfo, bool) {
	outQueueInfo := &vulkanPhysicalDeviceQueueFamilyInfo{
		GraphicsFamilyIndex: metadata.InvalidIDUint32,
		PresentFamilyIndex:  metadata.InvalidIDUint32,
		TransferFamilyIndex: metadata.InvalidIDUint32,
	}

	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, queueFamilies)

	// Prefer a dedicated transfer queue: the family with the fewest
	// additional capability bits wins.
	minTransferScore := uint8(255)
	for i := range queueFamilies {
		queueFamilies[i].Deref()
		currentTransferScore := uint8(0)

		if outQueueInfo.GraphicsFamilyIndex == metadata.InvalidIDUint32 &&
			queueFamilies[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			outQueueInfo.GraphicsFamilyIndex = uint32(i)
			currentTransferScore++

			var supportsPresent vk.Bool32
			if res := vk.GetPhysicalDeviceSurfaceSupport(device, uint32(i), surface, &supportsPresent); VulkanResultIsSuccess(res) && supportsPresent == vk.True {
				outQueueInfo.PresentFamilyIndex = uint32(i)
				currentTransferScore++
			}
		}

		if queueFamilies[i].QueueFlags&vk.QueueFlags(vk.QueueTransferBit) != 0 {
			if currentTransferScore <= minTransferScore {
				minTransferScore = currentTransferScore
				outQueueInfo.TransferFamilyIndex = uint32(i)
			}
		}
	}

	// The graphics family may not be the one that can present.
	if outQueueInfo.PresentFamilyIndex == metadata.InvalidIDUint32 {
		for i := uint32(0); i < queueFamilyCount; i++ {
			var supportsPresent vk.Bool32
			if res := vk.GetPhysicalDeviceSurfaceSupport(device, i, surface, &supportsPresent); VulkanResultIsSuccess(res) && supportsPresent == vk.True {
				outQueueInfo.PresentFamilyIndex = i
				break
			}
		}
	}

	if requirements.Graphics && outQueueInfo.GraphicsFamilyIndex == metadata.InvalidIDUint32 {
		return nil, nil, false
	}
	if requirements.Present && outQueueInfo.PresentFamilyIndex == metadata.InvalidIDUint32 {
		return nil, nil, false
	}
	if requirements.Transfer && outQueueInfo.TransferFamilyIndex == metadata.InvalidIDUint32 {
		return nil, nil, false
	}
	if requirements.SamplerAnisotropy && features.SamplerAnisotropy != vk.True {
		core.LogInfo("Device '%s' does not support samplerAnisotropy, skipping.", vk.ToString(properties.DeviceName[:]))
		return nil, nil, false
	}

	supportInfo := &VulkanSwapchainSupportInfo{}
	if err := DeviceQuerySwapchainSupport(device, surface, supportInfo); err != nil {
		return nil, nil, false
	}
	if len(supportInfo.Formats) < 1 || len(supportInfo.PresentModes) < 1 {
		core.LogInfo("Required swapchain support not present, skipping device.")
		return nil, nil, false
	}

	for _, extName := range requirements.DeviceExtensionNames {
		if !supportsDeviceExtension(device, extName) {
			core.LogInfo("Required extension not found: '%s', skipping device.", extName)
			return nil, nil, false
		}
	}

	return outQueueInfo, supportInfo, true
}

func supportsDeviceExtension(device vk.PhysicalDevice, extensionName string) bool {
	var availableExtensionCount uint32
	if res := vk.EnumerateDeviceExtensionProperties(device, "", &availableExtensionCount, nil); !VulkanResultIsSuccess(res) {
		return false
	}
	if availableExtensionCount == 0 {
		return false
	}
	availableExtensions := make([]vk.ExtensionProperties, availableExtensionCount)
	if res := vk.EnumerateDeviceExtensionProperties(device, "", &availableExtensionCount, availableExtensions); !VulkanResultIsSuccess(res) {
		return false
	}
	for i := range availableExtensions {
		availableExtensions[i].Deref()
		if vk.ToString(availableExtensions[i].ExtensionName[:]) == extensionName {
			return true
		}
	}
	return false
}
