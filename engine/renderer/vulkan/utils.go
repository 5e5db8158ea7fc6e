package vulkan

import (
	vk "github.com/goki/vulkan"
)

/**
 * @brief Returns the string representation of result.
 * @param result The result to retrieve the string for.
 * @param getExtended Indicates whether to also return an extended result.
 * @returns The error code and/or extended error message in string form.
 */
func VulkanResultString(result vk.Result, getExtended bool) string {
	// From: https://www.khronos.org/registry/vulkan/specs/1.2-extensions/man/html/VkResult.html
	switch result {
	default:
		fallthrough
	case vk.Success:
		if !getExtended {
			return "VK_SUCCESS"
		}
		return "VK_SUCCESS Command successfully completed"
	case vk.NotReady:
		if !getExtended {
			return "VK_NOT_READY"
		}
		return "VK_NOT_READY A fence or query has not yet completed"
	case vk.Timeout:
		if !getExtended {
			return "VK_TIMEOUT"
		}
		return "VK_TIMEOUT A wait operation has not completed in the specified time"
	case vk.EventSet:
		if !getExtended {
			return "VK_EVENT_SET"
		}
		return "VK_EVENT_SET An event is signaled"
	case vk.EventReset:
		if !getExtended {
			return "VK_EVENT_RESET"
		}
		return "VK_EVENT_RESET An event is unsignaled"
	case vk.Incomplete:
		if !getExtended {
			return "VK_INCOMPLETE"
		}
		return "VK_INCOMPLETE A return array was too small for the result"
	case vk.Suboptimal:
		if !getExtended {
			return "VK_SUBOPTIMAL_KHR"
		}
		return "VK_SUBOPTIMAL_KHR A swapchain no longer matches the surface properties exactly, but can still be used to present to the surface successfully."
	case vk.ErrorOutOfHostMemory:
		if !getExtended {
			return "VK_ERROR_OUT_OF_HOST_MEMORY"
		}
		return "VK_ERROR_OUT_OF_HOST_MEMORY A host memory allocation has failed."
	case vk.ErrorOutOfDeviceMemory:
		if !getExtended {
			return "VK_ERROR_OUT_OF_DEVICE_MEMORY"
		}
		return "VK_ERROR_OUT_OF_DEVICE_MEMORY A device memory allocation has failed."
	case vk.ErrorInitializationFailed:
		if !getExtended {
			return "VK_ERROR_INITIALIZATION_FAILED"
		}
		return "VK_ERROR_INITIALIZATION_FAILED Initialization of an object could not be completed for implementation-specific reasons."
	case vk.ErrorDeviceLost:
		if !getExtended {
			return "VK_ERROR_DEVICE_LOST"
		}
		return "VK_ERROR_DEVICE_LOST The logical or physical device has been lost."
	case vk.ErrorMemoryMapFailed:
		if !getExtended {
			return "VK_ERROR_MEMORY_MAP_FAILED"
		}
		return "VK_ERROR_MEMORY_MAP_FAILED Mapping of a memory object has failed."
	case vk.ErrorLayerNotPresent:
		if !getExtended {
			return "VK_ERROR_LAYER_NOT_PRESENT"
		}
		return "VK_ERROR_LAYER_NOT_PRESENT A requested layer is not present or could not be loaded."
	case vk.ErrorExtensionNotPresent:
		if !getExtended {
			return "VK_ERROR_EXTENSION_NOT_PRESENT"
		}
		return "VK_ERROR_EXTENSION_NOT_PRESENT A requested extension is not supported."
	case vk.ErrorFeatureNotPresent:
		if !getExtended {
			return "VK_ERROR_FEATURE_NOT_PRESENT"
		}
		return "VK_ERROR_FEATURE_NOT_PRESENT A requested feature is not supported."
	case vk.ErrorIncompatibleDriver:
		if !getExtended {
			return "VK_ERROR_INCOMPATIBLE_DRIVER"
		}
		return "VK_ERROR_INCOMPATIBLE_DRIVER The requested version of Vulkan is not supported by the driver or is otherwise incompatible for implementation-specific reasons."
	case vk.ErrorTooManyObjects:
		if !getExtended {
			return "VK_ERROR_TOO_MANY_OBJECTS"
		}
		return "VK_ERROR_TOO_MANY_OBJECTS Too many objects of the type have already been created."
	case vk.ErrorFormatNotSupported:
		if !getExtended {
			return "VK_ERROR_FORMAT_NOT_SUPPORTED"
		}
		return "VK_ERROR_FORMAT_NOT_SUPPORTED A requested format is not supported on this device."
	case vk.ErrorFragmentedPool:
		if !getExtended {
			return "VK_ERROR_FRAGMENTED_POOL"
		}
		return "VK_ERROR_FRAGMENTED_POOL A pool allocation has failed due to fragmentation of the pool's memory."
	case vk.ErrorSurfaceLost:
		if !getExtended {
			return "VK_ERROR_SURFACE_LOST_KHR"
		}
		return "VK_ERROR_SURFACE_LOST_KHR A surface is no longer available."
	case vk.ErrorNativeWindowInUse:
		if !getExtended {
			return "VK_ERROR_NATIVE_WINDOW_IN_USE_KHR"
		}
		return "VK_ERROR_NATIVE_WINDOW_IN_USE_KHR The requested window is already in use by Vulkan or another API in a manner which prevents it from being used again."
	case vk.ErrorOutOfDate:
		if !getExtended {
			return "VK_ERROR_OUT_OF_DATE_KHR"
		}
		return "VK_ERROR_OUT_OF_DATE_KHR A surface has changed in such a way that it is no longer compatible with the swapchain, and further presentation requests using the swapchain will fail."
	case vk.ErrorOutOfPoolMemory:
		if !getExtended {
			return "VK_ERROR_OUT_OF_POOL_MEMORY"
		}
		return "VK_ERROR_OUT_OF_POOL_MEMORY A pool memory allocation has failed."
	case vk.ErrorInvalidExternalHandle:
		if !getExtended {
			return "VK_ERROR_INVALID_EXTERNAL_HANDLE"
		}
		return "VK_ERROR_INVALID_EXTERNAL_HANDLE An external handle is not a valid handle of the specified type."
	case vk.ErrorFragmentation:
		if !getExtended {
			return "VK_ERROR_FRAGMENTATION_EXT"
		}
		return "VK_ERROR_FRAGMENTATION_EXT A descriptor pool creation has failed due to fragmentation."
	case vk.ErrorValidationFailed:
		if !getExtended {
			return "VK_ERROR_VALIDATION_FAILED_EXT"
		}
		return "VK_ERROR_VALIDATION_FAILED_EXT A validation layer found an error."
	}
}

/**
 * @brief Indicates if the passed result is a success or an error as defined by the Vulkan spec.
 * @returns True if success; otherwise false. Defaults to true for unknown result types.
 */
func VulkanResultIsSuccess(result vk.Result) bool {
	switch result {
	// Success Codes
	default:
		fallthrough
	case vk.Success, vk.NotReady, vk.Timeout, vk.EventSet, vk.EventReset, vk.Incomplete, vk.Suboptimal:
		return true
	// Error codes
	case vk.ErrorOutOfHostMemory, vk.ErrorOutOfDeviceMemory, vk.ErrorInitializationFailed,
		vk.ErrorDeviceLost, vk.ErrorMemoryMapFailed, vk.ErrorLayerNotPresent,
		vk.ErrorExtensionNotPresent, vk.ErrorFeatureNotPresent, vk.ErrorIncompatibleDriver,
		vk.ErrorTooManyObjects, vk.ErrorFormatNotSupported, vk.ErrorFragmentedPool,
		vk.ErrorSurfaceLost, vk.ErrorNativeWindowInUse, vk.ErrorOutOfDate,
		vk.ErrorOutOfPoolMemory, vk.ErrorInvalidExternalHandle, vk.ErrorFragmentation,
		vk.ErrorValidationFailed:
		return false
	}
}

// VulkanSafeString terminates the string with the null byte the C side
// expects.
func VulkanSafeString(s string) string {
	return s + "\x00"
}

// FindFirstZeroInByteArray returns the index of the terminating null in
// a fixed-size C string buffer, or the last index if none is found.
func FindFirstZeroInByteArray(arr []byte) int {
	for i, b := range arr {
		if b == 0 {
			return i
		}
	}
	return len(arr) - 1
}

func VulkanSafeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = VulkanSafeString(s)
	}
	return out
}
