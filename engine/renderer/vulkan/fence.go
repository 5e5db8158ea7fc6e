package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prisma/engine/core"
)

type VulkanFence struct {
	Handle     vk.Fence
	IsSignaled bool
}

func NewFence(context *VulkanContext, createSignaled bool) (*VulkanFence, error) {
	fence := &VulkanFence{
		IsSignaled: createSignaled,
	}
	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if createSignaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	fenceCreateInfo.Deref()

	var handle vk.Fence
	if err := lockPool.SafeCall(SynchronizationManagement, func() error {
		if res := vk.CreateFence(context.Device.LogicalDevice, &fenceCreateInfo, context.Allocator, &handle); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkCreateFence failed with %s", VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		return nil, err
	}
	fence.Handle = handle
	return fence, nil
}

func (fence *VulkanFence) Destroy(context *VulkanContext) {
	if fence.Handle != vk.NullFence {
		lockPool.SafeCall(SynchronizationManagement, func() error {
			vk.DestroyFence(context.Device.LogicalDevice, fence.Handle, context.Allocator)
			fence.Handle = vk.NullFence
			return nil
		})
	}
	fence.IsSignaled = false
}

func (fence *VulkanFence) Wait(context *VulkanContext, timeoutNS uint64) bool {
	if fence.IsSignaled {
		return true
	}
	result := vk.WaitForFences(context.Device.LogicalDevice, 1, []vk.Fence{fence.Handle}, vk.True, timeoutNS)
	switch result {
	case vk.Success:
		fence.IsSignaled = true
		return true
	case vk.Timeout:
		core.LogWarn("vk_fence_wait - Timed out")
	case vk.ErrorDeviceLost:
		core.LogError("vk_fence_wait - VK_ERROR_DEVICE_LOST.")
	case vk.ErrorOutOfHostMemory:
		core.LogError("vk_fence_wait - VK_ERROR_OUT_OF_HOST_MEMORY.")
	case vk.ErrorOutOfDeviceMemory:
		core.LogError("vk_fence_wait - VK_ERROR_OUT_OF_DEVICE_MEMORY.")
	default:
		core.LogError("vk_fence_wait - An unknown error has occurred.")
	}
	return false
}

func (fence *VulkanFence) Reset(context *VulkanContext) error {
	if !fence.IsSignaled {
		return nil
	}
	if res := vk.ResetFences(context.Device.LogicalDevice, 1, []vk.Fence{fence.Handle}); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("vkResetFences failed with %s", VulkanResultString(res, true))
	}
	fence.IsSignaled = false
	return nil
}
