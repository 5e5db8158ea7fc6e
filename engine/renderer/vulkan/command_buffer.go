package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

type VulkanCommandBufferState int

const (
	COMMAND_BUFFER_STATE_READY VulkanCommandBufferState = iota
	COMMAND_BUFFER_STATE_RECORDING
	COMMAND_BUFFER_STATE_IN_RENDER_PASS
	COMMAND_BUFFER_STATE_RECORDING_ENDED
	COMMAND_BUFFER_STATE_SUBMITTED
	COMMAND_BUFFER_STATE_NOT_ALLOCATED
)

type VulkanCommandBuffer struct {
	Handle vk.CommandBuffer
	State  VulkanCommandBufferState
}

func CommandBufferAllocate(context *VulkanContext, pool vk.CommandPool, isPrimary bool) (*VulkanCommandBuffer, error) {
	level := vk.CommandBufferLevelPrimary
	if !isPrimary {
		level = vk.CommandBufferLevelSecondary
	}
	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              level,
		CommandBufferCount: 1,
	}
	allocateInfo.Deref()

	handles := make([]vk.CommandBuffer, 1)
	if err := lockPool.SafeCall(CommandBufferManagement, func() error {
		if res := vk.AllocateCommandBuffers(context.Device.LogicalDevice, &allocateInfo, handles); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkAllocateCommandBuffers failed with %s", VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return &VulkanCommandBuffer{
		Handle: handles[0],
		State:  COMMAND_BUFFER_STATE_READY,
	}, nil
}

func CommandBufferFree(context *VulkanContext, pool vk.CommandPool, commandBuffer *VulkanCommandBuffer) {
	if commandBuffer == nil || commandBuffer.Handle == nil {
		return
	}
	lockPool.SafeCall(CommandBufferManagement, func() error {
		vk.FreeCommandBuffers(context.Device.LogicalDevice, pool, 1, []vk.CommandBuffer{commandBuffer.Handle})
		commandBuffer.Handle = nil
		commandBuffer.State = COMMAND_BUFFER_STATE_NOT_ALLOCATED
		return nil
	})
}

func (commandBuffer *VulkanCommandBuffer) Begin(isSingleUse, isRenderpassContinue, isSimultaneousUse bool) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	if isSingleUse {
		beginInfo.Flags |= vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)
	}
	if isRenderpassContinue {
		beginInfo.Flags |= vk.CommandBufferUsageFlags(vk.CommandBufferUsageRenderPassContinueBit)
	}
	if isSimultaneousUse {
		beginInfo.Flags |= vk.CommandBufferUsageFlags(vk.CommandBufferUsageSimultaneousUseBit)
	}
	beginInfo.Deref()

	if res := vk.BeginCommandBuffer(commandBuffer.Handle, &beginInfo); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("vkBeginCommandBuffer failed with %s", VulkanResultString(res, true))
	}
	commandBuffer.State = COMMAND_BUFFER_STATE_RECORDING
	return nil
}

func (commandBuffer *VulkanCommandBuffer) End() error {
	if res := vk.EndCommandBuffer(commandBuffer.Handle); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("vkEndCommandBuffer failed with %s", VulkanResultString(res, true))
	}
	commandBuffer.State = COMMAND_BUFFER_STATE_RECORDING_ENDED
	return nil
}

func (commandBuffer *VulkanCommandBuffer) UpdateSubmitted() {
	commandBuffer.State = COMMAND_BUFFER_STATE_SUBMITTED
}

func (commandBuffer *VulkanCommandBuffer) Reset() {
	commandBuffer.State = COMMAND_BUFFER_STATE_READY
}

/**
 * @brief Allocates a command buffer, begins it in single-use mode and
 * returns it ready for recording.
 */
func CommandBufferAllocateAndBeginSingleUse(context *VulkanContext, pool vk.CommandPool) (*VulkanCommandBuffer, error) {
	commandBuffer, err := CommandBufferAllocate(context, pool, true)
	if err != nil {
		return nil, err
	}
	if err := commandBuffer.Begin(true, false, false); err != nil {
		CommandBufferFree(context, pool, commandBuffer)
		return nil, err
	}
	return commandBuffer, nil
}

/**
 * @brief Ends the buffer, submits it to the queue, waits for completion
 * and frees it.
 */
func CommandBufferEndSingleUse(context *VulkanContext, pool vk.CommandPool, commandBuffer *VulkanCommandBuffer, queue vk.Queue, queueFamilyIndex uint32) error {
	if err := commandBuffer.End(); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{commandBuffer.Handle},
	}
	submitInfo.Deref()

	if err := lockPool.SafeQueueCall(queueFamilyIndex, func() error {
		if res := vk.QueueSubmit(queue, 1, []vk.SubmitInfo{submitInfo}, vk.NullFence); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkQueueSubmit failed with %s", VulkanResultString(res, true))
		}
		if res := vk.QueueWaitIdle(queue); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkQueueWaitIdle failed with %s", VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		return err
	}

	CommandBufferFree(context, pool, commandBuffer)
	return nil
}
