package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

func FramebufferCreate(context *VulkanContext, renderpass *VulkanRenderpass, width, height uint32, attachments []vk.ImageView) (vk.Framebuffer, error) {
	framebufferCreateInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderpass.Handle,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           width,
		Height:          height,
		Layers:          1,
	}
	framebufferCreateInfo.Deref()

	var framebuffer vk.Framebuffer
	if err := lockPool.SafeCall(RenderpassManagement, func() error {
		if res := vk.CreateFramebuffer(context.Device.LogicalDevice, &framebufferCreateInfo, context.Allocator, &framebuffer); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkCreateFramebuffer failed with %s", VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		return vk.NullFramebuffer, err
	}
	return framebuffer, nil
}

func FramebufferDestroy(context *VulkanContext, framebuffer vk.Framebuffer) {
	if framebuffer == vk.NullFramebuffer {
		return
	}
	lockPool.SafeCall(RenderpassManagement, func() error {
		vk.DestroyFramebuffer(context.Device.LogicalDevice, framebuffer, context.Allocator)
		return nil
	})
}
