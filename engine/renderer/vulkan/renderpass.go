package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

/**
 * @brief A single-subpass renderpass over one colour attachment. The
 * load and store actions are baked in at creation; the backend keeps
 * one variant per action pair it needs. Clears are issued as explicit
 * commands inside the pass, never through the load op.
 */
type VulkanRenderpass struct {
	Handle vk.RenderPass
	Format vk.Format
	Load   metadata.AttachmentLoadOperation
	Store  metadata.AttachmentStoreOperation
}

func RenderpassCreate(
	context *VulkanContext,
	format vk.Format,
	load metadata.AttachmentLoadOperation,
	store metadata.AttachmentStoreOperation,
	initialLayout vk.ImageLayout,
	finalLayout vk.ImageLayout,
) (*VulkanRenderpass, error) {
	loadOp := vk.AttachmentLoadOpDontCare
	if load == metadata.ATTACHMENT_LOAD_OPERATION_LOAD {
		loadOp = vk.AttachmentLoadOpLoad
		if initialLayout == vk.ImageLayoutUndefined {
			return nil, fmt.Errorf("renderpass with LOAD action requires a defined initial layout")
		}
	}
	storeOp := vk.AttachmentStoreOpDontCare
	if store == metadata.ATTACHMENT_STORE_OPERATION_STORE {
		storeOp = vk.AttachmentStoreOpStore
	}

	colorAttachment := vk.AttachmentDescription{
		Format:         format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         loadOp,
		StoreOp:        storeOp,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  initialLayout,
		FinalLayout:    finalLayout,
	}
	colorAttachment.Deref()

	colorAttachmentReference := vk.AttachmentReference{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}
	colorAttachmentReference.Deref()

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    []vk.AttachmentReference{colorAttachmentReference},
	}
	subpass.Deref()

	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit) | vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
	}
	dependency.Deref()

	renderpassCreateInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vk.AttachmentDescription{colorAttachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}
	renderpassCreateInfo.Deref()

	var handle vk.RenderPass
	if err := lockPool.SafeCall(RenderpassManagement, func() error {
		if res := vk.CreateRenderPass(context.Device.LogicalDevice, &renderpassCreateInfo, context.Allocator, &handle); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkCreateRenderPass failed with %s", VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return &VulkanRenderpass{
		Handle: handle,
		Format: format,
		Load:   load,
		Store:  store,
	}, nil
}

func (renderpass *VulkanRenderpass) Destroy(context *VulkanContext) {
	if renderpass == nil || renderpass.Handle == vk.NullRenderPass {
		return
	}
	lockPool.SafeCall(RenderpassManagement, func() error {
		vk.DestroyRenderPass(context.Device.LogicalDevice, renderpass.Handle, context.Allocator)
		renderpass.Handle = vk.NullRenderPass
		return nil
	})
}

func (renderpass *VulkanRenderpass) Begin(commandBuffer *VulkanCommandBuffer, framebuffer vk.Framebuffer, width, height uint32) {
	beginInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  renderpass.Handle,
		Framebuffer: framebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: vk.Extent2D{Width: width, Height: height},
		},
	}
	beginInfo.Deref()

	vk.CmdBeginRenderPass(commandBuffer.Handle, &beginInfo, vk.SubpassContentsInline)
	commandBuffer.State = COMMAND_BUFFER_STATE_IN_RENDER_PASS
}

func (renderpass *VulkanRenderpass) End(commandBuffer *VulkanCommandBuffer) {
	vk.CmdEndRenderPass(commandBuffer.Handle)
	commandBuffer.State = COMMAND_BUFFER_STATE_RECORDING
}
