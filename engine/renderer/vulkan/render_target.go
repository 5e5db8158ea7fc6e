package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

/**
 * @brief The key under which intermediate-target renderpasses are
 * cached. Framebuffers only require attachment compatibility, so one
 * framebuffer works with every load variant of its format.
 */
type TargetPassKey struct {
	Format vk.Format
	Load   metadata.AttachmentLoadOperation
}

/**
 * @brief The backing GPU state of an intermediate render target:
 * a colour image renderable through Framebuffer and sampleable through
 * the pre-built descriptor set.
 */
type VulkanRenderTarget struct {
	Descriptor  metadata.RenderTargetDescriptor
	Image       *VulkanImage
	Framebuffer vk.Framebuffer
	Sampler     vk.Sampler
	// Bound at draw time when this target is the blit source.
	DescriptorSet vk.DescriptorSet
}

func targetFormat(format metadata.TargetFormat) (vk.Format, error) {
	switch format {
	case metadata.TARGET_FORMAT_RGBA8_UNORM:
		return vk.FormatR8g8b8a8Unorm, nil
	case metadata.TARGET_FORMAT_BGRA8_UNORM:
		return vk.FormatB8g8r8a8Unorm, nil
	case metadata.TARGET_FORMAT_RGBA16_FLOAT:
		return vk.FormatR16g16b16a16Sfloat, nil
	}
	return vk.FormatUndefined, fmt.Errorf("unsupported render target format %d", format)
}

/**
 * @brief Returns the renderpass intermediate targets of the given
 * format and load op render through, creating it on first use. Final
 * layout is shader-read so the next stage can sample the result without
 * an extra barrier.
 */
func targetRenderpass(context *VulkanContext, format vk.Format, load metadata.AttachmentLoadOperation) (*VulkanRenderpass, error) {
	key := TargetPassKey{Format: format, Load: load}
	if pass, ok := context.TargetPasses[key]; ok {
		return pass, nil
	}
	initialLayout := vk.ImageLayoutUndefined
	if load == metadata.ATTACHMENT_LOAD_OPERATION_LOAD {
		initialLayout = vk.ImageLayoutShaderReadOnlyOptimal
	}
	pass, err := RenderpassCreate(
		context,
		format,
		load,
		metadata.ATTACHMENT_STORE_OPERATION_STORE,
		initialLayout,
		vk.ImageLayoutShaderReadOnlyOptimal,
	)
	if err != nil {
		return nil, err
	}
	context.TargetPasses[key] = pass
	return pass, nil
}

func RenderTargetCreate(context *VulkanContext, descriptor metadata.RenderTargetDescriptor) (*VulkanRenderTarget, error) {
	if descriptor.Dimension != metadata.TARGET_DIMENSION_2D {
		return nil, fmt.Errorf("only 2D render targets are supported, got dimension %d", descriptor.Dimension)
	}
	if descriptor.Width == 0 || descriptor.Height == 0 {
		return nil, fmt.Errorf("render target must have a non-zero size")
	}
	format, err := targetFormat(descriptor.Format)
	if err != nil {
		return nil, err
	}

	target := &VulkanRenderTarget{
		Descriptor: descriptor,
	}

	usage := vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit) |
		vk.ImageUsageFlags(vk.ImageUsageSampledBit) |
		vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit)
	image, err := ImageCreate(
		context,
		descriptor.Width,
		descriptor.Height,
		format,
		vk.ImageTilingOptimal,
		usage,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectColorBit),
	)
	if err != nil {
		return nil, err
	}
	target.Image = image

	pass, err := targetRenderpass(context, format, metadata.ATTACHMENT_LOAD_OPERATION_DONT_CARE)
	if err != nil {
		RenderTargetDestroy(context, target)
		return nil, err
	}
	framebuffer, err := FramebufferCreate(context, pass, descriptor.Width, descriptor.Height, []vk.ImageView{image.View})
	if err != nil {
		RenderTargetDestroy(context, target)
		return nil, err
	}
	target.Framebuffer = framebuffer

	samplerCreateInfo := vk.SamplerCreateInfo{
		SType:        vk.StructureTypeSamplerCreateInfo,
		MagFilter:    vk.FilterLinear,
		MinFilter:    vk.FilterLinear,
		AddressModeU: vk.SamplerAddressModeClampToEdge,
		AddressModeV: vk.SamplerAddressModeClampToEdge,
		AddressModeW: vk.SamplerAddressModeClampToEdge,
		MipmapMode:   vk.SamplerMipmapModeNearest,
	}
	samplerCreateInfo.Deref()

	var sampler vk.Sampler
	if err := lockPool.SafeCall(SamplerManagement, func() error {
		if res := vk.CreateSampler(context.Device.LogicalDevice, &samplerCreateInfo, context.Allocator, &sampler); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkCreateSampler failed with %s", VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		RenderTargetDestroy(context, target)
		return nil, err
	}
	target.Sampler = sampler

	if err := allocateTargetDescriptorSet(context, target); err != nil {
		RenderTargetDestroy(context, target)
		return nil, err
	}

	return target, nil
}

func allocateTargetDescriptorSet(context *VulkanContext, target *VulkanRenderTarget) error {
	allocateInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     context.DescriptorPool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{context.SamplerSetLayout},
	}
	allocateInfo.Deref()

	sets := make([]vk.DescriptorSet, 1)
	if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocateInfo, &sets[0]); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("vkAllocateDescriptorSets failed with %s", VulkanResultString(res, true))
	}
	target.DescriptorSet = sets[0]

	imageInfo := vk.DescriptorImageInfo{
		Sampler:     target.Sampler,
		ImageView:   target.Image.View,
		ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
	}
	imageInfo.Deref()

	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          target.DescriptorSet,
		DstBinding:      0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		PImageInfo:      []vk.DescriptorImageInfo{imageInfo},
	}
	write.Deref()

	vk.UpdateDescriptorSets(context.Device.LogicalDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
	return nil
}

func RenderTargetDestroy(context *VulkanContext, target *VulkanRenderTarget) {
	if target == nil {
		return
	}
	if target.DescriptorSet != vk.NullDescriptorSet {
		vk.FreeDescriptorSets(context.Device.LogicalDevice, context.DescriptorPool, 1, &target.DescriptorSet)
		target.DescriptorSet = vk.NullDescriptorSet
	}
	if target.Sampler != vk.NullSampler {
		lockPool.SafeCall(SamplerManagement, func() error {
			vk.DestroySampler(context.Device.LogicalDevice, target.Sampler, context.Allocator)
			target.Sampler = vk.NullSampler
			return nil
		})
	}
	FramebufferDestroy(context, target.Framebuffer)
	target.Framebuffer = vk.NullFramebuffer
	ImageDestroy(context, target.Image)
	target.Image = nil
}
