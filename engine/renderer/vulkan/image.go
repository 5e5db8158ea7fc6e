package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

type VulkanImage struct {
	Handle vk.Image
	Memory vk.DeviceMemory
	View   vk.ImageView
	Width  uint32
	Height uint32
	Format vk.Format
}

func ImageCreate(
	context *VulkanContext,
	width uint32,
	height uint32,
	format vk.Format,
	tiling vk.ImageTiling,
	usage vk.ImageUsageFlags,
	memoryFlags vk.MemoryPropertyFlags,
	createView bool,
	viewAspectFlags vk.ImageAspectFlags,
) (*VulkanImage, error) {
	image := &VulkanImage{
		Width:  width,
		Height: height,
		Format: format,
	}

	imageCreateInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Extent: vk.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        format,
		Tiling:        tiling,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         usage,
		Samples:       vk.SampleCount1Bit,
		SharingMode:   vk.SharingModeExclusive,
	}
	imageCreateInfo.Deref()

	var handle vk.Image
	if err := lockPool.SafeCall(ImageManagement, func() error {
		if res := vk.CreateImage(context.Device.LogicalDevice, &imageCreateInfo, context.Allocator, &handle); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkCreateImage failed with %s", VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		return nil, err
	}
	image.Handle = handle

	var memoryRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(context.Device.LogicalDevice, image.Handle, &memoryRequirements)
	memoryRequirements.Deref()

	memoryType := context.FindMemoryIndex(memoryRequirements.MemoryTypeBits, uint32(memoryFlags))
	if memoryType == -1 {
		return nil, fmt.Errorf("required memory type not found, image not valid")
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memoryRequirements.Size,
		MemoryTypeIndex: uint32(memoryType),
	}
	allocateInfo.Deref()

	var memory vk.DeviceMemory
	if err := lockPool.SafeCall(MemoryManagement, func() error {
		if res := vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &memory); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkAllocateMemory failed with %s", VulkanResultString(res, true))
		}
		if res := vk.BindImageMemory(context.Device.LogicalDevice, image.Handle, memory, 0); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkBindImageMemory failed with %s", VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		return nil, err
	}
	image.Memory = memory

	if createView {
		view, err := ImageViewCreate(context, format, image.Handle, viewAspectFlags)
		if err != nil {
			return nil, err
		}
		image.View = view
	}

	return image, nil
}

func ImageViewCreate(context *VulkanContext, format vk.Format, imageHandle vk.Image, aspectFlags vk.ImageAspectFlags) (vk.ImageView, error) {
	viewCreateInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    imageHandle,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspectFlags,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
	viewCreateInfo.Deref()

	var view vk.ImageView
	if err := lockPool.SafeCall(ImageManagement, func() error {
		if res := vk.CreateImageView(context.Device.LogicalDevice, &viewCreateInfo, context.Allocator, &view); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkCreateImageView failed with %s", VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		return vk.NullImageView, err
	}
	return view, nil
}

/**
 * @brief Records a layout transition barrier for the image's colour
 * aspect into the given command buffer.
 */
func ImageTransitionLayout(
	commandBuffer *VulkanCommandBuffer,
	imageHandle vk.Image,
	oldLayout vk.ImageLayout,
	newLayout vk.ImageLayout,
	srcAccess vk.AccessFlags,
	dstAccess vk.AccessFlags,
	srcStage vk.PipelineStageFlags,
	dstStage vk.PipelineStageFlags,
) {
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               imageHandle,
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
	barrier.Deref()

	vk.CmdPipelineBarrier(
		commandBuffer.Handle,
		srcStage,
		dstStage,
		0,
		0, nil,
		0, nil,
		1, []vk.ImageMemoryBarrier{barrier},
	)
}

func ImageDestroy(context *VulkanContext, image *VulkanImage) {
	if image == nil {
		return
	}
	lockPool.SafeCall(ImageManagement, func() error {
		if image.View != vk.NullImageView {
			vk.DestroyImageView(context.Device.LogicalDevice, image.View, context.Allocator)
			image.View = vk.NullImageView
		}
		if image.Handle != vk.NullImage {
			vk.DestroyImage(context.Device.LogicalDevice, image.Handle, context.Allocator)
			image.Handle = vk.NullImage
		}
		return nil
	})
	lockPool.SafeCall(MemoryManagement, func() error {
		if image.Memory != vk.NullDeviceMemory {
			vk.FreeMemory(context.Device.LogicalDevice, image.Memory, context.Allocator)
			image.Memory = vk.NullDeviceMemory
		}
		return nil
	})
}
