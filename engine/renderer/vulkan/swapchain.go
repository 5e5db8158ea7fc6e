package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/math"
)

/**
 * @brief Representation of the swapchain and the backbuffer images it
 * owns. Framebuffers are regenerated by the backend whenever the
 * swapchain is (re)created.
 */
type VulkanSwapchain struct {
	/** @brief The swapchain image format. */
	ImageFormat vk.SurfaceFormat
	/** @brief The maximum number of "images in flight". Typically one less than the image count. */
	MaxFramesInFlight uint8
	/** @brief The swapchain internal handle. */
	Handle vk.Swapchain
	/** @brief The number of swapchain images. */
	ImageCount uint32
	/** @brief The backbuffer images. */
	Images []vk.Image
	/** @brief Views for the backbuffer images. */
	ImageViews []vk.ImageView
	/** @brief Framebuffers for the backbuffer, one per image. */
	Framebuffers []vk.Framebuffer
	/** @brief The extent the swapchain was last created at. */
	Extent vk.Extent2D
}

func SwapchainCreate(context *VulkanContext, width, height uint32) (*VulkanSwapchain, error) {
	swapchain := &VulkanSwapchain{}
	if err := createSwapchainInternal(context, swapchain, width, height); err != nil {
		return nil, err
	}
	return swapchain, nil
}

func (swapchain *VulkanSwapchain) Recreate(context *VulkanContext, width, height uint32) error {
	swapchain.destroyInternal(context)
	return createSwapchainInternal(context, swapchain, width, height)
}

func (swapchain *VulkanSwapchain) Destroy(context *VulkanContext) {
	vk.DeviceWaitIdle(context.Device.LogicalDevice)
	swapchain.destroyInternal(context)
}

func createSwapchainInternal(context *VulkanContext, swapchain *VulkanSwapchain, width, height uint32) error {
	// Requery support; the surface may have changed.
	if err := DeviceQuerySwapchainSupport(context.Device.PhysicalDevice, context.Surface, context.Device.SwapchainSupport); err != nil {
		return err
	}
	support := context.Device.SwapchainSupport

	// Prefer a B8G8R8A8 unorm surface. The blit shader performs the
	// linear-to-sRGB conversion itself when its keyword is enabled, so a
	// hardware sRGB surface would double-convert.
	swapchain.ImageFormat = support.Formats[0]
	for _, format := range support.Formats {
		if format.Format == vk.FormatB8g8r8a8Unorm && format.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			swapchain.ImageFormat = format
			break
		}
	}

	presentMode := vk.PresentModeFifo
	for _, mode := range support.PresentModes {
		if mode == vk.PresentModeMailbox {
			presentMode = mode
			break
		}
	}

	extent := vk.Extent2D{Width: width, Height: height}
	if support.Capabilities.CurrentExtent.Width != ^uint32(0) {
		extent = support.Capabilities.CurrentExtent
	}
	minExtent := support.Capabilities.MinImageExtent
	maxExtent := support.Capabilities.MaxImageExtent
	extent.Width = math.Clamp(extent.Width, minExtent.Width, maxExtent.Width)
	extent.Height = math.Clamp(extent.Height, minExtent.Height, maxExtent.Height)

	imageCount := support.Capabilities.MinImageCount + 1
	if support.Capabilities.MaxImageCount > 0 && imageCount > support.Capabilities.MaxImageCount {
		imageCount = support.Capabilities.MaxImageCount
	}
	swapchain.MaxFramesInFlight = 2

	swapchainCreateInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          context.Surface,
		MinImageCount:    imageCount,
		ImageFormat:      swapchain.ImageFormat.Format,
		ImageColorSpace:  swapchain.ImageFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit) | vk.ImageUsageFlags(vk.ImageUsageTransferDstBit),
		PreTransform:     support.Capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      presentMode,
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}
	if context.Device.GraphicsQueueIndex != context.Device.PresentQueueIndex {
		swapchainCreateInfo.ImageSharingMode = vk.SharingModeConcurrent
		swapchainCreateInfo.QueueFamilyIndexCount = 2
		swapchainCreateInfo.PQueueFamilyIndices = []uint32{
			context.Device.GraphicsQueueIndex,
			context.Device.PresentQueueIndex,
		}
	} else {
		swapchainCreateInfo.ImageSharingMode = vk.SharingModeExclusive
	}
	swapchainCreateInfo.Deref()

	var handle vk.Swapchain
	if err := lockPool.SafeCall(SwapchainManagement, func() error {
		if res := vk.CreateSwapchain(context.Device.LogicalDevice, &swapchainCreateInfo, context.Allocator, &handle); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkCreateSwapchainKHR failed with %s", VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		return err
	}
	swapchain.Handle = handle
	swapchain.Extent = extent

	context.CurrentFrame = 0

	var swapchainImageCount uint32
	if res := vk.GetSwapchainImages(context.Device.LogicalDevice, swapchain.Handle, &swapchainImageCount, nil); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("vkGetSwapchainImagesKHR failed with %s", VulkanResultString(res, true))
	}
	swapchain.ImageCount = swapchainImageCount
	swapchain.Images = make([]vk.Image, swapchainImageCount)
	if res := vk.GetSwapchainImages(context.Device.LogicalDevice, swapchain.Handle, &swapchainImageCount, swapchain.Images); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("vkGetSwapchainImagesKHR failed with %s", VulkanResultString(res, true))
	}

	swapchain.ImageViews = make([]vk.ImageView, swapchainImageCount)
	for i := uint32(0); i < swapchainImageCount; i++ {
		view, err := ImageViewCreate(context, swapchain.ImageFormat.Format, swapchain.Images[i], vk.ImageAspectFlags(vk.ImageAspectColorBit))
		if err != nil {
			return err
		}
		swapchain.ImageViews[i] = view
	}

	core.LogInfo("Swapchain created successfully.")
	return nil
}

func (swapchain *VulkanSwapchain) destroyInternal(context *VulkanContext) {
	for _, framebuffer := range swapchain.Framebuffers {
		FramebufferDestroy(context, framebuffer)
	}
	swapchain.Framebuffers = nil

	for _, view := range swapchain.ImageViews {
		lockPool.SafeCall(ImageManagement, func() error {
			vk.DestroyImageView(context.Device.LogicalDevice, view, context.Allocator)
			return nil
		})
	}
	swapchain.ImageViews = nil
	swapchain.Images = nil

	if swapchain.Handle != vk.NullSwapchain {
		lockPool.SafeCall(SwapchainManagement, func() error {
			vk.DestroySwapchain(context.Device.LogicalDevice, swapchain.Handle, context.Allocator)
			swapchain.Handle = vk.NullSwapchain
			return nil
		})
	}
}

/**
 * @brief Acquires the index of the next backbuffer image to render to.
 * An out-of-date result reports failure so the caller can trigger a
 * swapchain recreation and skip the frame.
 */
func (swapchain *VulkanSwapchain) AcquireNextImageIndex(context *VulkanContext, timeoutNS uint64, imageAvailableSemaphore vk.Semaphore, fence vk.Fence) (uint32, error) {
	var imageIndex uint32
	result := vk.AcquireNextImage(context.Device.LogicalDevice, swapchain.Handle, timeoutNS, imageAvailableSemaphore, fence, &imageIndex)
	if result == vk.ErrorOutOfDate {
		return 0, fmt.Errorf("swapchain is out of date")
	}
	if result != vk.Success && result != vk.Suboptimal {
		return 0, fmt.Errorf("vkAcquireNextImageKHR failed with %s", VulkanResultString(result, true))
	}
	return imageIndex, nil
}

/**
 * @brief Presents the image at the given index. Out-of-date and
 * suboptimal results are reported so the caller can recreate.
 */
func (swapchain *VulkanSwapchain) Present(context *VulkanContext, presentQueue vk.Queue, renderCompleteSemaphore vk.Semaphore, presentImageIndex uint32) error {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{renderCompleteSemaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{swapchain.Handle},
		PImageIndices:      []uint32{presentImageIndex},
	}
	presentInfo.Deref()

	var presentErr error
	lockPool.SafeQueueCall(context.Device.PresentQueueIndex, func() error {
		result := vk.QueuePresent(presentQueue, &presentInfo)
		if result == vk.ErrorOutOfDate || result == vk.Suboptimal {
			presentErr = fmt.Errorf("swapchain requires recreation")
		} else if result != vk.Success {
			presentErr = fmt.Errorf("vkQueuePresentKHR failed with %s", VulkanResultString(result, true))
		}
		return nil
	})

	context.CurrentFrame = (context.CurrentFrame + 1) % uint32(swapchain.MaxFramesInFlight)
	return presentErr
}
