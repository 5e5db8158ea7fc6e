package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

/**
 * @brief The overall Vulkan context for the backend. Holds global state
 * shared by every file in this package.
 */
type VulkanContext struct {
	/** @brief The time in seconds since the last frame. */
	FrameDeltaTime float32

	/** @brief The framebuffer's current width. */
	FramebufferWidth uint32
	/** @brief The framebuffer's current height. */
	FramebufferHeight uint32

	/** @brief Current generation of framebuffer size. If it does not match
	 * FramebufferSizeLastGeneration, a new one should be generated. */
	FramebufferSizeGeneration uint64
	/** @brief The generation of the framebuffer when it was last created.
	 * Set to FramebufferSizeGeneration when updated. */
	FramebufferSizeLastGeneration uint64

	/** @brief The handle to the internal Vulkan instance. */
	Instance vk.Instance
	/** @brief The internal Vulkan allocator. */
	Allocator *vk.AllocationCallbacks
	/** @brief The handle to the internal Vulkan surface. */
	Surface vk.Surface

	debugMessenger vk.DebugReportCallback

	/** @brief The Vulkan device. */
	Device *VulkanDevice
	/** @brief The swapchain. */
	Swapchain *VulkanSwapchain

	// Backbuffer renderpass variants. Attachment load op is the only
	// difference, so they are framebuffer compatible.
	BackbufferLoadPass     *VulkanRenderpass
	BackbufferDontCarePass *VulkanRenderpass

	// Renderpasses for intermediate targets, one per format and load op.
	TargetPasses map[TargetPassKey]*VulkanRenderpass

	/** @brief The graphics command pool. */
	GraphicsCommandPool vk.CommandPool
	/** @brief The graphics command buffers, one per swapchain image. */
	GraphicsCommandBuffers []*VulkanCommandBuffer

	/** @brief The semaphores used to indicate image availability, one per frame in flight. */
	ImageAvailableSemaphores []vk.Semaphore
	/** @brief The semaphores used to indicate queue availability, one per frame in flight. */
	QueueCompleteSemaphores []vk.Semaphore

	/** @brief The in-flight fences, used to indicate to the application when a frame is busy/ready. */
	InFlightFences []*VulkanFence
	/** @brief Holds pointers to fences which exist and are owned elsewhere, one per swapchain image. */
	ImagesInFlight []*VulkanFence

	/** @brief The current image index. */
	ImageIndex uint32
	/** @brief The current frame index. */
	CurrentFrame uint32

	/** @brief Indicates if the swapchain is currently being recreated. */
	RecreatingSwapchain bool

	// Intermediate render targets keyed by their frontend handle.
	RenderTargets map[metadata.RenderTargetHandle]*VulkanRenderTarget

	// Materials registered by the frontend, keyed by name. Pipelines are
	// derived from these lazily per renderpass.
	Materials map[string]*VulkanMaterial

	// Descriptor machinery for the source texture binding.
	SamplerSetLayout vk.DescriptorSetLayout
	DescriptorPool   vk.DescriptorPool

	/** @brief A function pointer to find a memory index of the given type and with the given properties. */
	FindMemoryIndex func(typeFilter uint32, propertyFlags uint32) int32
}
