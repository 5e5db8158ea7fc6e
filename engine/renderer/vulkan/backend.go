package vulkan

import (
	"fmt"
	"runtime"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/platform"
	"github.com/spaghettifunk/prisma/engine/renderer/commands"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

type VulkanRenderer struct {
	platform                *platform.Platform
	FrameNumber             uint64
	context                 *VulkanContext
	cachedFramebufferWidth  uint32
	cachedFramebufferHeight uint32

	// The render target stage submissions currently render into. The
	// nil handle means the backbuffer.
	destination metadata.RenderTargetHandle

	frameActive bool
	initialized bool

	debug bool
}

func New(p *platform.Platform) *VulkanRenderer {
	return &VulkanRenderer{
		platform:    p,
		FrameNumber: 0,
		context: &VulkanContext{
			FramebufferWidth:  0,
			FramebufferHeight: 0,
			Allocator:         nil,
			TargetPasses:      make(map[TargetPassKey]*VulkanRenderpass),
			RenderTargets:     make(map[metadata.RenderTargetHandle]*VulkanRenderTarget),
			Materials:         make(map[string]*VulkanMaterial),
		},
		destination: metadata.NilRenderTargetHandle,
		debug:       true,
	}
}

func (vr *VulkanRenderer) Initialize(appName string, appWidth, appHeight uint32) error {
	procAddr := vr.platform.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		core.LogFatal("GetInstanceProcAddress is nil")
		return fmt.Errorf("GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		core.LogFatal("failed to initialize vk: %s", err)
		return err
	}

	// TODO: custom allocator.
	vr.context.Allocator = nil

	vr.context.FramebufferWidth = appWidth
	vr.context.FramebufferHeight = appHeight

	// Setup Vulkan instance.
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(appName),
		PEngineName:        VulkanSafeString("Prisma Engine"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	// Obtain a list of required extensions
	required_extensions := []string{"VK_KHR_surface"} // Generic surface extension
	en := vr.platform.GetRequiredExtensionNames()
	required_extensions = append(required_extensions, en...)

	if runtime.GOOS == "darwin" {
		required_extensions = append(required_extensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
	}

	if vr.debug {
		required_extensions = append(required_extensions, vk.ExtDebugUtilsExtensionName, vk.ExtDebugReportExtensionName) // debug utilities
		core.LogInfo("Required extensions:")
		for i := 0; i < len(required_extensions); i++ {
			core.LogInfo(required_extensions[i])
		}
	}

	createInfo.EnabledExtensionCount = uint32(len(required_extensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(required_extensions)

	// Validation layers. Only enabled on non-release builds.
	required_validation_layer_names := []string{}
	if vr.debug {
		core.LogInfo("Validation layers enabled. Enumerating...")
		required_validation_layer_names = []string{"VK_LAYER_KHRONOS_validation"}

		if runtime.GOOS == "darwin" {
			createInfo.Flags |= 1
		}

		// Obtain a list of available validation layers
		var available_layer_count uint32
		if res := vk.EnumerateInstanceLayerProperties(&available_layer_count, nil); res != vk.Success {
			return fmt.Errorf("failed to enumerate instance layer properties")
		}
		available_layers := make([]vk.LayerProperties, available_layer_count)
		if res := vk.EnumerateInstanceLayerProperties(&available_layer_count, available_layers); res != vk.Success {
			return fmt.Errorf("failed to enumerate instance layer properties")
		}

		// Verify all required layers are available.
		for i := range required_validation_layer_names {
			found := false
			for j := range available_layers {
				available_layers[j].Deref()
				end := FindFirstZeroInByteArray(available_layers[j].LayerName[:])
				if required_validation_layer_names[i] == vk.ToString(available_layers[j].LayerName[:end+1]) {
					found = true
					break
				}
			}
			if !found {
				core.LogFatal("Required validation layer is missing: %s", required_validation_layer_names[i])
				return fmt.Errorf("required validation layer is missing: %s", required_validation_layer_names[i])
			}
		}
		core.LogInfo("All required validation layers are present.")
	}

	createInfo.EnabledLayerCount = uint32(len(required_validation_layer_names))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(required_validation_layer_names)

	if res := vk.CreateInstance(&createInfo, vr.context.Allocator, &vr.context.Instance); res != vk.Success {
		err := fmt.Errorf("failed in creating the Vulkan Instance with error `%s`", VulkanResultString(res, true))
		core.LogError(err.Error())
		return err
	}
	if err := vk.InitInstance(vr.context.Instance); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("Vulkan Instance created.")

	// Debugger
	if vr.debug {
		core.LogDebug("Creating Vulkan debugger...")
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
			PfnCallback: dbgCallbackFunc,
			PNext:       nil,
		}

		var dbg vk.DebugReportCallback
		if err := vk.Error(vk.CreateDebugReportCallback(vr.context.Instance, &debugCreateInfo, nil, &dbg)); err != nil {
			core.LogError("vk.CreateDebugReportCallback failed with %s", err)
			return err
		}
		vr.context.debugMessenger = dbg
		core.LogDebug("Vulkan debugger created.")
	}

	// Surface
	core.LogDebug("Creating Vulkan surface...")
	surface, err := vr.platform.CreateVulkanSurface(vr.context.Instance)
	if err != nil {
		core.LogError("Failed to create platform surface: %s", err.Error())
		return err
	}
	vr.context.Surface = surface
	core.LogDebug("Vulkan surface created.")

	// Device creation
	if err := DeviceCreate(vr.context); err != nil {
		core.LogError("Failed to create device!")
		return err
	}

	vr.context.FindMemoryIndex = func(typeFilter uint32, propertyFlags uint32) int32 {
		memory := vr.context.Device.Memory
		for i := uint32(0); i < memory.MemoryTypeCount; i++ {
			memory.MemoryTypes[i].Deref()
			if typeFilter&(1<<i) != 0 && uint32(memory.MemoryTypes[i].PropertyFlags)&propertyFlags == propertyFlags {
				return int32(i)
			}
		}
		core.LogWarn("Unable to find suitable memory type!")
		return -1
	}

	// Swapchain
	sc, err := SwapchainCreate(vr.context, vr.context.FramebufferWidth, vr.context.FramebufferHeight)
	if err != nil {
		return err
	}
	vr.context.Swapchain = sc

	// Backbuffer renderpass variants. Same attachment, different load
	// ops; framebuffers are shared.
	backbufferFormat := vr.context.Swapchain.ImageFormat.Format
	dontCarePass, err := RenderpassCreate(
		vr.context,
		backbufferFormat,
		metadata.ATTACHMENT_LOAD_OPERATION_DONT_CARE,
		metadata.ATTACHMENT_STORE_OPERATION_STORE,
		vk.ImageLayoutUndefined,
		vk.ImageLayoutPresentSrc,
	)
	if err != nil {
		return err
	}
	vr.context.BackbufferDontCarePass = dontCarePass

	loadPass, err := RenderpassCreate(
		vr.context,
		backbufferFormat,
		metadata.ATTACHMENT_LOAD_OPERATION_LOAD,
		metadata.ATTACHMENT_STORE_OPERATION_STORE,
		vk.ImageLayoutPresentSrc,
		vk.ImageLayoutPresentSrc,
	)
	if err != nil {
		return err
	}
	vr.context.BackbufferLoadPass = loadPass

	if err := vr.createDescriptorResources(); err != nil {
		return err
	}

	if err := vr.regenerateFramebuffers(); err != nil {
		return err
	}

	// Command pool and buffers.
	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: vr.context.Device.GraphicsQueueIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	poolCreateInfo.Deref()

	var commandPool vk.CommandPool
	if err := lockPool.SafeCall(CommandPoolManagement, func() error {
		if res := vk.CreateCommandPool(vr.context.Device.LogicalDevice, &poolCreateInfo, vr.context.Allocator, &commandPool); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkCreateCommandPool failed with %s", VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		return err
	}
	vr.context.GraphicsCommandPool = commandPool

	if err := vr.createCommandBuffers(); err != nil {
		return err
	}

	// Sync objects.
	vr.context.ImageAvailableSemaphores = make([]vk.Semaphore, vr.context.Swapchain.MaxFramesInFlight)
	vr.context.QueueCompleteSemaphores = make([]vk.Semaphore, vr.context.Swapchain.MaxFramesInFlight)
	vr.context.InFlightFences = make([]*VulkanFence, vr.context.Swapchain.MaxFramesInFlight)

	for i := 0; i < int(vr.context.Swapchain.MaxFramesInFlight); i++ {
		semaphoreCreateInfo := vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}
		if res := vk.CreateSemaphore(vr.context.Device.LogicalDevice, &semaphoreCreateInfo, vr.context.Allocator, &vr.context.ImageAvailableSemaphores[i]); res != vk.Success {
			err := fmt.Errorf("failed to create semaphore on image available")
			core.LogError(err.Error())
			return err
		}
		if res := vk.CreateSemaphore(vr.context.Device.LogicalDevice, &semaphoreCreateInfo, vr.context.Allocator, &vr.context.QueueCompleteSemaphores[i]); res != vk.Success {
			err := fmt.Errorf("failed to create semaphore on queue complete")
			core.LogError(err.Error())
			return err
		}
		fence, err := NewFence(vr.context, true)
		if err != nil {
			return err
		}
		vr.context.InFlightFences[i] = fence
	}

	vr.context.ImagesInFlight = make([]*VulkanFence, vr.context.Swapchain.ImageCount)

	vr.initialized = true
	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func (vr *VulkanRenderer) Shutdown() error {
	if !vr.initialized {
		return nil
	}
	vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)

	for _, material := range vr.context.Materials {
		material.Destroy(vr.context)
	}
	vr.context.Materials = make(map[string]*VulkanMaterial)

	for handle, target := range vr.context.RenderTargets {
		RenderTargetDestroy(vr.context, target)
		delete(vr.context.RenderTargets, handle)
	}

	for i := range vr.context.ImageAvailableSemaphores {
		vk.DestroySemaphore(vr.context.Device.LogicalDevice, vr.context.ImageAvailableSemaphores[i], vr.context.Allocator)
	}
	vr.context.ImageAvailableSemaphores = nil
	for i := range vr.context.QueueCompleteSemaphores {
		vk.DestroySemaphore(vr.context.Device.LogicalDevice, vr.context.QueueCompleteSemaphores[i], vr.context.Allocator)
	}
	vr.context.QueueCompleteSemaphores = nil
	for _, fence := range vr.context.InFlightFences {
		fence.Destroy(vr.context)
	}
	vr.context.InFlightFences = nil
	vr.context.ImagesInFlight = nil

	for _, commandBuffer := range vr.context.GraphicsCommandBuffers {
		CommandBufferFree(vr.context, vr.context.GraphicsCommandPool, commandBuffer)
	}
	vr.context.GraphicsCommandBuffers = nil

	if vr.context.GraphicsCommandPool != vk.NullCommandPool {
		lockPool.SafeCall(CommandPoolManagement, func() error {
			vk.DestroyCommandPool(vr.context.Device.LogicalDevice, vr.context.GraphicsCommandPool, vr.context.Allocator)
			vr.context.GraphicsCommandPool = vk.NullCommandPool
			return nil
		})
	}

	if vr.context.DescriptorPool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(vr.context.Device.LogicalDevice, vr.context.DescriptorPool, vr.context.Allocator)
		vr.context.DescriptorPool = vk.NullDescriptorPool
	}
	if vr.context.SamplerSetLayout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(vr.context.Device.LogicalDevice, vr.context.SamplerSetLayout, vr.context.Allocator)
		vr.context.SamplerSetLayout = vk.NullDescriptorSetLayout
	}

	vr.context.BackbufferLoadPass.Destroy(vr.context)
	vr.context.BackbufferDontCarePass.Destroy(vr.context)
	for key, pass := range vr.context.TargetPasses {
		pass.Destroy(vr.context)
		delete(vr.context.TargetPasses, key)
	}

	vr.context.Swapchain.Destroy(vr.context)

	if err := DeviceDestroy(vr.context); err != nil {
		return err
	}

	if vr.debug && vr.context.debugMessenger != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(vr.context.Instance, vr.context.debugMessenger, nil)
	}

	vk.DestroySurface(vr.context.Instance, vr.context.Surface, vr.context.Allocator)
	vk.DestroyInstance(vr.context.Instance, vr.context.Allocator)

	vr.initialized = false
	core.LogInfo("Vulkan renderer shut down.")
	return nil
}

/**
 * @brief Caches the new size and bumps the size generation. The
 * swapchain is recreated on the next BeginFrame.
 */
func (vr *VulkanRenderer) Resized(width, height uint16) error {
	vr.cachedFramebufferWidth = uint32(width)
	vr.cachedFramebufferHeight = uint32(height)
	vr.context.FramebufferSizeGeneration++

	core.LogInfo("Vulkan renderer resized: w/h/gen: %d/%d/%d", width, height, vr.context.FramebufferSizeGeneration)
	return nil
}

func (vr *VulkanRenderer) BeginFrame(deltaTime float64) error {
	vr.context.FrameDeltaTime = float32(deltaTime)
	device := vr.context.Device

	// Check if recreating swap chain and boot out.
	if vr.context.RecreatingSwapchain {
		if res := vk.DeviceWaitIdle(device.LogicalDevice); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkDeviceWaitIdle failed with %s", VulkanResultString(res, true))
		}
		return core.ErrSwapchainBooting
	}

	// The framebuffer was resized; a new swapchain is needed.
	if vr.context.FramebufferSizeGeneration != vr.context.FramebufferSizeLastGeneration {
		if res := vk.DeviceWaitIdle(device.LogicalDevice); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkDeviceWaitIdle failed with %s", VulkanResultString(res, true))
		}
		if err := vr.recreateSwapchain(); err != nil {
			return err
		}
		core.LogInfo("resized, booting.")
		return core.ErrSwapchainBooting
	}

	// Wait for the current frame's previous work to complete.
	if !vr.context.InFlightFences[vr.context.CurrentFrame].Wait(vr.context, ^uint64(0)) {
		core.LogWarn("in-flight fence wait failure")
		return fmt.Errorf("in-flight fence wait failure")
	}

	imageIndex, err := vr.context.Swapchain.AcquireNextImageIndex(
		vr.context,
		^uint64(0),
		vr.context.ImageAvailableSemaphores[vr.context.CurrentFrame],
		vk.NullFence,
	)
	if err != nil {
		if recreateErr := vr.recreateSwapchain(); recreateErr != nil {
			return recreateErr
		}
		return fmt.Errorf("%w: %s", core.ErrSwapchainBooting, err.Error())
	}
	vr.context.ImageIndex = imageIndex

	commandBuffer := vr.context.GraphicsCommandBuffers[vr.context.ImageIndex]
	commandBuffer.Reset()
	if err := commandBuffer.Begin(false, false, false); err != nil {
		return err
	}

	vr.destination = metadata.NilRenderTargetHandle
	vr.frameActive = true
	return nil
}

func (vr *VulkanRenderer) EndFrame(deltaTime float64) error {
	if !vr.frameActive {
		return fmt.Errorf("EndFrame called without an active frame")
	}
	commandBuffer := vr.context.GraphicsCommandBuffers[vr.context.ImageIndex]
	if err := commandBuffer.End(); err != nil {
		return err
	}

	// Ensure the previous frame is not using this image.
	if vr.context.ImagesInFlight[vr.context.ImageIndex] != nil {
		vr.context.ImagesInFlight[vr.context.ImageIndex].Wait(vr.context, ^uint64(0))
	}
	vr.context.ImagesInFlight[vr.context.ImageIndex] = vr.context.InFlightFences[vr.context.CurrentFrame]

	if err := vr.context.InFlightFences[vr.context.CurrentFrame].Reset(vr.context); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{commandBuffer.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{vr.context.QueueCompleteSemaphores[vr.context.CurrentFrame]},
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{vr.context.ImageAvailableSemaphores[vr.context.CurrentFrame]},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
	}
	submitInfo.Deref()

	if err := lockPool.SafeQueueCall(vr.context.Device.GraphicsQueueIndex, func() error {
		if res := vk.QueueSubmit(vr.context.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, vr.context.InFlightFences[vr.context.CurrentFrame].Handle); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkQueueSubmit failed with %s", VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		core.LogError(err.Error())
		return err
	}
	commandBuffer.UpdateSubmitted()

	vr.frameActive = false
	vr.FrameNumber++

	if err := vr.context.Swapchain.Present(
		vr.context,
		vr.context.Device.PresentQueue,
		vr.context.QueueCompleteSemaphores[vr.context.CurrentFrame],
		vr.context.ImageIndex,
	); err != nil {
		return vr.recreateSwapchain()
	}
	return nil
}

/**
 * @brief Replays a fully recorded frontend buffer into the current
 * frame's command buffer. Valid only between BeginFrame and EndFrame.
 */
func (vr *VulkanRenderer) SubmitCommands(buf *commands.Buffer) error {
	if !vr.frameActive {
		return fmt.Errorf("no active frame to submit into")
	}
	if buf.State() != commands.COMMAND_BUFFER_STATE_RECORDING_ENDED {
		return fmt.Errorf("submitted buffer has not ended recording")
	}
	return vr.replay(buf)
}

func (vr *VulkanRenderer) CreateRenderTarget(descriptor metadata.RenderTargetDescriptor) (metadata.RenderTargetHandle, error) {
	if !vr.initialized {
		return metadata.NilRenderTargetHandle, fmt.Errorf("renderer is not initialized")
	}
	target, err := RenderTargetCreate(vr.context, descriptor)
	if err != nil {
		return metadata.NilRenderTargetHandle, err
	}
	handle := metadata.NewRenderTargetHandle()
	vr.context.RenderTargets[handle] = target
	return handle, nil
}

func (vr *VulkanRenderer) DestroyRenderTarget(handle metadata.RenderTargetHandle) error {
	target, ok := vr.context.RenderTargets[handle]
	if !ok {
		return fmt.Errorf("unknown render target %s", handle.String())
	}
	// The target may still be referenced by in-flight work.
	vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
	RenderTargetDestroy(vr.context, target)
	delete(vr.context.RenderTargets, handle)
	return nil
}

func (vr *VulkanRenderer) SetDestination(handle metadata.RenderTargetHandle) error {
	if !handle.IsNil() {
		if _, ok := vr.context.RenderTargets[handle]; !ok {
			return fmt.Errorf("unknown render target %s", handle.String())
		}
	}
	vr.destination = handle
	return nil
}

func (vr *VulkanRenderer) RegisterMaterial(material *metadata.Material) error {
	if !material.IsValid() {
		return fmt.Errorf("material is not usable for draws")
	}
	if _, ok := vr.context.Materials[material.Name]; ok {
		return nil
	}

	vertex, err := NewShaderModule(vr.context, material.Shader.Vertex, vk.ShaderStageVertexBit)
	if err != nil {
		return err
	}
	fragment, err := NewShaderModule(vr.context, material.Shader.Fragment, vk.ShaderStageFragmentBit)
	if err != nil {
		vertex.Destroy(vr.context)
		return err
	}

	vr.context.Materials[material.Name] = &VulkanMaterial{
		Material:  material,
		Vertex:    vertex,
		Fragment:  fragment,
		Pipelines: make(map[vk.RenderPass]*VulkanPipeline),
	}
	core.LogDebug("Material '%s' registered with the backend.", material.Name)
	return nil
}

func (vr *VulkanRenderer) GPUClass() metadata.GPUClass {
	if vr.context.Device == nil {
		return metadata.GPU_CLASS_UNKNOWN
	}
	return vr.context.Device.Class
}

func (vr *VulkanRenderer) createDescriptorResources() error {
	binding := vk.DescriptorSetLayoutBinding{
		Binding:         0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
	}
	binding.Deref()

	layoutCreateInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings:    []vk.DescriptorSetLayoutBinding{binding},
	}
	layoutCreateInfo.Deref()

	var layout vk.DescriptorSetLayout
	if res := vk.CreateDescriptorSetLayout(vr.context.Device.LogicalDevice, &layoutCreateInfo, vr.context.Allocator, &layout); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("vkCreateDescriptorSetLayout failed with %s", VulkanResultString(res, true))
	}
	vr.context.SamplerSetLayout = layout

	poolSize := vk.DescriptorPoolSize{
		Type:            vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount: 64,
	}
	poolSize.Deref()

	poolCreateInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		PoolSizeCount: 1,
		PPoolSizes:    []vk.DescriptorPoolSize{poolSize},
		MaxSets:       64,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
	}
	poolCreateInfo.Deref()

	var pool vk.DescriptorPool
	if res := vk.CreateDescriptorPool(vr.context.Device.LogicalDevice, &poolCreateInfo, vr.context.Allocator, &pool); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("vkCreateDescriptorPool failed with %s", VulkanResultString(res, true))
	}
	vr.context.DescriptorPool = pool
	return nil
}

func (vr *VulkanRenderer) createCommandBuffers() error {
	vr.context.GraphicsCommandBuffers = make([]*VulkanCommandBuffer, vr.context.Swapchain.ImageCount)
	for i := uint32(0); i < vr.context.Swapchain.ImageCount; i++ {
		commandBuffer, err := CommandBufferAllocate(vr.context, vr.context.GraphicsCommandPool, true)
		if err != nil {
			return err
		}
		vr.context.GraphicsCommandBuffers[i] = commandBuffer
	}
	core.LogDebug("Vulkan command buffers created.")
	return nil
}

func (vr *VulkanRenderer) regenerateFramebuffers() error {
	swapchain := vr.context.Swapchain
	swapchain.Framebuffers = make([]vk.Framebuffer, swapchain.ImageCount)
	for i := uint32(0); i < swapchain.ImageCount; i++ {
		framebuffer, err := FramebufferCreate(
			vr.context,
			vr.context.BackbufferDontCarePass,
			swapchain.Extent.Width,
			swapchain.Extent.Height,
			[]vk.ImageView{swapchain.ImageViews[i]},
		)
		if err != nil {
			return err
		}
		swapchain.Framebuffers[i] = framebuffer
	}
	return nil
}

func (vr *VulkanRenderer) recreateSwapchain() error {
	if vr.context.RecreatingSwapchain {
		core.LogDebug("recreateSwapchain called when already recreating. Booting.")
		return nil
	}
	if vr.context.FramebufferWidth == 0 || vr.context.FramebufferHeight == 0 {
		core.LogDebug("recreateSwapchain called when window is < 1 in a dimension. Booting.")
		return nil
	}
	vr.context.RecreatingSwapchain = true
	defer func() { vr.context.RecreatingSwapchain = false }()

	vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
	for i := range vr.context.ImagesInFlight {
		vr.context.ImagesInFlight[i] = nil
	}

	width := vr.cachedFramebufferWidth
	height := vr.cachedFramebufferHeight
	if width == 0 {
		width = vr.context.FramebufferWidth
	}
	if height == 0 {
		height = vr.context.FramebufferHeight
	}

	if err := vr.context.Swapchain.Recreate(vr.context, width, height); err != nil {
		return err
	}
	vr.context.FramebufferWidth = vr.context.Swapchain.Extent.Width
	vr.context.FramebufferHeight = vr.context.Swapchain.Extent.Height
	vr.cachedFramebufferWidth = 0
	vr.cachedFramebufferHeight = 0
	vr.context.FramebufferSizeLastGeneration = vr.context.FramebufferSizeGeneration

	if err := vr.regenerateFramebuffers(); err != nil {
		return err
	}

	core.LogInfo("Swapchain recreated at %dx%d.", vr.context.FramebufferWidth, vr.context.FramebufferHeight)
	return nil
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogInfo("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
